package roster

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/supremind/courseauth/persist/filter"
	"github.com/supremind/courseauth/types"
)

var _ types.Roster = (*persistedRoster)(nil)

// persistedRoster keeps the inner roster in sync with a persister: every
// mutation is persisted before it is applied, and changes made elsewhere
// arrive through the persister's watch feed.
type persistedRoster struct {
	persist types.RosterPersister
	types.Roster
	log logr.Logger
}

func newPersistedRoster(ctx context.Context, inner types.Roster, persist types.RosterPersister, l logr.Logger) (*persistedRoster, error) {
	r := &persistedRoster{
		persist: filter.NewRosterPersister(persist),
		Roster:  inner,
		log:     l,
	}
	if e := r.loadPersisted(); e != nil {
		return nil, e
	}
	if e := r.startWatching(ctx); e != nil {
		return nil, e
	}

	return r, nil
}

func (r *persistedRoster) loadPersisted() error {
	r.log.V(4).Info("load persisted roster entries")

	entries, e := r.persist.List()
	if e != nil {
		return e
	}
	for _, entry := range entries {
		if e := r.apply(entry); e != nil {
			return e
		}
	}
	return nil
}

func (r *persistedRoster) startWatching(ctx context.Context) error {
	changes, e := r.persist.Watch(ctx)
	if e != nil {
		return e
	}

	go func() {
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				if e := r.coordinateChange(change); e != nil {
					r.log.Error(e, "coordinate roster changes")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (r *persistedRoster) coordinateChange(change types.RosterChange) error {
	r.log.V(4).Info("coordinate roster changes", "change", change)

	switch change.Method {
	case types.PersistInsert:
		return r.apply(change.RosterEntry)
	case types.PersistDelete:
		return r.unapply(change.RosterEntry)
	}

	return fmt.Errorf("%w: roster persister changes: %s", types.ErrUnsupportedChange, change.Method)
}

func (r *persistedRoster) apply(entry types.RosterEntry) error {
	switch entry.Role {
	case types.RoleTeacher:
		return r.Roster.AddTeacher(entry.Course, entry.User)
	case types.RoleStudent:
		return r.Roster.AddStudent(entry.Course, entry.User)
	}
	return fmt.Errorf("%w: roster entry for role %q", types.ErrUnsupportedChange, entry.Role)
}

func (r *persistedRoster) unapply(entry types.RosterEntry) error {
	switch entry.Role {
	case types.RoleTeacher:
		return r.Roster.RemoveTeacher(entry.Course, entry.User)
	case types.RoleStudent:
		return r.Roster.RemoveStudent(entry.Course, entry.User)
	}
	return fmt.Errorf("%w: roster entry for role %q", types.ErrUnsupportedChange, entry.Role)
}

func (r *persistedRoster) AddTeacher(course types.CourseID, user types.UserID) error {
	r.log.V(4).Info("add teacher", "course", course, "user", user)

	if e := r.persist.Insert(types.RosterEntry{Course: course, User: user, Role: types.RoleTeacher}); e != nil {
		return e
	}
	return r.Roster.AddTeacher(course, user)
}

func (r *persistedRoster) AddStudent(course types.CourseID, user types.UserID) error {
	r.log.V(4).Info("add student", "course", course, "user", user)

	if e := r.persist.Insert(types.RosterEntry{Course: course, User: user, Role: types.RoleStudent}); e != nil {
		return e
	}
	return r.Roster.AddStudent(course, user)
}

func (r *persistedRoster) RemoveTeacher(course types.CourseID, user types.UserID) error {
	r.log.V(4).Info("remove teacher", "course", course, "user", user)

	if e := r.persist.Remove(types.RosterEntry{Course: course, User: user, Role: types.RoleTeacher}); e != nil {
		return e
	}
	return r.Roster.RemoveTeacher(course, user)
}

func (r *persistedRoster) RemoveStudent(course types.CourseID, user types.UserID) error {
	r.log.V(4).Info("remove student", "course", course, "user", user)

	if e := r.persist.Remove(types.RosterEntry{Course: course, User: user, Role: types.RoleStudent}); e != nil {
		return e
	}
	return r.Roster.RemoveStudent(course, user)
}

func (r *persistedRoster) RemoveCourse(course types.CourseID) error {
	r.log.V(4).Info("remove course", "course", course)

	teachers, e := r.Roster.Teachers(course)
	if e != nil {
		return e
	}
	for user := range teachers {
		if e := r.persist.Remove(types.RosterEntry{Course: course, User: user, Role: types.RoleTeacher}); e != nil {
			return e
		}
	}

	students, e := r.Roster.Students(course)
	if e != nil {
		return e
	}
	for user := range students {
		if e := r.persist.Remove(types.RosterEntry{Course: course, User: user, Role: types.RoleStudent}); e != nil {
			return e
		}
	}

	return r.Roster.RemoveCourse(course)
}

func (r *persistedRoster) RemoveUser(user types.UserID) error {
	r.log.V(4).Info("remove user", "user", user)

	teaching, e := r.Roster.TeachingCourses(user)
	if e != nil {
		return e
	}
	for course := range teaching {
		if e := r.persist.Remove(types.RosterEntry{Course: course, User: user, Role: types.RoleTeacher}); e != nil {
			return e
		}
	}

	enrolled, e := r.Roster.EnrolledCourses(user)
	if e != nil {
		return e
	}
	for course := range enrolled {
		if e := r.persist.Remove(types.RosterEntry{Course: course, User: user, Role: types.RoleStudent}); e != nil {
			return e
		}
	}

	return r.Roster.RemoveUser(user)
}
