package roster

import (
	"github.com/supremind/courseauth/types"
)

var _ types.Roster = (*slimRoster)(nil)

// slimRoster is the simplest implementation of the Roster interface: plain
// maps indexed in both directions. Memberships are flat, so every query is
// a direct lookup.
type slimRoster struct {
	teachers map[types.CourseID]map[types.UserID]struct{}
	students map[types.CourseID]map[types.UserID]struct{}
	teaching map[types.UserID]map[types.CourseID]struct{}
	enrolled map[types.UserID]map[types.CourseID]struct{}
}

func newSlimRoster() *slimRoster {
	return &slimRoster{
		teachers: make(map[types.CourseID]map[types.UserID]struct{}),
		students: make(map[types.CourseID]map[types.UserID]struct{}),
		teaching: make(map[types.UserID]map[types.CourseID]struct{}),
		enrolled: make(map[types.UserID]map[types.CourseID]struct{}),
	}
}

// AddTeacher implements Roster interface
func (r *slimRoster) AddTeacher(course types.CourseID, user types.UserID) error {
	add(r.teachers, r.teaching, course, user)
	return nil
}

// AddStudent implements Roster interface
func (r *slimRoster) AddStudent(course types.CourseID, user types.UserID) error {
	add(r.students, r.enrolled, course, user)
	return nil
}

// RemoveTeacher implements Roster interface
// removing an absent member is a no-op
func (r *slimRoster) RemoveTeacher(course types.CourseID, user types.UserID) error {
	remove(r.teachers, r.teaching, course, user)
	return nil
}

// RemoveStudent implements Roster interface
func (r *slimRoster) RemoveStudent(course types.CourseID, user types.UserID) error {
	remove(r.students, r.enrolled, course, user)
	return nil
}

// RemoveCourse implements Roster interface
func (r *slimRoster) RemoveCourse(course types.CourseID) error {
	for user := range r.teachers[course] {
		delete(r.teaching[user], course)
	}
	for user := range r.students[course] {
		delete(r.enrolled[user], course)
	}
	delete(r.teachers, course)
	delete(r.students, course)
	return nil
}

// RemoveUser implements Roster interface
func (r *slimRoster) RemoveUser(user types.UserID) error {
	for course := range r.teaching[user] {
		delete(r.teachers[course], user)
	}
	for course := range r.enrolled[user] {
		delete(r.students[course], user)
	}
	delete(r.teaching, user)
	delete(r.enrolled, user)
	return nil
}

// IsTeacher implements Roster interface
func (r *slimRoster) IsTeacher(course types.CourseID, user types.UserID) (bool, error) {
	_, ok := r.teachers[course][user]
	return ok, nil
}

// IsStudent implements Roster interface
func (r *slimRoster) IsStudent(course types.CourseID, user types.UserID) (bool, error) {
	_, ok := r.students[course][user]
	return ok, nil
}

// Teachers implements Roster interface
func (r *slimRoster) Teachers(course types.CourseID) (map[types.UserID]struct{}, error) {
	return copyUsers(r.teachers[course]), nil
}

// Students implements Roster interface
func (r *slimRoster) Students(course types.CourseID) (map[types.UserID]struct{}, error) {
	return copyUsers(r.students[course]), nil
}

// TeachingCourses implements Roster interface
func (r *slimRoster) TeachingCourses(user types.UserID) (map[types.CourseID]struct{}, error) {
	return copyCourses(r.teaching[user]), nil
}

// EnrolledCourses implements Roster interface
func (r *slimRoster) EnrolledCourses(user types.UserID) (map[types.CourseID]struct{}, error) {
	return copyCourses(r.enrolled[user]), nil
}

func add(byCourse map[types.CourseID]map[types.UserID]struct{}, byUser map[types.UserID]map[types.CourseID]struct{},
	course types.CourseID, user types.UserID) {
	if byCourse[course] == nil {
		byCourse[course] = make(map[types.UserID]struct{}, 1)
	}
	byCourse[course][user] = struct{}{}

	if byUser[user] == nil {
		byUser[user] = make(map[types.CourseID]struct{}, 1)
	}
	byUser[user][course] = struct{}{}
}

func remove(byCourse map[types.CourseID]map[types.UserID]struct{}, byUser map[types.UserID]map[types.CourseID]struct{},
	course types.CourseID, user types.UserID) {
	delete(byCourse[course], user)
	delete(byUser[user], course)
}

func copyUsers(in map[types.UserID]struct{}) map[types.UserID]struct{} {
	out := make(map[types.UserID]struct{}, len(in))
	for u := range in {
		out[u] = struct{}{}
	}
	return out
}

func copyCourses(in map[types.CourseID]struct{}) map[types.CourseID]struct{} {
	out := make(map[types.CourseID]struct{}, len(in))
	for c := range in {
		out[c] = struct{}{}
	}
	return out
}
