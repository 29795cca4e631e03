package authorizer

import (
	"github.com/supremind/courseauth/internal/hierarchy"
	"github.com/supremind/courseauth/types"
)

// predicate is one authorization rule, split the way the request pipeline
// splits it: a cheap collection-level gate evaluated first, then an
// object-level check that may resolve the ownership chain. A failing
// collection gate short-circuits before any resolver call is made.
type predicate struct {
	allows       func(actor types.Actor, act types.Action) (bool, error)
	allowsObject func(actor types.Actor, act types.Action, ent types.Entity) (bool, error)
}

func (p predicate) check(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
	if p.allows != nil {
		ok, err := p.allows(actor, act)
		if err != nil || !ok {
			return false, err
		}
	}
	if p.allowsObject == nil {
		return true, nil
	}
	return p.allowsObject(actor, act, ent)
}

// isCourseTeacher tells if the actor holds the teacher role and teaches the
// entity's owning course
func (a *authorizer) isCourseTeacher(actor types.Actor, ent types.Entity) (bool, error) {
	if !actor.IsTeacher() {
		return false, nil
	}
	course, err := hierarchy.Course(a.store, ent)
	if err != nil {
		return false, err
	}
	return a.roster.IsTeacher(course.ID, actor.ID)
}

// isCourseStudent tells if the actor holds the student role and is enrolled
// in the entity's owning course
func (a *authorizer) isCourseStudent(actor types.Actor, ent types.Entity) (bool, error) {
	if !actor.IsStudent() {
		return false, nil
	}
	course, err := hierarchy.Course(a.store, ent)
	if err != nil {
		return false, err
	}
	return a.roster.IsStudent(course.ID, actor.ID)
}

// courseWrite: teachers edit their own courses, everyone else only reads
func (a *authorizer) courseWrite() predicate {
	return predicate{
		allows: func(actor types.Actor, act types.Action) (bool, error) {
			return act.IsSafe() || actor.IsTeacher(), nil
		},
		allowsObject: func(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
			if act.IsSafe() {
				return true, nil
			}
			return a.isCourseTeacher(actor, ent)
		},
	}
}

// lectureHomeworkWrite: teachers of the course modify its lectures and
// homeworks, others only read
func (a *authorizer) lectureHomeworkWrite() predicate {
	return predicate{
		allowsObject: func(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
			if act.IsSafe() {
				return true, nil
			}
			return a.isCourseTeacher(actor, ent)
		},
	}
}

// submissionCreate gates submitting against a homework: only students
// enrolled in the homework's course may submit; teachers and students of the
// course may read its submissions. A student holding the role but not
// enrolled is denied.
func (a *authorizer) submissionCreate() predicate {
	return predicate{
		allows: func(actor types.Actor, act types.Action) (bool, error) {
			return actor.Authenticated(), nil
		},
		allowsObject: func(actor types.Actor, act types.Action, homework types.Entity) (bool, error) {
			if act.IsSafe() {
				teaches, err := a.isCourseTeacher(actor, homework)
				if err != nil || teaches {
					return teaches, err
				}
				return a.isCourseStudent(actor, homework)
			}
			if act.Includes(types.Create) {
				return a.isCourseStudent(actor, homework)
			}
			return false, nil
		},
	}
}

// submissionOwnerWrite: students mutate only their own submissions
func (a *authorizer) submissionOwnerWrite() predicate {
	return predicate{
		allows: func(actor types.Actor, act types.Action) (bool, error) {
			return actor.Authenticated(), nil
		},
		allowsObject: func(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
			submission, ok := hierarchy.Deref(ent).(types.Submission)
			if !ok {
				return false, nil
			}
			return actor.IsStudent() && submission.Student == actor.ID, nil
		},
	}
}

// gradeWrite: only teachers of the submission's course grade it
func (a *authorizer) gradeWrite() predicate {
	return predicate{
		allows: func(actor types.Actor, act types.Action) (bool, error) {
			return actor.IsTeacher(), nil
		},
		allowsObject: func(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
			return a.isCourseTeacher(actor, ent)
		},
	}
}

// gradeVisibility: on safe actions students see only their own grade and
// teachers only grades of their courses; on unsafe actions only the teacher
// of the course passes
func (a *authorizer) gradeVisibility() predicate {
	return predicate{
		allows: func(actor types.Actor, act types.Action) (bool, error) {
			return actor.Authenticated(), nil
		},
		allowsObject: func(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
			grade, ok := hierarchy.Deref(ent).(types.Grade)
			if !ok {
				return false, nil
			}

			if act.IsSafe() {
				if actor.IsStudent() {
					return a.ownsSubmission(actor, grade.Submission)
				}
				return a.isCourseTeacher(actor, grade)
			}

			return a.isCourseTeacher(actor, grade)
		},
	}
}

// commentWrite: teachers of the course comment on any grade in it, students
// comment only on their own grades, nobody else comments at all.
// The target may be a grade (on create) or an existing comment.
func (a *authorizer) commentWrite() predicate {
	return predicate{
		allows: func(actor types.Actor, act types.Action) (bool, error) {
			return actor.Authenticated(), nil
		},
		allowsObject: func(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
			var grade types.Grade
			switch v := hierarchy.Deref(ent).(type) {
			case types.Grade:
				grade = v
			case types.Comment:
				g, err := a.store.Grade(v.Grade)
				if err != nil {
					return false, err
				}
				grade = *g
			default:
				return false, nil
			}

			if actor.IsTeacher() {
				return a.isCourseTeacher(actor, grade)
			}
			if actor.IsStudent() {
				return a.ownsSubmission(actor, grade.Submission)
			}
			return false, nil
		},
	}
}

// selfOrAdmin: the actor is the target identity itself, or holds the admin
// flag; used for profile self-service only
func selfOrAdmin(actor types.Actor, user types.UserID) bool {
	return actor.Authenticated() && (actor.Admin || actor.ID == user)
}

func (a *authorizer) ownsSubmission(actor types.Actor, id types.SubmissionID) (bool, error) {
	submission, err := a.store.Submission(id)
	if err != nil {
		return false, err
	}
	return submission.Student == actor.ID, nil
}
