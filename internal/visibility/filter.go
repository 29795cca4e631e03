// Package visibility narrows entity listings to what an actor may see.
//
// Teachers see everything reachable from the courses they teach. Students
// see what is reachable from the courses they are enrolled in, except that
// submissions, grades, and comments are narrowed to their own records:
// a student never sees a peer's work. Anonymous actors and actors with an
// unrecognized role see nothing.
package visibility

import (
	"errors"

	"github.com/go-logr/logr"

	"github.com/supremind/courseauth/internal/hierarchy"
	"github.com/supremind/courseauth/types"
)

// Engine filters collections of every entity kind for a given actor.
type Engine struct {
	store  types.EntityReader
	roster types.RosterReader
	log    logr.Logger
}

// New creates a filter engine over the given store and roster
func New(store types.EntityReader, roster types.RosterReader, log logr.Logger) *Engine {
	return &Engine{
		store:  store,
		roster: roster,
		log:    log,
	}
}

// sees is a reachability predicate over collection indexes
type sees func(i int) (bool, error)

// keep applies the role-specific predicate over a collection of length n and
// returns the indexes of visible records. A record whose ownership chain is
// broken is invisible, not an error.
func (e *Engine) keep(actor types.Actor, n int, teacherSees, studentSees sees) ([]int, error) {
	if !actor.Authenticated() {
		return nil, nil
	}

	var visible sees
	switch {
	case actor.IsTeacher():
		visible = teacherSees
	case actor.IsStudent():
		visible = studentSees
	default:
		return nil, nil
	}

	kept := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ok, err := visible(i)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if ok {
			kept = append(kept, i)
		}
	}
	return kept, nil
}

// teaches resolves the entity's course and tests the actor against its
// teacher set
func (e *Engine) teaches(actor types.Actor, ent types.Entity) (bool, error) {
	course, err := hierarchy.Course(e.store, ent)
	if err != nil {
		return false, err
	}
	return e.roster.IsTeacher(course.ID, actor.ID)
}

// studies resolves the entity's course and tests the actor against its
// student set
func (e *Engine) studies(actor types.Actor, ent types.Entity) (bool, error) {
	course, err := hierarchy.Course(e.store, ent)
	if err != nil {
		return false, err
	}
	return e.roster.IsStudent(course.ID, actor.ID)
}

// Courses returns the courses the actor teaches or is enrolled in
func (e *Engine) Courses(actor types.Actor, in []types.Course) ([]types.Course, error) {
	e.log.V(6).Info("filter courses", "actor", actor, "count", len(in))

	kept, err := e.keep(actor, len(in),
		func(i int) (bool, error) { return e.roster.IsTeacher(in[i].ID, actor.ID) },
		func(i int) (bool, error) { return e.roster.IsStudent(in[i].ID, actor.ID) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]types.Course, 0, len(kept))
	for _, i := range kept {
		out = append(out, in[i])
	}
	return out, nil
}

// Lectures returns the lectures of courses the actor belongs to
func (e *Engine) Lectures(actor types.Actor, in []types.Lecture) ([]types.Lecture, error) {
	e.log.V(6).Info("filter lectures", "actor", actor, "count", len(in))

	kept, err := e.keep(actor, len(in),
		func(i int) (bool, error) { return e.roster.IsTeacher(in[i].Course, actor.ID) },
		func(i int) (bool, error) { return e.roster.IsStudent(in[i].Course, actor.ID) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]types.Lecture, 0, len(kept))
	for _, i := range kept {
		out = append(out, in[i])
	}
	return out, nil
}

// Homeworks returns the homeworks of courses the actor belongs to
func (e *Engine) Homeworks(actor types.Actor, in []types.Homework) ([]types.Homework, error) {
	e.log.V(6).Info("filter homeworks", "actor", actor, "count", len(in))

	kept, err := e.keep(actor, len(in),
		func(i int) (bool, error) { return e.teaches(actor, in[i]) },
		func(i int) (bool, error) { return e.studies(actor, in[i]) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]types.Homework, 0, len(kept))
	for _, i := range kept {
		out = append(out, in[i])
	}
	return out, nil
}

// Submissions returns the submissions the actor may see: every submission in
// their courses for teachers, their own submissions only for students.
func (e *Engine) Submissions(actor types.Actor, in []types.Submission, opts ...types.ScopeOption) ([]types.Submission, error) {
	e.log.V(6).Info("filter submissions", "actor", actor, "count", len(in))

	scope := collectScope(opts)

	kept, err := e.keep(actor, len(in),
		func(i int) (bool, error) { return e.teaches(actor, in[i]) },
		func(i int) (bool, error) { return in[i].Student == actor.ID, nil },
	)
	if err != nil {
		return nil, err
	}

	out := make([]types.Submission, 0, len(kept))
	for _, i := range kept {
		ok, err := e.submissionInScope(in[i], scope)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if ok {
			out = append(out, in[i])
		}
	}
	return out, nil
}

// Grades returns the grades the actor may see: every grade in their courses
// for teachers, grades on their own submissions only for students.
func (e *Engine) Grades(actor types.Actor, in []types.Grade, opts ...types.ScopeOption) ([]types.Grade, error) {
	e.log.V(6).Info("filter grades", "actor", actor, "count", len(in))

	scope := collectScope(opts)

	kept, err := e.keep(actor, len(in),
		func(i int) (bool, error) { return e.teaches(actor, in[i]) },
		func(i int) (bool, error) { return e.ownSubmission(actor, in[i].Submission) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]types.Grade, 0, len(kept))
	for _, i := range kept {
		submission, err := e.store.Submission(in[i].Submission)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		ok, err := e.submissionInScope(*submission, scope)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if ok {
			out = append(out, in[i])
		}
	}
	return out, nil
}

// Comments returns the comments the actor may see: every comment in their
// courses for teachers, comments on their own grades only for students.
func (e *Engine) Comments(actor types.Actor, in []types.Comment) ([]types.Comment, error) {
	e.log.V(6).Info("filter comments", "actor", actor, "count", len(in))

	kept, err := e.keep(actor, len(in),
		func(i int) (bool, error) { return e.teaches(actor, in[i]) },
		func(i int) (bool, error) {
			grade, err := e.store.Grade(in[i].Grade)
			if err != nil {
				return false, err
			}
			return e.ownSubmission(actor, grade.Submission)
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]types.Comment, 0, len(kept))
	for _, i := range kept {
		out = append(out, in[i])
	}
	return out, nil
}

// VisibleEntity tells if the actor may see the single entity, applying the
// same rules as the collection filters
func (e *Engine) VisibleEntity(actor types.Actor, ent types.Entity) (bool, error) {
	switch v := hierarchy.Deref(ent).(type) {
	case types.Course:
		out, err := e.Courses(actor, []types.Course{v})
		return len(out) == 1, err
	case types.Lecture:
		out, err := e.Lectures(actor, []types.Lecture{v})
		return len(out) == 1, err
	case types.Homework:
		out, err := e.Homeworks(actor, []types.Homework{v})
		return len(out) == 1, err
	case types.Submission:
		out, err := e.Submissions(actor, []types.Submission{v})
		return len(out) == 1, err
	case types.Grade:
		out, err := e.Grades(actor, []types.Grade{v})
		return len(out) == 1, err
	case types.Comment:
		out, err := e.Comments(actor, []types.Comment{v})
		return len(out) == 1, err
	}
	return false, nil
}

func (e *Engine) ownSubmission(actor types.Actor, id types.SubmissionID) (bool, error) {
	submission, err := e.store.Submission(id)
	if err != nil {
		return false, err
	}
	return submission.Student == actor.ID, nil
}

func collectScope(opts []types.ScopeOption) types.Scope {
	var scope types.Scope
	for _, opt := range opts {
		opt(&scope)
	}
	return scope
}

// submissionInScope narrows by homework, lecture, or course id.
// An empty scope keeps everything; narrowing is a pure intersection.
func (e *Engine) submissionInScope(s types.Submission, scope types.Scope) (bool, error) {
	if scope.Homework != "" && s.Homework != scope.Homework {
		return false, nil
	}
	if scope.Lecture == "" && scope.Course == "" {
		return true, nil
	}

	homework, err := e.store.Homework(s.Homework)
	if err != nil {
		return false, err
	}
	if scope.Lecture != "" && homework.Lecture != scope.Lecture {
		return false, nil
	}
	if scope.Course == "" {
		return true, nil
	}

	lecture, err := e.store.Lecture(homework.Lecture)
	if err != nil {
		return false, err
	}
	return lecture.Course == scope.Course, nil
}
