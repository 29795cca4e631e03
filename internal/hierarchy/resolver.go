// Package hierarchy resolves any entity to its owning course along the fixed
// ownership chain:
//
//	Comment → Grade → Submission → Homework → Lecture → Course
package hierarchy

import (
	"fmt"

	"github.com/supremind/courseauth/types"
)

// Course resolves the owning course of the entity.
// The walk is total over the six entity kinds and fails closed: a broken
// reference anywhere on the chain resolves to an error wrapping ErrNotFound,
// never to a partial result.
func Course(store types.EntityReader, ent types.Entity) (*types.Course, error) {
	switch e := Deref(ent).(type) {
	case types.Course:
		return store.Course(e.ID)

	case types.Lecture:
		return store.Course(e.Course)

	case types.Homework:
		return lectureCourse(store, e.Lecture)

	case types.Submission:
		return homeworkCourse(store, e.Homework)

	case types.Grade:
		return submissionCourse(store, e.Submission)

	case types.Comment:
		grade, err := store.Grade(e.Grade)
		if err != nil {
			return nil, err
		}
		return submissionCourse(store, grade.Submission)
	}

	// unreachable: Entity is a closed set
	return nil, fmt.Errorf("%w: no course for %T", types.ErrNotFound, ent)
}

func lectureCourse(store types.EntityReader, id types.LectureID) (*types.Course, error) {
	lecture, err := store.Lecture(id)
	if err != nil {
		return nil, err
	}
	return store.Course(lecture.Course)
}

func homeworkCourse(store types.EntityReader, id types.HomeworkID) (*types.Course, error) {
	homework, err := store.Homework(id)
	if err != nil {
		return nil, err
	}
	return lectureCourse(store, homework.Lecture)
}

func submissionCourse(store types.EntityReader, id types.SubmissionID) (*types.Course, error) {
	submission, err := store.Submission(id)
	if err != nil {
		return nil, err
	}
	return homeworkCourse(store, submission.Homework)
}

// Deref normalizes an entity passed by pointer to its value
func Deref(ent types.Entity) types.Entity {
	switch e := ent.(type) {
	case *types.Course:
		return *e
	case *types.Lecture:
		return *e
	case *types.Homework:
		return *e
	case *types.Submission:
		return *e
	case *types.Grade:
		return *e
	case *types.Comment:
		return *e
	}
	return ent
}
