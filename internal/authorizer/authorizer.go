// Package authorizer composes the roster, the entity store, the hierarchy
// resolver, and the visibility engine into the enforced operation set.
package authorizer

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/supremind/courseauth/internal/hierarchy"
	"github.com/supremind/courseauth/internal/visibility"
	"github.com/supremind/courseauth/types"
)

type authorizer struct {
	store  types.EntityStore
	roster types.Roster
	view   *visibility.Engine
	log    logr.Logger

	// opaque makes denials of objects outside the actor's visible scope
	// read as not-found instead of forbidden
	opaque bool
}

// New creates an authorizer over the given collaborators
func New(store types.EntityStore, roster types.Roster, view *visibility.Engine, l logr.Logger, opaque bool) types.Authorizer {
	var a types.Authorizer
	a = &authorizer{
		store:  store,
		roster: roster,
		view:   view,
		log:    l,
		opaque: opaque,
	}

	a = newSyncedAuthorizer(a)

	return a
}

// Shall tells if the actor may perform the action on the entity
func (a *authorizer) Shall(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
	a.log.V(6).Info("shall", "actor", actor, "action", act, "entity", ent)

	if ent == nil {
		return false, nil
	}
	kind := ent.Kind()

	if !capable(kind, act) {
		return false, nil
	}

	// reads are scoped by visibility, not by the write predicates
	if act.IsSafe() {
		return a.view.VisibleEntity(actor, ent)
	}

	switch kind {
	case types.KindCourse:
		// a course being created has no object to check yet
		if act.Includes(types.Create) {
			return actor.IsTeacher(), nil
		}
		return a.courseWrite().check(actor, act, ent)
	case types.KindLecture, types.KindHomework:
		return a.lectureHomeworkWrite().check(actor, act, ent)
	case types.KindSubmission:
		return a.submissionOwnerWrite().check(actor, act, ent)
	case types.KindGrade:
		return a.gradeVisibility().check(actor, act, ent)
	case types.KindComment:
		return a.commentWrite().check(actor, act, ent)
	}

	return false, nil
}

// ManageProfile allows the user itself and admins only
func (a *authorizer) ManageProfile(actor types.Actor, user types.UserID) error {
	a.log.V(6).Info("manage profile", "actor", actor, "user", user)

	if !actor.Authenticated() {
		return types.ErrUnauthenticated
	}
	if !selfOrAdmin(actor, user) {
		return fmt.Errorf("%w: only the user itself or an admin may manage the profile", types.ErrForbidden)
	}
	return nil
}

func (a *authorizer) VisibleCourses(actor types.Actor, in []types.Course) ([]types.Course, error) {
	return a.view.Courses(actor, in)
}

func (a *authorizer) VisibleLectures(actor types.Actor, in []types.Lecture) ([]types.Lecture, error) {
	return a.view.Lectures(actor, in)
}

func (a *authorizer) VisibleHomeworks(actor types.Actor, in []types.Homework) ([]types.Homework, error) {
	return a.view.Homeworks(actor, in)
}

func (a *authorizer) VisibleSubmissions(actor types.Actor, in []types.Submission, opts ...types.ScopeOption) ([]types.Submission, error) {
	return a.view.Submissions(actor, in, opts...)
}

func (a *authorizer) VisibleGrades(actor types.Actor, in []types.Grade, opts ...types.ScopeOption) ([]types.Grade, error) {
	return a.view.Grades(actor, in, opts...)
}

func (a *authorizer) VisibleComments(actor types.Actor, in []types.Comment) ([]types.Comment, error) {
	return a.view.Comments(actor, in)
}

// TeachingCourses returns the courses the actor teaches; only teachers may ask
func (a *authorizer) TeachingCourses(actor types.Actor) (map[types.CourseID]struct{}, error) {
	if !actor.IsTeacher() {
		return nil, fmt.Errorf("%w: only teachers have teaching courses", types.ErrForbidden)
	}
	return a.roster.TeachingCourses(actor.ID)
}

// EnrolledCourses returns the courses the actor is enrolled in; only
// students may ask
func (a *authorizer) EnrolledCourses(actor types.Actor) (map[types.CourseID]struct{}, error) {
	if !actor.IsStudent() {
		return nil, fmt.Errorf("%w: only students have enrolled courses", types.ErrForbidden)
	}
	return a.roster.EnrolledCourses(actor.ID)
}

// CreateCourse creates a course owned by the acting teacher
func (a *authorizer) CreateCourse(acting types.Actor, title, description string) (*types.Course, error) {
	a.log.V(4).Info("create course", "actor", acting, "title", title)

	if !acting.Authenticated() {
		return nil, types.ErrUnauthenticated
	}
	if !acting.IsTeacher() {
		return nil, fmt.Errorf("%w: only teachers create courses", types.ErrForbidden)
	}

	course := &types.Course{
		ID:          types.CourseID(uuid.NewString()),
		Title:       title,
		Description: description,
	}
	if e := a.store.PutCourse(course); e != nil {
		return nil, e
	}
	if e := a.roster.AddTeacher(course.ID, acting.ID); e != nil {
		return nil, e
	}
	return course, nil
}

// EnrollTeacher adds the user to the course's teacher set
func (a *authorizer) EnrollTeacher(course types.CourseID, user types.Actor, acting types.Actor) error {
	return a.changeRoster(course, user, acting, types.RoleTeacher, a.roster.AddTeacher)
}

// EnrollStudent adds the user to the course's student set
func (a *authorizer) EnrollStudent(course types.CourseID, user types.Actor, acting types.Actor) error {
	return a.changeRoster(course, user, acting, types.RoleStudent, a.roster.AddStudent)
}

// UnenrollTeacher removes the user from the course's teacher set
func (a *authorizer) UnenrollTeacher(course types.CourseID, user types.Actor, acting types.Actor) error {
	return a.changeRoster(course, user, acting, types.RoleTeacher, a.roster.RemoveTeacher)
}

// UnenrollStudent removes the user from the course's student set
func (a *authorizer) UnenrollStudent(course types.CourseID, user types.Actor, acting types.Actor) error {
	return a.changeRoster(course, user, acting, types.RoleStudent, a.roster.RemoveStudent)
}

// changeRoster enforces the shared preconditions of all four membership
// mutations: the course exists, the acting user teaches it, and the target
// user holds the role of the set being changed
func (a *authorizer) changeRoster(course types.CourseID, user types.Actor, acting types.Actor, role types.Role,
	mutate func(types.CourseID, types.UserID) error) error {
	a.log.V(4).Info("change roster", "course", course, "user", user, "actor", acting, "role", role)

	if !acting.Authenticated() {
		return types.ErrUnauthenticated
	}
	if _, e := a.store.Course(course); e != nil {
		return e
	}

	teaches, e := a.roster.IsTeacher(course, acting.ID)
	if e != nil {
		return e
	}
	if !teaches {
		return fmt.Errorf("%w: only course teachers can modify this course", types.ErrForbidden)
	}

	if user.Role != role {
		return fmt.Errorf("%w: user must have role %s", types.ErrRoleMismatch, role)
	}

	return mutate(course, user.ID)
}

// CreateLecture creates a lecture under the course
func (a *authorizer) CreateLecture(acting types.Actor, course types.CourseID, topic string) (*types.Lecture, error) {
	a.log.V(4).Info("create lecture", "actor", acting, "course", course)

	c, e := a.store.Course(course)
	if e != nil {
		return nil, e
	}

	lecture := &types.Lecture{
		ID:     types.LectureID(uuid.NewString()),
		Course: c.ID,
		Topic:  topic,
	}
	if e := a.require(acting, types.Create, lecture); e != nil {
		return nil, e
	}
	if e := a.store.PutLecture(lecture); e != nil {
		return nil, e
	}
	return lecture, nil
}

// CreateHomework creates a homework under the lecture
func (a *authorizer) CreateHomework(acting types.Actor, lecture types.LectureID, description string) (*types.Homework, error) {
	a.log.V(4).Info("create homework", "actor", acting, "lecture", lecture)

	l, e := a.store.Lecture(lecture)
	if e != nil {
		return nil, e
	}

	homework := &types.Homework{
		ID:          types.HomeworkID(uuid.NewString()),
		Lecture:     l.ID,
		Description: description,
	}
	if e := a.require(acting, types.Create, homework); e != nil {
		return nil, e
	}
	if e := a.store.PutHomework(homework); e != nil {
		return nil, e
	}
	return homework, nil
}

// SubmitHomework creates the acting student's submission for the homework.
// Enrollment is required: holding the student role alone is not enough.
func (a *authorizer) SubmitHomework(acting types.Actor, homework types.HomeworkID, content string) (*types.Submission, error) {
	a.log.V(4).Info("submit homework", "actor", acting, "homework", homework)

	h, e := a.store.Homework(homework)
	if e != nil {
		return nil, e
	}

	ok, e := a.submissionCreate().check(acting, types.Create, h)
	if e != nil {
		return nil, e
	}
	if !ok {
		return nil, a.deny(acting, h, "only students enrolled in the course can submit")
	}

	submission := &types.Submission{
		ID:       types.SubmissionID(uuid.NewString()),
		Homework: h.ID,
		Student:  acting.ID,
		Content:  content,
	}
	if e := a.store.PutSubmission(submission); e != nil {
		return nil, e
	}
	return submission, nil
}

// GradeSubmission creates a grade on the submission
func (a *authorizer) GradeSubmission(acting types.Actor, submission types.SubmissionID, value int, feedback string) (*types.Grade, error) {
	a.log.V(4).Info("grade submission", "actor", acting, "submission", submission)

	if value < 0 || value > 100 {
		return nil, fmt.Errorf("%w: grade value must be between 0 and 100, got %d", types.ErrInvalidInput, value)
	}

	s, e := a.store.Submission(submission)
	if e != nil {
		return nil, e
	}

	ok, e := a.gradeWrite().check(acting, types.Create, s)
	if e != nil {
		return nil, e
	}
	if !ok {
		return nil, a.deny(acting, s, "only teachers of the course can grade")
	}

	grade := &types.Grade{
		ID:         types.GradeID(uuid.NewString()),
		Submission: s.ID,
		Teacher:    acting.ID,
		Value:      value,
		Feedback:   feedback,
	}
	if e := a.store.PutGrade(grade); e != nil {
		return nil, e
	}
	return grade, nil
}

// UpdateGrade replaces the grade's value and feedback
func (a *authorizer) UpdateGrade(acting types.Actor, grade types.GradeID, value int, feedback string) (*types.Grade, error) {
	a.log.V(4).Info("update grade", "actor", acting, "grade", grade)

	if value < 0 || value > 100 {
		return nil, fmt.Errorf("%w: grade value must be between 0 and 100, got %d", types.ErrInvalidInput, value)
	}

	g, e := a.store.Grade(grade)
	if e != nil {
		return nil, e
	}

	if e := a.require(acting, types.Update, *g); e != nil {
		return nil, e
	}

	g.Value = value
	g.Feedback = feedback
	if e := a.store.PutGrade(g); e != nil {
		return nil, e
	}
	return g, nil
}

// CommentOnGrade creates a comment on the grade
func (a *authorizer) CommentOnGrade(acting types.Actor, grade types.GradeID, content string) (*types.Comment, error) {
	a.log.V(4).Info("comment on grade", "actor", acting, "grade", grade)

	g, e := a.store.Grade(grade)
	if e != nil {
		return nil, e
	}

	ok, e := a.commentWrite().check(acting, types.Create, *g)
	if e != nil {
		return nil, e
	}
	if !ok {
		return nil, a.deny(acting, *g, "only course teachers and the graded student can comment")
	}

	comment := &types.Comment{
		ID:      types.CommentID(uuid.NewString()),
		Grade:   g.ID,
		Author:  acting.ID,
		Content: content,
	}
	if e := a.store.PutComment(comment); e != nil {
		return nil, e
	}
	return comment, nil
}

// Delete removes the entity and all its descendants.
// The permission is re-checked against the stored state of the entity, not
// the caller's snapshot.
func (a *authorizer) Delete(acting types.Actor, ent types.Entity) error {
	a.log.V(4).Info("delete", "actor", acting, "entity", ent)

	if ent == nil {
		return fmt.Errorf("%w: nothing to delete", types.ErrInvalidInput)
	}

	switch v := hierarchy.Deref(ent).(type) {
	case types.Course:
		stored, e := a.store.Course(v.ID)
		if e != nil {
			return e
		}
		if e := a.require(acting, types.Delete, *stored); e != nil {
			return e
		}
		if e := a.store.DeleteCourse(v.ID); e != nil {
			return e
		}
		return a.roster.RemoveCourse(v.ID)

	case types.Lecture:
		stored, e := a.store.Lecture(v.ID)
		if e != nil {
			return e
		}
		if e := a.require(acting, types.Delete, *stored); e != nil {
			return e
		}
		return a.store.DeleteLecture(v.ID)

	case types.Homework:
		stored, e := a.store.Homework(v.ID)
		if e != nil {
			return e
		}
		if e := a.require(acting, types.Delete, *stored); e != nil {
			return e
		}
		return a.store.DeleteHomework(v.ID)

	case types.Submission:
		stored, e := a.store.Submission(v.ID)
		if e != nil {
			return e
		}
		if e := a.require(acting, types.Delete, *stored); e != nil {
			return e
		}
		return a.store.DeleteSubmission(v.ID)

	case types.Grade:
		stored, e := a.store.Grade(v.ID)
		if e != nil {
			return e
		}
		if e := a.require(acting, types.Delete, *stored); e != nil {
			return e
		}
		return a.store.DeleteGrade(v.ID)

	case types.Comment:
		stored, e := a.store.Comment(v.ID)
		if e != nil {
			return e
		}
		if e := a.require(acting, types.Delete, *stored); e != nil {
			return e
		}
		return a.store.DeleteComment(v.ID)
	}

	return fmt.Errorf("%w: unknown entity %T", types.ErrInvalidInput, ent)
}

// RemoveUser removes the user account everywhere
func (a *authorizer) RemoveUser(acting types.Actor, user types.Actor) error {
	a.log.V(4).Info("remove user", "actor", acting, "user", user)

	if e := a.ManageProfile(acting, user.ID); e != nil {
		return e
	}
	if e := a.roster.RemoveUser(user.ID); e != nil {
		return e
	}
	return a.store.RemoveUser(user.ID)
}

// require runs Shall and turns a false decision into a denial error
func (a *authorizer) require(actor types.Actor, act types.Action, ent types.Entity) error {
	ok, e := a.Shall(actor, act, ent)
	if e != nil {
		return e
	}
	if ok {
		return nil
	}
	if !actor.Authenticated() {
		return types.ErrUnauthenticated
	}
	return a.deny(actor, ent, "not allowed to "+act.String())
}

// deny builds the denial error for the actor and entity. When opaque
// denials are on and the entity lies outside the actor's visible scope, the
// denial reads as not-found so probing ids leaks nothing.
func (a *authorizer) deny(actor types.Actor, ent types.Entity, msg string) error {
	if !actor.Authenticated() {
		return types.ErrUnauthenticated
	}
	if a.opaque && ent != nil {
		visible, e := a.view.VisibleEntity(actor, ent)
		if e == nil && !visible {
			return fmt.Errorf("%w: %s", types.ErrNotFound, ent.Kind())
		}
	}
	return fmt.Errorf("%w: %s", types.ErrForbidden, msg)
}
