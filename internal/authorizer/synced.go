package authorizer

import (
	"sync"

	"github.com/supremind/courseauth/types"
)

var _ types.Authorizer = (*syncedAuthorizer)(nil)

// syncedAuthorizer makes the given authorizer be safe in concurrent usages:
// every enforced mutation holds the write lock from permission check through
// the mutation, so a concurrent roster change cannot invalidate an already
// checked permission.
type syncedAuthorizer struct {
	sync.RWMutex
	authz types.Authorizer
}

func newSyncedAuthorizer(authz types.Authorizer) *syncedAuthorizer {
	return &syncedAuthorizer{authz: authz}
}

// Shall tells if the actor may perform the action on the entity
func (s *syncedAuthorizer) Shall(actor types.Actor, act types.Action, ent types.Entity) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.Shall(actor, act, ent)
}

// ManageProfile allows the user itself and admins only
func (s *syncedAuthorizer) ManageProfile(actor types.Actor, user types.UserID) error {
	s.RLock()
	defer s.RUnlock()
	return s.authz.ManageProfile(actor, user)
}

func (s *syncedAuthorizer) VisibleCourses(actor types.Actor, in []types.Course) ([]types.Course, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.VisibleCourses(actor, in)
}

func (s *syncedAuthorizer) VisibleLectures(actor types.Actor, in []types.Lecture) ([]types.Lecture, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.VisibleLectures(actor, in)
}

func (s *syncedAuthorizer) VisibleHomeworks(actor types.Actor, in []types.Homework) ([]types.Homework, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.VisibleHomeworks(actor, in)
}

func (s *syncedAuthorizer) VisibleSubmissions(actor types.Actor, in []types.Submission, opts ...types.ScopeOption) ([]types.Submission, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.VisibleSubmissions(actor, in, opts...)
}

func (s *syncedAuthorizer) VisibleGrades(actor types.Actor, in []types.Grade, opts ...types.ScopeOption) ([]types.Grade, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.VisibleGrades(actor, in, opts...)
}

func (s *syncedAuthorizer) VisibleComments(actor types.Actor, in []types.Comment) ([]types.Comment, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.VisibleComments(actor, in)
}

func (s *syncedAuthorizer) TeachingCourses(actor types.Actor) (map[types.CourseID]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.TeachingCourses(actor)
}

func (s *syncedAuthorizer) EnrolledCourses(actor types.Actor) (map[types.CourseID]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.authz.EnrolledCourses(actor)
}

// CreateCourse creates a course owned by the acting teacher
func (s *syncedAuthorizer) CreateCourse(acting types.Actor, title, description string) (*types.Course, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.CreateCourse(acting, title, description)
}

// EnrollTeacher adds the user to the course's teacher set
func (s *syncedAuthorizer) EnrollTeacher(course types.CourseID, user types.Actor, acting types.Actor) error {
	s.Lock()
	defer s.Unlock()
	return s.authz.EnrollTeacher(course, user, acting)
}

// EnrollStudent adds the user to the course's student set
func (s *syncedAuthorizer) EnrollStudent(course types.CourseID, user types.Actor, acting types.Actor) error {
	s.Lock()
	defer s.Unlock()
	return s.authz.EnrollStudent(course, user, acting)
}

// UnenrollTeacher removes the user from the course's teacher set
func (s *syncedAuthorizer) UnenrollTeacher(course types.CourseID, user types.Actor, acting types.Actor) error {
	s.Lock()
	defer s.Unlock()
	return s.authz.UnenrollTeacher(course, user, acting)
}

// UnenrollStudent removes the user from the course's student set
func (s *syncedAuthorizer) UnenrollStudent(course types.CourseID, user types.Actor, acting types.Actor) error {
	s.Lock()
	defer s.Unlock()
	return s.authz.UnenrollStudent(course, user, acting)
}

// CreateLecture creates a lecture under the course
func (s *syncedAuthorizer) CreateLecture(acting types.Actor, course types.CourseID, topic string) (*types.Lecture, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.CreateLecture(acting, course, topic)
}

// CreateHomework creates a homework under the lecture
func (s *syncedAuthorizer) CreateHomework(acting types.Actor, lecture types.LectureID, description string) (*types.Homework, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.CreateHomework(acting, lecture, description)
}

// SubmitHomework creates the acting student's submission for the homework
func (s *syncedAuthorizer) SubmitHomework(acting types.Actor, homework types.HomeworkID, content string) (*types.Submission, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.SubmitHomework(acting, homework, content)
}

// GradeSubmission creates a grade on the submission
func (s *syncedAuthorizer) GradeSubmission(acting types.Actor, submission types.SubmissionID, value int, feedback string) (*types.Grade, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.GradeSubmission(acting, submission, value, feedback)
}

// UpdateGrade replaces the grade's value and feedback
func (s *syncedAuthorizer) UpdateGrade(acting types.Actor, grade types.GradeID, value int, feedback string) (*types.Grade, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.UpdateGrade(acting, grade, value, feedback)
}

// CommentOnGrade creates a comment on the grade
func (s *syncedAuthorizer) CommentOnGrade(acting types.Actor, grade types.GradeID, content string) (*types.Comment, error) {
	s.Lock()
	defer s.Unlock()
	return s.authz.CommentOnGrade(acting, grade, content)
}

// Delete removes the entity and all its descendants
func (s *syncedAuthorizer) Delete(acting types.Actor, ent types.Entity) error {
	s.Lock()
	defer s.Unlock()
	return s.authz.Delete(acting, ent)
}

// RemoveUser removes the user account everywhere
func (s *syncedAuthorizer) RemoveUser(acting types.Actor, user types.Actor) error {
	s.Lock()
	defer s.Unlock()
	return s.authz.RemoveUser(acting, user)
}
