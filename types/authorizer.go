package types

// Authorizer is the top level interface for end use.
// It decides what every actor may see and do across the course hierarchy,
// with knowledge of course rosters and the fixed ownership chain.
type Authorizer interface {
	Enforcer
	Viewer
	Registrar
}

// Enforcer answers single-object authorization questions.
type Enforcer interface {
	// Shall tells if the actor may perform the action on the entity.
	// A false decision carries no error; errors report broken references
	// or storage failures, and deny.
	Shall(actor Actor, act Action, ent Entity) (bool, error)

	// ManageProfile tells if the actor may manage the given user's profile:
	// the actor is that user, or holds the admin flag.
	// It returns nil, or an error wrapping ErrForbidden.
	ManageProfile(actor Actor, user UserID) error
}

// Viewer narrows entity listings to what an actor may see.
// Anonymous actors see nothing. Teachers see everything reachable from the
// courses they teach. Students see what is reachable from the courses they
// are enrolled in, except that submissions, grades, and comments are
// narrowed to their own records.
type Viewer interface {
	VisibleCourses(Actor, []Course) ([]Course, error)
	VisibleLectures(Actor, []Lecture) ([]Lecture, error)
	VisibleHomeworks(Actor, []Homework) ([]Homework, error)
	VisibleSubmissions(Actor, []Submission, ...ScopeOption) ([]Submission, error)
	VisibleGrades(Actor, []Grade, ...ScopeOption) ([]Grade, error)
	VisibleComments(Actor, []Comment) ([]Comment, error)

	// TeachingCourses returns the courses the actor teaches.
	// Only teachers may ask.
	TeachingCourses(Actor) (map[CourseID]struct{}, error)

	// EnrolledCourses returns the courses the actor is enrolled in.
	// Only students may ask.
	EnrolledCourses(Actor) (map[CourseID]struct{}, error)
}

// Registrar performs enforced mutations: every operation checks the acting
// user's permission and the target's role before touching storage.
type Registrar interface {
	// CreateCourse creates a course owned by the acting teacher
	CreateCourse(acting Actor, title, description string) (*Course, error)

	// EnrollTeacher adds the user to the course's teacher set.
	// The acting user must teach the course; the user must hold the teacher
	// role. Adding a present teacher is a no-op.
	EnrollTeacher(course CourseID, user Actor, acting Actor) error

	// EnrollStudent adds the user to the course's student set
	EnrollStudent(course CourseID, user Actor, acting Actor) error

	// UnenrollTeacher removes the user from the course's teacher set.
	// Removing an absent member is a no-op.
	UnenrollTeacher(course CourseID, user Actor, acting Actor) error

	// UnenrollStudent removes the user from the course's student set
	UnenrollStudent(course CourseID, user Actor, acting Actor) error

	// CreateLecture creates a lecture under the course
	CreateLecture(acting Actor, course CourseID, topic string) (*Lecture, error)

	// CreateHomework creates a homework under the lecture
	CreateHomework(acting Actor, lecture LectureID, description string) (*Homework, error)

	// SubmitHomework creates the acting student's submission for the homework
	SubmitHomework(acting Actor, homework HomeworkID, content string) (*Submission, error)

	// GradeSubmission creates a grade on the submission, authored by the
	// acting teacher
	GradeSubmission(acting Actor, submission SubmissionID, value int, feedback string) (*Grade, error)

	// UpdateGrade replaces the grade's value and feedback
	UpdateGrade(acting Actor, grade GradeID, value int, feedback string) (*Grade, error)

	// CommentOnGrade creates a comment on the grade, authored by the acting user
	CommentOnGrade(acting Actor, grade GradeID, content string) (*Comment, error)

	// Delete removes the entity and all its descendants
	Delete(acting Actor, ent Entity) error

	// RemoveUser removes the user account everywhere: roster entries,
	// submissions and comments go; grades they authored stay with the
	// teacher reference cleared. Only the user itself or an admin may ask.
	RemoveUser(acting Actor, user Actor) error
}

// Scope narrows a submission or grade listing after role filtering.
// It is a pure intersection: it never widens what the role filter allows.
type Scope struct {
	Course   CourseID
	Lecture  LectureID
	Homework HomeworkID
}

// ScopeOption restricts a filtered listing further
type ScopeOption func(*Scope)

// ScopeToCourse keeps only records under the given course
func ScopeToCourse(id CourseID) ScopeOption {
	return func(s *Scope) {
		s.Course = id
	}
}

// ScopeToLecture keeps only records under the given lecture
func ScopeToLecture(id LectureID) ScopeOption {
	return func(s *Scope) {
		s.Lecture = id
	}
}

// ScopeToHomework keeps only records under the given homework
func ScopeToHomework(id HomeworkID) ScopeOption {
	return func(s *Scope) {
		s.Homework = id
	}
}
