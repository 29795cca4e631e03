package types

// IDs of the six entity kinds. They are minted by the enforced create
// operations and opaque to this package.
type (
	CourseID     string
	LectureID    string
	HomeworkID   string
	SubmissionID string
	GradeID      string
	CommentID    string
)

// Kind tags the closed set of entity kinds in the course hierarchy.
type Kind string

// the six entity kinds
const (
	KindCourse     Kind = "course"
	KindLecture    Kind = "lecture"
	KindHomework   Kind = "homework"
	KindSubmission Kind = "submission"
	KindGrade      Kind = "grade"
	KindComment    Kind = "comment"
)

// Entity is one of the six kinds in the course hierarchy:
// Course, Lecture, Homework, Submission, Grade, Comment.
// Entity is not expecting custom implementations.
type Entity interface {
	Kind() Kind
	entity() string
}

// Course is the root aggregate. Its teacher and student membership sets
// live in the Roster, not on the struct.
type Course struct {
	ID          CourseID
	Title       string
	Description string
}

func (c Course) Kind() Kind { return KindCourse }

func (c Course) entity() string { return "course:" + string(c.ID) }

// Lecture is owned by exactly one course.
type Lecture struct {
	ID     LectureID
	Course CourseID
	Topic  string
}

func (l Lecture) Kind() Kind { return KindLecture }

func (l Lecture) entity() string { return "lecture:" + string(l.ID) }

// Homework is assigned for exactly one lecture.
type Homework struct {
	ID          HomeworkID
	Lecture     LectureID
	Description string
}

func (h Homework) Kind() Kind { return KindHomework }

func (h Homework) entity() string { return "homework:" + string(h.ID) }

// Submission is a student's answer to a homework.
// At most one submission exists per (homework, student) pair.
type Submission struct {
	ID       SubmissionID
	Homework HomeworkID
	Student  UserID
	Content  string
}

func (s Submission) Kind() Kind { return KindSubmission }

func (s Submission) entity() string { return "submission:" + string(s.ID) }

// Grade is a teacher's mark on a submission.
// Teacher is cleared if the grading account is removed; the grade persists.
type Grade struct {
	ID         GradeID
	Submission SubmissionID
	Teacher    UserID

	// Value is a percentage between 0 and 100
	Value    int
	Feedback string
}

func (g Grade) Kind() Kind { return KindGrade }

func (g Grade) entity() string { return "grade:" + string(g.ID) }

// Comment is a remark on a grade, authored by either role.
type Comment struct {
	ID      CommentID
	Grade   GradeID
	Author  UserID
	Content string
}

func (c Comment) Kind() Kind { return KindComment }

func (c Comment) entity() string { return "comment:" + string(c.ID) }
