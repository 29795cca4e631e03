package types

import "context"

// EntityStore is the storage collaborator: single-entity fetch by id with a
// distinct not-found result, and enforced writes. Implementations must apply
// each write atomically.
type EntityStore interface {
	EntityReader
	EntityWriter
}

// EntityReader fetches single entities by id.
// A missing id resolves to an error wrapping ErrNotFound.
type EntityReader interface {
	Course(CourseID) (*Course, error)
	Lecture(LectureID) (*Lecture, error)
	Homework(HomeworkID) (*Homework, error)
	Submission(SubmissionID) (*Submission, error)
	Grade(GradeID) (*Grade, error)
	Comment(CommentID) (*Comment, error)
}

// EntityWriter creates, updates, and removes entities.
// Put methods upsert: a known id is updated in place.
// Delete methods cascade to all descendants of the entity.
type EntityWriter interface {
	// PutCourse stores the course
	PutCourse(*Course) error

	// PutLecture stores the lecture; its course must exist
	PutLecture(*Lecture) error

	// PutHomework stores the homework; its lecture must exist
	PutHomework(*Homework) error

	// PutSubmission stores the submission; its homework must exist, and at
	// most one submission may exist per (homework, student) pair
	PutSubmission(*Submission) error

	// PutGrade stores the grade; its submission must exist
	PutGrade(*Grade) error

	// PutComment stores the comment; its grade must exist
	PutComment(*Comment) error

	DeleteCourse(CourseID) error
	DeleteLecture(LectureID) error
	DeleteHomework(HomeworkID) error
	DeleteSubmission(SubmissionID) error
	DeleteGrade(GradeID) error
	DeleteComment(CommentID) error

	// RemoveUser drops the user's submissions and comments with their
	// descendants, and clears the teacher reference on grades they authored
	RemoveUser(UserID) error
}

// Roster keeps the two membership sets of every course: its teachers and its
// enrolled students. It is the one shared mutable resource of the authorizer.
type Roster interface {
	RosterReader
	RosterWriter
}

// RosterReader answers membership queries.
// Membership tests are O(1) amortized against the backing index.
type RosterReader interface {
	// IsTeacher tells if the user is on the course's teacher set
	IsTeacher(CourseID, UserID) (bool, error)

	// IsStudent tells if the user is enrolled in the course
	IsStudent(CourseID, UserID) (bool, error)

	// Teachers returns the teacher set of the course
	Teachers(CourseID) (map[UserID]struct{}, error)

	// Students returns the enrolled student set of the course
	Students(CourseID) (map[UserID]struct{}, error)

	// TeachingCourses returns all courses the user teaches
	TeachingCourses(UserID) (map[CourseID]struct{}, error)

	// EnrolledCourses returns all courses the user is enrolled in
	EnrolledCourses(UserID) (map[CourseID]struct{}, error)
}

// RosterWriter mutates membership sets.
// Adding a present member and removing an absent one are both no-ops.
type RosterWriter interface {
	AddTeacher(CourseID, UserID) error
	AddStudent(CourseID, UserID) error
	RemoveTeacher(CourseID, UserID) error
	RemoveStudent(CourseID, UserID) error

	// RemoveCourse drops both membership sets of the course
	RemoveCourse(CourseID) error

	// RemoveUser drops the user from every course
	RemoveUser(UserID) error
}

// RosterEntry is one persisted membership policy: the user sits on the
// course's teacher or student set, per Role.
type RosterEntry struct {
	Course CourseID
	User   UserID
	Role   Role
}

// RosterChange denotes a changing event about a RosterEntry
type RosterChange struct {
	RosterEntry
	Method PersistMethod
}

// PersistMethod defines what happened about a policy
type PersistMethod string

// possible changes happening about policies
const (
	PersistInsert PersistMethod = "insert"
	PersistDelete PersistMethod = "delete"
)

// RosterPersister persists membership policies to an external storage.
// Insert of a present entry and Remove of an absent one succeed without
// emitting a change.
type RosterPersister interface {
	// Insert inserts a policy to the persister
	Insert(RosterEntry) error

	// Remove a policy from the persister
	Remove(RosterEntry) error

	// List all policies from the persister
	List() ([]RosterEntry, error)

	// Watch any changes occurred about the policies in the persister
	Watch(context.Context) (<-chan RosterChange, error)
}
