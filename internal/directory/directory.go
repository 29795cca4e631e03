// Package directory provides the default in-memory EntityStore.
package directory

import (
	"fmt"
	"sync"

	"github.com/supremind/courseauth/types"
)

var _ types.EntityStore = (*Directory)(nil)

type submissionKey struct {
	homework types.HomeworkID
	student  types.UserID
}

// Directory keeps every entity of the hierarchy in memory.
// Each method applies atomically under one lock, including cascades.
type Directory struct {
	mu sync.RWMutex

	courses     map[types.CourseID]types.Course
	lectures    map[types.LectureID]types.Lecture
	homeworks   map[types.HomeworkID]types.Homework
	submissions map[types.SubmissionID]types.Submission
	grades      map[types.GradeID]types.Grade
	comments    map[types.CommentID]types.Comment

	// uniqueness index: one submission per homework and student
	submissionKeys map[submissionKey]types.SubmissionID
}

// New creates an empty directory
func New() *Directory {
	return &Directory{
		courses:        make(map[types.CourseID]types.Course),
		lectures:       make(map[types.LectureID]types.Lecture),
		homeworks:      make(map[types.HomeworkID]types.Homework),
		submissions:    make(map[types.SubmissionID]types.Submission),
		grades:         make(map[types.GradeID]types.Grade),
		comments:       make(map[types.CommentID]types.Comment),
		submissionKeys: make(map[submissionKey]types.SubmissionID),
	}
}

// Course implements EntityReader interface
func (d *Directory) Course(id types.CourseID) (*types.Course, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: course %s", types.ErrNotFound, id)
	}
	return &c, nil
}

// Lecture implements EntityReader interface
func (d *Directory) Lecture(id types.LectureID) (*types.Lecture, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	l, ok := d.lectures[id]
	if !ok {
		return nil, fmt.Errorf("%w: lecture %s", types.ErrNotFound, id)
	}
	return &l, nil
}

// Homework implements EntityReader interface
func (d *Directory) Homework(id types.HomeworkID) (*types.Homework, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.homeworks[id]
	if !ok {
		return nil, fmt.Errorf("%w: homework %s", types.ErrNotFound, id)
	}
	return &h, nil
}

// Submission implements EntityReader interface
func (d *Directory) Submission(id types.SubmissionID) (*types.Submission, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.submissions[id]
	if !ok {
		return nil, fmt.Errorf("%w: submission %s", types.ErrNotFound, id)
	}
	return &s, nil
}

// Grade implements EntityReader interface
func (d *Directory) Grade(id types.GradeID) (*types.Grade, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	g, ok := d.grades[id]
	if !ok {
		return nil, fmt.Errorf("%w: grade %s", types.ErrNotFound, id)
	}
	return &g, nil
}

// Comment implements EntityReader interface
func (d *Directory) Comment(id types.CommentID) (*types.Comment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment %s", types.ErrNotFound, id)
	}
	return &c, nil
}

// PutCourse implements EntityWriter interface
func (d *Directory) PutCourse(c *types.Course) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("%w: course needs an id", types.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.courses[c.ID] = *c
	return nil
}

// PutLecture implements EntityWriter interface
func (d *Directory) PutLecture(l *types.Lecture) error {
	if l == nil || l.ID == "" {
		return fmt.Errorf("%w: lecture needs an id", types.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.courses[l.Course]; !ok {
		return fmt.Errorf("%w: lecture needs an existing course, got %s", types.ErrInvalidInput, l.Course)
	}
	d.lectures[l.ID] = *l
	return nil
}

// PutHomework implements EntityWriter interface
func (d *Directory) PutHomework(h *types.Homework) error {
	if h == nil || h.ID == "" {
		return fmt.Errorf("%w: homework needs an id", types.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.lectures[h.Lecture]; !ok {
		return fmt.Errorf("%w: homework needs an existing lecture, got %s", types.ErrInvalidInput, h.Lecture)
	}
	d.homeworks[h.ID] = *h
	return nil
}

// PutSubmission implements EntityWriter interface.
// A second submission for the same homework by the same student is rejected.
func (d *Directory) PutSubmission(s *types.Submission) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: submission needs an id", types.ErrInvalidInput)
	}
	if s.Student == "" {
		return fmt.Errorf("%w: submission needs a student", types.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.homeworks[s.Homework]; !ok {
		return fmt.Errorf("%w: submission needs an existing homework, got %s", types.ErrInvalidInput, s.Homework)
	}

	key := submissionKey{homework: s.Homework, student: s.Student}
	if prev, ok := d.submissionKeys[key]; ok && prev != s.ID {
		return types.ErrDuplicateSubmission
	}
	if old, ok := d.submissions[s.ID]; ok {
		// a submission never moves to another homework or student
		if old.Homework != s.Homework || old.Student != s.Student {
			return fmt.Errorf("%w: submission cannot change its homework or student", types.ErrInvalidInput)
		}
	}

	d.submissions[s.ID] = *s
	d.submissionKeys[key] = s.ID
	return nil
}

// PutGrade implements EntityWriter interface
func (d *Directory) PutGrade(g *types.Grade) error {
	if g == nil || g.ID == "" {
		return fmt.Errorf("%w: grade needs an id", types.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.submissions[g.Submission]; !ok {
		return fmt.Errorf("%w: grade needs an existing submission, got %s", types.ErrInvalidInput, g.Submission)
	}
	d.grades[g.ID] = *g
	return nil
}

// PutComment implements EntityWriter interface
func (d *Directory) PutComment(c *types.Comment) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("%w: comment needs an id", types.ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.grades[c.Grade]; !ok {
		return fmt.Errorf("%w: comment needs an existing grade, got %s", types.ErrInvalidInput, c.Grade)
	}
	d.comments[c.ID] = *c
	return nil
}

// DeleteCourse implements EntityWriter interface
func (d *Directory) DeleteCourse(id types.CourseID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.courses[id]; !ok {
		return fmt.Errorf("%w: course %s", types.ErrNotFound, id)
	}
	for lid, l := range d.lectures {
		if l.Course == id {
			d.deleteLectureLocked(lid)
		}
	}
	delete(d.courses, id)
	return nil
}

// DeleteLecture implements EntityWriter interface
func (d *Directory) DeleteLecture(id types.LectureID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.lectures[id]; !ok {
		return fmt.Errorf("%w: lecture %s", types.ErrNotFound, id)
	}
	d.deleteLectureLocked(id)
	return nil
}

// DeleteHomework implements EntityWriter interface
func (d *Directory) DeleteHomework(id types.HomeworkID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.homeworks[id]; !ok {
		return fmt.Errorf("%w: homework %s", types.ErrNotFound, id)
	}
	d.deleteHomeworkLocked(id)
	return nil
}

// DeleteSubmission implements EntityWriter interface
func (d *Directory) DeleteSubmission(id types.SubmissionID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.submissions[id]; !ok {
		return fmt.Errorf("%w: submission %s", types.ErrNotFound, id)
	}
	d.deleteSubmissionLocked(id)
	return nil
}

// DeleteGrade implements EntityWriter interface
func (d *Directory) DeleteGrade(id types.GradeID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.grades[id]; !ok {
		return fmt.Errorf("%w: grade %s", types.ErrNotFound, id)
	}
	d.deleteGradeLocked(id)
	return nil
}

// DeleteComment implements EntityWriter interface
func (d *Directory) DeleteComment(id types.CommentID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.comments[id]; !ok {
		return fmt.Errorf("%w: comment %s", types.ErrNotFound, id)
	}
	delete(d.comments, id)
	return nil
}

// RemoveUser implements EntityWriter interface.
// The user's submissions and comments go with their descendants; grades they
// authored stay, with the teacher reference cleared.
func (d *Directory) RemoveUser(user types.UserID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for sid, s := range d.submissions {
		if s.Student == user {
			d.deleteSubmissionLocked(sid)
		}
	}
	for cid, c := range d.comments {
		if c.Author == user {
			delete(d.comments, cid)
		}
	}
	for gid, g := range d.grades {
		if g.Teacher == user {
			g.Teacher = ""
			d.grades[gid] = g
		}
	}
	return nil
}

func (d *Directory) deleteLectureLocked(id types.LectureID) {
	for hid, h := range d.homeworks {
		if h.Lecture == id {
			d.deleteHomeworkLocked(hid)
		}
	}
	delete(d.lectures, id)
}

func (d *Directory) deleteHomeworkLocked(id types.HomeworkID) {
	for sid, s := range d.submissions {
		if s.Homework == id {
			d.deleteSubmissionLocked(sid)
		}
	}
	delete(d.homeworks, id)
}

func (d *Directory) deleteSubmissionLocked(id types.SubmissionID) {
	s, ok := d.submissions[id]
	if !ok {
		return
	}
	for gid, g := range d.grades {
		if g.Submission == id {
			d.deleteGradeLocked(gid)
		}
	}
	delete(d.submissionKeys, submissionKey{homework: s.Homework, student: s.Student})
	delete(d.submissions, id)
}

func (d *Directory) deleteGradeLocked(id types.GradeID) {
	for cid, c := range d.comments {
		if c.Grade == id {
			delete(d.comments, cid)
		}
	}
	delete(d.grades, id)
}
