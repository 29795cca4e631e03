package roster

import (
	"sync"

	"github.com/supremind/courseauth/types"
)

var _ types.Roster = (*syncedRoster)(nil)

// syncedRoster makes the inner roster be safe in concurrent usages
type syncedRoster struct {
	r types.Roster
	sync.RWMutex
}

func newSyncedRoster(r types.Roster) *syncedRoster {
	return &syncedRoster{r: r}
}

func (s *syncedRoster) AddTeacher(course types.CourseID, user types.UserID) error {
	s.Lock()
	defer s.Unlock()
	return s.r.AddTeacher(course, user)
}

func (s *syncedRoster) AddStudent(course types.CourseID, user types.UserID) error {
	s.Lock()
	defer s.Unlock()
	return s.r.AddStudent(course, user)
}

func (s *syncedRoster) RemoveTeacher(course types.CourseID, user types.UserID) error {
	s.Lock()
	defer s.Unlock()
	return s.r.RemoveTeacher(course, user)
}

func (s *syncedRoster) RemoveStudent(course types.CourseID, user types.UserID) error {
	s.Lock()
	defer s.Unlock()
	return s.r.RemoveStudent(course, user)
}

func (s *syncedRoster) RemoveCourse(course types.CourseID) error {
	s.Lock()
	defer s.Unlock()
	return s.r.RemoveCourse(course)
}

func (s *syncedRoster) RemoveUser(user types.UserID) error {
	s.Lock()
	defer s.Unlock()
	return s.r.RemoveUser(user)
}

func (s *syncedRoster) IsTeacher(course types.CourseID, user types.UserID) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.r.IsTeacher(course, user)
}

func (s *syncedRoster) IsStudent(course types.CourseID, user types.UserID) (bool, error) {
	s.RLock()
	defer s.RUnlock()
	return s.r.IsStudent(course, user)
}

func (s *syncedRoster) Teachers(course types.CourseID) (map[types.UserID]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.r.Teachers(course)
}

func (s *syncedRoster) Students(course types.CourseID) (map[types.UserID]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.r.Students(course)
}

func (s *syncedRoster) TeachingCourses(user types.UserID) (map[types.CourseID]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.r.TeachingCourses(user)
}

func (s *syncedRoster) EnrolledCourses(user types.UserID) (map[types.CourseID]struct{}, error) {
	s.RLock()
	defer s.RUnlock()
	return s.r.EnrolledCourses(user)
}
