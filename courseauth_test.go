package courseauth_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/go-logr/stdr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/supremind/courseauth"
	"github.com/supremind/courseauth/internal/directory"
	"github.com/supremind/courseauth/persist/fake"
	"github.com/supremind/courseauth/types"
)

func TestCourseauth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "courseauth test suit")
}

var ctx = context.Background()

var (
	archimedes = types.Actor{ID: "archimedes", Role: types.RoleTeacher}
	newton     = types.Actor{ID: "newton", Role: types.RoleTeacher}
	hopper     = types.Actor{ID: "hopper", Role: types.RoleStudent}
	curie      = types.Actor{ID: "curie", Role: types.RoleStudent}
)

var _ = Describe("the authorizer, assembled", func() {
	var authz types.Authorizer

	BeforeEach(func() {
		logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))

		var e error
		authz, e = New(ctx,
			WithRosterPersister(fake.NewRosterPersister(ctx)),
			WithEntityStore(directory.New()),
			WithLogger(logger.WithName("courseauth")),
		)
		Expect(e).To(Succeed())
	})

	It("should walk a course through its whole life", func() {
		By("the teacher sets up the course")
		course, e := authz.CreateCourse(archimedes, "Calculus I", "limits and derivatives")
		Expect(e).To(Succeed())
		Expect(authz.EnrollStudent(course.ID, hopper, archimedes)).To(Succeed())
		Expect(authz.EnrollStudent(course.ID, curie, archimedes)).To(Succeed())

		lecture, e := authz.CreateLecture(archimedes, course.ID, "limits")
		Expect(e).To(Succeed())
		homework, e := authz.CreateHomework(archimedes, lecture.ID, "exercises 1-10")
		Expect(e).To(Succeed())

		By("students hand in their work")
		subHopper, e := authz.SubmitHomework(hopper, homework.ID, "my answers")
		Expect(e).To(Succeed())
		subCurie, e := authz.SubmitHomework(curie, homework.ID, "my answers too")
		Expect(e).To(Succeed())

		By("the teacher sees both submissions, each student their own only")
		all := []types.Submission{*subHopper, *subCurie}
		Expect(authz.VisibleSubmissions(archimedes, all)).To(ConsistOf(*subHopper, *subCurie))
		Expect(authz.VisibleSubmissions(hopper, all)).To(ConsistOf(*subHopper))
		Expect(authz.VisibleSubmissions(curie, all)).To(ConsistOf(*subCurie))
		Expect(authz.VisibleSubmissions(types.Anonymous, all)).To(BeEmpty())

		By("the teacher grades and the student answers back")
		grade, e := authz.GradeSubmission(archimedes, subHopper.ID, 90, "well done")
		Expect(e).To(Succeed())
		_, e = authz.CommentOnGrade(hopper, grade.ID, "thanks")
		Expect(e).To(Succeed())

		By("the other student sees neither grade nor comment")
		Expect(authz.VisibleGrades(curie, []types.Grade{*grade})).To(BeEmpty())
		_, e = authz.CommentOnGrade(curie, grade.ID, "nice")
		Expect(e).To(MatchError(types.ErrForbidden))

		By("another teacher stays outside until enrolled")
		_, e = authz.CreateLecture(newton, course.ID, "derivatives")
		Expect(e).To(MatchError(types.ErrForbidden))
		Expect(authz.EnrollTeacher(course.ID, newton, archimedes)).To(Succeed())
		_, e = authz.CreateLecture(newton, course.ID, "derivatives")
		Expect(e).To(Succeed())

		By("the teacher tears the course down")
		Expect(authz.Delete(archimedes, course)).To(Succeed())
		Expect(authz.TeachingCourses(archimedes)).To(BeEmpty())
		Expect(authz.EnrolledCourses(hopper)).To(BeEmpty())
	})

	It("should narrow listings to a requested scope", func() {
		course, e := authz.CreateCourse(archimedes, "Calculus I", "")
		Expect(e).To(Succeed())
		Expect(authz.EnrollStudent(course.ID, hopper, archimedes)).To(Succeed())

		lecture, e := authz.CreateLecture(archimedes, course.ID, "limits")
		Expect(e).To(Succeed())
		hw1, e := authz.CreateHomework(archimedes, lecture.ID, "exercises 1-10")
		Expect(e).To(Succeed())
		hw2, e := authz.CreateHomework(archimedes, lecture.ID, "exercises 11-20")
		Expect(e).To(Succeed())

		s1, e := authz.SubmitHomework(hopper, hw1.ID, "a")
		Expect(e).To(Succeed())
		s2, e := authz.SubmitHomework(hopper, hw2.ID, "b")
		Expect(e).To(Succeed())

		all := []types.Submission{*s1, *s2}
		Expect(authz.VisibleSubmissions(archimedes, all, types.ScopeToHomework(hw1.ID))).To(ConsistOf(*s1))
		Expect(authz.VisibleSubmissions(archimedes, all, types.ScopeToLecture(lecture.ID))).To(ConsistOf(*s1, *s2))
		Expect(authz.VisibleSubmissions(archimedes, all, types.ScopeToCourse("another"))).To(BeEmpty())
	})
})

var _ = Describe("assembly options", func() {
	It("should run without any option", func() {
		authz, e := New(ctx)
		Expect(e).To(Succeed())

		course, e := authz.CreateCourse(archimedes, "Calculus I", "")
		Expect(e).To(Succeed())
		Expect(authz.Shall(archimedes, types.Read, *course)).To(BeTrue())
	})

	It("should make denials opaque on request", func() {
		authz, e := New(ctx, WithOpaqueDenials())
		Expect(e).To(Succeed())

		course, e := authz.CreateCourse(archimedes, "Calculus I", "")
		Expect(e).To(Succeed())
		lecture, e := authz.CreateLecture(archimedes, course.ID, "limits")
		Expect(e).To(Succeed())
		homework, e := authz.CreateHomework(archimedes, lecture.ID, "exercises")
		Expect(e).To(Succeed())

		// not enrolled: the homework does not even exist for them
		_, e = authz.SubmitHomework(hopper, homework.ID, "answers")
		Expect(e).To(MatchError(types.ErrNotFound))
	})
})
