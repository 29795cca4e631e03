package roster

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/supremind/courseauth/persist/fake"
	"github.com/supremind/courseauth/types"
)

func TestRoster(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "roster test suit")
}

const (
	calculus = types.CourseID("calculus")
	physics  = types.CourseID("physics")

	archimedes = types.UserID("archimedes")
	newton     = types.UserID("newton")
	hopper     = types.UserID("hopper")
	curie      = types.UserID("curie")
)

var _ = Describe("roster implementation", func() {
	var rosters = []struct {
		name string
		r    types.Roster
	}{
		{
			name: "slim",
			r:    newSlimRoster(),
		},
		{
			name: "synced slim",
			r:    newSyncedRoster(newSlimRoster()),
		},
		{
			name: "persisted",
			r: func() types.Roster {
				r, e := New(context.Background(), fake.NewRosterPersister(context.Background()), logr.Discard())
				Expect(e).To(Succeed())
				return r
			}(),
		},
	}

	for _, tr := range rosters {
		Context(tr.name, func() {
			r := tr.r

			BeforeEach(func() {
				Expect(r.AddTeacher(calculus, archimedes)).To(Succeed())
				Expect(r.AddTeacher(calculus, newton)).To(Succeed())
				Expect(r.AddStudent(calculus, hopper)).To(Succeed())
				Expect(r.AddTeacher(physics, newton)).To(Succeed())
				Expect(r.AddStudent(physics, curie)).To(Succeed())
			})

			It("should know course teachers", func() {
				Expect(r.IsTeacher(calculus, archimedes)).To(BeTrue())
				Expect(r.IsTeacher(calculus, newton)).To(BeTrue())
				Expect(r.IsTeacher(physics, newton)).To(BeTrue())
				Expect(r.IsTeacher(physics, archimedes)).To(BeFalse())

				Expect(r.Teachers(calculus)).To(HaveLen(2))
				Expect(r.Teachers(physics)).To(HaveKey(newton))
			})

			It("should know course students", func() {
				Expect(r.IsStudent(calculus, hopper)).To(BeTrue())
				Expect(r.IsStudent(physics, curie)).To(BeTrue())
				Expect(r.IsStudent(physics, hopper)).To(BeFalse())

				Expect(r.Students(calculus)).To(HaveKey(hopper))
				Expect(r.Students(physics)).To(HaveKey(curie))
			})

			It("should keep teacher and student sets apart", func() {
				Expect(r.IsStudent(calculus, archimedes)).To(BeFalse())
				Expect(r.IsTeacher(calculus, hopper)).To(BeFalse())
			})

			It("should index courses by user", func() {
				Expect(r.TeachingCourses(newton)).To(And(HaveKey(calculus), HaveKey(physics)))
				Expect(r.TeachingCourses(archimedes)).To(HaveKey(calculus))
				Expect(r.EnrolledCourses(hopper)).To(HaveKey(calculus))
				Expect(r.EnrolledCourses(curie)).NotTo(HaveKey(calculus))
			})

			It("should treat repeated additions as no-ops", func() {
				Expect(r.AddTeacher(calculus, archimedes)).To(Succeed())
				Expect(r.AddStudent(calculus, hopper)).To(Succeed())

				Expect(r.Teachers(calculus)).To(HaveLen(2))
				Expect(r.Students(calculus)).To(HaveLen(1))
			})

			It("should treat removals of absent members as no-ops", func() {
				Expect(r.RemoveTeacher(calculus, curie)).To(Succeed())
				Expect(r.RemoveStudent(physics, archimedes)).To(Succeed())

				Expect(r.Teachers(calculus)).To(HaveLen(2))
				Expect(r.Students(physics)).To(HaveLen(1))
			})

			It("should remove a single membership only", func() {
				Expect(r.RemoveTeacher(calculus, newton)).To(Succeed())

				Expect(r.IsTeacher(calculus, newton)).To(BeFalse())
				Expect(r.IsTeacher(physics, newton)).To(BeTrue())
				Expect(r.TeachingCourses(newton)).NotTo(HaveKey(calculus))
			})

			It("should drop the whole roster of a removed course", func() {
				Expect(r.RemoveCourse(calculus)).To(Succeed())

				Expect(r.IsTeacher(calculus, archimedes)).To(BeFalse())
				Expect(r.IsStudent(calculus, hopper)).To(BeFalse())
				Expect(r.TeachingCourses(archimedes)).NotTo(HaveKey(calculus))
				Expect(r.EnrolledCourses(hopper)).NotTo(HaveKey(calculus))

				Expect(r.IsTeacher(physics, newton)).To(BeTrue())
			})

			It("should drop all memberships of a removed user", func() {
				Expect(r.RemoveUser(newton)).To(Succeed())

				Expect(r.IsTeacher(calculus, newton)).To(BeFalse())
				Expect(r.IsTeacher(physics, newton)).To(BeFalse())
				Expect(r.TeachingCourses(newton)).To(BeEmpty())

				Expect(r.IsTeacher(calculus, archimedes)).To(BeTrue())
				Expect(r.IsStudent(physics, curie)).To(BeTrue())
			})
		})
	}
})
