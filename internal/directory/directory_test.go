package directory_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	. "github.com/supremind/courseauth/internal/directory"
	"github.com/supremind/courseauth/types"
)

func TestDirectory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "directory test suit")
}

var _ = Describe("directory", func() {
	var d *Directory

	course := types.Course{ID: "calculus", Title: "Calculus I"}
	lecture := types.Lecture{ID: "limits", Course: "calculus", Topic: "limits"}
	homework := types.Homework{ID: "hw1", Lecture: "limits", Description: "exercises 1-10"}
	submission := types.Submission{ID: "sub1", Homework: "hw1", Student: "hopper", Content: "answers"}
	grade := types.Grade{ID: "grade1", Submission: "sub1", Teacher: "archimedes", Value: 90}
	comment := types.Comment{ID: "comment1", Grade: "grade1", Author: "hopper", Content: "thanks"}

	BeforeEach(func() {
		d = New()
		Expect(d.PutCourse(&course)).To(Succeed())
		Expect(d.PutLecture(&lecture)).To(Succeed())
		Expect(d.PutHomework(&homework)).To(Succeed())
		Expect(d.PutSubmission(&submission)).To(Succeed())
		Expect(d.PutGrade(&grade)).To(Succeed())
		Expect(d.PutComment(&comment)).To(Succeed())
	})

	It("should read back what was put", func() {
		Expect(d.Course("calculus")).To(Equal(&course))
		Expect(d.Lecture("limits")).To(Equal(&lecture))
		Expect(d.Homework("hw1")).To(Equal(&homework))
		Expect(d.Submission("sub1")).To(Equal(&submission))
		Expect(d.Grade("grade1")).To(Equal(&grade))
		Expect(d.Comment("comment1")).To(Equal(&comment))
	})

	It("should report unknown ids as not found", func() {
		_, e := d.Course("algebra")
		Expect(e).To(MatchError(types.ErrNotFound))
		_, e = d.Submission("nope")
		Expect(e).To(MatchError(types.ErrNotFound))
	})

	Context("referential integrity", func() {
		It("should reject children of missing parents", func() {
			Expect(d.PutLecture(&types.Lecture{ID: "l2", Course: "algebra"})).To(MatchError(types.ErrInvalidInput))
			Expect(d.PutHomework(&types.Homework{ID: "h2", Lecture: "nope"})).To(MatchError(types.ErrInvalidInput))
			Expect(d.PutSubmission(&types.Submission{ID: "s2", Homework: "nope", Student: "hopper"})).To(MatchError(types.ErrInvalidInput))
			Expect(d.PutGrade(&types.Grade{ID: "g2", Submission: "nope"})).To(MatchError(types.ErrInvalidInput))
			Expect(d.PutComment(&types.Comment{ID: "c2", Grade: "nope"})).To(MatchError(types.ErrInvalidInput))
		})

		It("should reject entities without ids", func() {
			Expect(d.PutCourse(&types.Course{})).To(MatchError(types.ErrInvalidInput))
			Expect(d.PutCourse(nil)).To(MatchError(types.ErrInvalidInput))
		})
	})

	Context("submission uniqueness", func() {
		It("should reject a second submission for the same homework and student", func() {
			second := types.Submission{ID: "sub2", Homework: "hw1", Student: "hopper"}
			Expect(d.PutSubmission(&second)).To(MatchError(types.ErrDuplicateSubmission))
		})

		It("should accept an update of the same submission", func() {
			updated := submission
			updated.Content = "better answers"
			Expect(d.PutSubmission(&updated)).To(Succeed())
			Expect(d.Submission("sub1")).To(Equal(&updated))
		})

		It("should accept submissions by other students", func() {
			other := types.Submission{ID: "sub2", Homework: "hw1", Student: "curie"}
			Expect(d.PutSubmission(&other)).To(Succeed())
		})

		It("should not let a submission move to another homework or student", func() {
			moved := submission
			moved.Student = "curie"
			Expect(d.PutSubmission(&moved)).To(MatchError(types.ErrInvalidInput))
		})

		It("should free the slot once the submission is deleted", func() {
			Expect(d.DeleteSubmission("sub1")).To(Succeed())
			again := types.Submission{ID: "sub3", Homework: "hw1", Student: "hopper"}
			Expect(d.PutSubmission(&again)).To(Succeed())
		})
	})

	Context("cascading deletes", func() {
		It("should delete the whole chain under a course", func() {
			Expect(d.DeleteCourse("calculus")).To(Succeed())

			for _, check := range []func() error{
				func() error { _, e := d.Course("calculus"); return e },
				func() error { _, e := d.Lecture("limits"); return e },
				func() error { _, e := d.Homework("hw1"); return e },
				func() error { _, e := d.Submission("sub1"); return e },
				func() error { _, e := d.Grade("grade1"); return e },
				func() error { _, e := d.Comment("comment1"); return e },
			} {
				Expect(check()).To(MatchError(types.ErrNotFound))
			}
		})

		It("should delete grades and comments under a submission", func() {
			Expect(d.DeleteSubmission("sub1")).To(Succeed())

			_, e := d.Grade("grade1")
			Expect(e).To(MatchError(types.ErrNotFound))
			_, e = d.Comment("comment1")
			Expect(e).To(MatchError(types.ErrNotFound))

			Expect(d.Homework("hw1")).To(Equal(&homework))
		})

		It("should delete comments under a grade", func() {
			Expect(d.DeleteGrade("grade1")).To(Succeed())

			_, e := d.Comment("comment1")
			Expect(e).To(MatchError(types.ErrNotFound))

			Expect(d.Submission("sub1")).To(Equal(&submission))
		})

		It("should refuse to delete what is not there", func() {
			Expect(d.DeleteCourse("algebra")).To(MatchError(types.ErrNotFound))
			Expect(d.DeleteGrade("nope")).To(MatchError(types.ErrNotFound))
		})
	})

	Context("removing a user", func() {
		It("should drop the user's submissions and comments", func() {
			Expect(d.RemoveUser("hopper")).To(Succeed())

			_, e := d.Submission("sub1")
			Expect(e).To(MatchError(types.ErrNotFound))
			_, e = d.Comment("comment1")
			Expect(e).To(MatchError(types.ErrNotFound))
		})

		It("should keep grades the user authored, with the author cleared", func() {
			Expect(d.RemoveUser("archimedes")).To(Succeed())

			g, e := d.Grade("grade1")
			Expect(e).To(Succeed())
			Expect(g.Teacher).To(BeEmpty())
			Expect(g.Value).To(Equal(90))
		})
	})
})
