package types_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/supremind/courseauth/types"
)

var _ = Describe("actor", func() {
	teacher := Actor{ID: "t1", Role: RoleTeacher}
	student := Actor{ID: "s1", Role: RoleStudent}
	unknown := Actor{ID: "u1", Role: Role("proctor")}

	It("denies both roles to the anonymous actor", func() {
		Expect(Anonymous.Authenticated()).To(BeFalse())
		Expect(Anonymous.IsTeacher()).To(BeFalse())
		Expect(Anonymous.IsStudent()).To(BeFalse())
	})

	DescribeTable("roles are mutually exclusive",
		func(a Actor) {
			Expect(a.IsTeacher() && a.IsStudent()).To(BeFalse())
		},
		Entry("teacher", teacher),
		Entry("student", student),
		Entry("unrecognized role", unknown),
		Entry("anonymous", Anonymous),
	)

	It("tests the single held role", func() {
		Expect(teacher.IsTeacher()).To(BeTrue())
		Expect(teacher.IsStudent()).To(BeFalse())
		Expect(student.IsStudent()).To(BeTrue())
		Expect(student.IsTeacher()).To(BeFalse())
		Expect(unknown.IsTeacher()).To(BeFalse())
		Expect(unknown.IsStudent()).To(BeFalse())
	})
})
