package types_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/supremind/courseauth/types"
)

func TestTypes(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "types test suit")
}

var _ = Describe("action", func() {
	DescribeTable("is in",
		func(a, b Action) {
			Expect(a.IsIn(b)).To(BeTrue())
		},
		Entry("read is in read", Read, Read),
		Entry("read is in all", Read, All),
		Entry("update is in write", Update, Write),
		Entry("delete is in all", Delete, All),
	)

	DescribeTable("is not in",
		func(a, b Action) {
			Expect(a.IsIn(b)).To(BeFalse())
		},
		Entry("read is not in write", Read, Write),
		Entry("create is not in read", Create, Read),
		Entry("write is not in update", Write, Update),
	)

	DescribeTable("split",
		func(joined Action, splitted []interface{}) {
			Expect(joined.Split()).To(ConsistOf(splitted...))
		},
		Entry("read only", Read, []interface{}{Read}),
		Entry("write", Write, []interface{}{Create, Update, Delete}),
		Entry("all", All, []interface{}{Read, Create, Update, Delete}),
	)

	DescribeTable("safety",
		func(a Action, safe bool) {
			Expect(a.IsSafe()).To(Equal(safe))
		},
		Entry("read is safe", Read, true),
		Entry("create is unsafe", Create, false),
		Entry("update is unsafe", Update, false),
		Entry("delete is unsafe", Delete, false),
		Entry("write is unsafe", Write, false),
	)
})
