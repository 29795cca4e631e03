// Package test provides shared cases every RosterPersister implementation
// must pass.
package test

import (
	"context"
	"fmt"

	"github.com/supremind/courseauth/types"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// RosterPersisterTestCases registers the shared persister cases against p
func RosterPersisterTestCases(ctx context.Context, name string, p types.RosterPersister) bool {
	return Describe(name, func() {
		insertEntries := []types.RosterEntry{
			{Course: "calculus", User: "archimedes", Role: types.RoleTeacher},
			{Course: "calculus", User: "newton", Role: types.RoleTeacher},
			{Course: "calculus", User: "hopper", Role: types.RoleStudent},
			{Course: "physics", User: "newton", Role: types.RoleTeacher},
			{Course: "physics", User: "curie", Role: types.RoleStudent},
		}
		removeEntries := []types.RosterEntry{
			{Course: "calculus", User: "newton", Role: types.RoleTeacher},
			{Course: "physics", User: "curie", Role: types.RoleStudent},
		}

		changes := make([]types.RosterChange, 0, len(insertEntries)+len(removeEntries))
		for _, entry := range insertEntries {
			changes = append(changes, types.RosterChange{RosterEntry: entry, Method: types.PersistInsert})
		}
		for _, entry := range removeEntries {
			changes = append(changes, types.RosterChange{RosterEntry: entry, Method: types.PersistDelete})
		}

		It("should persist roster entries", func() {
			By("start watching roster changes")
			w, e := p.Watch(ctx)
			Expect(e).To(Succeed())

			go func() {
				defer GinkgoRecover()

				for _, entry := range insertEntries {
					By(fmt.Sprintf("insert %v", entry))
					Expect(p.Insert(entry)).To(Succeed())
				}
				for _, entry := range removeEntries {
					By(fmt.Sprintf("remove %v", entry))
					Expect(p.Remove(entry)).To(Succeed())
				}

				By("insert a present entry and remove an absent one: no-ops, no changes")
				Expect(p.Insert(insertEntries[0])).To(Succeed())
				Expect(p.Remove(removeEntries[0])).To(Succeed())
			}()

			By("observe changes in sequence")
			for _, change := range changes {
				By(fmt.Sprintf("should observe %v", change))
				got, ok := <-w
				Expect(ok).To(BeTrue())
				Expect(got).To(Equal(change))
			}

			By("after that, should not observe any changes more")
			Consistently(w).ShouldNot(Receive())

			By("list all entries remained")
			Expect(p.List()).To(ConsistOf(
				insertEntries[0], insertEntries[2], insertEntries[3],
			))
		})
	})
}
