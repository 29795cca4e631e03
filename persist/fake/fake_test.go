package fake_test

import (
	"context"
	"testing"

	. "github.com/supremind/courseauth/persist/fake"
	. "github.com/supremind/courseauth/persist/test"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestFakePersister(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "fake persisters")
}

var ctx = context.Background()

var _ = RosterPersisterTestCases(ctx, "fake roster persister", NewRosterPersister(ctx))
