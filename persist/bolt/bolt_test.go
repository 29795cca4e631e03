package bolt

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/supremind/courseauth/persist/test"
)

func TestBoltPersister(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bolt persister")
}

var ctx = context.Background()

var _ = func() bool {
	dir, e := ioutil.TempDir("", "bolt-roster")
	if e != nil {
		panic(e)
	}

	p, e := NewRoster(ctx, filepath.Join(dir, "roster.db"))
	if e != nil {
		panic(e)
	}

	return test.RosterPersisterTestCases(ctx, "bolt roster persister", p)
}()
