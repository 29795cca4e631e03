package mgo

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/globalsign/mgo"
	"github.com/go-logr/stdr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/supremind/courseauth/persist/test"
)

func TestPersisters(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "mgo persisters")
}

const (
	dbName = "test-db"
	testDB = "mongodb://localhost:27017/test-db"
)

var (
	db  *mgo.Database
	ctx = context.Background()
)

// the cases need a running mongodb replica set; they are skipped when none
// is listening on localhost
var _ = func() bool {
	ss, e := mgo.DialWithTimeout(testDB, 2*time.Second)
	if e != nil {
		fmt.Fprintln(os.Stderr, "mongodb not reachable, mgo persister cases skipped:", e)
		return false
	}
	db = ss.DB(dbName)
	db.C("roster").RemoveAll(nil)

	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	stdr.SetVerbosity(6)

	rp, e := NewRoster(db.C("roster"), WithLogger(logger.WithName("roster persister")), SetRetryTimeout(100*time.Millisecond))
	if e != nil {
		fmt.Fprintln(os.Stderr, "init mgo roster persister failed, cases skipped:", e)
		return false
	}

	return test.RosterPersisterTestCases(ctx, "mgo roster persister", rp)
}()

var _ = AfterSuite(func() {
	if db != nil {
		db.C("roster").RemoveAll(nil)
	}
})
