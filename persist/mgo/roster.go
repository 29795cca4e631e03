// Package mgo persists course rosters to mongodb, and feeds membership
// changes made by other replicas back through mongo change streams.
package mgo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/go-logr/logr"

	"github.com/supremind/courseauth/types"
)

// RosterPersister is a types.RosterPersister backed by mongodb
type RosterPersister struct {
	*collection
}

// NewRoster uses the given mongodb collection as backend to persist roster entries
func NewRoster(coll *mgo.Collection, opts ...collectionOption) (*RosterPersister, error) {
	c := &RosterPersister{&collection{
		Collection:   coll,
		log:          logr.Discard(),
		retryTimeout: defaultRetryTimeout,
	}}
	for _, opt := range opts {
		opt(c.collection)
	}

	ss := c.copySession()
	defer ss.closeSession()

	if e := ss.EnsureIndex(mgo.Index{Key: []string{"course", "role"}}); e != nil {
		return nil, e
	}

	return c, nil
}

// one document per roster entry: the _id carries the whole entry so delete
// events, which come with the document key only, can be parsed back
type rosterEntryDO struct {
	ID     string         `bson:"_id"`
	Course types.CourseID `bson:"course"`
	User   types.UserID   `bson:"user"`
	Role   types.Role     `bson:"role"`
}

func newRosterEntryDO(entry types.RosterEntry) *rosterEntryDO {
	do := &rosterEntryDO{
		Course: entry.Course,
		User:   entry.User,
		Role:   entry.Role,
	}
	do.ID = do.id()
	return do
}

func (do *rosterEntryDO) id() string {
	return fmt.Sprintf("%s#%s#%s", do.Course, do.Role, do.User)
}

func (do *rosterEntryDO) parseID(id string) error {
	parts := strings.SplitN(id, "#", 3)
	if len(parts) < 3 {
		return fmt.Errorf("invalid roster entry id: %s", id)
	}

	do.Course = types.CourseID(parts[0])
	do.Role = types.Role(parts[1])
	do.User = types.UserID(parts[2])

	switch do.Role {
	case types.RoleTeacher, types.RoleStudent:
	default:
		return fmt.Errorf("invalid role in roster entry id: %s", id)
	}

	return nil
}

func (do *rosterEntryDO) asRosterEntry() types.RosterEntry {
	return types.RosterEntry{
		Course: do.Course,
		User:   do.User,
		Role:   do.Role,
	}
}

// Insert a roster entry to the persister.
// Inserting a present entry changes nothing and emits no change.
func (p *RosterPersister) Insert(entry types.RosterEntry) error {
	ss := p.copySession()
	defer ss.closeSession()

	do := newRosterEntryDO(entry)
	p.log.V(4).Info("insert roster entry", "entry", do)

	if e := ss.Insert(do); e != nil {
		if mgo.IsDup(e) {
			return nil
		}
		return parseMgoError(e)
	}
	return nil
}

// Remove a roster entry from the persister.
// Removing an absent entry changes nothing and emits no change.
func (p *RosterPersister) Remove(entry types.RosterEntry) error {
	ss := p.copySession()
	defer ss.closeSession()

	do := newRosterEntryDO(entry)
	p.log.V(4).Info("remove roster entry", "entry", do)

	if e := ss.RemoveId(do.ID); e != nil {
		if errors.Is(e, mgo.ErrNotFound) {
			return nil
		}
		return parseMgoError(e)
	}
	return nil
}

// List all roster entries from the persister
func (p *RosterPersister) List() ([]types.RosterEntry, error) {
	ss := p.copySession()
	defer ss.closeSession()

	iter := ss.Find(nil).Iter()
	defer iter.Close()

	entries := make([]types.RosterEntry, 0)
	var do rosterEntryDO
	for iter.Next(&do) {
		entries = append(entries, do.asRosterEntry())
		do = rosterEntryDO{}
	}
	if e := iter.Err(); e != nil {
		return nil, e
	}

	p.log.V(4).Info("list roster entries", "entries", entries)

	return entries, nil
}

type rosterChangeEvent struct {
	OperationType changeStreamOperationType `bson:"operationType,omitempty"`
	FullDocument  rosterEntryDO             `bson:"fullDocument,omitempty"`
	DocumentKey   struct {
		ID string `bson:"_id,omitempty"`
	} `bson:"documentKey,omitempty"`
}

// Watch any changes occurred about the roster entries in the persister
func (p *RosterPersister) Watch(ctx context.Context) (<-chan types.RosterChange, error) {
	// test connection
	cs, closer, e := p.connectToWatch(nil)
	if e != nil {
		return nil, e
	}
	firstConnection := true

	changes := make(chan types.RosterChange)

	go func() {
		defer close(changes)

		for {
			select {
			case <-ctx.Done():
				return

			default:
				var token *bson.Raw
				if !firstConnection {
					cs, closer, e = p.connectToWatch(token)
					if e != nil {
						p.log.Error(e, "failed to connect")
						time.Sleep(p.retryTimeout)
						continue
					}
				}

				firstConnection = false
				e := p.watch(ctx, cs, changes)
				if e != nil {
					p.log.Error(e, "fetch event change failed, reconnect later")
				}
				token = cs.ResumeToken()
				closer()
				p.log.V(4).Info("change stream closed", "token", token)
				time.Sleep(p.retryTimeout)
			}
		}
	}()

	return changes, nil
}

func (p *RosterPersister) watch(ctx context.Context, cs *mgo.ChangeStream, changes chan<- types.RosterChange) error {
	for {
		var event rosterChangeEvent
		if cs.Next(&event) {
			var change types.RosterChange
			p.log.V(6).Info("change event", "id", event.DocumentKey.ID, "event", event)

			switch event.OperationType {
			case insert:
				change.Method = types.PersistInsert
				change.RosterEntry = event.FullDocument.asRosterEntry()

			case delete:
				// no full document comes with a deletion, parse it from the key
				change.Method = types.PersistDelete
				do := rosterEntryDO{}
				if e := do.parseID(event.DocumentKey.ID); e != nil {
					p.log.Error(e, "parse roster entry in change event", "id", event.DocumentKey.ID)
					continue
				}
				change.RosterEntry = do.asRosterEntry()

			default:
				p.log.Info("unknown event", "operation type", event.OperationType)
				continue
			}

			p.log.V(4).Info("got roster change event", "change", change)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case changes <- change:
			}
		}

		if e := cs.Err(); e != nil {
			if errors.Is(e, mgo.ErrNotFound) {
				p.log.V(2).Info("watch found nothing, retry later")
				time.Sleep(p.retryTimeout)
				continue
			}

			return e
		}
	}
}
