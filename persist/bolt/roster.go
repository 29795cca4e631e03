// Package bolt persists course rosters to a local bbolt file. Bolt has no
// change streams, so the persister feeds its own mutations to watchers; it
// suits single-process deployments wanting durable rosters without a
// database server.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"go.etcd.io/bbolt"

	"github.com/supremind/courseauth/types"
)

var _ types.RosterPersister = (*RosterPersister)(nil)

var rosterBucket = []byte("roster")

// RosterPersister is a types.RosterPersister backed by a bbolt file
type RosterPersister struct {
	db  *bbolt.DB
	log logr.Logger

	// serializes the present-check against the put, so inserting a present
	// entry emits nothing
	mu      sync.Mutex
	changes chan types.RosterChange
}

// NewRoster opens (or creates) the bbolt file at path and persists roster
// entries in it. The change feed is closed when ctx is done.
func NewRoster(ctx context.Context, path string, opts ...rosterOption) (*RosterPersister, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(rosterBucket)
		return e
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	p := &RosterPersister{
		db:      db,
		log:     logr.Discard(),
		changes: make(chan types.RosterChange),
	}
	for _, opt := range opts {
		opt(p)
	}

	go func() {
		<-ctx.Done()
		close(p.changes)
		db.Close()
	}()

	return p, nil
}

// rosterOption controls how to init a bolt roster persister
type rosterOption func(*RosterPersister)

// WithLogger sets logger for the persister
func WithLogger(log logr.Logger) rosterOption {
	return func(p *RosterPersister) {
		p.log = log
	}
}

func entryKey(entry types.RosterEntry) []byte {
	return []byte(fmt.Sprintf("%s#%s#%s", entry.Course, entry.Role, entry.User))
}

// Insert a roster entry to the persister.
// Inserting a present entry changes nothing and emits no change.
func (p *RosterPersister) Insert(entry types.RosterEntry) error {
	p.mu.Lock()

	inserted := false
	err := p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(rosterBucket)
		key := entryKey(entry)
		if b.Get(key) != nil {
			return nil
		}

		value, e := json.Marshal(entry)
		if e != nil {
			return e
		}
		inserted = true
		return b.Put(key, value)
	})
	p.mu.Unlock()
	if err != nil || !inserted {
		return err
	}

	p.log.V(4).Info("insert roster entry", "entry", entry)
	p.changes <- types.RosterChange{RosterEntry: entry, Method: types.PersistInsert}
	return nil
}

// Remove a roster entry from the persister.
// Removing an absent entry changes nothing and emits no change.
func (p *RosterPersister) Remove(entry types.RosterEntry) error {
	p.mu.Lock()

	removed := false
	err := p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(rosterBucket)
		key := entryKey(entry)
		if b.Get(key) == nil {
			return nil
		}

		removed = true
		return b.Delete(key)
	})
	p.mu.Unlock()
	if err != nil || !removed {
		return err
	}

	p.log.V(4).Info("remove roster entry", "entry", entry)
	p.changes <- types.RosterChange{RosterEntry: entry, Method: types.PersistDelete}
	return nil
}

// List all roster entries from the persister
func (p *RosterPersister) List() ([]types.RosterEntry, error) {
	entries := make([]types.RosterEntry, 0)

	err := p.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(rosterBucket).ForEach(func(_, value []byte) error {
			var entry types.RosterEntry
			if e := json.Unmarshal(value, &entry); e != nil {
				return e
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	p.log.V(4).Info("list roster entries", "entries", entries)

	return entries, nil
}

// Watch changes occurred about the roster entries in the persister.
// Only changes made through this persister instance are observed.
func (p *RosterPersister) Watch(ctx context.Context) (<-chan types.RosterChange, error) {
	return p.changes, nil
}
