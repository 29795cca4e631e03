// Package filter wraps persisters to drop self-made changes echoed back on
// the watch feed, so a persisted roster does not apply its own writes twice.
package filter

import (
	"context"
	"sync"

	"github.com/supremind/courseauth/types"
)

var _ types.RosterPersister = (*rosterPersisterFilter)(nil)

type rosterPersisterFilter struct {
	types.RosterPersister
	mu      sync.Mutex
	pending map[types.RosterChange]int
}

// NewRosterPersister checks if incoming changes on the watch feed were made
// through this wrapper, and does not deliver them again if so
func NewRosterPersister(p types.RosterPersister) types.RosterPersister {
	return &rosterPersisterFilter{
		RosterPersister: p,
		pending:         make(map[types.RosterChange]int),
	}
}

// Insert inserts a policy to the persister
func (f *rosterPersisterFilter) Insert(entry types.RosterEntry) error {
	change := types.RosterChange{RosterEntry: entry, Method: types.PersistInsert}

	f.mark(change)
	if e := f.RosterPersister.Insert(entry); e != nil {
		f.unmark(change)
		return e
	}
	return nil
}

// Remove a policy from the persister
func (f *rosterPersisterFilter) Remove(entry types.RosterEntry) error {
	change := types.RosterChange{RosterEntry: entry, Method: types.PersistDelete}

	f.mark(change)
	if e := f.RosterPersister.Remove(entry); e != nil {
		f.unmark(change)
		return e
	}
	return nil
}

// Watch delivers changes made by others only
func (f *rosterPersisterFilter) Watch(ctx context.Context) (<-chan types.RosterChange, error) {
	inner, e := f.RosterPersister.Watch(ctx)
	if e != nil {
		return nil, e
	}

	changes := make(chan types.RosterChange)
	go func() {
		defer close(changes)

		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-inner:
				if !ok {
					return
				}
				if f.made(change) {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case changes <- change:
				}
			}
		}
	}()

	return changes, nil
}

func (f *rosterPersisterFilter) mark(change types.RosterChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[change]++
}

func (f *rosterPersisterFilter) unmark(change types.RosterChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unmarkLocked(change)
}

func (f *rosterPersisterFilter) made(change types.RosterChange) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[change] == 0 {
		return false
	}
	f.unmarkLocked(change)
	return true
}

func (f *rosterPersisterFilter) unmarkLocked(change types.RosterChange) {
	if f.pending[change] <= 1 {
		delete(f.pending, change)
		return
	}
	f.pending[change]--
}
