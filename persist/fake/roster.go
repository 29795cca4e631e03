// Package fake provides an in-memory persister for tests and examples.
package fake

import (
	"context"
	"sync"

	"github.com/supremind/courseauth/types"
)

var _ types.RosterPersister = (*rosterPersister)(nil)

type rosterPersister struct {
	mu      sync.Mutex
	entries map[types.RosterEntry]struct{}
	changes chan types.RosterChange
}

// NewRosterPersister creates an in-memory roster persister, preloaded with
// the given entries
func NewRosterPersister(ctx context.Context, init ...types.RosterEntry) *rosterPersister {
	p := &rosterPersister{
		entries: make(map[types.RosterEntry]struct{}, len(init)),
		changes: make(chan types.RosterChange),
	}

	for _, entry := range init {
		p.entries[entry] = struct{}{}
	}

	go func() {
		<-ctx.Done()
		close(p.changes)
	}()

	return p
}

// Insert inserts a policy to the persister.
// Inserting a present entry is a no-op and emits no change.
func (p *rosterPersister) Insert(entry types.RosterEntry) error {
	p.mu.Lock()
	if _, ok := p.entries[entry]; ok {
		p.mu.Unlock()
		return nil
	}
	p.entries[entry] = struct{}{}
	p.mu.Unlock()

	p.changes <- types.RosterChange{RosterEntry: entry, Method: types.PersistInsert}
	return nil
}

// Remove a policy from the persister.
// Removing an absent entry is a no-op and emits no change.
func (p *rosterPersister) Remove(entry types.RosterEntry) error {
	p.mu.Lock()
	if _, ok := p.entries[entry]; !ok {
		p.mu.Unlock()
		return nil
	}
	delete(p.entries, entry)
	p.mu.Unlock()

	p.changes <- types.RosterChange{RosterEntry: entry, Method: types.PersistDelete}
	return nil
}

// List all policies from the persister
func (p *rosterPersister) List() ([]types.RosterEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := make([]types.RosterEntry, 0, len(p.entries))
	for entry := range p.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

// Watch any changes occurred about the policies in the persister
func (p *rosterPersister) Watch(ctx context.Context) (<-chan types.RosterChange, error) {
	return p.changes, nil
}
