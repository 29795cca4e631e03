package roster

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/supremind/courseauth/types"
)

// New creates a concurrent safe, persisted roster
func New(ctx context.Context, p types.RosterPersister, l logr.Logger) (types.Roster, error) {
	return newPersistedRoster(ctx, newSyncedRoster(newSlimRoster()), p, l)
}

// NewVolatile creates a concurrent safe, in-memory only roster.
// All memberships are lost on restart.
func NewVolatile() types.Roster {
	return newSyncedRoster(newSlimRoster())
}
