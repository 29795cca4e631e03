// Package courseauth decides who may see and do what across a course
// hierarchy: courses own lectures, lectures own homeworks, homeworks collect
// submissions, submissions get grades, grades get comments.
//
// Teachers of a course manage it and see all work in it. Students enrolled
// in a course see its structure, but only their own submissions, grades, and
// comments. Anyone else, including anonymous callers, is denied.
package courseauth

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/supremind/courseauth/internal/authorizer"
	"github.com/supremind/courseauth/internal/directory"
	"github.com/supremind/courseauth/internal/roster"
	"github.com/supremind/courseauth/internal/visibility"
	"github.com/supremind/courseauth/types"
)

// New creates an Authorizer
func New(ctx context.Context, opts ...AuthorizerOption) (types.Authorizer, error) {
	cfg := &AuthorizerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.log == nil {
		cfg.log = stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	}

	var r types.Roster
	if cfg.rp != nil {
		var e error
		r, e = roster.New(ctx, cfg.rp, cfg.log.WithName("roster"))
		if e != nil {
			return nil, fmt.Errorf("init roster failed: %w", e)
		}
	} else {
		r = roster.NewVolatile()
	}

	store := cfg.store
	if store == nil {
		store = directory.New()
	}

	view := visibility.New(store, r, cfg.log.WithName("visibility"))
	authz := authorizer.New(store, r, view, cfg.log.WithName("authorizer"), cfg.opaque)

	return authz, nil
}

// WithRosterPersister sets the Persister backing course membership sets.
// All memberships are lost after restart if not set.
func WithRosterPersister(p types.RosterPersister) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.rp = p
	}
}

// WithEntityStore sets the entity storage collaborator.
// An in-memory store is used if not set.
func WithEntityStore(s types.EntityStore) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.store = s
	}
}

// WithOpaqueDenials makes denials of objects outside the actor's visible
// scope read as not-found instead of forbidden, so probing ids discloses
// nothing about other students' work
func WithOpaqueDenials() AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.opaque = true
	}
}

// WithLogger sets logger for courseauth components
func WithLogger(l logr.Logger) AuthorizerOption {
	return func(cfg *AuthorizerConfig) {
		cfg.log = l
	}
}

// AuthorizerConfig works together with AuthorizerOption to control the initialization of authorizer
type AuthorizerConfig struct {
	rp     types.RosterPersister
	store  types.EntityStore
	opaque bool
	log    logr.Logger
}

// AuthorizerOption controls how to init an authorizer
type AuthorizerOption func(*AuthorizerConfig)
