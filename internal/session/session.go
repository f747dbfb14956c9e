// Package session defines the boundary to the external auth subsystem.
// The data service never caches identities or credentials; it calls
// through the Accessor on every authorization check.
package session

import (
	"context"
	"errors"
	"os"
)

// ErrNoSession is returned when no identity is authenticated
var ErrNoSession = errors.New("no active session")

// Identity is the authenticated principal for the current session. It is
// distinct from a Profile: the profile is the user-facing record keyed by
// the identity ID.
type Identity struct {
	ID    string
	Email string
}

// Accessor exposes the current authenticated identity and bearer
// credential. Implementations are owned by the auth subsystem.
type Accessor interface {
	// Identity returns the current identity, or ErrNoSession when
	// unauthenticated.
	Identity(ctx context.Context) (*Identity, error)

	// BearerToken returns the bearer credential for the current session,
	// or ErrNoSession when unauthenticated.
	BearerToken(ctx context.Context) (string, error)
}

// Static is an Accessor with a fixed identity and token. Useful for tests
// and for tooling that acts as a single principal.
type Static struct {
	identity *Identity
	token    string
}

// NewStatic creates a static accessor. A nil identity models an
// unauthenticated session.
func NewStatic(identity *Identity, token string) *Static {
	return &Static{identity: identity, token: token}
}

// Identity returns the fixed identity
func (s *Static) Identity(ctx context.Context) (*Identity, error) {
	if s.identity == nil {
		return nil, ErrNoSession
	}
	return s.identity, nil
}

// BearerToken returns the fixed token
func (s *Static) BearerToken(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}

// FromEnv builds a static accessor from PLUME_SESSION_IDENTITY and
// PLUME_SESSION_TOKEN. Returns an unauthenticated accessor when the
// variables are unset.
func FromEnv() *Static {
	id := os.Getenv("PLUME_SESSION_IDENTITY")
	token := os.Getenv("PLUME_SESSION_TOKEN")
	if id == "" {
		return NewStatic(nil, token)
	}
	return NewStatic(&Identity{ID: id, Email: os.Getenv("PLUME_SESSION_EMAIL")}, token)
}
