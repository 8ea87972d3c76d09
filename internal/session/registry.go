// Package session maps opaque login tokens to player identities. Tokens are
// minted at login and live for the process lifetime; a player may hold any
// number of concurrent sessions.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned when a token is unknown.
var ErrUnauthorized = errors.New("unauthorized")

// Session ties a token to the identity it was issued for.
type Session struct {
	Token     string
	Username  string
	IsAdmin   bool
	CreatedAt time.Time
}

// Registry owns all live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]Session{},
	}
}

// Create mints an unguessable token for the given identity.
func (r *Registry) Create(username string, isAdmin bool) string {
	s := Session{
		Token:     uuid.NewString(),
		Username:  username,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.sessions[s.Token] = s
	r.mu.Unlock()

	return s.Token
}

// Resolve looks up the identity behind a token.
func (r *Registry) Resolve(token string) (Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()

	if !ok {
		return Session{}, fmt.Errorf("%w: unknown session token", ErrUnauthorized)
	}
	return s, nil
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
