package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session id has no stored state,
// either because it never existed or because it expired.
var ErrNotFound = errors.New("session not found")

// Store persists call sessions between turns.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
