package session

import (
	"context"
	"errors"
)

var (
	// ErrNoSnapshot indicates no persisted session exists.
	ErrNoSnapshot = errors.New("no session snapshot")
	// ErrCorruptSnapshot indicates a persisted session exists but cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt session snapshot")
)

// Snapshot persists the single current-session record across restarts.
type Snapshot interface {
	// Load returns the persisted session, ErrNoSnapshot when none exists,
	// or ErrCorruptSnapshot when the stored record cannot be decoded.
	Load(ctx context.Context) (Session, error)
	// Save replaces the persisted session.
	Save(ctx context.Context, s Session) error
	// Clear removes the persisted session. Clearing an absent snapshot is
	// not an error.
	Clear(ctx context.Context) error
}
