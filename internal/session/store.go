package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the single source of truth for the authenticated session. All
// mutations persist the snapshot before the in-memory state is replaced, so
// a crash right after a successful call cannot lose committed state.
type Store struct {
	mu       sync.RWMutex
	current  *Session
	snapshot Snapshot
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore builds a session store over the given snapshot backend.
func NewStore(snapshot Snapshot, logger *slog.Logger) *Store {
	return &Store{
		snapshot: snapshot,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *Store) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Init hydrates the current session from the persisted snapshot. A corrupt
// snapshot is discarded and the store starts unauthenticated; corruption
// never escapes this boundary as an error.
func (s *Store) Init(ctx context.Context) error {
	loaded, err := s.snapshot.Load(ctx)
	switch {
	case err == nil:
		s.mu.Lock()
		s.current = &loaded
		s.mu.Unlock()
		return nil
	case errors.Is(err, ErrNoSnapshot):
		return nil
	case errors.Is(err, ErrCorruptSnapshot):
		s.logger.Warn("discarding corrupt session snapshot")
		if clearErr := s.snapshot.Clear(ctx); clearErr != nil {
			s.logger.Warn("clear corrupt snapshot", "error", clearErr)
		}
		return nil
	default:
		return fmt.Errorf("load session snapshot: %w", err)
	}
}

// Login synthesizes a new session from the supplied enrollment values and
// makes it current. No external verification happens here; that is the
// demonstration boundary of this system.
func (s *Store) Login(ctx context.Context, phone, identityNumber, profileImage string) (Session, error) {
	return s.commit(ctx, phone, identityNumber, "", profileImage)
}

// Signup behaves like Login but always records a display name.
func (s *Store) Signup(ctx context.Context, phone, identityNumber, displayName, profileImage string) (Session, error) {
	return s.commit(ctx, phone, identityNumber, displayName, profileImage)
}

func (s *Store) commit(ctx context.Context, phone, identityNumber, displayName, profileImage string) (Session, error) {
	if phone == "" {
		return Session{}, errors.New("phone number is required")
	}
	if identityNumber == "" {
		identityNumber = PlaceholderIdentityNumber
	}

	now := s.now().UTC()
	next := Session{
		ID:             uuid.NewString(),
		PhoneNumber:    phone,
		IdentityNumber: identityNumber,
		DisplayName:    displayName,
		ProfileImage:   profileImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.snapshot.Save(ctx, next); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = &next
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", next.ID, "phone", next.PhoneNumber)
	return next, nil
}

// UpdateProfile shallow-merges the given fields into the current session:
// set fields overwrite, nil fields keep their prior value. Without an
// active session it is a no-op.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (Session, error) {
	s.mu.RLock()
	if s.current == nil {
		s.mu.RUnlock()
		return Session{}, nil
	}
	merged := *s.current
	s.mu.RUnlock()

	if update.DisplayName != nil {
		merged.DisplayName = *update.DisplayName
	}
	if update.ProfileImage != nil {
		merged.ProfileImage = *update.ProfileImage
	}
	merged.UpdatedAt = s.now().UTC()

	if err := s.snapshot.Save(ctx, merged); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = &merged
	s.mu.Unlock()

	return merged, nil
}

// Logout clears the current session and removes the persisted snapshot.
// Logging out with no active session is not an error.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.snapshot.Clear(ctx); err != nil {
		return fmt.Errorf("clear session snapshot: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.logger.Info("session cleared")
	return nil
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session is currently held.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}
