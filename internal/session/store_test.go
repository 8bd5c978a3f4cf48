package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blockauth/devocracy/internal/logging"
)

type fakeSnapshot struct {
	stored   *Session
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func (f *fakeSnapshot) Load(_ context.Context) (Session, error) {
	if f.loadErr != nil {
		return Session{}, f.loadErr
	}
	if f.stored == nil {
		return Session{}, ErrNoSnapshot
	}
	return *f.stored, nil
}

func (f *fakeSnapshot) Save(_ context.Context, s Session) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := s
	f.stored = &copied
	return nil
}

func (f *fakeSnapshot) Clear(_ context.Context) error {
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.stored = nil
	return nil
}

func newTestStore(snap Snapshot) *Store {
	store := NewStore(snap, logging.Discard())
	store.WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) })
	return store
}

func TestInitHydratesFromSnapshot(t *testing.T) {
	snap := &fakeSnapshot{stored: &Session{ID: "abc", PhoneNumber: "9876543210", IdentityNumber: "123456789012"}}
	store := newTestStore(snap)

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated after hydration")
	}
	current, _ := store.Current()
	if current.PhoneNumber != "9876543210" {
		t.Fatalf("unexpected phone %q", current.PhoneNumber)
	}
}

func TestInitCorruptSnapshotDegradesToUnauthenticated(t *testing.T) {
	snap := &fakeSnapshot{loadErr: ErrCorruptSnapshot}
	store := newTestStore(snap)

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("corrupt snapshot must not error past init: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("expected unauthenticated after corrupt snapshot")
	}
	if snap.clears != 1 {
		t.Fatalf("expected corrupt snapshot to be cleared once, got %d", snap.clears)
	}
}

func TestLoginPersistsBeforeCommit(t *testing.T) {
	snap := &fakeSnapshot{}
	store := newTestStore(snap)

	created, err := store.Login(context.Background(), "9876543210", "123456789012", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}
	if snap.stored == nil || snap.stored.ID != created.ID {
		t.Fatal("expected snapshot to hold the new session")
	}
	if !store.IsAuthenticated() {
		t.Fatal("expected authenticated after login")
	}
}

func TestLoginPersistFailureLeavesPriorState(t *testing.T) {
	snap := &fakeSnapshot{stored: &Session{ID: "prior", PhoneNumber: "9000000000", IdentityNumber: "123456789012"}}
	store := newTestStore(snap)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	snap.saveErr = errors.New("disk full")
	if _, err := store.Login(context.Background(), "9876543210", "123456789012", ""); err == nil {
		t.Fatal("expected persist failure to surface")
	}

	current, ok := store.Current()
	if !ok || current.ID != "prior" {
		t.Fatalf("expected prior session intact, got %+v ok=%v", current, ok)
	}
}

func TestLoginWithoutIdentityNumberUsesPlaceholder(t *testing.T) {
	store := newTestStore(&fakeSnapshot{})

	created, err := store.Login(context.Background(), "9876543210", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if created.IdentityNumber != PlaceholderIdentityNumber {
		t.Fatalf("expected placeholder identity number, got %q", created.IdentityNumber)
	}
}

func TestSignupRecordsDisplayName(t *testing.T) {
	store := newTestStore(&fakeSnapshot{})

	created, err := store.Signup(context.Background(), "9876543210", "123456789012", "Asha", "")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.DisplayName != "Asha" {
		t.Fatalf("expected display name, got %q", created.DisplayName)
	}
}

func TestUpdateProfileMergesWithoutDiscardingFields(t *testing.T) {
	store := newTestStore(&fakeSnapshot{})

	if _, err := store.Login(context.Background(), "9876543210", "123456789012", ""); err != nil {
		t.Fatalf("login: %v", err)
	}

	name := "X"
	merged, err := store.UpdateProfile(context.Background(), ProfileUpdate{DisplayName: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if merged.DisplayName != "X" {
		t.Fatalf("expected merged display name, got %q", merged.DisplayName)
	}
	if merged.PhoneNumber != "9876543210" || merged.IdentityNumber != "123456789012" {
		t.Fatalf("unspecified fields must be retained, got %+v", merged)
	}
}

func TestUpdateProfileWithoutSessionIsNoop(t *testing.T) {
	snap := &fakeSnapshot{}
	store := newTestStore(snap)

	name := "X"
	if _, err := store.UpdateProfile(context.Background(), ProfileUpdate{DisplayName: &name}); err != nil {
		t.Fatalf("update without session must not error: %v", err)
	}
	if snap.saves != 0 {
		t.Fatalf("expected no snapshot write, got %d", snap.saves)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	snap := &fakeSnapshot{}
	store := newTestStore(snap)

	if _, err := store.Login(context.Background(), "9876543210", "123456789012", ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("expected unauthenticated after logout")
	}
	if snap.stored != nil {
		t.Fatal("expected snapshot removed on logout")
	}

	// A second logout with no active session is still fine.
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
}

func TestMaskIdentityNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123456789012", "1234****9012"},
		{"12345678", "********"},
		{"123", "***"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskIdentityNumber(tc.in); got != tc.want {
			t.Errorf("MaskIdentityNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
