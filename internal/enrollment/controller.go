package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blockauth/devocracy/internal/capture"
	"github.com/blockauth/devocracy/internal/session"
)

// Committer materializes a session once the flow succeeds. Satisfied by
// *session.Store; injected so the flow never touches persistence directly.
type Committer interface {
	Login(ctx context.Context, phone, identityNumber, profileImage string) (session.Session, error)
	Signup(ctx context.Context, phone, identityNumber, displayName, profileImage string) (session.Session, error)
}

// Controller drives one enrollment flow through its phases:
// collecting-phone -> verifying-code -> capturing-photo. Its only
// externally visible effect on success is a single Committer call.
type Controller struct {
	mu sync.Mutex

	id             string
	mode           Mode
	phase          Phase
	phone          string
	identityNumber string
	displayName    string
	photo          string
	completed      bool

	expectedCode string
	cooldownDur  time.Duration
	cooldown     *countdown
	dispatcher   CodeDispatcher
	committer    Committer
	logger       *slog.Logger
	now          func() time.Time
	lastActive   time.Time
}

// SubmitPhone validates the phone number, issues a verification code, and
// advances to verifying-code. Invalid input leaves the phase unchanged.
func (c *Controller) SubmitPhone(ctx context.Context, phone string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return ErrFlowCompleted
	}
	if c.phase != PhaseCollectingPhone {
		return ErrInvalidPhase
	}
	if err := ValidatePhone(phone); err != nil {
		return err
	}

	if err := c.dispatcher.Dispatch(ctx, phone, c.expectedCode); err != nil {
		return fmt.Errorf("dispatch code: %w", err)
	}

	c.phone = phone
	c.phase = PhaseVerifyingCode
	c.cooldown.Reset(c.cooldownDur)
	c.logger.Info("enrollment phone accepted", "flow_id", c.id)
	return nil
}

// Resend reissues the verification code. Permitted only in verifying-code
// and only once the cooldown has counted down to zero; a successful resend
// restarts the cooldown at its full duration.
func (c *Controller) Resend(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return ErrFlowCompleted
	}
	if c.phase != PhaseVerifyingCode {
		return ErrInvalidPhase
	}
	if c.cooldown.Remaining() > 0 {
		return ErrCooldownActive
	}

	if err := c.dispatcher.Dispatch(ctx, c.phone, c.expectedCode); err != nil {
		return fmt.Errorf("dispatch code: %w", err)
	}

	c.cooldown.Reset(c.cooldownDur)
	c.logger.Info("verification code resent", "flow_id", c.id)
	return nil
}

// SubmitCode checks the entered code. A mismatch leaves the flow in
// verifying-code; a match advances to capturing-photo and pauses cooldown
// ticking.
func (c *Controller) SubmitCode(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return ErrFlowCompleted
	}
	if c.phase != PhaseVerifyingCode {
		return ErrInvalidPhase
	}
	if code != c.expectedCode {
		return ErrCodeMismatch
	}

	c.phase = PhaseCapturingPhoto
	c.cooldown.Pause()
	c.logger.Info("verification code accepted", "flow_id", c.id)
	return nil
}

// Back steps one phase backwards. From verifying-code the entered code and
// cooldown are discarded; from capturing-photo the existing code issuance
// stands and cooldown ticking resumes. Going back from collecting-phone is
// not a transition.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return ErrFlowCompleted
	}

	switch c.phase {
	case PhaseVerifyingCode:
		c.phase = PhaseCollectingPhone
		c.cooldown.Clear()
		return nil
	case PhaseCapturingPhoto:
		c.phase = PhaseVerifyingCode
		c.cooldown.Resume()
		return nil
	default:
		return ErrInvalidPhase
	}
}

// CapturePhoto acquires the device, snapshots one frame, and stores it for
// confirmation. The device is released on every path, including failures.
// Device acquisition failure surfaces as capture.ErrUnavailable, never as a
// decline.
func (c *Controller) CapturePhoto(ctx context.Context, dev capture.Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return ErrFlowCompleted
	}
	if c.phase != PhaseCapturingPhoto {
		return ErrInvalidPhase
	}

	image, err := capture.Take(ctx, dev)
	if err != nil {
		return err
	}

	c.photo = image
	return nil
}

// RetakePhoto discards the captured image so another capture can replace it.
func (c *Controller) RetakePhoto() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return ErrFlowCompleted
	}
	if c.phase != PhaseCapturingPhoto {
		return ErrInvalidPhase
	}

	c.photo = ""
	return nil
}

// Complete finishes the flow with exactly one Committer call, with the
// captured image unless skip is set. On commit failure the flow stays in
// capturing-photo so the user decides whether to retry.
func (c *Controller) Complete(ctx context.Context, skip bool) (session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.completed {
		return session.Session{}, ErrFlowCompleted
	}
	if c.phase != PhaseCapturingPhoto {
		return session.Session{}, ErrInvalidPhase
	}
	if !skip && c.photo == "" {
		return session.Session{}, ErrNoPhoto
	}

	photo := c.photo
	if skip {
		photo = ""
	}

	var (
		committed session.Session
		err       error
	)
	if c.mode == ModeSignup {
		committed, err = c.committer.Signup(ctx, c.phone, c.identityNumber, c.displayName, photo)
	} else {
		committed, err = c.committer.Login(ctx, c.phone, c.identityNumber, photo)
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("commit session: %w", err)
	}

	c.completed = true
	c.photo = ""
	c.cooldown.Clear()
	c.logger.Info("enrollment completed", "flow_id", c.id, "mode", string(c.mode), "session_id", committed.ID)
	return committed, nil
}

// Abandon tears the flow down: the cooldown stops and no further side
// effects are observable. Idempotent.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return
	}
	c.completed = true
	c.photo = ""
	c.cooldown.Clear()
	c.logger.Info("enrollment abandoned", "flow_id", c.id)
}

// Status returns a read-only view of the flow.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		ID:              c.id,
		Mode:            c.mode,
		Phase:           c.phase,
		PhoneNumber:     c.phone,
		CooldownSeconds: c.cooldown.Remaining(),
		HasPhoto:        c.photo != "",
		Completed:       c.completed,
	}
}

// ID returns the flow identifier.
func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) touch() {
	c.lastActive = c.now()
}

func (c *Controller) expired(now time.Time, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastActive) > ttl
}
