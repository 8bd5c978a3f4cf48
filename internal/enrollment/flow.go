package enrollment

import "errors"

// Phase identifies progress through the phone -> code -> photo sequence.
type Phase string

const (
	PhaseCollectingPhone Phase = "collecting-phone"
	PhaseVerifyingCode   Phase = "verifying-code"
	PhaseCapturingPhoto  Phase = "capturing-photo"
)

// Mode distinguishes a returning login from a first-time registration.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

var (
	// ErrCodeMismatch indicates the submitted code does not match the issued one.
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrCooldownActive indicates resend was requested before the cooldown expired.
	ErrCooldownActive = errors.New("resend cooldown active")
	// ErrInvalidPhase indicates the action is not valid in the current phase.
	ErrInvalidPhase = errors.New("action not valid in current phase")
	// ErrFlowCompleted indicates the flow already finished or was abandoned.
	ErrFlowCompleted = errors.New("enrollment flow completed")
	// ErrFlowNotFound indicates no active flow exists for the given id.
	ErrFlowNotFound = errors.New("enrollment flow not found")
	// ErrDisplayNameRequired indicates a signup flow was started without a name.
	ErrDisplayNameRequired = errors.New("display name is required")
	// ErrNoPhoto indicates confirmation was requested with no captured photo.
	ErrNoPhoto = errors.New("no photo captured")
)

// Status is a read-only view of a flow for callers and transports.
type Status struct {
	ID              string
	Mode            Mode
	Phase           Phase
	PhoneNumber     string
	CooldownSeconds int
	HasPhoto        bool
	Completed       bool
}
