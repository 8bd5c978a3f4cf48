package enrollment

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures flow construction.
type Options struct {
	// ExpectedCode is the fixed verification code every flow compares
	// against. A demonstration simplification, not a security boundary.
	ExpectedCode string
	// Cooldown is the resend cooldown duration, reset on every issuance.
	Cooldown time.Duration
	// TTL bounds how long an idle flow survives before it is treated as
	// abandoned.
	TTL time.Duration
	// TickEvery overrides the cooldown tick interval, for tests.
	TickEvery time.Duration
	// OnCooldownTick, when set, observes each cooldown tick. It runs on
	// the tick goroutine, which teardown waits for, so it must not call
	// back into the flow.
	OnCooldownTick func(flowID string, remaining int)
	// Clock overrides the time source, for tests.
	Clock func() time.Time
}

// StartRequest carries the values collected before the flow begins.
type StartRequest struct {
	Mode Mode
	// DisplayName is required for signup flows.
	DisplayName string
	// IdentityNumber is required for signup flows and optional for login
	// flows, where a placeholder is recorded when absent.
	IdentityNumber string
}

// Manager owns the active enrollment flows, keyed by flow id. Idle flows
// expire lazily after the TTL; expiry and explicit abandonment both stop the
// flow's cooldown.
type Manager struct {
	mu    sync.RWMutex
	flows map[string]*Controller

	opts       Options
	dispatcher CodeDispatcher
	committer  Committer
	logger     *slog.Logger
	now        func() time.Time
}

// NewManager builds a flow manager.
func NewManager(opts Options, dispatcher CodeDispatcher, committer Committer, logger *slog.Logger) *Manager {
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Manager{
		flows:      make(map[string]*Controller),
		opts:       opts,
		dispatcher: dispatcher,
		committer:  committer,
		logger:     logger,
		now:        now,
	}
}

// Start creates a new flow in collecting-phone. Signup flows must supply a
// display name and a valid identity number up front; login flows may supply
// an identity number, validated when present.
func (m *Manager) Start(req StartRequest) (*Controller, error) {
	mode := req.Mode
	if mode != ModeSignup {
		mode = ModeLogin
	}

	if mode == ModeSignup {
		if req.DisplayName == "" {
			return nil, ErrDisplayNameRequired
		}
		if err := ValidateIdentityNumber(req.IdentityNumber); err != nil {
			return nil, err
		}
	} else if req.IdentityNumber != "" {
		if err := ValidateIdentityNumber(req.IdentityNumber); err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()

	var onTick func(int)
	if m.opts.OnCooldownTick != nil {
		notify := m.opts.OnCooldownTick
		onTick = func(remaining int) { notify(id, remaining) }
	}

	ctrl := &Controller{
		id:             id,
		mode:           mode,
		phase:          PhaseCollectingPhone,
		identityNumber: req.IdentityNumber,
		displayName:    req.DisplayName,
		expectedCode:   m.opts.ExpectedCode,
		cooldownDur:    m.opts.Cooldown,
		cooldown:       newCountdown(m.now, m.opts.TickEvery, onTick),
		dispatcher:     m.dispatcher,
		committer:      m.committer,
		logger:         m.logger,
		now:            m.now,
		lastActive:     m.now(),
	}

	m.mu.Lock()
	m.pruneLocked()
	m.flows[id] = ctrl
	m.mu.Unlock()

	m.logger.Info("enrollment started", "flow_id", id, "mode", string(mode))
	return ctrl, nil
}

// Get returns the flow for the given id, expiring it first if its TTL has
// lapsed.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	ctrl, ok := m.flows[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrFlowNotFound
	}

	if ctrl.expired(m.now(), m.opts.TTL) {
		m.remove(id)
		ctrl.Abandon()
		return nil, ErrFlowNotFound
	}
	return ctrl, nil
}

// Abandon tears down the flow for the given id.
func (m *Manager) Abandon(id string) error {
	m.mu.RLock()
	ctrl, ok := m.flows[id]
	m.mu.RUnlock()
	if !ok {
		return ErrFlowNotFound
	}

	m.remove(id)
	ctrl.Abandon()
	return nil
}

// Finish drops a completed flow from the registry.
func (m *Manager) Finish(id string) {
	m.remove(id)
}

// Close abandons every remaining flow. Called on shutdown so no cooldown
// goroutine outlives the manager.
func (m *Manager) Close() {
	m.mu.Lock()
	flows := m.flows
	m.flows = make(map[string]*Controller)
	m.mu.Unlock()

	for _, ctrl := range flows {
		ctrl.Abandon()
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.flows, id)
	m.mu.Unlock()
}

// pruneLocked drops expired flows. Caller holds the write lock.
func (m *Manager) pruneLocked() {
	now := m.now()
	for id, ctrl := range m.flows {
		if ctrl.expired(now, m.opts.TTL) {
			delete(m.flows, id)
			ctrl.Abandon()
		}
	}
}
