package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/famomatic/livehls/internal/types"
)

// State is the liveness of the managed automation session.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDegraded
	StateDead
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// Logger is the minimal logging surface the manager needs.
type Logger interface {
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Infof(string, ...any) {}

// Options tunes session lifecycle behavior.
type Options struct {
	// FailureThreshold is the number of consecutive fatal results that
	// forces a session rotation. Zero rotates on the first fatal.
	FailureThreshold int
	// CreateAttempts bounds consecutive failed engine creations before the
	// manager transitions to Dead. Zero means a single attempt.
	CreateAttempts int
	HTTPClient     *http.Client
	Logger         Logger
}

// Manager owns the single long-lived automation session. The engine is
// created lazily at first acquisition so metadata-only resolutions never pay
// browser startup, and recreated after the fatal-failure threshold trips.
//
// At most one acquisition is in flight at any time; WithSession enforces it.
type Manager struct {
	mu      sync.Mutex
	engine  Engine
	factory Factory
	cookies []*http.Cookie

	// state and restarts are written under mu but read through atomics, so
	// health and metrics reads never wait on an in-flight acquisition.
	state    atomic.Int32
	restarts atomic.Int64

	fatals        int
	failedCreates int
	opts          Options
	log           Logger
}

// NewManager builds a manager around the given engine factory. Cookies are
// treated as an opaque pre-validated credential blob and injected once per
// engine creation, never per request.
func NewManager(factory Factory, cookies []*http.Cookie, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Manager{
		factory: factory,
		cookies: cookies,
		opts:    opts,
		log:     log,
	}
}

func (m *Manager) curState() State  { return State(m.state.Load()) }
func (m *Manager) setState(s State) { m.state.Store(int32(s)) }

// Handle is the scoped view of the session passed to strategies. Valid only
// inside the WithSession callback.
type Handle struct {
	m *Manager
}

// Engine returns the live automation engine, creating or recreating it as
// the state machine requires. Returns types.ErrSessionDead once the
// recreation budget is exhausted.
func (h *Handle) Engine(ctx context.Context) (Engine, error) {
	return h.m.engineLocked(ctx)
}

// HTTPClient returns the shared client for non-browser strategies.
func (h *Handle) HTTPClient() *http.Client { return h.m.opts.HTTPClient }

// Cookies returns the injected authentication material.
func (h *Handle) Cookies() []*http.Cookie { return h.m.cookies }

// ReportFatal records a session-poisoning failure. Reaching the configured
// threshold moves the session to Degraded, forcing recreation before the
// next acquisition's first engine use.
func (h *Handle) ReportFatal() {
	m := h.m
	m.fatals++
	if m.fatals >= m.opts.FailureThreshold {
		m.fatals = 0
		if m.curState() == StateReady {
			m.setState(StateDegraded)
			m.log.Warnf("session: fatal threshold reached, rotating before next use")
		}
	}
}

// ReportSuccess resets the consecutive-failure counter.
func (h *Handle) ReportSuccess() {
	h.m.fatals = 0
}

// WithSession runs fn with exclusive access to the session. Bookkeeping and
// release happen on every exit path, including a panicking fn.
func (m *Manager) WithSession(ctx context.Context, fn func(*Handle) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.curState() == StateDead {
		return types.ErrSessionDead
	}
	return fn(&Handle{m: m})
}

// engineLocked implements Uninitialized/Degraded -> Ready transitions.
// Caller must hold m.mu (guaranteed inside WithSession).
func (m *Manager) engineLocked(ctx context.Context) (Engine, error) {
	switch m.curState() {
	case StateDead:
		return nil, types.ErrSessionDead
	case StateReady:
		return m.engine, nil
	case StateDegraded:
		m.teardownLocked(ctx)
	}

	eng, err := m.factory(ctx, m.cookies)
	if err != nil {
		m.failedCreates++
		attempts := m.opts.CreateAttempts
		if attempts <= 0 {
			attempts = 1
		}
		if m.failedCreates >= attempts {
			m.setState(StateDead)
			m.log.Warnf("session: engine creation failed %d time(s), giving up: %v", m.failedCreates, err)
			return nil, types.ErrSessionDead
		}
		return nil, fmt.Errorf("session: engine creation failed: %w", err)
	}
	m.failedCreates = 0
	m.engine = eng
	m.setState(StateReady)
	m.log.Infof("session: engine ready (start #%d)", m.restarts.Add(1))
	return eng, nil
}

// State returns the current liveness. Lock-free so health probes stay
// responsive while a resolution holds the session.
func (m *Manager) State() State {
	return m.curState()
}

// Restarts returns how many times an engine has been created. Lock-free,
// same as State.
func (m *Manager) Restarts() int {
	return int(m.restarts.Load())
}

// Close releases the underlying engine. The manager is unusable afterwards.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked(ctx)
	m.setState(StateDead)
}

func (m *Manager) teardownLocked(ctx context.Context) {
	if m.engine != nil {
		if err := m.engine.Close(ctx); err != nil {
			m.log.Warnf("session: engine close: %v", err)
		}
		m.engine = nil
	}
}
