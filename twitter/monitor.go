package twitter

import (
	"errors"
	"net/url"
	"sync"
	"time"
)

// State is one value of the monitor's state machine.
type State int

const (
	StateStopped State = iota
	StateIdle
	StateConnecting
	StateConnected
	StateDisconnecting
	StateDisconnected
	StateWaiting
	StateAborting
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateDisconnected:
		return "disconnected"
	case StateWaiting:
		return "waiting"
	case StateAborting:
		return "aborting"
	default:
		return "unknown"
	}
}

// Errors surfaced to Monitor.Connect callers, per spec.md §6.
var (
	ErrNotRunning        = errors.New("twitter: service not running")
	ErrNoDelegate        = errors.New("twitter: no delegate")
	ErrAlreadyConnecting = errors.New("twitter: already connecting")
	ErrAlreadyConnected  = errors.New("twitter: already connected")
	ErrBusy              = errors.New("twitter: connection in progress")
)

// Transport is the handle a successful Opener call hands back to the
// monitor: the live connection it owns exactly one of at a time.
type Transport interface {
	// RequestStop asks the transport to begin shutting down. Must not
	// block; the transport reports its actual end via the closed
	// callback passed to Opener.Open.
	RequestStop()
}

// OpenResult is delivered to an Opener call's done callback.
type OpenResult struct {
	Transport Transport
	Err       error
}

// Opener attempts one connection. Open must return without blocking;
// it delivers exactly one OpenResult to done (synchronously or from
// another goroutine), and if that result carries a live Transport,
// exactly one call to closed once that transport later ends (nil for a
// clean end or potential data loss, a non-nil error otherwise).
//
// This is the Go shape of spec.md §4.D's feed opener as consumed by the
// monitor: original_source's TwitterMonitor drives this through Twisted
// deferreds (FakeTwitterAPI.filter/connected/connectFail in
// test_twitter.py); the done/closed callback pair is the idiomatic Go
// analogue that keeps the monitor's own mutex-guarded transitions
// synchronous and testable without a reactor.
type Opener interface {
	Open(delegate func(*Status), filters map[string]string, done func(OpenResult), closed func(error))
}

// Monitor owns the lifecycle of one Streaming API connection: connect,
// reconnect with per-category backoff, and mediation between a delegate
// and the transport. See spec.md §4.E for the full state table this
// implements.
//
// All mutations are serialized behind mu, matching spec.md §5's "single
// owning task" requirement without needing an actual dedicated
// goroutine: every public method and every Opener/Clock callback takes
// the lock before touching state, so two transitions never observe
// overlapping intermediate state regardless of which goroutine calls in.
type Monitor struct {
	mu sync.Mutex

	state          State
	delegate       func(*Status)
	filters        map[string]string
	transport      Transport
	timer          Timer
	backoff        *backoffCurves
	lastCategory   failureCategory
	stopRequested  bool

	opener  Opener
	clock   Clock
	log     Logger
	metrics *Metrics
}

// NewMonitor constructs a Monitor in the stopped state. clock, log, and
// metrics may be nil (they default to the real clock, a no-op logger,
// and no metrics respectively).
func NewMonitor(opener Opener, clock Clock, log Logger, metrics *Metrics) *Monitor {
	if clock == nil {
		clock = NewRealClock()
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Monitor{
		state:   StateStopped,
		backoff: newBackoffCurves(),
		opener:  opener,
		clock:   clock,
		log:     log,
		metrics: metrics,
	}
}

// State reports the monitor's current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetDelegate installs the delegate invoked for each decoded Status. It
// may be called at any time; it takes effect on the next connect.
func (m *Monitor) SetDelegate(delegate func(*Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delegate = delegate
}

// SetFilters updates the current filter parameters. If the monitor is
// connected, this forces an immediate reconnect using the new
// parameters; otherwise the new parameters take effect on the next
// connect.
func (m *Monitor) SetFilters(args map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = copyFilters(args)
	if m.state == StateConnected {
		m.setState(StateDisconnecting)
		if m.transport != nil {
			m.transport.RequestStop()
		}
	}
}

// Start begins the service. With a delegate already installed via
// SetDelegate before Start, this
// immediately invokes the opener; without one, the monitor goes idle
// until SetDelegate and Connect are both called.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateStopped {
		return
	}
	if m.delegate != nil {
		m.setState(StateConnecting)
		m.invokeOpenerLocked()
	} else {
		m.setState(StateIdle)
	}
}

// Stop ends the service: it cancels any pending reconnect timer,
// requests the active transport (if any) stop, and suppresses any
// reconnect that would otherwise follow. Stop returns immediately; it
// does not wait for the transport to acknowledge the close.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopRequested = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	switch m.state {
	case StateStopped:
		m.stopRequested = false
	case StateIdle, StateWaiting, StateDisconnected:
		m.setState(StateStopped)
		m.stopRequested = false
	case StateConnecting, StateAborting:
		m.setState(StateAborting)
	case StateConnected:
		m.setState(StateDisconnecting)
		if m.transport != nil {
			m.transport.RequestStop()
		}
	case StateDisconnecting:
		// stop already requested on the live transport; stopRequested
		// is enough to suppress the reconnect when it closes.
	}
}

// Connect is a user-level request to (re)connect. It is legal only from
// certain states; see spec.md §4.E's rejection policy.
func (m *Monitor) Connect(forceReconnect bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateStopped:
		return ErrNotRunning
	case StateIdle:
		if m.delegate == nil {
			return ErrNoDelegate
		}
		m.setState(StateConnecting)
		m.invokeOpenerLocked()
		return nil
	case StateConnecting:
		if !forceReconnect {
			return ErrAlreadyConnecting
		}
		m.setState(StateAborting)
		return nil
	case StateConnected:
		if !forceReconnect {
			return ErrAlreadyConnected
		}
		m.setState(StateDisconnecting)
		if m.transport != nil {
			m.transport.RequestStop()
		}
		return nil
	case StateWaiting:
		// Not in the rejection set: cancel the pending timer and
		// connect immediately with current filters.
		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
		m.setState(StateConnecting)
		m.invokeOpenerLocked()
		return nil
	default: // aborting, disconnecting, disconnected
		return ErrBusy
	}
}

// invokeOpenerLocked must be called with mu held. It starts one
// connection attempt using the current delegate and filters.
func (m *Monitor) invokeOpenerLocked() {
	filters := copyFilters(m.filters)
	delegate := m.delegate
	if m.metrics != nil {
		m.metrics.OpenerInvoked()
	}
	m.opener.Open(delegate, filters, m.onOpenResult, m.onTransportClosed)
}

// onOpenResult is the Opener's done callback. It may be invoked from any
// goroutine at any later time, including after the monitor has moved on
// (a Stop() or forced reconnect raced ahead of it); stale results are
// discarded, closing any transport they happen to carry so nothing
// leaks.
func (m *Monitor) onOpenResult(result OpenResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateConnecting:
		if result.Err != nil {
			m.scheduleReconnectLocked(classify(result.Err))
			return
		}
		m.backoff.ResetOnSuccess(m.lastCategory)
		m.transport = result.Transport
		m.setState(StateConnected)
	case StateAborting:
		if result.Err != nil {
			if m.stopRequested {
				m.setState(StateStopped)
				m.stopRequested = false
				return
			}
			m.scheduleReconnectLocked(classify(result.Err))
			return
		}
		m.transport = result.Transport
		m.setState(StateDisconnecting)
		if m.transport != nil {
			m.transport.RequestStop()
		}
	default:
		// Stale result: nothing to do but not leak a live transport.
		if result.Err == nil && result.Transport != nil {
			result.Transport.RequestStop()
		}
	}
}

// onTransportClosed is the Opener's closed callback for a transport that
// was handed to the monitor. Like onOpenResult, it may arrive late; only
// 'connected' and 'disconnecting' react to it.
func (m *Monitor) onTransportClosed(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateConnected:
		m.transport = nil
		category := failureOther
		if err == nil {
			category = failureNone
			m.log.Infof("twitter: stream ended cleanly")
		} else {
			m.log.Warnf("twitter: stream closed: %v", err)
		}
		m.scheduleReconnectLocked(category)
	case StateDisconnecting:
		m.transport = nil
		m.setState(StateDisconnected)
		m.advanceFromDisconnectedLocked()
	default:
		// Stale closure notification; ignore.
	}
}

// advanceFromDisconnectedLocked implements the "disconnected | automatic"
// row: forced-reconnect closures always use the None curve (they are
// deliberate, clean disconnects), per spec.md §8 scenario 5.
func (m *Monitor) advanceFromDisconnectedLocked() {
	if m.stopRequested {
		m.setState(StateStopped)
		m.stopRequested = false
		return
	}
	delay := m.backoff.Next(failureNone)
	m.lastCategory = failureNone
	if delay <= 0 {
		m.setState(StateConnecting)
		m.invokeOpenerLocked()
		return
	}
	m.setState(StateWaiting)
	m.scheduleTimerLocked(delay)
}

// scheduleReconnectLocked computes the next delay for category and
// enters 'waiting', arming the reconnect timer.
func (m *Monitor) scheduleReconnectLocked(category failureCategory) {
	delay := m.backoff.Next(category)
	m.lastCategory = category
	if m.metrics != nil {
		m.metrics.Reconnect(category.String())
	}
	m.setState(StateWaiting)
	m.scheduleTimerLocked(delay)
}

func (m *Monitor) scheduleTimerLocked(delay time.Duration) {
	m.timer = m.clock.AfterFunc(delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.onTimerFired()
	})
}

// onTimerFired is the reconnect timer's callback.
func (m *Monitor) onTimerFired() {
	if m.state != StateWaiting {
		return
	}
	m.timer = nil
	m.setState(StateConnecting)
	m.invokeOpenerLocked()
}

func (m *Monitor) setState(s State) {
	m.state = s
	if m.metrics != nil {
		m.metrics.StateTransition(s.String())
	}
	m.log.Debugf("twitter: monitor -> %s", s)
}

func copyFilters(args map[string]string) map[string]string {
	if args == nil {
		return nil
	}
	cp := make(map[string]string, len(args))
	for k, v := range args {
		cp[k] = v
	}
	return cp
}

// classify buckets an opener failure into one of the three backoff
// categories per spec.md §7: HTTPError gets its own curve, *url.Error
// (Go's http.Client wraps DNS/dial/connect-reset failures in one) gets
// the transport curve, anything else gets the generic "other" curve.
func classify(err error) failureCategory {
	if err == nil {
		return failureNone
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return failureHTTP
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return failureNone
	}
	return failureOther
}
