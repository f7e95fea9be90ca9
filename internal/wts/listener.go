package wts

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Listener owns the notification-target window and its registration with
// the session-notification service, and drives the blocking message loop
// that yields decoded session events.
//
// Lifecycle: Start acquires the window and registers it; Next is then
// called repeatedly until it reports the sequence is over; Close
// unregisters. Exactly one goroutine owns the listener between Start and
// the final Next. Close may be called from another goroutine during
// process teardown and is a no-op unless registration succeeded.
type Listener struct {
	sys System
	log zerolog.Logger

	handle  Handle
	started bool

	mu         sync.Mutex
	registered bool
}

func NewListener(sys System, log zerolog.Logger) *Listener {
	return &Listener{sys: sys, log: log}
}

// Start creates the notification target and registers it for
// session-change notifications. Any failure aborts setup and leaves the
// listener unusable; no retries are attempted.
func (l *Listener) Start() error {
	if l.started {
		return errors.New("listener already started")
	}

	h, err := l.sys.CreateTarget()
	if err != nil {
		return fmt.Errorf("create notification target: %w", err)
	}
	l.log.Info().Msg("notification target created")

	if err := l.sys.Register(h); err != nil {
		return fmt.Errorf("register for session notifications: %w", err)
	}
	l.log.Info().Msg("registered for session notifications")

	l.handle = h
	l.started = true
	l.mu.Lock()
	l.registered = true
	l.mu.Unlock()
	return nil
}

// Next blocks until the next decodable session event arrives and returns
// it. Messages that are not session-change notifications, and payloads
// outside the known event range, are skipped without ending the sequence.
// Next returns ok=false only when message retrieval reports termination
// or a hard failure; the failure is logged and not surfaced further.
func (l *Listener) Next() (Event, bool) {
	for {
		msg, ok, err := l.sys.NextMessage(l.handle)
		if err != nil {
			l.log.Error().Err(err).Msg("message retrieval failed")
			return 0, false
		}
		if !ok {
			l.log.Info().Msg("message retrieval reported termination")
			return 0, false
		}

		l.log.Debug().
			Uint32("msg", msg.Code).
			Uint64("wparam", uint64(msg.WParam)).
			Msg("message received")

		if !msg.SessionChange() {
			continue
		}

		ev, err := DecodeEvent(uint32(msg.WParam))
		if err != nil {
			l.log.Error().Err(err).Msg("undecodable session event")
			continue
		}
		return ev, true
	}
}

// Close unregisters the window from session notifications. Safe to call
// more than once; only the first call after a successful Start does
// anything. The window itself is left to process teardown.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.registered {
		return
	}
	l.registered = false
	l.sys.Unregister(l.handle)
	l.log.Info().Msg("unregistered from session notifications")
}
