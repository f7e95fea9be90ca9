package simulate

import (
	"sync"
	"time"

	"github.com/session-sentry/sentry/internal/wts"
)

// defaultScript is a plausible desk day: logon, a lock/unlock pair, a
// remote takeover with shadowing, and a logoff. The stray 0x42 exercises
// the undecodable-payload path.
var defaultScript = []uintptr{
	0x5, // logon
	0x7, // lock
	0x8, // unlock
	0x42,
	0x3, // remote connect
	0x9, // remote control
	0x4, // remote disconnect
	0x7, // lock
	0x8, // unlock
	0x6, // logoff
}

// System is a scripted wts.System that replays a canned sequence of
// session transitions on a timer. It lets the full pipeline run on hosts
// without a session-notification service.
type System struct {
	interval time.Duration
	script   []uintptr

	mu   sync.Mutex
	next int

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSystem(interval time.Duration) *System {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &System{
		interval: interval,
		script:   defaultScript,
		stop:     make(chan struct{}),
	}
}

// Stop makes the next retrieval report termination, like a quit message.
func (s *System) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *System) CreateTarget() (wts.Handle, error) {
	return wts.Handle(1), nil
}

func (s *System) Register(h wts.Handle) error {
	return nil
}

func (s *System) Unregister(h wts.Handle) {}

func (s *System) NextMessage(h wts.Handle) (wts.RawMessage, bool, error) {
	select {
	case <-s.stop:
		return wts.RawMessage{}, false, nil
	case <-time.After(s.interval):
	}

	s.mu.Lock()
	payload := s.script[s.next%len(s.script)]
	s.next++
	s.mu.Unlock()

	return wts.RawMessage{
		Window: h,
		Code:   wts.SessionChangeMessage,
		WParam: payload,
		Time:   uint32(time.Now().UnixMilli()),
	}, true, nil
}

func (s *System) MapLastError() error {
	return wts.MapError(0)
}
