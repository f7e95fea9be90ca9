package wts

import "errors"

// Handle is an opaque identifier for the notification-target window. The
// raw value never leaves this package; everything else addresses the
// window through a System.
type Handle uintptr

// RawMessage is the fixed-layout record the OS message queue delivers.
// Only Code (to confirm a session-change notification) and WParam (the
// event payload) are consumed here; the remaining fields pass through
// opaquely.
type RawMessage struct {
	Window Handle
	Code   uint32
	WParam uintptr
	LParam uintptr
	Time   uint32
	PointX int32
	PointY int32
}

// SessionChangeMessage is the message-type code of a session-change
// notification (WM_WTSSESSION_CHANGE).
const SessionChangeMessage = 0x02B1

// SessionChange reports whether the message is a session-change
// notification.
func (m RawMessage) SessionChange() bool {
	return m.Code == SessionChangeMessage
}

// ErrUnsupported indicates session watching is not available on this
// platform.
var ErrUnsupported = errors.New("session notifications unavailable on this platform")

// Setup failure markers for the notification target and its registration.
// Each wraps the mapped reason for the underlying OS failure.
var (
	ErrClassRegistration = errors.New("window class registration failed")
	ErrWindowCreation    = errors.New("window creation failed")
	ErrRegistration      = errors.New("session notification registration failed")
)

// System is the narrow capability surface this package needs from the
// operating system. The real implementation talks to the windowing and
// session-notification services; tests substitute a fake.
//
// Implementations are driven from a single goroutine; they do not need to
// be safe for concurrent use.
type System interface {
	// CreateTarget obtains a hidden, message-only window suitable only
	// as a delivery endpoint. There is no destroy operation; the window
	// lives until process teardown. Failures wrap ErrClassRegistration
	// or ErrWindowCreation.
	CreateTarget() (Handle, error)

	// Register subscribes the window to session-change notifications,
	// scoped to the current session only. Failures wrap ErrRegistration.
	Register(h Handle) error

	// Unregister withdraws the subscription. Best effort; must only be
	// called for a handle Register previously succeeded for.
	Unregister(h Handle)

	// NextMessage blocks until the next message addressed to the window
	// arrives. It returns ok=false when retrieval reports termination
	// (a quit signal), and a non-nil error on a hard retrieval failure.
	NextMessage(h Handle) (RawMessage, bool, error)

	// MapLastError reads the calling thread's last-error slot and maps
	// it through the closed reason taxonomy. It must be called
	// immediately after the failing call, before any other OS call.
	MapLastError() error
}
