//go:build windows

package wts

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	wtsapi32 = windows.NewLazySystemDLL("wtsapi32.dll")

	procRegisterClassExW                 = user32.NewProc("RegisterClassExW")
	procCreateWindowExW                  = user32.NewProc("CreateWindowExW")
	procDefWindowProcW                   = user32.NewProc("DefWindowProcW")
	procGetMessageW                      = user32.NewProc("GetMessageW")
	procWTSRegisterSessionNotification   = wtsapi32.NewProc("WTSRegisterSessionNotification")
	procWTSUnRegisterSessionNotification = wtsapi32.NewProc("WTSUnRegisterSessionNotification")
)

const (
	targetClassName  = "session-sentry-target"
	targetWindowName = "session-sentry"

	// HWND_MESSAGE: parent scope for message-only windows.
	hwndMessage = ^uintptr(2)

	notifyForThisSession = 0

	errorClassAlreadyExists = 1410
)

// wndClassEx mirrors WNDCLASSEXW.
type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type point struct {
	X int32
	Y int32
}

// msgRecord mirrors MSG.
type msgRecord struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
	Private uint32
}

// windowsSystem is the real System, backed by user32 and wtsapi32.
type windowsSystem struct {
	lastCode uint32
}

// NewSystem returns the operating-system backed System.
func NewSystem() (System, error) {
	return &windowsSystem{}, nil
}

// noteFailure records the error code attached to a failing call.
// Proc.Call returns the thread's last error alongside the call result,
// which satisfies the read-immediately discipline for the last-error slot.
func (s *windowsSystem) noteFailure(callErr error) {
	s.lastCode = 0
	var errno syscall.Errno
	if errors.As(callErr, &errno) {
		s.lastCode = uint32(errno)
	}
}

func (s *windowsSystem) MapLastError() error {
	return MapError(s.lastCode)
}

func (s *windowsSystem) CreateTarget() (Handle, error) {
	cls, err := windows.UTF16PtrFromString(targetClassName)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrClassRegistration, err)
	}
	name, err := windows.UTF16PtrFromString(targetWindowName)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWindowCreation, err)
	}
	inst, err := windows.GetModuleHandle(nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrClassRegistration, err)
	}

	wc := wndClassEx{
		Size:      uint32(unsafe.Sizeof(wndClassEx{})),
		WndProc:   procDefWindowProcW.Addr(),
		Instance:  inst,
		ClassName: cls,
	}
	atom, _, callErr := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if atom == 0 {
		s.noteFailure(callErr)
		// The class survives earlier windows in this process; an
		// already-registered class must not block window creation.
		if s.lastCode != errorClassAlreadyExists {
			return 0, fmt.Errorf("%w: %w", ErrClassRegistration, s.MapLastError())
		}
		log.Debug().Str("class", targetClassName).Msg("window class already registered")
	} else {
		log.Debug().Str("class", targetClassName).Msg("window class registered")
	}

	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(cls)),
		uintptr(unsafe.Pointer(name)),
		0,
		0, 0, 0, 0,
		hwndMessage,
		0,
		uintptr(inst),
		0,
	)
	if hwnd == 0 {
		s.noteFailure(callErr)
		return 0, fmt.Errorf("%w: %w", ErrWindowCreation, s.MapLastError())
	}
	return Handle(hwnd), nil
}

func (s *windowsSystem) Register(h Handle) error {
	ok, _, callErr := procWTSRegisterSessionNotification.Call(uintptr(h), notifyForThisSession)
	if ok == 0 {
		s.noteFailure(callErr)
		return fmt.Errorf("%w: %w", ErrRegistration, s.MapLastError())
	}
	return nil
}

func (s *windowsSystem) Unregister(h Handle) {
	procWTSUnRegisterSessionNotification.Call(uintptr(h))
}

func (s *windowsSystem) NextMessage(h Handle) (RawMessage, bool, error) {
	var m msgRecord
	r, _, callErr := procGetMessageW.Call(
		uintptr(unsafe.Pointer(&m)),
		uintptr(h),
		0, 0,
	)
	switch int32(r) {
	case 0:
		// WM_QUIT: the sequence is over.
		return RawMessage{}, false, nil
	case -1:
		s.noteFailure(callErr)
		return RawMessage{}, false, s.MapLastError()
	}
	return RawMessage{
		Window: Handle(m.HWnd),
		Code:   m.Message,
		WParam: m.WParam,
		LParam: m.LParam,
		Time:   m.Time,
		PointX: m.Pt.X,
		PointY: m.Pt.Y,
	}, true, nil
}
