package wts

import (
	"encoding/json"
	"fmt"
)

// Event is one decoded desktop session-state transition, as delivered by
// the session-notification service.
type Event int

// Event values match the wParam codes carried by WM_WTSSESSION_CHANGE
// messages (0x1 through 0x9).
const (
	ConsoleConnect Event = iota + 1
	ConsoleDisconnect
	RemoteConnect
	RemoteDisconnect
	Logon
	Logoff
	Lock
	Unlock
	RemoteControl
)

var eventNames = map[Event]string{
	ConsoleConnect:    "console_connect",
	ConsoleDisconnect: "console_disconnect",
	RemoteConnect:     "remote_connect",
	RemoteDisconnect:  "remote_disconnect",
	Logon:             "logon",
	Logoff:            "logoff",
	Lock:              "lock",
	Unlock:            "unlock",
	RemoteControl:     "remote_control",
}

var eventFromName = map[string]Event{
	"console_connect":    ConsoleConnect,
	"console_disconnect": ConsoleDisconnect,
	"remote_connect":     RemoteConnect,
	"remote_disconnect":  RemoteDisconnect,
	"logon":              Logon,
	"logoff":             Logoff,
	"lock":               Lock,
	"unlock":             Unlock,
	"remote_control":     RemoteControl,
}

func (e Event) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return "unknown"
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := eventFromName[s]; ok {
		*e = v
	}
	return nil
}

// EventFromName resolves a lowercase event name (as produced by
// Event.String) back to its Event value.
func EventFromName(name string) (Event, bool) {
	e, ok := eventFromName[name]
	return e, ok
}

// Events lists every defined session event in code order.
func Events() []Event {
	return []Event{
		ConsoleConnect, ConsoleDisconnect,
		RemoteConnect, RemoteDisconnect,
		Logon, Logoff,
		Lock, Unlock,
		RemoteControl,
	}
}

// UnknownCodeError reports a notification payload outside the defined
// session-event range.
type UnknownCodeError struct {
	Code uint32
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("%#x is not a valid session event code", e.Code)
}

// DecodeEvent maps a raw notification payload to its session event.
// Codes outside 0x1..0x9 fail with an UnknownCodeError.
func DecodeEvent(code uint32) (Event, error) {
	if code < uint32(ConsoleConnect) || code > uint32(RemoteControl) {
		return 0, &UnknownCodeError{Code: code}
	}
	return Event(code), nil
}
