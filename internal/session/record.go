package session

import (
	"time"

	"github.com/session-sentry/sentry/internal/wts"
)

// Record is one observed session-state transition.
type Record struct {
	Seq   uint64    `json:"seq"`
	Event wts.Event `json:"event"`
	Time  time.Time `json:"time"`
}

// Status is the view of the desktop session derived from the transitions
// observed so far. Flags only become meaningful once the corresponding
// transitions have been seen; a freshly started watcher reports an
// unlocked, local session.
type Status struct {
	Locked       bool           `json:"locked"`
	RemoteActive bool           `json:"remoteActive"`
	LastLogonAt  time.Time      `json:"lastLogonAt,omitzero"`
	LastEvent    *Record        `json:"lastEvent,omitempty"`
	Observed     uint64         `json:"observed"`
	Counts       map[string]int `json:"counts"`
	Since        time.Time      `json:"since"`
}
