package ws

import (
	"github.com/session-sentry/sentry/internal/session"
)

type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgEvent    MessageType = "event"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload carries the full observed state: the derived session
// view plus the retained transition history.
type SnapshotPayload struct {
	Status session.Status   `json:"status"`
	Recent []session.Record `json:"recent"`
}

// EventPayload carries one freshly observed transition.
type EventPayload struct {
	Record session.Record `json:"record"`
}
