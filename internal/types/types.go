package types

import (
	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/session"
)

type ClientMessage struct {
	Type   string         `json:"type"`
	BoxID  *int           `json:"box_id,omitempty"`
	Config *engine.Config `json:"config,omitempty"`
}

type ServerMessage struct {
	Type    string         `json:"type"` // "StateSnapshot" | "Error"
	Version int            `json:"version,omitempty"`
	State   *session.State `json:"state,omitempty"`
	Events  []engine.Event `json:"events,omitempty"`
	Error   string         `json:"error,omitempty"`
}
