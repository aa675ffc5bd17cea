package dashboard

import (
	"time"

	"CryptoPulse/internal/model"
)

// Status is the state of the current refresh cycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// State is a point-in-time copy of the dashboard. View is shared between
// copies and must be treated as read-only.
type State struct {
	Status     Status      `json:"status"`
	Selection  string      `json:"selection"`
	Generation uint64      `json:"generation"`
	View       *model.View `json:"view,omitempty"`
	LastError  string      `json:"last_error,omitempty"`
	User       *model.User `json:"user,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
