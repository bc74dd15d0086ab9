package notifications

import (
	"time"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// Level indicates how a toast is styled and whether it is forwarded.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is a transient notification shown to a shopper. It never enters
// the chat transcript.
type Toast struct {
	ID          string     `json:"id"`
	SessionID   session.ID `json:"session_id"`
	Level       Level      `json:"level"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
