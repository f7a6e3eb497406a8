package session

import (
	"time"

	"github.com/rpggio/tacboard/internal/domain/tac"
)

// Session binds a viewer to the dataset fetched when the session started.
type Session struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Dataset   tac.Dataset `json:"-"`
}

// Options bounds the session cache.
type Options struct {
	MaxSessions int
	TTL         time.Duration
}

// DefaultOptions returns the cache bounds used when none are configured.
func DefaultOptions() Options {
	return Options{MaxSessions: 256, TTL: 30 * time.Minute}
}
