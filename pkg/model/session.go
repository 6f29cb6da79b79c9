package model

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrCorruptRecord marks persisted session data that exists but cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt session record")

// SessionRecord is the persisted form of one browser context's session.
// The credential and the user profile live in a single record so that every
// backend reads and writes them together.
type SessionRecord struct {
	ID        string          `json:"id"`
	Token     string          `json:"authToken"`
	Profile   json.RawMessage `json:"user"` // encoded User, validated on read
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// IsExpired reports whether the record has passed its absolute expiry.
func (r *SessionRecord) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}
