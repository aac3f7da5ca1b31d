// Package message provides persistence for conversation message rows.
//
// Rows are insert-only: the store exposes Insert, Recent and Purge, and
// nothing else. Ordering truth lives entirely in the created_at column
// assigned by PostgreSQL at insert time.
package message

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role constants define valid message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Sentinel errors for store operations, checked with errors.Is().
var (
	// ErrInvalidRole indicates a role outside system/user/assistant.
	ErrInvalidRole = errors.New("invalid message role")
)

// Message represents a single persisted conversation row.
type Message struct {
	ID        uuid.UUID `json:"id"`
	UID       string    `json:"uid"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the three accepted values.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}
