package domain

import "time"

// TypingTTL is how long a typing signal stays alive without renewal.
// The client debounces on the same duration, the store expires entries
// as a backstop in case the clear never arrives.
const TypingTTL = 3 * time.Second

// TypingUser is the liveness signal of one participant in a project chat.
// It is never persisted as domain history.
type TypingUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}
