// Package domain contains the core concepts of the relay: pure value types
// and their invariants. No runtime, network, or storage logic lives here.
package domain

import "time"

// Conversation is the durable pairing of two distinct users under which
// messages accumulate. The pair is unordered: at most one Conversation
// exists for (a, b) regardless of which user spoke first.
type Conversation struct {
	ID        int64
	UserA     int64
	UserB     int64
	CreatedAt time.Time
}

// Includes reports whether the given user participates in the conversation.
func (c Conversation) Includes(userID int64) bool {
	return c.UserA == userID || c.UserB == userID
}

// PeerOf returns the other participant. The caller must ensure userID is a
// participant; a zero value is returned otherwise.
func (c Conversation) PeerOf(userID int64) int64 {
	switch userID {
	case c.UserA:
		return c.UserB
	case c.UserB:
		return c.UserA
	}
	return 0
}
