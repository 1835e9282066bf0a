package domain

import "time"

// Message is a persisted chat event. The id is assigned by the store.
// Read starts false and only ever transitions to true.
type Message struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	Content        string
	SentAt         time.Time
	Read           bool
}
