// Package protocol defines the newline-delimited JSON frames exchanged with
// clients. Frames are ephemeral: only the side effects they cause are stored.
package protocol

import (
	"encoding/json"
	"fmt"

	"chat-relay/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	TypeAuth    = "auth"
	TypeChat    = "chat"
	TypeReadAck = "read_ack"
	TypeUpdate  = "update_message"
	TypeMessage = "message"
	TypeAck     = "update_ack"
)

// Frame is one decoded client frame.
type Frame interface {
	frameType() string
}

// AuthFrame must be the first frame on a connection.
type AuthFrame struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// ChatFrame asks the relay to deliver content to another user.
type ChatFrame struct {
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

// ReadAckFrame marks a previously delivered message as read.
type ReadAckFrame struct {
	MessageID int64 `json:"message_id"`
}

// UpdateFrame rewrites the content of a message the session user sent.
type UpdateFrame struct {
	MessageID int64  `json:"message_id"`
	Content   string `json:"content"`
}

func (AuthFrame) frameType() string    { return TypeAuth }
func (ChatFrame) frameType() string    { return TypeChat }
func (ReadAckFrame) frameType() string { return TypeReadAck }
func (UpdateFrame) frameType() string  { return TypeUpdate }

// rawFrame is the superset of every inbound variant; the type tag picks the
// concrete frame. A missing or empty type is treated as a chat frame, which
// legacy clients still send.
type rawFrame struct {
	Type       string `json:"type"`
	UserID     int64  `json:"userId"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
	MessageID  int64  `json:"message_id"`
}

// Decode parses one line into a typed frame.
// Returns ErrMalformedFrame when the payload is not valid JSON.
func Decode(line []byte) (Frame, error) {
	var raw rawFrame
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}
	switch raw.Type {
	case TypeAuth:
		return AuthFrame{UserID: raw.UserID}, nil
	case TypeReadAck:
		return ReadAckFrame{MessageID: raw.MessageID}, nil
	case TypeUpdate:
		return UpdateFrame{MessageID: raw.MessageID, Content: raw.Content}, nil
	case TypeChat, "":
		return ChatFrame{SenderID: raw.SenderID, ReceiverID: raw.ReceiverID, Content: raw.Content}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownFrameType, raw.Type)
	}
}

// Validate applies the structural rules of the auth contract.
func (f AuthFrame) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidUserID, err)
	}
	return nil
}
