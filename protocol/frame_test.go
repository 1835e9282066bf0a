package protocol

import (
	"strings"
	"testing"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Frame
		err      error
	}{
		{
			name:     "auth frame",
			line:     `{"type":"auth","userId":7}`,
			expected: AuthFrame{UserID: 7},
		},
		{
			name:     "chat frame",
			line:     `{"type":"chat","sender_id":1,"receiver_id":2,"content":"hi"}`,
			expected: ChatFrame{SenderID: 1, ReceiverID: 2, Content: "hi"},
		},
		{
			name:     "untyped frame defaults to chat",
			line:     `{"sender_id":1,"receiver_id":2,"content":"hi"}`,
			expected: ChatFrame{SenderID: 1, ReceiverID: 2, Content: "hi"},
		},
		{
			name:     "read ack frame",
			line:     `{"type":"read_ack","message_id":42}`,
			expected: ReadAckFrame{MessageID: 42},
		},
		{
			name:     "update frame",
			line:     `{"type":"update_message","message_id":42,"content":"fixed"}`,
			expected: UpdateFrame{MessageID: 42, Content: "fixed"},
		},
		{
			name: "unknown type",
			line: `{"type":"teleport"}`,
			err:  errors.ErrUnknownFrameType,
		},
		{
			name: "broken json",
			line: `{"type":"chat"`,
			err:  errors.ErrMalformedFrame,
		},
		{
			name: "plain text",
			line: `hello there`,
			err:  errors.ErrMalformedFrame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			frame, err := Decode([]byte(tt.line))
			if tt.err != nil {
				req.ErrorIs(err, tt.err)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, frame)
		})
	}
}

func TestAuthFrame_Validate(t *testing.T) {
	req := require.New(t)

	req.NoError(AuthFrame{UserID: 1}.Validate())
	req.ErrorIs(AuthFrame{UserID: 0}.Validate(), errors.ErrInvalidUserID)
	req.ErrorIs(AuthFrame{UserID: -9}.Validate(), errors.ErrInvalidUserID)
}

func TestEncode(t *testing.T) {
	req := require.New(t)

	// Given a stored message turned into a notification
	message := domain.Message{ID: 42, SenderID: 1, Content: "hi", Read: true}
	payload, err := Encode(NewMessageNotification(message))
	req.NoError(err)

	// Then the payload is a single delimited line
	line := string(payload)
	req.True(strings.HasSuffix(line, "\n"))
	req.Equal(1, strings.Count(line, "\n"))
	req.JSONEq(`{"type":"message","message_id":42,"from":1,"content":"hi","is_read":true}`, strings.TrimSpace(line))

	ack, err := Encode(NewUpdateAck(42, AckSuccess))
	req.NoError(err)
	req.JSONEq(`{"type":"update_ack","message_id":42,"status":"success"}`, strings.TrimSpace(string(ack)))
}
