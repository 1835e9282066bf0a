package protocol

import (
	"encoding/json"

	"chat-relay/domain"
)

const (
	AckSuccess                = "success"
	AckNotFoundOrUnauthorized = "not_found_or_unauthorized"
)

// MessageNotification is pushed to a client for both live delivery and
// history replay.
type MessageNotification struct {
	Type      string `json:"type"`
	MessageID int64  `json:"message_id"`
	From      int64  `json:"from"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read"`
}

// UpdateAck reports the outcome of an update_message frame to its sender.
// The status is informational, never a fault.
type UpdateAck struct {
	Type      string `json:"type"`
	MessageID int64  `json:"message_id"`
	Status    string `json:"status"`
}

func NewMessageNotification(m domain.Message) MessageNotification {
	return MessageNotification{
		Type:      TypeMessage,
		MessageID: m.ID,
		From:      m.SenderID,
		Content:   m.Content,
		IsRead:    m.Read,
	}
}

func NewUpdateAck(messageID int64, status string) UpdateAck {
	return UpdateAck{Type: TypeAck, MessageID: messageID, Status: status}
}

// Encode marshals a server payload and appends the frame delimiter.
func Encode(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
