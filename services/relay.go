//go:generate go run go.uber.org/mock/mockgen -source=relay.go -destination=../mocks/mock_relay_service.go -package=mocks
package services

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/protocol"
	"chat-relay/repositories"

	"github.com/samber/lo"
)

type IRelayService interface {
	History(userID int64) ([]domain.Message, error)
	SendChat(sessionUserID int64, frame protocol.ChatFrame) (domain.Message, error)
	AckRead(sessionUserID, messageID int64) error
	UpdateMessage(sessionUserID int64, frame protocol.UpdateFrame) (protocol.UpdateAck, error)
}

// RelayService is the message router: it validates frames coming from an
// authenticated session, persists their side effects, and decides whether
// and where to forward. Persistence always precedes forwarding; a failed
// forward is never rolled back.
type RelayService struct {
	log           *slog.Logger
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	registry      contract.IRegistry
	moderator     *moderation.Moderator
}

func NewRelayService(
	log *slog.Logger,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	registry contract.IRegistry,
	moderator *moderation.Moderator,
) *RelayService {
	return &RelayService{
		log:           log,
		conversations: conversations,
		messages:      messages,
		registry:      registry,
		moderator:     moderator,
	}
}

// History returns every persisted message of the conversations the user
// participates in, ascending by send time. Replay never touches read state.
func (s *RelayService) History(userID int64) ([]domain.Message, error) {
	conversations, err := s.conversations.ConversationsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("history conversations: %w", err)
	}
	ids := lo.Map(conversations, func(c domain.Conversation, _ int) int64 {
		return c.ID
	})
	messages, err := s.messages.MessagesForConversations(ids)
	if err != nil {
		return nil, fmt.Errorf("history messages: %w", err)
	}
	return messages, nil
}

// SendChat validates, persists and best-effort forwards one chat frame.
// A session may only send as itself; the frame is dropped on any
// validation failure without touching the store.
func (s *RelayService) SendChat(sessionUserID int64, frame protocol.ChatFrame) (domain.Message, error) {
	if frame.SenderID != sessionUserID {
		return domain.Message{}, errors.ErrSpoofedSender
	}
	if frame.ReceiverID <= 0 {
		return domain.Message{}, errors.ErrInvalidReceiver
	}
	content := frame.Content
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, errors.ErrBlankContent
	}
	if s.moderator != nil {
		content = s.moderator.Mask(content)
	}

	conversation, err := s.conversations.FindConversation(frame.SenderID, frame.ReceiverID)
	if goerrors.Is(err, errors.ErrConversationNotFound) {
		conversation, err = s.conversations.CreateConversation(frame.SenderID, frame.ReceiverID)
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("conversation lookup: %w", err)
	}

	message, err := s.messages.AppendMessage(conversation.ID, frame.SenderID, content)
	if err != nil {
		return domain.Message{}, fmt.Errorf("append message: %w", err)
	}

	s.forward(frame.ReceiverID, message)
	return message, nil
}

// forward pushes an inbound-message notification to the receiver's live
// session, if any. Absence and write failure are both fine: the message is
// already durable and will be replayed on the receiver's next connection.
func (s *RelayService) forward(receiverID int64, message domain.Message) {
	payload, err := protocol.Encode(protocol.NewMessageNotification(message))
	if err != nil {
		s.log.Error("failed to encode notification", "message_id", message.ID, "error", err)
		return
	}
	if s.registry.TryDeliver(receiverID, payload) {
		s.log.Info("Message forwarded", "message_id", message.ID, "to", receiverID)
		return
	}
	s.log.Info("Receiver offline, message stored for replay", "message_id", message.ID, "to", receiverID)
}

// AckRead marks a message as read, exactly once. Invalid ids, unknown
// messages and acks from anyone but the recipient are silent no-ops.
func (s *RelayService) AckRead(sessionUserID, messageID int64) error {
	if messageID <= 0 {
		return nil
	}
	message, err := s.messages.GetMessage(messageID)
	if goerrors.Is(err, errors.ErrMessageNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read ack lookup: %w", err)
	}

	conversation, err := s.conversations.GetConversation(message.ConversationID)
	if err != nil {
		return fmt.Errorf("read ack conversation: %w", err)
	}
	if conversation.PeerOf(message.SenderID) != sessionUserID {
		s.log.Warn("Read ack ignored",
			"message_id", messageID, "user_id", sessionUserID,
			"error", errors.ErrNotMessageRecipient)
		return nil
	}

	if err = s.messages.MarkRead(messageID); err != nil && !goerrors.Is(err, errors.ErrMessageNotFound) {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// UpdateMessage rewrites a message's content, author-only. The outcome is
// reported back to the requesting session as an ack payload; not-found and
// unauthorized are indistinguishable on the wire on purpose.
func (s *RelayService) UpdateMessage(sessionUserID int64, frame protocol.UpdateFrame) (protocol.UpdateAck, error) {
	if frame.MessageID <= 0 {
		return protocol.UpdateAck{}, errors.ErrInvalidMessageID
	}
	if strings.TrimSpace(frame.Content) == "" {
		return protocol.UpdateAck{}, errors.ErrBlankContent
	}

	content := frame.Content
	if s.moderator != nil {
		content = s.moderator.Mask(content)
	}

	err := s.messages.UpdateContent(frame.MessageID, sessionUserID, content)
	switch {
	case err == nil:
		s.log.Info("Message updated", "message_id", frame.MessageID, "user_id", sessionUserID)
		return protocol.NewUpdateAck(frame.MessageID, protocol.AckSuccess), nil
	case goerrors.Is(err, errors.ErrMessageNotFound), goerrors.Is(err, errors.ErrNotMessageAuthor):
		s.log.Warn("Message update refused", "message_id", frame.MessageID, "user_id", sessionUserID)
		return protocol.NewUpdateAck(frame.MessageID, protocol.AckNotFoundOrUnauthorized), nil
	default:
		return protocol.UpdateAck{}, fmt.Errorf("update content: %w", err)
	}
}
