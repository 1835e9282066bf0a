package services

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/protocol"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRelayFixture(t *testing.T) (*RelayService, *mocks.MockIConversationRepository, *mocks.MockIMessageRepository, *mocks.MockIRegistry) {
	t.Helper()
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	registry := mocks.NewMockIRegistry(ctrl)
	relay := NewRelayService(logs.GetLoggerFromLevel(slog.LevelError), conversations, messages, registry, nil)
	return relay, conversations, messages, registry
}

func TestRelayService_SendChat(t *testing.T) {
	conversation := domain.Conversation{ID: 9, UserA: 1, UserB: 2}
	stored := domain.Message{ID: 42, ConversationID: 9, SenderID: 1, Content: "hi", SentAt: time.Now().UTC()}

	t.Run("should drop a spoofed sender without touching the store", func(t *testing.T) {
		req := require.New(t)
		relay, _, _, _ := newRelayFixture(t)

		// When a session sends as somebody else
		_, err := relay.SendChat(1, protocol.ChatFrame{SenderID: 3, ReceiverID: 2, Content: "hi"})

		// Then the frame is rejected; no repository expectation was set,
		// so any persistence attempt would fail the test
		req.ErrorIs(err, errors.ErrSpoofedSender)
	})

	t.Run("should drop a non-positive receiver", func(t *testing.T) {
		req := require.New(t)
		relay, _, _, _ := newRelayFixture(t)

		_, err := relay.SendChat(1, protocol.ChatFrame{SenderID: 1, ReceiverID: 0, Content: "hi"})
		req.ErrorIs(err, errors.ErrInvalidReceiver)
	})

	t.Run("should drop whitespace-only content", func(t *testing.T) {
		req := require.New(t)
		relay, _, _, _ := newRelayFixture(t)

		_, err := relay.SendChat(1, protocol.ChatFrame{SenderID: 1, ReceiverID: 2, Content: "   \t"})
		req.ErrorIs(err, errors.ErrBlankContent)
	})

	t.Run("should reuse the existing conversation and forward to a live receiver", func(t *testing.T) {
		req := require.New(t)
		relay, conversations, messages, registry := newRelayFixture(t)

		// Given the pair already has a conversation and the receiver is online
		conversations.EXPECT().FindConversation(int64(1), int64(2)).Return(conversation, nil)
		messages.EXPECT().AppendMessage(int64(9), int64(1), "hi").Return(stored, nil)
		registry.EXPECT().TryDeliver(int64(2), gomock.Any()).Return(true)

		message, err := relay.SendChat(1, protocol.ChatFrame{SenderID: 1, ReceiverID: 2, Content: "hi"})

		req.NoError(err)
		req.Equal(stored.ID, message.ID)
	})

	t.Run("should create the conversation on first contact", func(t *testing.T) {
		req := require.New(t)
		relay, conversations, messages, registry := newRelayFixture(t)

		conversations.EXPECT().FindConversation(int64(1), int64(2)).
			Return(domain.Conversation{}, errors.ErrConversationNotFound)
		conversations.EXPECT().CreateConversation(int64(1), int64(2)).Return(conversation, nil)
		messages.EXPECT().AppendMessage(int64(9), int64(1), "hi").Return(stored, nil)
		registry.EXPECT().TryDeliver(int64(2), gomock.Any()).Return(false)

		// When sending to an offline receiver
		message, err := relay.SendChat(1, protocol.ChatFrame{SenderID: 1, ReceiverID: 2, Content: "hi"})

		// Then persistence still succeeds; delivery was best-effort
		req.NoError(err)
		req.Equal(stored.ID, message.ID)
	})

	t.Run("should surface a store failure without forwarding", func(t *testing.T) {
		req := require.New(t)
		relay, conversations, messages, _ := newRelayFixture(t)

		conversations.EXPECT().FindConversation(int64(1), int64(2)).Return(conversation, nil)
		messages.EXPECT().AppendMessage(int64(9), int64(1), "hi").
			Return(domain.Message{}, fmt.Errorf("disk full"))

		_, err := relay.SendChat(1, protocol.ChatFrame{SenderID: 1, ReceiverID: 2, Content: "hi"})
		req.Error(err)
	})
}

func TestRelayService_AckRead(t *testing.T) {
	conversation := domain.Conversation{ID: 9, UserA: 1, UserB: 2}
	stored := domain.Message{ID: 42, ConversationID: 9, SenderID: 1, Content: "hi"}

	t.Run("should ignore a non-positive id", func(t *testing.T) {
		req := require.New(t)
		relay, _, _, _ := newRelayFixture(t)

		req.NoError(relay.AckRead(2, 0))
		req.NoError(relay.AckRead(2, -5))
	})

	t.Run("should ignore an unknown message", func(t *testing.T) {
		req := require.New(t)
		relay, _, messages, _ := newRelayFixture(t)

		messages.EXPECT().GetMessage(int64(42)).
			Return(domain.Message{}, errors.ErrMessageNotFound)

		req.NoError(relay.AckRead(2, 42))
	})

	t.Run("should mark read when the recipient acks", func(t *testing.T) {
		req := require.New(t)
		relay, conversations, messages, _ := newRelayFixture(t)

		messages.EXPECT().GetMessage(int64(42)).Return(stored, nil)
		conversations.EXPECT().GetConversation(int64(9)).Return(conversation, nil)
		messages.EXPECT().MarkRead(int64(42)).Return(nil)

		req.NoError(relay.AckRead(2, 42))
	})

	t.Run("should ignore an ack from the sender", func(t *testing.T) {
		req := require.New(t)
		relay, conversations, messages, _ := newRelayFixture(t)

		messages.EXPECT().GetMessage(int64(42)).Return(stored, nil)
		conversations.EXPECT().GetConversation(int64(9)).Return(conversation, nil)
		// MarkRead must not be called

		req.NoError(relay.AckRead(1, 42))
	})

	t.Run("should ignore an ack from a stranger", func(t *testing.T) {
		req := require.New(t)
		relay, conversations, messages, _ := newRelayFixture(t)

		messages.EXPECT().GetMessage(int64(42)).Return(stored, nil)
		conversations.EXPECT().GetConversation(int64(9)).Return(conversation, nil)

		req.NoError(relay.AckRead(5, 42))
	})
}

func TestRelayService_UpdateMessage(t *testing.T) {
	t.Run("should reject a non-positive id as a validation error", func(t *testing.T) {
		req := require.New(t)
		relay, _, _, _ := newRelayFixture(t)

		_, err := relay.UpdateMessage(1, protocol.UpdateFrame{MessageID: 0, Content: "new"})
		req.ErrorIs(err, errors.ErrInvalidMessageID)
	})

	t.Run("should reject empty content as a validation error", func(t *testing.T) {
		req := require.New(t)
		relay, _, _, _ := newRelayFixture(t)

		_, err := relay.UpdateMessage(1, protocol.UpdateFrame{MessageID: 42, Content: " "})
		req.ErrorIs(err, errors.ErrBlankContent)
	})

	t.Run("should ack success for the author", func(t *testing.T) {
		req := require.New(t)
		relay, _, messages, _ := newRelayFixture(t)

		messages.EXPECT().UpdateContent(int64(42), int64(1), "fixed").Return(nil)

		ack, err := relay.UpdateMessage(1, protocol.UpdateFrame{MessageID: 42, Content: "fixed"})
		req.NoError(err)
		req.Equal(protocol.AckSuccess, ack.Status)
		req.Equal(int64(42), ack.MessageID)
	})

	t.Run("should ack not_found_or_unauthorized for anyone else", func(t *testing.T) {
		req := require.New(t)
		relay, _, messages, _ := newRelayFixture(t)

		messages.EXPECT().UpdateContent(int64(42), int64(8), "hijack").
			Return(errors.ErrNotMessageAuthor)

		ack, err := relay.UpdateMessage(8, protocol.UpdateFrame{MessageID: 42, Content: "hijack"})
		req.NoError(err)
		req.Equal(protocol.AckNotFoundOrUnauthorized, ack.Status)
	})

	t.Run("should ack not_found_or_unauthorized for a missing message", func(t *testing.T) {
		req := require.New(t)
		relay, _, messages, _ := newRelayFixture(t)

		messages.EXPECT().UpdateContent(int64(42), int64(1), "ghost").
			Return(errors.ErrMessageNotFound)

		ack, err := relay.UpdateMessage(1, protocol.UpdateFrame{MessageID: 42, Content: "ghost"})
		req.NoError(err)
		req.Equal(protocol.AckNotFoundOrUnauthorized, ack.Status)
	})
}

func TestRelayService_History(t *testing.T) {
	req := require.New(t)
	relay, conversations, messages, _ := newRelayFixture(t)

	// Given user 2 participates in two conversations
	conversations.EXPECT().ConversationsForUser(int64(2)).Return([]domain.Conversation{
		{ID: 9, UserA: 1, UserB: 2},
		{ID: 11, UserA: 2, UserB: 3},
	}, nil)
	expected := []domain.Message{{ID: 1, ConversationID: 9}, {ID: 2, ConversationID: 11}}
	messages.EXPECT().MessagesForConversations([]int64{9, 11}).Return(expected, nil)

	history, err := relay.History(2)
	req.NoError(err)
	req.Equal(expected, history)
}
