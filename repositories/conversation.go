//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
)

type IConversationRepository interface {
	FindConversation(userA, userB int64) (domain.Conversation, error)
	CreateConversation(userA, userB int64) (domain.Conversation, error)
	GetConversation(id int64) (domain.Conversation, error)
	ConversationsForUser(userID int64) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewConversationRepository(db *badger.DB) (*ConversationRepository, error) {
	seq, err := db.GetSequence([]byte("seq:conversation"), 64)
	if err != nil {
		return nil, fmt.Errorf("conversation sequence: %w", err)
	}
	return &ConversationRepository{db: db, seq: seq}, nil
}

func (c *ConversationRepository) Close() error {
	return c.seq.Release()
}

// conversationRecord is the on-disk representation of a conversation.
// It is stored twice: under its id (primary) and under the participant
// pair as first written (index).
type conversationRecord struct {
	ID        int64 `json:"id"`
	UserA     int64 `json:"user_a"`
	UserB     int64 `json:"user_b"`
	CreatedAt int64 `json:"created_at"`
}

func conversationKey(id int64) []byte {
	return []byte(fmt.Sprintf("convid:%019d", id))
}

func pairKey(userA, userB int64) []byte {
	return []byte(fmt.Sprintf("conv:%019d:%019d", userA, userB))
}

// FindConversation looks up the conversation for the unordered pair by
// checking both orderings, matching how the pair was first persisted.
// Returns ErrConversationNotFound when neither ordering exists.
func (c *ConversationRepository) FindConversation(userA, userB int64) (domain.Conversation, error) {
	var record conversationRecord
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(userA, userB))
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			item, err = txn.Get(pairKey(userB, userA))
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	switch {
	case err == nil:
		return toConversation(record), nil
	case goerrors.Is(err, badger.ErrKeyNotFound):
		return domain.Conversation{}, errors.ErrConversationNotFound
	default:
		return domain.Conversation{}, err
	}
}

// CreateConversation persists a new conversation for the pair.
// Two sessions racing through find-then-create can in principle both land
// here; the second write wins the pair index and later lookups converge on
// it. The window is accepted, not solved.
func (c *ConversationRepository) CreateConversation(userA, userB int64) (domain.Conversation, error) {
	if userA == userB {
		return domain.Conversation{}, errors.ErrSameParticipant
	}
	next, err := c.seq.Next()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("next conversation id: %w", err)
	}
	conversation := domain.Conversation{
		ID:        int64(next) + 1,
		UserA:     userA,
		UserB:     userB,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(fromConversation(conversation))
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(conversationKey(conversation.ID), data); err != nil {
			return err
		}
		return txn.Set(pairKey(userA, userB), data)
	})
	return conversation, err
}

// GetConversation retrieves a conversation by id.
func (c *ConversationRepository) GetConversation(id int64) (domain.Conversation, error) {
	var record conversationRecord
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	switch {
	case err == nil:
		return toConversation(record), nil
	case goerrors.Is(err, badger.ErrKeyNotFound):
		return domain.Conversation{}, errors.ErrConversationNotFound
	default:
		return domain.Conversation{}, err
	}
}

// ConversationsForUser scans the primary prefix and keeps the conversations
// the user participates in. The volume per user is small enough that a
// dedicated membership index is not worth its write amplification.
func (c *ConversationRepository) ConversationsForUser(userID int64) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte("convid:")
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record conversationRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			conversation := toConversation(record)
			if conversation.Includes(userID) {
				conversations = append(conversations, conversation)
			}
		}
		return nil
	})
	return conversations, err
}

func fromConversation(c domain.Conversation) conversationRecord {
	return conversationRecord{
		ID:        c.ID,
		UserA:     c.UserA,
		UserB:     c.UserB,
		CreatedAt: c.CreatedAt.Unix(),
	}
}

func toConversation(r conversationRecord) domain.Conversation {
	return domain.Conversation{
		ID:        r.ID,
		UserA:     r.UserA,
		UserB:     r.UserB,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}
}
