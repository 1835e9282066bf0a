//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	AppendMessage(conversationID, senderID int64, content string) (domain.Message, error)
	GetMessage(id int64) (domain.Message, error)
	MessagesForConversations(conversationIDs []int64) ([]domain.Message, error)
	MarkRead(id int64) error
	UpdateContent(id, requesterID int64, newContent string) error
}

type MessageRepository struct {
	db            *badger.DB
	seq           *badger.Sequence
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte("seq:message"), 128)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, seq: seq, log: log, limitMessages: limitMessages}, nil
}

func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

// messageRecord is the on-disk representation of a message.
type messageRecord struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	Content        string `json:"content"`
	SentAt         int64  `json:"sent_at"`
	Read           bool   `json:"read"`
}

// messageKey formats the primary key as "msg:{conversation}:{timestamp}:{id}" to:
//  1. Keep one prefix-scannable range per conversation.
//  2. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  3. Disambiguate two messages landing on the same nanosecond via the id suffix.
func messageKey(conversationID int64, sentAt time.Time, id int64) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%019d:%019d", conversationID, sentAt.UnixNano(), id))
}

// messageIDKey indexes a message id to its primary key, so that MarkRead and
// UpdateContent can reach a message without knowing its conversation or time.
func messageIDKey(id int64) []byte {
	return []byte(fmt.Sprintf("msgid:%019d", id))
}

// AppendMessage assigns the next id and persists the message unread.
func (m *MessageRepository) AppendMessage(conversationID, senderID int64, content string) (domain.Message, error) {
	next, err := m.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("next message id: %w", err)
	}
	message := domain.Message{
		ID:             int64(next) + 1,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		SentAt:         time.Now().UTC(),
		Read:           false,
	}
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal failed: %w", err)
	}
	primary := messageKey(conversationID, message.SentAt, message.ID)
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primary, data); err != nil {
			return err
		}
		return txn.Set(messageIDKey(message.ID), primary)
	})
	return message, err
}

// GetMessage resolves the id index and loads the message.
func (m *MessageRepository) GetMessage(id int64) (domain.Message, error) {
	var record messageRecord
	err := m.db.View(func(txn *badger.Txn) error {
		loaded, err := m.load(txn, id)
		if err != nil {
			return err
		}
		record = loaded
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(record), nil
}

// MessagesForConversations collects every message of the given conversations
// in ascending send-time order. When a replay limit is configured, only the
// most recent messages are kept.
func (m *MessageRepository) MessagesForConversations(conversationIDs []int64) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		for _, conversationID := range conversationIDs {
			prefix := []byte(fmt.Sprintf("msg:%019d:", conversationID))
			options := badger.DefaultIteratorOptions
			options.Prefix = prefix
			it := txn.NewIterator(options)

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				var record messageRecord
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &record)
				})
				if err != nil {
					it.Close()
					return err
				}
				messages = append(messages, toMessage(record))
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Per-conversation scans are already chronological; the merge across
	// conversations is not.
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].SentAt.Equal(messages[j].SentAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	if m.limitMessages != nil && len(messages) > *m.limitMessages {
		m.log.Debug(fmt.Sprintf("Replay capped to the %d most recent messages", *m.limitMessages))
		messages = messages[len(messages)-*m.limitMessages:]
	}
	return messages, nil
}

// MarkRead flips the read flag to true, exactly once.
// Acknowledging an already-read message is a no-op, never an error.
func (m *MessageRepository) MarkRead(id int64) error {
	return m.db.Update(func(txn *badger.Txn) error {
		record, err := m.load(txn, id)
		if err != nil {
			return err
		}
		if record.Read {
			return nil
		}
		record.Read = true
		return m.store(txn, record)
	})
}

// UpdateContent overwrites the content of a message owned by requesterID.
// Returns ErrMessageNotFound or ErrNotMessageAuthor accordingly.
func (m *MessageRepository) UpdateContent(id, requesterID int64, newContent string) error {
	return m.db.Update(func(txn *badger.Txn) error {
		record, err := m.load(txn, id)
		if err != nil {
			return err
		}
		if record.SenderID != requesterID {
			return errors.ErrNotMessageAuthor
		}
		record.Content = newContent
		return m.store(txn, record)
	})
}

// load follows the id index to the primary record inside txn.
func (m *MessageRepository) load(txn *badger.Txn, id int64) (messageRecord, error) {
	item, err := txn.Get(messageIDKey(id))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return messageRecord{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return messageRecord{}, err
	}
	var primary []byte
	if err = item.Value(func(val []byte) error {
		primary = append([]byte(nil), val...)
		return nil
	}); err != nil {
		return messageRecord{}, err
	}
	item, err = txn.Get(primary)
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return messageRecord{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return messageRecord{}, err
	}
	var record messageRecord
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &record)
	})
	return record, err
}

func (m *MessageRepository) store(txn *badger.Txn, record messageRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(messageKey(record.ConversationID, time.Unix(0, record.SentAt).UTC(), record.ID), data)
}

func fromMessage(message domain.Message) messageRecord {
	return messageRecord{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Content:        message.Content,
		SentAt:         message.SentAt.UnixNano(),
		Read:           message.Read,
	}
}

func toMessage(record messageRecord) domain.Message {
	return domain.Message{
		ID:             record.ID,
		ConversationID: record.ConversationID,
		SenderID:       record.SenderID,
		Content:        record.Content,
		SentAt:         time.Unix(0, record.SentAt).UTC(),
		Read:           record.Read,
	}
}
