//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"portal-chat/domain"
	"portal-chat/errors"
)

type IMessageRepository interface {
	Store(message domain.Message) error
	Get(messageID uuid.UUID) (domain.Message, error)
	GetMessages(projectID string) ([]domain.Message, error)
	Update(message domain.Message) error
	Delete(messageID uuid.UUID) error
	ClearProject(projectID string) ([]uuid.UUID, error)
	MarkRead(projectID, readerID string) (int, error)
	UnreadCounts(userID string) (map[string]int, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// messageKey builds the primary key "msg:{project}:{timestamp_padded}:{uuid}".
// The 19-digit zero padding makes a forward prefix scan return messages in
// chronological order; the UUID disambiguates same-nanosecond arrivals.
func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.ProjectID, m.CreatedAt.UnixNano(), m.ID))
}

// indexKey maps a message ID back to its primary key for point lookups.
func indexKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

func projectPrefix(projectID string) []byte {
	return []byte("msg:" + projectID + ":")
}

// Store persists a message and its ID index entry in one transaction.
func (r MessageRepository) Store(message domain.Message) error {
	key := messageKey(message)
	value, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(indexKey(message.ID), key)
	})
}

// Get resolves a single message through the ID index.
func (r MessageRepository) Get(messageID uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := resolvePrimaryKey(txn, messageID)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return errors.ErrMessageNotFound
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &message)
		})
	})
	return message, err
}

// GetMessages returns the full message list of a project, oldest first.
// The polling model replaces the client list wholesale on every fetch,
// so no cursor pagination is exposed here.
func (r MessageRepository) GetMessages(projectID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := projectPrefix(projectID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var m domain.Message
				if err := json.Unmarshal(val, &m); err != nil {
					return err
				}
				messages = append(messages, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

// Update rewrites a message in place. The primary key embeds CreatedAt,
// which is immutable, so the slot stays stable across edits.
func (r MessageRepository) Update(message domain.Message) error {
	value, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := resolvePrimaryKey(txn, message.ID)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
}

// Delete removes a message and its index entry. Hard removal, no tombstone.
func (r MessageRepository) Delete(messageID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := resolvePrimaryKey(txn, messageID)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(messageID))
	})
}

// ClearProject removes every message of a project and returns the removed
// IDs so callers can purge derived state (search index).
func (r MessageRepository) ClearProject(projectID string) ([]uuid.UUID, error) {
	var removed []uuid.UUID
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := projectPrefix(projectID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var m domain.Message
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			})
			if err != nil {
				it.Close()
				return err
			}
			removed = append(removed, m.ID)
			keys = append(keys, item.KeyCopy(nil))
		}
		// The iterator must be released before mutating the transaction.
		it.Close()

		for i, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
			if err := txn.Delete(indexKey(removed[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("Project chat cleared", "project", projectID, "removed", len(removed))
	return removed, nil
}

// MarkRead appends the reader to every unread message from other senders
// in the project and returns how many messages were updated.
func (r MessageRepository) MarkRead(projectID, readerID string) (int, error) {
	updated := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := projectPrefix(projectID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)

		type pending struct {
			key   []byte
			value []byte
		}
		var writes []pending

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var m domain.Message
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			})
			if err != nil {
				it.Close()
				return err
			}
			if m.SenderID == readerID || lo.Contains(m.ReadBy, readerID) {
				continue
			}
			m.ReadBy = append(m.ReadBy, readerID)
			value, err := json.Marshal(m)
			if err != nil {
				it.Close()
				return err
			}
			writes = append(writes, pending{key: item.KeyCopy(nil), value: value})
		}
		it.Close()

		for _, w := range writes {
			if err := txn.Set(w.key, w.value); err != nil {
				return err
			}
		}
		updated = len(writes)
		return nil
	})
	return updated, err
}

// UnreadCounts scans all messages and counts, per project, those sent by
// someone else that the user has not read yet.
func (r MessageRepository) UnreadCounts(userID string) (map[string]int, error) {
	counts := make(map[string]int)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var m domain.Message
				if err := json.Unmarshal(val, &m); err != nil {
					return err
				}
				if m.SenderID != userID && !lo.Contains(m.ReadBy, userID) {
					counts[m.ProjectID]++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return counts, err
}

func resolvePrimaryKey(txn *badger.Txn, messageID uuid.UUID) ([]byte, error) {
	item, err := txn.Get(indexKey(messageID))
	if err != nil {
		return nil, errors.ErrMessageNotFound
	}
	return item.ValueCopy(nil)
}
