//go:generate go run go.uber.org/mock/mockgen -source=typing.go -destination=../mocks/mock_typing_repository.go -package=mocks
package repositories

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"portal-chat/domain"
)

type ITypingRepository interface {
	SetTyping(projectID string, user domain.TypingUser, isTyping bool) error
	TypingUsers(projectID string) ([]domain.TypingUser, error)
}

// TypingRepository keeps ephemeral typing signals in Badger using entry TTLs.
// An entry that is never cleared expires on its own after domain.TypingTTL,
// mirroring the client-side debounce window.
type TypingRepository struct {
	db *badger.DB
}

func NewTypingRepository(db *badger.DB) TypingRepository {
	return TypingRepository{db: db}
}

func typingKey(projectID, userID string) []byte {
	return []byte("typing:" + projectID + ":" + userID)
}

// SetTyping writes a TTL-bounded entry when isTyping is true and deletes it
// otherwise. Both paths are idempotent.
func (r TypingRepository) SetTyping(projectID string, user domain.TypingUser, isTyping bool) error {
	key := typingKey(projectID, user.UserID)
	return r.db.Update(func(txn *badger.Txn) error {
		if !isTyping {
			err := txn.Delete(key)
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		value, err := json.Marshal(user)
		if err != nil {
			return err
		}
		entry := badger.NewEntry(key, value).WithTTL(domain.TypingTTL)
		return txn.SetEntry(entry)
	})
}

// TypingUsers returns the participants whose typing signal is still live.
func (r TypingRepository) TypingUsers(projectID string) ([]domain.TypingUser, error) {
	var users []domain.TypingUser
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("typing:" + projectID + ":")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var u domain.TypingUser
				if err := json.Unmarshal(val, &u); err != nil {
					return err
				}
				users = append(users, u)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}
