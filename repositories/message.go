package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	messagePrefix      = "msg:"
	messageIndexPrefix = "idx:msg:"
	markBatchSize      = 256
)

// MessageRepository is the badger-backed message store.
// Every receipt update is a read-modify-write inside a single serializable transaction,
// so concurrent updates on the same message either commit in order or abort with
// badger.ErrConflict and get retried against the fresh value.
type MessageRepository struct {
	db         *badger.DB
	log        *slog.Logger
	txnRetries int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, txnRetries int) *MessageRepository {
	return &MessageRepository{db: db, log: log, txnRetries: txnRetries}
}

// messageKey is formatted as "msg:{group_id}:{created_at_padded}:{uuid}" to:
//  1. Keep a group's messages contiguous and sorted by creation time (19-digit zero padding).
//  2. Break ties between messages created at the same nanosecond with the uuid.
func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", messagePrefix, m.GroupID, m.CreatedAt.UnixNano(), m.ID))
}

func indexKey(id domain.MessageID) []byte {
	return []byte(messageIndexPrefix + id.String())
}

func groupPrefix(groupID domain.GroupID) []byte {
	return []byte(fmt.Sprintf("%s%s:", messagePrefix, groupID))
}

// update runs fn in a read-write transaction, retrying on conflicts.
func (m *MessageRepository) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := m.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt >= m.txnRetries {
			return err
		}
		m.log.Debug("Message transaction conflict, retrying", "attempt", attempt+1)
	}
}

func (m *MessageRepository) Insert(ctx context.Context, message domain.Message) (domain.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	bytes, err := encodeMessage(message)
	if err != nil {
		return domain.Message{}, err
	}
	key := messageKey(message)
	err = m.update(ctx, func(txn *badger.Txn) error {
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(indexKey(message.ID), key)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func (m *MessageRepository) Get(ctx context.Context, id domain.MessageID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		_, message, err = loadByID(txn, id)
		return err
	})
	return message, err
}

// PendingFor returns the messages of the given groups still owed to userID,
// oldest first.
func (m *MessageRepository) PendingFor(ctx context.Context, userID domain.UserID, groups []domain.GroupID) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var pending []keyedMessage
	err := m.db.View(func(txn *badger.Txn) error {
		for _, groupID := range lo.Uniq(groups) {
			err := scan(txn, groupPrefix(groupID), func(key []byte, message domain.Message) {
				if message.IntendedFor.Contains(userID) && !message.ReceivedBy.Contains(userID) {
					pending = append(pending, keyedMessage{key: string(key), message: message})
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(pending)
	return lo.Map(pending, func(k keyedMessage, _ int) domain.Message { return k.message }), nil
}

// MarkReceived unions users into the receipt set and reports whether the message is now complete.
// Users outside the intended recipients are ignored.
func (m *MessageRepository) MarkReceived(ctx context.Context, id domain.MessageID, users []domain.UserID) (bool, error) {
	var complete bool
	err := m.update(ctx, func(txn *badger.Txn) error {
		key, message, err := loadByID(txn, id)
		if err != nil {
			return err
		}
		added := message.Receive(users...)
		complete = message.IsComplete()
		if len(added) == 0 {
			return nil
		}
		return storeMessage(txn, key, message)
	})
	return complete, err
}

// MarkReceivedBatch marks userID on every message in ids and returns the ones now complete.
// Messages that no longer exist are skipped.
func (m *MessageRepository) MarkReceivedBatch(ctx context.Context, userID domain.UserID, ids []domain.MessageID) ([]domain.MessageID, error) {
	var completed []domain.MessageID
	for _, chunk := range lo.Chunk(ids, markBatchSize) {
		var chunkCompleted []domain.MessageID
		err := m.update(ctx, func(txn *badger.Txn) error {
			chunkCompleted = nil
			for _, id := range chunk {
				key, message, err := loadByID(txn, id)
				if errors.Is(err, errors.ErrMessageNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				added := message.Receive(userID)
				if message.IsComplete() {
					chunkCompleted = append(chunkCompleted, id)
				}
				if len(added) == 0 {
					continue
				}
				if err = storeMessage(txn, key, message); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return completed, err
		}
		completed = append(completed, chunkCompleted...)
	}
	return completed, nil
}

// DeleteIfComplete removes the message only if, inside the same transaction,
// its receipt set equals its intended recipients. A message already gone returns false.
func (m *MessageRepository) DeleteIfComplete(ctx context.Context, id domain.MessageID) (bool, error) {
	var deleted bool
	err := m.update(ctx, func(txn *badger.Txn) error {
		deleted = false
		key, message, err := loadByID(txn, id)
		if errors.Is(err, errors.ErrMessageNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !message.IsComplete() {
			return nil
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		if err = txn.Delete(indexKey(id)); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// Pending returns every stored message, oldest first.
func (m *MessageRepository) Pending(ctx context.Context) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var all []keyedMessage
	err := m.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(messagePrefix), func(key []byte, message domain.Message) {
			all = append(all, keyedMessage{key: string(key), message: message})
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(all)
	return lo.Map(all, func(k keyedMessage, _ int) domain.Message { return k.message }), nil
}

type keyedMessage struct {
	key     string
	message domain.Message
}

func sortByCreation(messages []keyedMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i].message.CreatedAt, messages[j].message.CreatedAt
		if !a.Equal(b) {
			return a.Before(b)
		}
		return messages[i].key < messages[j].key
	})
}

func scan(txn *badger.Txn, prefix []byte, fn func(key []byte, message domain.Message)) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		err := item.Value(func(val []byte) error {
			message, err := decodeMessage(val)
			if err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			fn(key, message)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func loadByID(txn *badger.Txn, id domain.MessageID) ([]byte, domain.Message, error) {
	idx, err := txn.Get(indexKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, domain.Message{}, err
	}
	key, err := idx.ValueCopy(nil)
	if err != nil {
		return nil, domain.Message{}, err
	}
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, domain.Message{}, err
	}
	var message domain.Message
	err = item.Value(func(val []byte) error {
		message, err = decodeMessage(val)
		return err
	})
	return key, message, err
}

func storeMessage(txn *badger.Txn, key []byte, message domain.Message) error {
	bytes, err := encodeMessage(message)
	if err != nil {
		return err
	}
	return txn.Set(key, bytes)
}
