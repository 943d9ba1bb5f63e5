//go:generate go run go.uber.org/mock/mockgen -source=audit.go -destination=../mocks/mock_audit_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	auditPrefix      = "audit:"
	auditIndexPrefix = "idx:audit:"
)

type IAuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuditRepository struct {
	db *badger.DB
}

func NewAuditRepository(db *badger.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func auditKey(entry domain.AuditEntry) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", auditPrefix, entry.At.UnixNano(), entry.ID))
}

func (a *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := auditKey(entry)
	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, encodeAudit(entry)); err != nil {
			return err
		}
		return txn.Set([]byte(auditIndexPrefix+entry.ID.String()), key)
	})
}

// List returns the most recent entries first. A limit <= 0 returns everything.
func (a *AuditRepository) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []domain.AuditEntry
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := []byte(auditPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration starts past the newest possible key of the prefix.
		for it.Seek(append(prefix, 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(entries) == limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				entry, err := decodeAudit(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return entries, err
}

func (a *AuditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idx := []byte(auditIndexPrefix + id.String())
	return a.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(idx)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrLogNotFound
		}
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(idx)
	})
}
