package dbmysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store is the content store. Every method takes the request context; when that
// context carries a transaction opened by Transaction, the method runs inside it.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type txKey struct{}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// Transaction runs fn in a database transaction. Nested calls become savepoints,
// so an inner failure can be discarded without poisoning the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// CountRows counts every row of model.
func (s *Store) CountRows(ctx context.Context, model interface{}) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(model).Count(&n).Error
	return n, err
}

// IsDuplicateKey reports a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without an error translator
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// countGrouped counts rows of model grouped by column for the given ids.
// Ids with no rows are absent from the map.
func (s *Store) countGrouped(ctx context.Context, model interface{}, column string, ids []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		GroupKey uint64
		Total    int64
	}
	err := s.conn(ctx).Model(model).
		Select(column+" AS group_key, COUNT(*) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.GroupKey] = r.Total
	}
	return out, nil
}
