package database

import (
	"context"
	"database/sql"

	"bank-branches-backend/internal/catalog"

	"gorm.io/gorm"
)

// Store runs catalog queries through gorm. Parameters are bound by name
// (@name), never interpolated into the query text.
type Store struct {
	db *gorm.DB
}

var _ catalog.SnapshotStore = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) raw(ctx context.Context, query string, params map[string]any) *gorm.DB {
	tx := s.db.WithContext(ctx)
	if len(params) == 0 {
		return tx.Raw(query)
	}
	return tx.Raw(query, params)
}

func (s *Store) ExecuteAll(ctx context.Context, query string, params map[string]any) ([]catalog.Row, error) {
	var rows []map[string]any
	if err := s.raw(ctx, query, params).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Row(r))
	}
	return out, nil
}

func (s *Store) ExecuteOne(ctx context.Context, query string, params map[string]any) (catalog.Row, error) {
	rows, err := s.ExecuteAll(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ReadOnly runs fn against a Store bound to one read-only transaction.
// Postgres gets a repeatable-read snapshot; SQLite transactions are
// serializable already.
func (s *Store) ReadOnly(ctx context.Context, fn func(catalog.Store) error) error {
	var opts *sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	}, opts)
}
