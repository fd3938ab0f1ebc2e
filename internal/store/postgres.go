package store

import (
	"context"
	"database/sql"

	"menucraft/api/internal/assets"
)

type PostgresStore struct {
	db     *sql.DB
	assets *assets.Resolver
}

// NewPostgresStore wraps a database handle. resolver may be nil, in which
// case image keys are returned as stored.
func NewPostgresStore(db *sql.DB, resolver *assets.Resolver) *PostgresStore {
	return &PostgresStore{db: db, assets: resolver}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
