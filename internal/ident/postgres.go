package ident

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore persists the identifier table in PostgreSQL. The table's
// unique constraints are authoritative: a lost race surfaces as
// ErrConflict and the resolver redraws.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects a pgx pool to the given DSN.
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info("PostgreSQL connected")
	return &PostgresStore{db: pool, logger: logger}, nil
}

func (s *PostgresStore) BySource(ctx context.Context, platform, source string) (int64, bool, error) {
	var num int64
	err := s.db.QueryRow(ctx, `
		SELECT surrogate FROM platform_ids
		WHERE platform = $1 AND source = $2`,
		platform, source,
	).Scan(&num)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup by source: %w", err)
	}
	return num, true, nil
}

func (s *PostgresStore) ByNumber(ctx context.Context, platform string, num int64) (string, bool, error) {
	var source string
	err := s.db.QueryRow(ctx, `
		SELECT source FROM platform_ids
		WHERE platform = $1 AND surrogate = $2`,
		platform, num,
	).Scan(&source)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup by number: %w", err)
	}
	return source, true, nil
}

func (s *PostgresStore) Insert(ctx context.Context, platform, source string, num int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO platform_ids (platform, source, surrogate)
		VALUES ($1, $2, $3)`,
		platform, source, num,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert id row: %w", err)
	}
	return nil
}

// Migrate applies the id-table schema if it is missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS platform_ids (
			platform  TEXT   NOT NULL,
			source    TEXT   NOT NULL,
			surrogate BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (platform, source),
			UNIQUE (platform, surrogate)
		)`)
	if err != nil {
		return fmt.Errorf("migrate platform_ids: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}
