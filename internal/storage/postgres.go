package storage

import (
	"context"
	"errors"
	"fmt"

	"pencil/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) Close() {
	pgr.pool.Close()
}

// NextWordBatch returns up to n distinct random words.
func (pgr *PostgresRepo) NextWordBatch(ctx context.Context, n int) ([]string, error) {
	rows, err := pgr.pool.Query(ctx, `SELECT word FROM words ORDER BY RANDOM() LIMIT $1`, n)
	if err != nil {
		return nil, wrapQueryError(err)
	}
	defer rows.Close()

	words := make([]string, 0, n)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, wrapQueryError(err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err)
	}
	if len(words) == 0 {
		return nil, domain.ErrNoWords
	}
	return words, nil
}

// AddWords inserts words, skipping the ones already stored. It returns how many were new.
func (pgr *PostgresRepo) AddWords(ctx context.Context, words []string) (int, error) {
	inserted := 0
	for _, w := range words {
		tag, err := pgr.pool.Exec(ctx, `INSERT INTO words(word) VALUES($1) ON CONFLICT (word) DO NOTHING`, w)
		if err != nil {
			return inserted, wrapQueryError(err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (pgr *PostgresRepo) CountWords(ctx context.Context) (int, error) {
	var count int
	if err := pgr.pool.QueryRow(ctx, `SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		return 0, wrapQueryError(err)
	}
	return count, nil
}

func wrapQueryError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
}
