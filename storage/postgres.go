package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDatabase = errors.New("unexpected-database-error")

// PostgresRepo serves the category catalog from a Postgres table, for
// deployments that manage prompt lists centrally instead of shipping a
// text file.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return &PostgresRepo{pool: pool}, nil
}

// LoadCategories returns prompt names in position order. Position is the
// stable catalog index, so the ordering here must be deterministic.
func (repo *PostgresRepo) LoadCategories(ctx context.Context) ([]string, error) {
	rows, err := repo.pool.Query(ctx, "SELECT name FROM categories ORDER BY position")
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	return names, nil
}

// AddCategory appends a prompt at the next free position.
func (repo *PostgresRepo) AddCategory(ctx context.Context, name string) (int, error) {
	row := repo.pool.QueryRow(ctx,
		"INSERT INTO categories(position, name) VALUES((SELECT COALESCE(MAX(position), -1) + 1 FROM categories), $1) RETURNING position",
		name,
	)

	var position int
	if err := row.Scan(&position); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return position, nil
}

func (repo *PostgresRepo) Close() {
	repo.pool.Close()
}
