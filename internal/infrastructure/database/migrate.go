package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/rs/zerolog/log"
)

// NewMigrator builds a goose provider for the NNNN_name.sql files in fsys.
// Concurrent migrators are serialized by a Postgres session advisory lock.
func NewMigrator(pool *pgxpool.Pool, fsys fs.FS) (*goose.Provider, error) {
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, fmt.Errorf("create migration lock: %w", err)
	}

	provider, err := goose.NewProvider(
		goose.DialectPostgres,
		stdlib.OpenDBFromPool(pool),
		fsys,
		goose.WithSessionLocker(locker),
	)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return provider, nil
}

// Migrate applies pending migrations, each in its own transaction, and
// returns how many were applied.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) (int, error) {
	provider, err := NewMigrator(pool, fsys)
	if err != nil {
		return 0, err
	}
	defer provider.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) {
			logApplied(partial.Applied)
			return len(partial.Applied), fmt.Errorf("apply migrations: %w", err)
		}
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	logApplied(results)
	return len(results), nil
}

func logApplied(results []*goose.MigrationResult) {
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("took", r.Duration).
			Msg("[MIGRATE] Applied")
	}
}
