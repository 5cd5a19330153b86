package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/voicevault/internal/client/migrations"
	"github.com/dmitrijs2005/voicevault/internal/client/repositories/recordings"
	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the local repositories backed by one SQLite database.
type Repositories struct {
	Recordings recordings.Repository
}

// RunMigrations applies the embedded goose migrations to the local database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database, migrates it and returns the
// repository set. Open or migration failures are reported as
// common.ErrStoreUnavailable so callers can distinguish a broken store from
// an individual operation failure.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return &Repositories{
		Recordings: recordings.NewSQLiteRepository(db),
	}, nil
}
