// Package db wires the metadata database: connection, migrations and the
// repository set.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/voicevault/internal/server/repositories/recordings"
)

// RepositoryManager hands out repositories bound to one database.
type RepositoryManager interface {
	Conn() *sql.DB
	Recordings() recordings.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
