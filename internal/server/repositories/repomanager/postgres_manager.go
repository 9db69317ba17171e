// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/roomstats/internal/dbx"
	"github.com/dmitrijs2005/roomstats/internal/server/migrations"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/indexes"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/reports"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/tables"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Rooms returns the rooms table repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Rooms(db dbx.DBTX) tables.Repository {
	return mustTable(db, tables.Rooms)
}

// Students returns the students table repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Students(db dbx.DBTX) tables.Repository {
	return mustTable(db, tables.Students)
}

// Reports returns a reports.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Reports(db dbx.DBTX) reports.Repository {
	return reports.NewPostgresRepository(db)
}

// Indexes returns an indexes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Indexes(db dbx.DBTX) indexes.Repository {
	return indexes.NewPostgresRepository(db)
}

// mustTable panics only for names outside tables.Allowed, which the two
// callers above never pass.
func mustTable(db dbx.DBTX, name string) tables.Repository {
	r, err := tables.NewPostgresRepository(db, name)
	if err != nil {
		panic(err)
	}
	return r
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
