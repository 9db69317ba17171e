// Package indexes creates and drops the (birthday, sex, room) index on
// students. Both operations are idempotent; callers pair them with Exists
// under Lock to learn whether anything changed.
package indexes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/roomstats/internal/dbx"
)

// StudentsIndexName is the name of the composite index on students.
const StudentsIndexName = "students_birthday_sex_room_idx"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context) error {
	query := `CREATE INDEX IF NOT EXISTS ` + StudentsIndexName + ` ON students (birthday, sex, room)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Drop(ctx context.Context) error {
	query := `DROP INDEX IF EXISTS ` + StudentsIndexName

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM pg_indexes WHERE tablename = 'students' AND indexname = $1
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, StudentsIndexName).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Lock(ctx context.Context) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`

	if _, err := r.db.ExecContext(ctx, query, StudentsIndexName); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
