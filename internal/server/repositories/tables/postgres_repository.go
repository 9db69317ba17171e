package tables

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/roomstats/internal/common"
	"github.com/dmitrijs2005/roomstats/internal/dbx"
)

// Table names known to the schema.
const (
	Rooms    = "rooms"
	Students = "students"
)

// Allowed lists the tables a PostgresRepository may be bound to.
var Allowed = map[string]struct{}{
	Rooms:    {},
	Students: {},
}

type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewPostgresRepository binds a repository to table, which must be one of
// Allowed.
func NewPostgresRepository(db dbx.DBTX, table string) (*PostgresRepository, error) {
	if _, ok := Allowed[table]; !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownTable, table)
	}
	return &PostgresRepository{db: db, table: table}, nil
}

func (r *PostgresRepository) Name() string { return r.table }

func (r *PostgresRepository) Import(ctx context.Context, payload []byte) (int64, error) {

	query := fmt.Sprintf(
		`INSERT INTO %[1]s
		 SELECT * FROM json_populate_recordset(NULL::%[1]s, $1::json)
		 `, r.table)

	res, err := r.db.ExecContext(ctx, query, string(payload))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s: %w", common.ErrAlreadyExists, r.table, err)
		}
		if dbx.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: %s: %w", common.ErrMissingReference, r.table, err)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Clear(ctx context.Context) (int64, error) {

	query := fmt.Sprintf(`DELETE FROM %s`, r.table)

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)

	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
