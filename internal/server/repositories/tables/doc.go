// Package tables provides bulk JSON import and full-table clear for the
// rooms and students tables.
//
// # Overview
//
// Import hands the raw JSON array to PostgreSQL and lets
// json_populate_recordset map object keys onto the table's columns, so a
// single INSERT ... SELECT loads the whole file. The table name is
// interpolated into the statement, which is why only names from Allowed are
// accepted by NewPostgresRepository.
//
// Key Types
//
//   - type Repository: interface used by the import service
//   - type PostgresRepository: PostgreSQL implementation over dbx.DBTX
//
// Typical Usage
//
//	repo, _ := tables.NewPostgresRepository(db, tables.Rooms)
//	n, err := repo.Import(ctx, payload)
//	if errors.Is(err, common.ErrAlreadyExists) {
//	    // file was imported before
//	}
package tables
