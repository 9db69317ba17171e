package tables

import "context"

// Repository bulk-loads and clears one table.
type Repository interface {
	// Import inserts every object of a JSON array in a single statement and
	// returns the number of inserted rows. A primary-key clash anywhere in
	// the payload fails the whole statement with common.ErrAlreadyExists.
	Import(ctx context.Context, payload []byte) (int64, error)
	// Clear deletes every row and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
	// Count returns the number of rows in the table.
	Count(ctx context.Context) (int64, error)
	// Name is the table this repository is bound to.
	Name() string
}
