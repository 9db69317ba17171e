package indexes

import "context"

// Repository manages the composite students index used by the reports.
type Repository interface {
	Create(ctx context.Context) error
	Drop(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
	// Lock serializes index changes until the surrounding transaction ends.
	// It must run inside a transaction.
	Lock(ctx context.Context) error
}
