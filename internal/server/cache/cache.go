// Package cache keeps serialized report rows between requests. Entries are
// stored under a generation number; Invalidate starts a new generation, so a
// write prepared against an older generation is never read back.
package cache

import "context"

// Cache stores report payloads by generation and report name.
type Cache interface {
	// Generation returns the current generation. Read it before querying
	// the database and pass it to Get and Set.
	Generation(ctx context.Context) (int64, error)
	// Get returns the payload for name and whether it was found.
	Get(ctx context.Context, gen int64, name string) ([]byte, bool, error)
	Set(ctx context.Context, gen int64, name string, payload []byte) error
	// Invalidate starts a new generation, orphaning every cached report.
	Invalidate(ctx context.Context) error
}

// NopCache never stores anything. It is used when no Redis address is
// configured.
type NopCache struct{}

func NewNopCache() *NopCache { return &NopCache{} }

func (NopCache) Generation(context.Context) (int64, error)                { return 0, nil }
func (NopCache) Get(context.Context, int64, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, int64, string, []byte) error         { return nil }
func (NopCache) Invalidate(context.Context) error                         { return nil }
