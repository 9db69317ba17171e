package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/roomstats/internal/dbx"
	"github.com/dmitrijs2005/roomstats/internal/logging"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/indexes"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/repomanager"
)

// IndexService creates and drops the students index.
type IndexService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewIndexService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *IndexService {
	return &IndexService{db: db, repomanager: m, logger: logger.With("module", "indexes")}
}

// Create builds the index and reports whether it was missing before.
func (s *IndexService) Create(ctx context.Context) (bool, error) {
	existed, err := s.change(ctx, indexes.Repository.Create)
	if err != nil {
		return false, err
	}

	s.logger.Info(ctx, "index created", "existed", existed)
	return !existed, nil
}

// Drop removes the index and reports whether it was present before.
func (s *IndexService) Drop(ctx context.Context) (bool, error) {
	existed, err := s.change(ctx, indexes.Repository.Drop)
	if err != nil {
		return false, err
	}

	s.logger.Info(ctx, "index dropped", "existed", existed)
	return existed, nil
}

// change runs the existence check and ddl in one transaction under the
// index lock, so concurrent callers see each other's result.
func (s *IndexService) change(ctx context.Context, ddl func(indexes.Repository, context.Context) error) (bool, error) {
	var existed bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Indexes(tx)

		if err := repo.Lock(ctx); err != nil {
			return err
		}

		var err error
		existed, err = repo.Exists(ctx)
		if err != nil {
			return err
		}
		return ddl(repo, ctx)
	})
	if err != nil {
		return false, err
	}

	return existed, nil
}
