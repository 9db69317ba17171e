// Package services contains server-side business logic. This file implements
// ImportService, which bulk-loads the JSON sources and clears the tables.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/roomstats/internal/common"
	"github.com/dmitrijs2005/roomstats/internal/dbx"
	"github.com/dmitrijs2005/roomstats/internal/logging"
	"github.com/dmitrijs2005/roomstats/internal/server/cache"
	"github.com/dmitrijs2005/roomstats/internal/server/config"
	"github.com/dmitrijs2005/roomstats/internal/server/models"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/tables"
)

// ImportService loads rooms and students from JSON files and clears them.
type ImportService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	cache        cache.Cache
	logger       logging.Logger
	roomsFile    string
	studentsFile string
}

func NewImportService(db *sql.DB, m repomanager.RepositoryManager, c cache.Cache, cfg *config.Config, logger logging.Logger) *ImportService {
	return &ImportService{
		db:           db,
		repomanager:  m,
		cache:        c,
		logger:       logger.With("module", "import"),
		roomsFile:    cfg.RoomsFile,
		studentsFile: cfg.StudentsFile,
	}
}

// Load imports rooms, then students. A file whose rows are already present
// is skipped, not failed; every other error aborts the load.
func (s *ImportService) Load(ctx context.Context) (*models.LoadSummary, error) {
	sources := []struct {
		repo tables.Repository
		file string
	}{
		{s.repomanager.Rooms(s.db), s.roomsFile},
		{s.repomanager.Students(s.db), s.studentsFile},
	}

	summary := &models.LoadSummary{Tables: make([]models.TableLoad, 0, len(sources))}

	for _, src := range sources {
		payload, err := readSource(src.file)
		if err != nil {
			return nil, err
		}

		load := models.TableLoad{Table: src.repo.Name(), File: src.file}

		n, err := src.repo.Import(ctx, payload)
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			s.logger.Warn(ctx, "table already loaded", "table", load.Table, "error", err)
			load.Skipped = true
		case err != nil:
			return nil, fmt.Errorf("import %s: %w", load.Table, err)
		default:
			load.Inserted = n
			s.logger.Info(ctx, "table loaded", "table", load.Table, "rows", n)
		}

		summary.Tables = append(summary.Tables, load)
	}

	s.invalidate(ctx)

	return summary, nil
}

// Clear deletes students, then rooms, in one transaction.
func (s *ImportService) Clear(ctx context.Context) (*models.ClearSummary, error) {
	summary := &models.ClearSummary{}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Students(tx).Clear(ctx)
		if err != nil {
			return fmt.Errorf("clear students: %w", err)
		}
		summary.Students = n

		n, err = s.repomanager.Rooms(tx).Clear(ctx)
		if err != nil {
			return fmt.Errorf("clear rooms: %w", err)
		}
		summary.Rooms = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "tables cleared", "students", summary.Students, "rooms", summary.Rooms)
	s.invalidate(ctx)

	return summary, nil
}

// Counts returns the current row count of both tables.
func (s *ImportService) Counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, 2)
	for _, repo := range []tables.Repository{s.repomanager.Rooms(s.db), s.repomanager.Students(s.db)} {
		n, err := repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		out[repo.Name()] = n
	}
	return out, nil
}

func (s *ImportService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn(ctx, "cache invalidation failed", "error", err)
	}
}

// readSource reads file and checks that it holds a JSON array.
func readSource(file string) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidSource, file, err)
	}

	return b, nil
}
