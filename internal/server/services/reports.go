package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/roomstats/internal/common"
	"github.com/dmitrijs2005/roomstats/internal/logging"
	"github.com/dmitrijs2005/roomstats/internal/server/cache"
	"github.com/dmitrijs2005/roomstats/internal/server/models"
	"github.com/dmitrijs2005/roomstats/internal/server/output"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/reports"
)

// TopN is the row limit of the top-N reports.
const TopN = 5

// Report is the result of one report run.
type Report struct {
	Name   string
	Rows   any
	Path   string
	Cached bool
}

type reportDef struct {
	query  func(ctx context.Context, r reports.Repository) (any, error)
	decode func(b []byte) (any, error)
}

var reportDefs = map[string]reportDef{
	models.ReportRoomList: {
		query: func(ctx context.Context, r reports.Repository) (any, error) {
			return r.RoomList(ctx)
		},
		decode: decodeRows[models.RoomStudentCount],
	},
	models.ReportSmallAverage: {
		query: func(ctx context.Context, r reports.Repository) (any, error) {
			return r.SmallestAverageAge(ctx, TopN)
		},
		decode: decodeRows[models.RoomAverageAge],
	},
	models.ReportBiggestDiff: {
		query: func(ctx context.Context, r reports.Repository) (any, error) {
			return r.BiggestAgeDiff(ctx, TopN)
		},
		decode: decodeRows[models.RoomAgeDiff],
	},
	models.ReportDiffSex: {
		query: func(ctx context.Context, r reports.Repository) (any, error) {
			return r.MixedSex(ctx)
		},
		decode: decodeRows[models.RoomMixedSex],
	},
}

func decodeRows[T any](b []byte) (any, error) {
	rows := make([]T, 0)
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReportService runs a named report, reading through the cache, and writes
// the rows with the configured output writer.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	writer      output.Writer
	logger      logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, c cache.Cache, w output.Writer, logger logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		cache:       c,
		writer:      w,
		logger:      logger.With("module", "reports"),
	}
}

// Run executes report name. The output file is written on every call, cache
// hit or not.
func (s *ReportService) Run(ctx context.Context, name string) (*Report, error) {
	def, ok := reportDefs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownReport, name)
	}

	report := &Report{Name: name}

	// The generation is read before the query: rows stored under it become
	// unreachable if an invalidation lands while the query runs.
	gen, err := s.cache.Generation(ctx)
	useCache := err == nil
	if !useCache {
		s.logger.Warn(ctx, "cache generation failed", "report", name, "error", err)
	}

	var hit bool
	if useCache {
		report.Rows, hit = s.cached(ctx, gen, name, def)
	}

	if hit {
		report.Cached = true
	} else {
		rows, err := def.query(ctx, s.repomanager.Reports(s.db))
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", name, err)
		}
		report.Rows = rows
		if useCache {
			s.store(ctx, gen, name, rows)
		}
	}

	path, err := s.writer.Write(ctx, name, report.Rows)
	if err != nil {
		return nil, err
	}
	report.Path = path

	s.logger.Info(ctx, "report written", "report", name, "path", path, "cached", report.Cached)

	return report, nil
}

// cached returns decoded rows on a cache hit. Cache failures fall through to
// the database.
func (s *ReportService) cached(ctx context.Context, gen int64, name string, def reportDef) (any, bool) {
	b, ok, err := s.cache.Get(ctx, gen, name)
	if err != nil {
		s.logger.Warn(ctx, "cache get failed", "report", name, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	rows, err := def.decode(b)
	if err != nil {
		s.logger.Warn(ctx, "cache entry undecodable", "report", name, "error", err)
		return nil, false
	}
	return rows, true
}

func (s *ReportService) store(ctx context.Context, gen int64, name string, rows any) {
	b, err := json.Marshal(rows)
	if err != nil {
		s.logger.Warn(ctx, "cache encode failed", "report", name, "error", err)
		return
	}
	if err := s.cache.Set(ctx, gen, name, b); err != nil {
		s.logger.Warn(ctx, "cache set failed", "report", name, "error", err)
	}
}
