package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/roomstats/internal/dbx"
	"github.com/dmitrijs2005/roomstats/internal/server/models"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/indexes"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/reports"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/tables"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeTableRepo struct {
	name string

	imported  []byte
	importN   int64
	importErr error

	clearN   int64
	clearErr error
	cleared  bool

	countN   int64
	countErr error
}

func (f *fakeTableRepo) Name() string { return f.name }

func (f *fakeTableRepo) Import(ctx context.Context, payload []byte) (int64, error) {
	f.imported = payload
	return f.importN, f.importErr
}

func (f *fakeTableRepo) Clear(ctx context.Context) (int64, error) {
	f.cleared = true
	return f.clearN, f.clearErr
}

func (f *fakeTableRepo) Count(ctx context.Context) (int64, error) {
	return f.countN, f.countErr
}

type fakeReportsRepo struct {
	calls int
	limit int
	err   error
	// onQuery runs inside every query, after the rows are read.
	onQuery func()

	roomList []models.RoomStudentCount
	avg      []models.RoomAverageAge
	diff     []models.RoomAgeDiff
	mixed    []models.RoomMixedSex
}

func (f *fakeReportsRepo) query() {
	f.calls++
	if f.onQuery != nil {
		f.onQuery()
	}
}

func (f *fakeReportsRepo) RoomList(ctx context.Context) ([]models.RoomStudentCount, error) {
	f.query()
	return f.roomList, f.err
}

func (f *fakeReportsRepo) SmallestAverageAge(ctx context.Context, limit int) ([]models.RoomAverageAge, error) {
	f.query()
	f.limit = limit
	return f.avg, f.err
}

func (f *fakeReportsRepo) BiggestAgeDiff(ctx context.Context, limit int) ([]models.RoomAgeDiff, error) {
	f.query()
	f.limit = limit
	return f.diff, f.err
}

func (f *fakeReportsRepo) MixedSex(ctx context.Context) ([]models.RoomMixedSex, error) {
	f.query()
	return f.mixed, f.err
}

type fakeIndexRepo struct {
	exists    bool
	existsErr error
	createErr error
	dropErr   error
	lockErr   error
	created   bool
	dropped   bool
	locked    bool
}

func (f *fakeIndexRepo) Lock(ctx context.Context) error {
	f.locked = true
	return f.lockErr
}

func (f *fakeIndexRepo) Create(ctx context.Context) error {
	f.created = true
	return f.createErr
}

func (f *fakeIndexRepo) Drop(ctx context.Context) error {
	f.dropped = true
	return f.dropErr
}

func (f *fakeIndexRepo) Exists(ctx context.Context) (bool, error) {
	if !f.locked {
		return false, errors.New("exists checked without lock")
	}
	return f.exists, f.existsErr
}

type fakeRepoManager struct {
	rooms    *fakeTableRepo
	students *fakeTableRepo
	reports  *fakeReportsRepo
	indexes  *fakeIndexRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		rooms:    &fakeTableRepo{name: tables.Rooms},
		students: &fakeTableRepo{name: tables.Students},
		reports:  &fakeReportsRepo{},
		indexes:  &fakeIndexRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Rooms(dbx.DBTX) tables.Repository             { return m.rooms }
func (m *fakeRepoManager) Students(dbx.DBTX) tables.Repository          { return m.students }
func (m *fakeRepoManager) Reports(dbx.DBTX) reports.Repository          { return m.reports }
func (m *fakeRepoManager) Indexes(dbx.DBTX) indexes.Repository          { return m.indexes }

type fakeCache struct {
	gen         int64
	data        map[string][]byte
	genErr      error
	getErr      error
	setErr      error
	invalidated int
	invErr      error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func cacheKey(gen int64, name string) string { return fmt.Sprintf("%d:%s", gen, name) }

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	return c.gen, c.genErr
}

func (c *fakeCache) Get(ctx context.Context, gen int64, name string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.data[cacheKey(gen, name)]
	return b, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, gen int64, name string, payload []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[cacheKey(gen, name)] = payload
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	if c.invErr != nil {
		return c.invErr
	}
	c.gen++
	return nil
}

type fakeWriter struct {
	name  string
	rows  any
	calls int
	err   error
}

func (w *fakeWriter) Write(ctx context.Context, name string, rows any) (string, error) {
	w.calls++
	w.name, w.rows = name, rows
	if w.err != nil {
		return "", w.err
	}
	return "/out/select_" + name + ".json", nil
}
