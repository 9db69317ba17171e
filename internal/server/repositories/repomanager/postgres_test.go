package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/indexes"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/reports"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/tables"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	m := NewPostgresRepositoryManager()
	if m == nil {
		t.Fatal("manager is nil")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	if r := m.Rooms(db); r == nil || r.Name() != tables.Rooms {
		t.Fatalf("Rooms() = %v", r)
	}
	if s := m.Students(db); s == nil || s.Name() != tables.Students {
		t.Fatalf("Students() = %v", s)
	}
	if rp := m.Reports(db); rp == nil {
		t.Fatal("Reports() nil")
	}
	if ix := m.Indexes(db); ix == nil {
		t.Fatal("Indexes() nil")
	}

	var _ reports.Repository = m.Reports(db)
	var _ indexes.Repository = m.Indexes(db)
}

func TestMustTable_PanicsOnUnknownTable(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	mustTable(db, "courses")
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
