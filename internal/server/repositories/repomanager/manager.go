package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/roomstats/internal/dbx"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/indexes"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/reports"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/tables"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Rooms(db dbx.DBTX) tables.Repository
	Students(db dbx.DBTX) tables.Repository
	Reports(db dbx.DBTX) reports.Repository
	Indexes(db dbx.DBTX) indexes.Repository
}
