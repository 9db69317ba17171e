// Package server initializes and runs the roomstats application: it opens
// the database, applies migrations, wires repositories, cache, output writer
// and services, and serves the HTTP routes until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/roomstats/internal/logging"
	"github.com/dmitrijs2005/roomstats/internal/server/cache"
	"github.com/dmitrijs2005/roomstats/internal/server/config"
	"github.com/dmitrijs2005/roomstats/internal/server/httpapi"
	"github.com/dmitrijs2005/roomstats/internal/server/output"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/roomstats/internal/server/services"
	"github.com/dmitrijs2005/roomstats/internal/server/shared/db"
	"github.com/gin-gonic/gin"
)

// startupTimeout bounds connecting to PostgreSQL, Redis and S3 and running
// migrations.
const startupTimeout = 30 * time.Second

// seams for tests
var (
	openDB         = db.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newRedisCache  = func(ctx context.Context, c *config.Config) (cache.Cache, func() error, error) {
		rc, err := cache.NewRedisCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB, c.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	}
	newS3Mirror = func(ctx context.Context, c *config.Config) (output.Mirror, error) {
		return output.NewS3Mirror(ctx, output.S3Settings{
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
		})
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	server  *httpapi.HTTPServer
	closers []func() error
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	app := &App{config: c, logger: logger}

	conn, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.db = conn
	app.closers = append(app.closers, conn.Close)

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var reportCache cache.Cache = cache.NewNopCache()
	if c.CacheEnabled() {
		rc, closeFn, err := newRedisCache(ctx, c)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("cache init error: %w", err)
		}
		reportCache = rc
		app.closers = append(app.closers, closeFn)
	}

	enc, err := output.NewEncoder(c.OutputFormat)
	if err != nil {
		app.close()
		return nil, err
	}

	var mirror output.Mirror
	if c.MirrorEnabled() {
		mirror, err = newS3Mirror(ctx, c)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
	}
	writer := output.NewFileWriter(c.OutputDir, enc, mirror)

	is := services.NewImportService(conn, rm, reportCache, c, logger)
	rs := services.NewReportService(conn, rm, reportCache, writer, logger)
	xs := services.NewIndexService(conn, rm, logger)

	app.server = httpapi.NewHTTPServer(c.EndpointAddr, c.OutputFormat, c.ShutdownTimeout, logger, httpapi.Deps{
		Importer: is,
		Reporter: rs,
		Indexer:  xs,
		Pinger:   conn,
	})

	logger.Info(ctx, "App initialized",
		"format", c.OutputFormat,
		"cache", c.CacheEnabled(),
		"s3_mirror", c.MirrorEnabled(),
	)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a signal arrives, then releases the
// database pool and the cache client.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	gin.SetMode(gin.ReleaseMode)
	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close error", "error", err)
		}
	}
	app.closers = nil
}
