// Package httpapi exposes the import, report and index operations over
// HTTP with gin. Every route is a GET without authentication.
package httpapi

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/roomstats/internal/logging"
	"github.com/dmitrijs2005/roomstats/internal/server/models"
	"github.com/dmitrijs2005/roomstats/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Importer interface {
	Load(ctx context.Context) (*models.LoadSummary, error)
	Clear(ctx context.Context) (*models.ClearSummary, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

type Reporter interface {
	Run(ctx context.Context, name string) (*services.Report, error)
}

type Indexer interface {
	Create(ctx context.Context) (bool, error)
	Drop(ctx context.Context) (bool, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services behind the routes.
type Deps struct {
	Importer Importer
	Reporter Reporter
	Indexer  Indexer
	Pinger   Pinger
}

type HTTPServer struct {
	address         string
	format          string
	shutdownTimeout time.Duration
	deps            Deps
	logger          logging.Logger
}

// NewHTTPServer builds a server. format selects the response body encoding
// of report routes: XML for "xml", JSON otherwise.
func NewHTTPServer(address, format string, shutdownTimeout time.Duration, l logging.Logger, deps Deps) *HTTPServer {
	return &HTTPServer{
		address:         address,
		format:          format,
		shutdownTimeout: shutdownTimeout,
		deps:            deps,
		logger:          l.With("module", "http_server"),
	}
}

// Router returns the gin engine with every route registered.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("index").Parse(indexTemplate)))

	r.GET("/", s.index)
	r.GET("/wjson", s.load)
	r.GET("/clear", s.clear)
	for _, name := range models.ReportNames {
		r.GET("/"+name, s.report(name))
	}
	r.GET("/sex", s.report(models.ReportDiffSex))
	r.GET("/index", s.createIndex)
	r.GET("/delete_index", s.dropIndex)
	r.GET("/status", s.status)
	r.GET("/ping", s.ping)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
