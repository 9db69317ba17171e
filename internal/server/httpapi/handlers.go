package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/roomstats/internal/server/config"
	"github.com/dmitrijs2005/roomstats/internal/server/models"
	"github.com/dmitrijs2005/roomstats/internal/server/output"
	"github.com/dmitrijs2005/roomstats/internal/server/repositories/indexes"
	"github.com/gin-gonic/gin"
)

const indexTemplate = `<!DOCTYPE html>
<html>
<head><title>roomstats</title></head>
<body>
<h1>roomstats</h1>
<ul>
{{range .}}<li><a href="{{.Path}}">{{.Path}}</a> {{.Title}}</li>
{{end}}</ul>
</body>
</html>
`

type link struct {
	Path  string
	Title string
}

var links = []link{
	{"/wjson", "load rooms and students"},
	{"/clear", "delete all rows"},
	{"/" + models.ReportRoomList, "students per room"},
	{"/" + models.ReportSmallAverage, "5 rooms with the smallest average age"},
	{"/" + models.ReportBiggestDiff, "5 rooms with the biggest age difference"},
	{"/" + models.ReportDiffSex, "rooms with students of both sexes"},
	{"/index", "create index on students"},
	{"/delete_index", "drop index on students"},
	{"/status", "row counts"},
}

func (s *HTTPServer) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", links)
}

// fail records err for the request logger and answers 500.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *HTTPServer) load(c *gin.Context) {
	summary, err := s.deps.Importer.Load(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *HTTPServer) clear(c *gin.Context) {
	summary, err := s.deps.Importer.Clear(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *HTTPServer) report(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := s.deps.Reporter.Run(c.Request.Context(), name)
		if err != nil {
			s.fail(c, err)
			return
		}

		c.Header("X-Report-File", rep.Path)
		if rep.Cached {
			c.Header("X-Report-Cache", "hit")
		} else {
			c.Header("X-Report-Cache", "miss")
		}

		if s.format == config.FormatXML {
			c.XML(http.StatusOK, output.NewXMLDocument(name, rep.Rows))
			return
		}
		c.JSON(http.StatusOK, rep.Rows)
	}
}

func (s *HTTPServer) createIndex(c *gin.Context) {
	created, err := s.deps.Indexer.Create(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": indexes.StudentsIndexName, "created": created})
}

func (s *HTTPServer) dropIndex(c *gin.Context) {
	dropped, err := s.deps.Indexer.Drop(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": indexes.StudentsIndexName, "dropped": dropped})
}

func (s *HTTPServer) status(c *gin.Context) {
	counts, err := s.deps.Importer.Counts(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *HTTPServer) ping(c *gin.Context) {
	if err := s.deps.Pinger.PingContext(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
