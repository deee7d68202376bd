// Package fakeservice is an in-memory stand-in for the remote analysis service.
// It serves the same endpoints and payload shapes and scores resumes by keyword
// overlap, which is enough for local development and integration tests.
package fakeservice

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxUploadSize   = 5 * 1024 * 1024
	defaultLimit    = 50
	shutdownTimeout = 5 * time.Second
)

var allowedExtensions = map[string]struct{}{".pdf": {}, ".txt": {}, ".docx": {}}

// Server wires the handlers to a gin engine.
type Server struct {
	engine *gin.Engine
	store  *memoryStore
	logger *zap.Logger
}

func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine: gin.New(),
		store:  newMemoryStore(),
		logger: logger,
	}
	s.engine.Use(s.accessLog(), gin.Recovery())
	s.registerRoutes()

	return s
}

// Handler exposes the engine, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("fake analysis service listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down fake analysis service")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.index)

	api := s.engine.Group("/api")
	api.POST("/analyze", s.analyze)
	api.GET("/history", s.history)
	api.GET("/analysis/:id", s.getAnalysis)
	api.DELETE("/analysis/:id", s.deleteAnalysis)
	api.GET("/stats", s.stats)
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"message": "Resume Analyzer API v1.0",
		"endpoints": []string{
			"POST /api/analyze",
			"GET /api/history",
			"GET /api/analysis/<id>",
			"DELETE /api/analysis/<id>",
			"GET /api/stats",
		},
	})
}

func (s *Server) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+1024*1024)

	header, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		fail(c, http.StatusBadRequest, "No resume file provided")
		return
	}

	if header.Filename == "" {
		fail(c, http.StatusBadRequest, "No file selected")
		return
	}

	jobDescription := c.PostForm("job_description")
	if jobDescription == "" {
		fail(c, http.StatusBadRequest, "No job description provided")
		return
	}

	filename := filepath.Base(header.Filename)
	if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]; !ok {
		fail(c, http.StatusBadRequest, "Invalid file type. Allowed: PDF, TXT, DOCX")
		return
	}

	if header.Size > maxUploadSize {
		fail(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	text, err := extractText(filename, data)
	if err != nil {
		s.logger.Info("rejecting resume", zap.String("filename", filename), zap.Error(err))
		fail(c, http.StatusBadRequest, "Could not extract text from resume: "+err.Error())
		return
	}

	scores := Score(text, jobDescription)
	stored := s.store.add(filename, jobDescription, scores)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"analysis_id":     stored.ID,
		"score":           stored.OverallScore,
		"breakdown":       stored.Breakdown,
		"matched_skills":  stored.MatchedSkills,
		"missing_skills":  stored.MissingSkills,
		"recommendations": stored.Recommendations,
		"timestamp":       time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
	})
}

func (s *Server) history(c *gin.Context) {
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items := s.store.list(limit)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(items),
		"analyses": items,
	})
}

func (s *Server) getAnalysis(c *gin.Context) {
	id, ok := analysisID(c)
	if !ok {
		return
	}

	r, found := s.store.get(id)
	if !found {
		fail(c, http.StatusNotFound, "Analysis not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": r})
}

func (s *Server) deleteAnalysis(c *gin.Context) {
	id, ok := analysisID(c)
	if !ok {
		return
	}

	if !s.store.remove(id) {
		fail(c, http.StatusNotFound, "Analysis not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Analysis deleted successfully"})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": s.store.summary()})
}

// analysisID parses the numeric id path parameter. Anything else is answered
// with 404, as ids are integers.
func analysisID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "Analysis not found")
		return 0, false
	}
	return id, true
}
