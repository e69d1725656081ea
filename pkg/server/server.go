// Package server exposes the member QA system over HTTP: question answering
// backed by an LLM, a data-quality audit endpoint, health, and metrics.
package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dataquill/memberaudit/pkg/analyzer"
	"github.com/dataquill/memberaudit/pkg/feed"
	"github.com/dataquill/memberaudit/pkg/llm"
	"github.com/dataquill/memberaudit/pkg/prompts"
)

// Fetcher supplies the member-message batch. *feed.Client satisfies it; tests
// substitute a stub.
type Fetcher interface {
	Fetch() (*feed.Batch, error)
}

// Server wires the feed, the analyzer, and the LLM behind HTTP handlers.
type Server struct {
	fetcher     Fetcher
	chat        llm.LLM
	analyzerCfg analyzer.Config
	log         *zap.Logger
}

func New(fetcher Fetcher, chat llm.LLM, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		fetcher:     fetcher,
		chat:        chat,
		analyzerCfg: analyzer.DefaultConfig(),
		log:         logger,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.POST("/ask", s.handleAsk)
	r.GET("/audit", s.handleAudit)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// observe logs each request with a generated id and records metrics.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Next()

		elapsed := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())

		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Member QA System",
		"endpoints": gin.H{
			"/ask":    "POST - Ask questions about member data",
			"/audit":  "GET - Run the data-quality audit",
			"/health": "GET - Health check",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Question cannot be empty"})
		return
	}

	batch, err := s.fetcher.Fetch()
	if err != nil {
		s.log.Error("fetch member data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch member data: " + err.Error()})
		return
	}

	prompt, err := prompts.BuildAnswerPrompt(req.Question, batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	answer, err := s.chat.Chat(prompt)
	if err != nil {
		s.log.Error("llm chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "LLM error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleAudit(c *gin.Context) {
	batch, err := s.fetcher.Fetch()
	if err != nil {
		s.log.Error("fetch member data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch member data: " + err.Error()})
		return
	}

	a := analyzer.New(s.analyzerCfg, analyzer.WithOutput(io.Discard))
	rep, err := a.Analyze(batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rep)
}
