// Package api exposes experiments over JSON/HTTP
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gobayes/app"
	"gobayes/domain/core"
	"gobayes/internal"
	apperrors "gobayes/internal/errors"
)

// Server routes HTTP requests to the experiment service
type Server struct {
	router  *gin.Engine
	service *app.ExperimentService
	logger  *internal.Logger
}

// NewServer builds the gin engine with recovery and request logging
func NewServer(service *app.ExperimentService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  logger.Named("api"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.NoRoute(func(c *gin.Context) {
		s.writeError(c, apperrors.NotFound("route "+c.Request.URL.Path))
	})
	s.setupRoutes()
	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1/experiments")
	v1.GET("", s.handleList)
	v1.POST("/abn", s.handleCreateABN)
	v1.POST("/bayes-factor", s.handleCreateBF)
	v1.GET("/:id", s.handleGet)
	v1.DELETE("/:id", s.handleDelete)
	v1.POST("/:id/updates", s.handleUpdate)
	v1.GET("/:id/metrics", s.handleMetrics)
	v1.POST("/:id/decide", s.handleDecide)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// writeError maps domain errors onto status codes
func (s *Server) writeError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": appErr.Error(), "code": appErr.Code})
}

func (s *Server) experimentID(c *gin.Context) (core.ExperimentID, bool) {
	id, err := core.ParseExperimentID(c.Param("id"))
	if err != nil {
		s.writeError(c, apperrors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}
