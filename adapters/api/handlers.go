package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gobayes/app"
	apperrors "gobayes/internal/errors"
)

func (s *Server) handleList(c *gin.Context) {
	list, err := s.service.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experiments": list})
}

func (s *Server) handleCreateABN(c *gin.Context) {
	var req app.CreateABNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	sum, err := s.service.CreateABN(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sum)
}

func (s *Server) handleCreateBF(c *gin.Context) {
	var req app.CreateBFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	sum, err := s.service.CreateBF(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sum)
}

func (s *Server) handleGet(c *gin.Context) {
	id, ok := s.experimentID(c)
	if !ok {
		return
	}
	sum, err := s.service.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := s.experimentID(c)
	if !ok {
		return
	}
	if err := s.service.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := s.experimentID(c)
	if !ok {
		return
	}
	var req app.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	version, err := s.service.Update(c.Request.Context(), id, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "version": version})
}

type metricsResponse struct {
	Rule   string             `json:"rule"`
	Values map[string]float64 `json:"values"`
}

func toMetricsResponse(m app.Metrics) metricsResponse {
	return metricsResponse{Rule: m.Rule.String(), Values: m.Values}
}

func (s *Server) handleMetrics(c *gin.Context) {
	id, ok := s.experimentID(c)
	if !ok {
		return
	}
	m, err := s.service.Metrics(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMetricsResponse(m))
}

type decisionResponse struct {
	Winner  string          `json:"winner,omitempty"`
	Decided bool            `json:"decided"`
	Metrics metricsResponse `json:"metrics"`
}

func (s *Server) handleDecide(c *gin.Context) {
	id, ok := s.experimentID(c)
	if !ok {
		return
	}
	d, err := s.service.Decide(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, decisionResponse{Winner: d.Winner, Decided: d.Decided, Metrics: toMetricsResponse(d.Metrics)})
}
