package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hydroworks/hydrobench/internal/batch"
	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/scorer"
)

func respondError(c *gin.Context, status int, err error) {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"benchmark": s.bench.Name(),
		"questions": s.bench.Len(),
	})
}

func (s *Server) handleBenchmarkInfo(c *gin.Context) {
	byCategory := make(map[string]int)
	byLevel := make(map[string]int)
	byType := make(map[string]int)
	for _, q := range s.bench.Questions() {
		byCategory[q.Category]++
		byLevel[q.Level]++
		byType[q.Type]++
	}

	c.JSON(http.StatusOK, gin.H{
		"name":        s.bench.Name(),
		"description": s.bench.Description(),
		"questions":   s.bench.Len(),
		"by_category": byCategory,
		"by_level":    byLevel,
		"by_type":     byType,
	})
}

func (s *Server) handleGetQuestion(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	q, err := s.bench.Get(id)
	if err != nil {
		if errors.Is(err, benchmark.ErrNotFound) {
			respondError(c, http.StatusNotFound, err)
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

type evaluateRequest struct {
	Model       string `json:"model"`
	Provider    string `json:"provider"`
	Predictions any    `json:"predictions"`
	Save        bool   `json:"save"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	preds, err := scorer.ParsePredictions(req.Predictions)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	rep, err := scorer.Score(s.bench, preds)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	rep.Model = strings.TrimSpace(req.Model)

	if req.Save {
		if s.store == nil {
			respondError(c, http.StatusBadRequest, errors.New("run store not configured"))
			return
		}
		if rep.Model == "" {
			respondError(c, http.StatusBadRequest, errors.New("model is required when save is set"))
			return
		}
		if _, err := s.store.SaveReport(c.Request.Context(), rep.Model, strings.TrimSpace(req.Provider), rep); err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	c.JSON(http.StatusOK, rep)
}

type batchEvaluateRequest struct {
	Columns []struct {
		Model       string `json:"model"`
		Predictions any    `json:"predictions"`
	} `json:"columns"`
}

func (s *Server) handleBatchEvaluate(c *gin.Context) {
	var req batchEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Columns) == 0 {
		respondError(c, http.StatusBadRequest, errors.New("columns is required"))
		return
	}

	columns := make([]batch.Column, 0, len(req.Columns))
	for _, col := range req.Columns {
		model := strings.TrimSpace(col.Model)
		if model == "" {
			respondError(c, http.StatusBadRequest, errors.New("column model is required"))
			return
		}
		columns = append(columns, batch.Column{Model: model, Predictions: col.Predictions})
	}

	sum, err := batch.EvaluateAll(s.bench, columns)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": sum.Results,
		"comparison": gin.H{
			"header": sum.Comparison.Header,
			"rows":   sum.Comparison.Rows,
		},
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("run store not configured"))
		return
	}

	limit, ok := parseLimit(c, 20)
	if !ok {
		return
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetLeaderboard(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("run store not configured"))
		return
	}

	bench := strings.TrimSpace(c.Query("benchmark"))
	if bench == "" {
		bench = s.bench.Name()
	}

	limit, ok := parseLimit(c, 20)
	if !ok {
		return
	}

	entries, err := s.store.Leaderboard(c.Request.Context(), bench, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleGetModelHistory(c *gin.Context) {
	if s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("run store not configured"))
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	if model == "" {
		respondError(c, http.StatusBadRequest, errors.New("model is required"))
		return
	}
	bench := strings.TrimSpace(c.Query("benchmark"))
	if bench == "" {
		bench = s.bench.Name()
	}

	entries, err := s.store.ModelHistory(c.Request.Context(), model, bench)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func parseLimit(c *gin.Context, def int) (int, bool) {
	limit := def
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return 0, false
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}
	return limit, true
}
