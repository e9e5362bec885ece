package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemascope/internal/models"
	"schemascope/internal/responses"
	"schemascope/internal/services"
)

// AnalysisRunner is the slice of the analysis service the handler consumes.
type AnalysisRunner interface {
	Analyze(ctx context.Context, req services.AnalysisRequest) (*services.AnalysisResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error)
	GetGuideText(ctx context.Context, id uuid.UUID) (string, error)
	GetDigestText(ctx context.Context, id uuid.UUID) (string, error)
}

type AnalysisHandler struct {
	analysisService AnalysisRunner
}

func NewAnalysisHandler(analysisService AnalysisRunner) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// CreateAnalysis handles POST /api/v1/analyses
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var req services.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), req)
	if err != nil {
		var cycleErr *services.CircularDependencyError
		if errors.As(err, &cycleErr) {
			responses.Fail(c, http.StatusUnprocessableEntity, err, "Schema contains circular foreign key dependencies; retry with mode=digest")
			return
		}
		responses.Fail(c, http.StatusBadGateway, err, "Analysis failed")
		return
	}

	responses.Success(c, http.StatusCreated, result, "Analysis completed successfully")
}

// ListRuns handles GET /api/v1/analyses
func (h *AnalysisHandler) ListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			responses.Fail(c, http.StatusBadRequest, err, "Invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := h.analysisService.ListRuns(c.Request.Context(), limit)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to list analysis runs")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"runs": runs}, "")
}

// GetRun handles GET /api/v1/analyses/:id
func (h *AnalysisHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid run ID format")
		return
	}

	run, err := h.analysisService.GetRun(c.Request.Context(), id)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load analysis run")
		return
	}
	if run == nil {
		responses.Fail(c, http.StatusNotFound, nil, "Analysis run not found")
		return
	}

	responses.Success(c, http.StatusOK, run, "")
}

// GetGuide handles GET /api/v1/analyses/:id/guide
func (h *AnalysisHandler) GetGuide(c *gin.Context) {
	h.serveReport(c, h.analysisService.GetGuideText)
}

// GetDigest handles GET /api/v1/analyses/:id/digest
func (h *AnalysisHandler) GetDigest(c *gin.Context) {
	h.serveReport(c, h.analysisService.GetDigestText)
}

func (h *AnalysisHandler) serveReport(c *gin.Context, fetch func(context.Context, uuid.UUID) (string, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid run ID format")
		return
	}

	text, err := fetch(c.Request.Context(), id)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to load report")
		return
	}
	if text == "" {
		responses.Fail(c, http.StatusNotFound, nil, "Report not found or expired")
		return
	}

	c.String(http.StatusOK, text)
}
