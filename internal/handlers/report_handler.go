package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/middleware"
	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/services"
)

// ReportHandler handles score and report endpoints
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ScoresResponse is an Aggregate with the partial-data flag spelled out.
// #BUSINESS_RULE: Clients must visibly mark partial results, never render
// undefined levels as zero
type ScoresResponse struct {
	*models.Aggregate
	PartialData bool `json:"partial_data"`
}

// GetScores handles GET /api/v1/sessions/current/scores
// @Summary Get computed scores
// @Description Returns the aggregate scores for the current session without narratives. Works on in-progress sessions for live feedback.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ScoresResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/current/scores [get]
func (h *ReportHandler) GetScores(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	agg, err := h.reportService.Scores(c.Request.Context(), sessionID)
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScoresResponse{
		Aggregate:   agg,
		PartialData: agg.IsPartial(),
	})
}

// GetReport handles GET /api/v1/sessions/current/report
// @Summary Get the full assessment report
// @Description Builds the exportable report for a completed session. format=json (default) or format=csv; ai=false forces the deterministic narrative backend.
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "Export format" Enums(json, csv) default(json)
// @Param ai query bool false "Use the AI narrative backend when configured" default(true)
// @Success 200 {object} models.ExportableResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/current/report [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats are json and csv",
		})
		return
	}

	useAI := c.DefaultQuery("ai", "true") != "false"

	result, err := h.reportService.Report(c.Request.Context(), sessionID, useAI)
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	if format == "csv" {
		filename := "assessment_report_" + time.Now().UTC().Format("20060102_150405") + ".csv"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := h.reportService.WriteCSV(c.Writer, result); err != nil {
			// Headers are already sent - nothing sensible left to do
			_ = c.Error(err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeReportError maps scoring and report errors to HTTP responses
func (h *ReportHandler) writeReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session_not_found",
			Message: "Session not found",
		})
	case errors.Is(err, models.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "insufficient_data",
			Message: "No answered questions - scores cannot be computed",
		})
	case errors.Is(err, models.ErrSessionIncomplete):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "session_incomplete",
			Message: "Reports are only available for completed sessions",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to build report",
		})
	}
}

// RegisterRoutes registers report handler routes
func (h *ReportHandler) RegisterRoutes(api *gin.RouterGroup, sessionAuth gin.HandlerFunc) {
	current := api.Group("/sessions/current", sessionAuth)
	current.GET("/scores", h.GetScores)
	current.GET("/report", h.GetReport)
}
