// Package handlers provides HTTP handlers for API endpoints.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/middleware"
	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/services"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SessionHandler handles assessment session endpoints
// #INTEGRATION_POINT: The survey frontend drives the respondent flow through
// these endpoints
type SessionHandler struct {
	sessionService services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest represents the start-session request body
type CreateSessionRequest struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID          string                   `json:"id"`
	Respondent  models.Respondent        `json:"respondent"`
	Status      string                   `json:"status"`
	Answers     map[string]models.Answer `json:"answers"`
	Progress    *services.SessionProgress `json:"progress,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
}

// CreatedSessionResponse combines a new session with its access token
type CreatedSessionResponse struct {
	Session   SessionResponse `json:"session"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	ExpiresIn int64           `json:"expires_in"`
}

// SaveAnswerRequest represents an answer submission.
// Exactly one of likert, yes_no or skipped must be provided.
type SaveAnswerRequest struct {
	Likert  *int   `json:"likert,omitempty"`
	YesNo   *bool  `json:"yes_no,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Comment string `json:"comment,omitempty"`
}

func toSessionResponse(session *models.AssessmentSession, progress *services.SessionProgress) SessionResponse {
	return SessionResponse{
		ID:          session.ID.Hex(),
		Respondent:  session.Respondent,
		Status:      string(session.Status),
		Answers:     session.Answers,
		Progress:    progress,
		CreatedAt:   session.CreatedAt,
		CompletedAt: session.CompletedAt,
	}
}

// CreateSession handles POST /api/v1/sessions
// @Summary Start an assessment session
// @Description Creates a new session and returns the token that binds all further requests to it
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest false "Respondent metadata"
// @Success 201 {object} CreatedSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	// Respondent metadata is optional, so an empty body is accepted
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Malformed request body",
		})
		return
	}

	created, err := h.sessionService.CreateSession(c.Request.Context(), services.CreateSessionRequest{
		Respondent: models.Respondent{
			Name:         req.Name,
			Organization: req.Organization,
			Role:         req.Role,
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create session",
		})
		return
	}

	c.JSON(http.StatusCreated, CreatedSessionResponse{
		Session:   toSessionResponse(created.Session, nil),
		Token:     created.Token.Token,
		ExpiresAt: created.Token.ExpiresAt,
		ExpiresIn: created.Token.ExpiresIn,
	})
}

// GetSession handles GET /api/v1/sessions/current
// @Summary Get the current session
// @Description Returns the session bound to the presented token, including progress
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/current [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	progress, err := h.sessionService.Progress(c.Request.Context(), sessionID)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session, progress))
}

// SaveAnswer handles PUT /api/v1/sessions/current/answers/:question_id
// @Summary Save an answer
// @Description Stores or replaces the answer to one question on the current session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path string true "Catalog question ID"
// @Param request body SaveAnswerRequest true "Answer payload"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/current/answers/{question_id} [put]
func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	questionID := c.Param("question_id")

	var req SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Malformed request body",
		})
		return
	}

	answer := models.Answer{
		Likert:  req.Likert,
		YesNo:   req.YesNo,
		Skipped: req.Skipped,
		Comment: req.Comment,
	}

	session, err := h.sessionService.SaveAnswer(c.Request.Context(), sessionID, questionID, answer)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session, nil))
}

// CompleteSession handles POST /api/v1/sessions/current/complete
// @Summary Complete the current session
// @Description Marks the session completed once every question is answered or skipped
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/current/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	session, err := h.sessionService.CompleteSession(c.Request.Context(), sessionID)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session, nil))
}

// writeSessionError maps service errors to HTTP responses
// #IMPLEMENTATION_DECISION: Validation problems are 400, lifecycle conflicts
// are 409, incompleteness is 422, unknown resources are 404
func (h *SessionHandler) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session_not_found",
			Message: "Session not found",
		})
	case errors.Is(err, models.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "question_not_found",
			Message: "Question not found in catalog",
		})
	case errors.Is(err, models.ErrSessionCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "session_completed",
			Message: "Session is already completed and can no longer be modified",
		})
	case errors.Is(err, models.ErrSessionIncomplete):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "session_incomplete",
			Message: err.Error(),
		})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_answer",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// RegisterRoutes registers session handler routes
func (h *SessionHandler) RegisterRoutes(api *gin.RouterGroup, sessionAuth gin.HandlerFunc) {
	api.POST("/sessions", h.CreateSession)

	current := api.Group("/sessions/current", sessionAuth)
	current.GET("", h.GetSession)
	current.PUT("/answers/:question_id", h.SaveAnswer)
	current.POST("/complete", h.CompleteSession)
}
