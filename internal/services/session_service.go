package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kval-tools/assessment_backend/internal/auth"
	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/repository"
)

// CreateSessionRequest represents the request to start an assessment session
type CreateSessionRequest struct {
	Respondent models.Respondent `json:"respondent"`
}

// CreatedSession combines a new session with its access token
type CreatedSession struct {
	Session *models.AssessmentSession `json:"session"`
	Token   *auth.IssuedToken         `json:"token"`
}

// SessionProgress summarises how far a session has progressed
type SessionProgress struct {
	Answered       int      `json:"answered"`
	TotalQuestions int      `json:"total_questions"`
	Missing        []string `json:"missing,omitempty"`
}

// SessionService handles assessment session business logic
// #INTEGRATION_POINT: Used by session handler for the respondent flow
type SessionService interface {
	// CreateSession starts a new session and issues its access token
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CreatedSession, error)

	// GetSession retrieves a session by its string ID
	GetSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error)

	// SaveAnswer validates and stores a single answer on an in-progress session
	SaveAnswer(ctx context.Context, sessionID, questionID string, answer models.Answer) (*models.AssessmentSession, error)

	// CompleteSession transitions a fully answered session to the completed state
	CompleteSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error)

	// Progress reports answered counts and missing questions for a session
	Progress(ctx context.Context, sessionID string) (*SessionProgress, error)
}

// sessionService implements SessionService
type sessionService struct {
	sessionRepo repository.SessionRepository
	catalogSvc  CatalogService
	tokenSvc    auth.TokenService
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	catalogSvc CatalogService,
	tokenSvc auth.TokenService,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		catalogSvc:  catalogSvc,
		tokenSvc:    tokenSvc,
	}
}

// CreateSession starts a new session and issues its access token
// #BUSINESS_RULE: The catalog must be valid before any session can be started
func (s *sessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreatedSession, error) {
	if _, err := s.catalogSvc.Catalog(ctx); err != nil {
		return nil, err
	}

	session := &models.AssessmentSession{
		Respondent: req.Respondent,
	}
	session.BeforeCreate()

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokenSvc.GenerateSessionToken(session.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &CreatedSession{Session: session, Token: token}, nil
}

// GetSession retrieves a session by its string ID
func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	id, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, models.ErrSessionNotFound
	}
	return s.sessionRepo.GetByID(ctx, id)
}

// SaveAnswer validates and stores a single answer on an in-progress session.
// Saving again for the same question replaces the previous answer.
func (s *sessionService) SaveAnswer(ctx context.Context, sessionID, questionID string, answer models.Answer) (*models.AssessmentSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// #BUSINESS_RULE: Completed sessions are immutable
	if session.IsCompleted() {
		return nil, models.ErrSessionCompleted
	}

	question, err := s.catalogSvc.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer.QuestionID = questionID
	answer.BeforeSave()
	if err := answer.Validate(question); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.UpsertAnswer(ctx, session.ID, questionID, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	return s.sessionRepo.GetByID(ctx, session.ID)
}

// CompleteSession transitions a fully answered session to the completed state.
// #BUSINESS_RULE: Every catalog question needs an answer or an explicit skip
// before completion; silently unanswered questions block it
func (s *sessionService) CompleteSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsCompleted() {
		return nil, models.ErrSessionCompleted
	}

	catalog, err := s.catalogSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	if missing := session.MissingQuestions(catalog); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %d questions unanswered", models.ErrSessionIncomplete, len(missing))
	}

	if err := s.sessionRepo.MarkCompleted(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.sessionRepo.GetByID(ctx, session.ID)
}

// Progress reports answered counts and missing questions for a session
func (s *sessionService) Progress(ctx context.Context, sessionID string) (*SessionProgress, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogSvc.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	return &SessionProgress{
		Answered:       session.AnsweredCount(),
		TotalQuestions: len(catalog),
		Missing:        session.MissingQuestions(catalog),
	}, nil
}
