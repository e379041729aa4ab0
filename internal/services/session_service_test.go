package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kval-tools/assessment_backend/internal/auth"
	"github.com/kval-tools/assessment_backend/internal/models"
)

// fakeSessionRepo is an in-memory SessionRepository for service tests
type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*models.AssessmentSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*models.AssessmentSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.AssessmentSession) error {
	session.BeforeCreate()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.AssessmentSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	copied := *session
	copied.Answers = make(map[string]models.Answer, len(session.Answers))
	for k, v := range session.Answers {
		copied.Answers[k] = v
	}
	return &copied, nil
}

func (r *fakeSessionRepo) UpsertAnswer(_ context.Context, id primitive.ObjectID, questionID string, answer models.Answer) error {
	session, ok := r.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	if session.Answers == nil {
		session.Answers = make(map[string]models.Answer)
	}
	session.Answers[questionID] = answer
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeSessionRepo) MarkCompleted(_ context.Context, id primitive.ObjectID) error {
	session, ok := r.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	session.Complete()
	return nil
}

// fakeCatalogService serves a fixed catalog
type fakeCatalogService struct {
	catalog []models.Question
}

func (s *fakeCatalogService) Catalog(_ context.Context) ([]models.Question, error) {
	return s.catalog, nil
}

func (s *fakeCatalogService) QuestionByID(_ context.Context, questionID string) (*models.Question, error) {
	for i := range s.catalog {
		if s.catalog[i].QuestionID == questionID {
			return &s.catalog[i], nil
		}
	}
	return nil, models.ErrQuestionNotFound
}

func (s *fakeCatalogService) Reload(_ context.Context) error { return nil }

func testCatalog() []models.Question {
	likert := validQuestion("q_likert")
	yesNo := validQuestion("q_yesno")
	yesNo.Type = models.AnswerTypeYesNo
	yesNo.Order = 2
	return []models.Question{likert, yesNo}
}

func newTestSessionService(t *testing.T) (SessionService, *fakeSessionRepo) {
	t.Helper()

	tokenSvc, err := auth.NewTokenService(auth.TokenConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, &fakeCatalogService{catalog: testCatalog()}, tokenSvc)
	return svc, repo
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestCreateSession(t *testing.T) {
	svc, _ := newTestSessionService(t)

	created, err := svc.CreateSession(context.Background(), CreateSessionRequest{
		Respondent: models.Respondent{Name: "Test User", Organization: "Test Org"},
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if created.Session.Status != models.SessionStatusInProgress {
		t.Errorf("Expected status in progress, got %s", created.Session.Status)
	}
	if created.Token == nil || created.Token.Token == "" {
		t.Fatal("Expected a session token")
	}
}

func TestSaveAnswer(t *testing.T) {
	svc, _ := newTestSessionService(t)

	created, err := svc.CreateSession(context.Background(), CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	sessionID := created.Session.ID.Hex()

	session, err := svc.SaveAnswer(context.Background(), sessionID, "q_likert", models.Answer{Likert: intPtr(5)})
	if err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}
	if got := session.Answers["q_likert"].Likert; got == nil || *got != 5 {
		t.Errorf("Expected stored likert value 5, got %v", got)
	}

	// Saving again replaces the previous answer
	session, err = svc.SaveAnswer(context.Background(), sessionID, "q_likert", models.Answer{Likert: intPtr(2)})
	if err != nil {
		t.Fatalf("SaveAnswer (replace) failed: %v", err)
	}
	if got := session.Answers["q_likert"].Likert; got == nil || *got != 2 {
		t.Errorf("Expected replaced likert value 2, got %v", got)
	}
}

func TestSaveAnswer_Validation(t *testing.T) {
	svc, _ := newTestSessionService(t)

	created, err := svc.CreateSession(context.Background(), CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	sessionID := created.Session.ID.Hex()

	tests := []struct {
		name       string
		questionID string
		answer     models.Answer
		wantErr    error
	}{
		{"unknown question", "q_missing", models.Answer{Likert: intPtr(4)}, models.ErrQuestionNotFound},
		{"type mismatch", "q_likert", models.Answer{YesNo: boolPtr(true)}, models.ErrAnswerTypeMismatch},
		{"out of range", "q_likert", models.Answer{Likert: intPtr(9)}, models.ErrLikertOutOfRange},
		{"empty answer", "q_yesno", models.Answer{}, models.ErrAnswerEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveAnswer(context.Background(), sessionID, tt.questionID, tt.answer)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompleteSession(t *testing.T) {
	svc, _ := newTestSessionService(t)

	created, err := svc.CreateSession(context.Background(), CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	sessionID := created.Session.ID.Hex()

	// Incomplete: one question answered, one untouched
	if _, err := svc.SaveAnswer(context.Background(), sessionID, "q_likert", models.Answer{Likert: intPtr(6)}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}
	if _, err := svc.CompleteSession(context.Background(), sessionID); !errors.Is(err, models.ErrSessionIncomplete) {
		t.Fatalf("Expected ErrSessionIncomplete, got %v", err)
	}

	// Explicit skip closes the remaining question
	if _, err := svc.SaveAnswer(context.Background(), sessionID, "q_yesno", models.Answer{Skipped: true}); err != nil {
		t.Fatalf("SaveAnswer (skip) failed: %v", err)
	}
	session, err := svc.CompleteSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	if !session.IsCompleted() {
		t.Error("Expected completed session")
	}

	// Completed sessions are immutable
	if _, err := svc.SaveAnswer(context.Background(), sessionID, "q_likert", models.Answer{Likert: intPtr(1)}); !errors.Is(err, models.ErrSessionCompleted) {
		t.Errorf("Expected ErrSessionCompleted, got %v", err)
	}
	if _, err := svc.CompleteSession(context.Background(), sessionID); !errors.Is(err, models.ErrSessionCompleted) {
		t.Errorf("Expected ErrSessionCompleted on re-complete, got %v", err)
	}
}

func TestProgress(t *testing.T) {
	svc, _ := newTestSessionService(t)

	created, err := svc.CreateSession(context.Background(), CreateSessionRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	sessionID := created.Session.ID.Hex()

	if _, err := svc.SaveAnswer(context.Background(), sessionID, "q_likert", models.Answer{Likert: intPtr(3)}); err != nil {
		t.Fatalf("SaveAnswer failed: %v", err)
	}

	progress, err := svc.Progress(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Answered != 1 || progress.TotalQuestions != 2 {
		t.Errorf("Expected 1/2 answered, got %d/%d", progress.Answered, progress.TotalQuestions)
	}
	if len(progress.Missing) != 1 || progress.Missing[0] != "q_yesno" {
		t.Errorf("Expected q_yesno missing, got %v", progress.Missing)
	}
}
