package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// fakeCatalogService serves a fixed catalog
type fakeCatalogService struct {
	catalog []models.Question
	err     error
}

func (f *fakeCatalogService) Catalog(_ context.Context) ([]models.Question, error) {
	return f.catalog, f.err
}

func (f *fakeCatalogService) QuestionByID(_ context.Context, questionID string) (*models.Question, error) {
	for i := range f.catalog {
		if f.catalog[i].QuestionID == questionID {
			return &f.catalog[i], nil
		}
	}
	return nil, models.ErrQuestionNotFound
}

func (f *fakeCatalogService) Reload(_ context.Context) error { return nil }

func TestCatalogHandler_GetCatalog(t *testing.T) {
	catalog := []models.Question{
		{
			QuestionID: "q_1",
			Channel:    models.ChannelJointResearch,
			Factor:     models.FactorEnvironmental,
			Type:       models.AnswerTypeLikert7,
			Prompt:     "Policy frameworks support co-creation.",
			Order:      1,
		},
		{
			QuestionID: "q_2",
			Channel:    models.ChannelJointResearch,
			Factor:     models.FactorEnvironmental,
			Type:       models.AnswerTypeYesNo,
			Prompt:     "Are there formal joint research agreements?",
			Order:      2,
		},
	}

	handler := NewCatalogHandler(&fakeCatalogService{catalog: catalog})
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest("GET", "/api/v1/catalog", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response CatalogResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Total != 2 {
		t.Errorf("Expected 2 questions, got %d", response.Total)
	}
	if len(response.Channels) != 6 {
		t.Errorf("Expected 6 channel entries, got %d", len(response.Channels))
	}
	if response.Questions[0].ChannelName != "Joint Research & Co-creation" {
		t.Errorf("Unexpected channel name %q", response.Questions[0].ChannelName)
	}
	if response.Questions[1].Type != "YES_NO" {
		t.Errorf("Expected YES_NO type, got %q", response.Questions[1].Type)
	}
}

func TestCatalogHandler_GetCatalog_Unavailable(t *testing.T) {
	handler := NewCatalogHandler(&fakeCatalogService{err: models.ErrCatalogEmpty})
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest("GET", "/api/v1/catalog", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
