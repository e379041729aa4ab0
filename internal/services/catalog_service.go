// Package services provides business logic implementations.
package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/repository"
)

// CatalogService provides validated access to the question catalog
// #INTEGRATION_POINT: Used by catalog handler and by the session/report services
type CatalogService interface {
	// Catalog returns the full validated catalog in instrument order
	Catalog(ctx context.Context) ([]models.Question, error)

	// QuestionByID returns a single catalog question
	QuestionByID(ctx context.Context, questionID string) (*models.Question, error)

	// Reload discards the cached catalog and revalidates from storage
	Reload(ctx context.Context) error
}

// catalogService implements CatalogService
// #IMPLEMENTATION_DECISION: The catalog changes only via the import tool, so it
// is validated once and cached for the lifetime of the process
type catalogService struct {
	questionRepo repository.QuestionRepository

	mu     sync.RWMutex
	cached []models.Question
}

// NewCatalogService creates a new catalog service
func NewCatalogService(questionRepo repository.QuestionRepository) CatalogService {
	return &catalogService{questionRepo: questionRepo}
}

// Catalog returns the full validated catalog in instrument order
func (s *catalogService) Catalog(ctx context.Context) ([]models.Question, error) {
	s.mu.RLock()
	if s.cached != nil {
		defer s.mu.RUnlock()
		return s.cached, nil
	}
	s.mu.RUnlock()

	return s.loadAndCache(ctx)
}

// QuestionByID returns a single catalog question
func (s *catalogService) QuestionByID(ctx context.Context, questionID string) (*models.Question, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	for i := range catalog {
		if catalog[i].QuestionID == questionID {
			return &catalog[i], nil
		}
	}
	return nil, models.ErrQuestionNotFound
}

// Reload discards the cached catalog and revalidates from storage
func (s *catalogService) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	_, err := s.loadAndCache(ctx)
	return err
}

// loadAndCache fetches the catalog, validates it and stores it in the cache
func (s *catalogService) loadAndCache(ctx context.Context) ([]models.Question, error) {
	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load question catalog: %w", err)
	}

	if err := ValidateCatalog(questions); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = questions
	s.mu.Unlock()

	log.Printf("Loaded question catalog with %d questions", len(questions))
	return questions, nil
}

// ValidateCatalog checks catalog-level invariants: the catalog must not be
// empty, every question must be individually valid and identifiers must be
// unique.
func ValidateCatalog(questions []models.Question) error {
	if len(questions) == 0 {
		return models.ErrCatalogEmpty
	}

	seen := make(map[string]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %q: %w", q.QuestionID, err)
		}
		if seen[q.QuestionID] {
			return fmt.Errorf("question %q: %w", q.QuestionID, models.ErrDuplicateQuestion)
		}
		seen[q.QuestionID] = true
	}

	return nil
}
