// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// QuestionRepository defines operations for the question catalog
// #QUERY_INTERFACE: Catalog data access patterns
type QuestionRepository interface {
	// Create creates a new catalog question
	Create(ctx context.Context, question *models.Question) error

	// CreateMany inserts a batch of catalog questions
	CreateMany(ctx context.Context, questions []*models.Question) error

	// GetByQuestionID finds a question by its stable catalog identifier
	GetByQuestionID(ctx context.Context, questionID string) (*models.Question, error)

	// ListAll lists the full catalog in instrument order
	ListAll(ctx context.Context) ([]models.Question, error)

	// Count counts the catalog questions
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes the entire catalog
	DeleteAll(ctx context.Context) (int64, error)
}

// SessionRepository defines operations for assessment sessions
// #QUERY_INTERFACE: Session data access patterns
type SessionRepository interface {
	// Create creates a new assessment session
	Create(ctx context.Context, session *models.AssessmentSession) error

	// GetByID finds a session by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.AssessmentSession, error)

	// UpsertAnswer stores or replaces a single answer on a session
	UpsertAnswer(ctx context.Context, id primitive.ObjectID, questionID string, answer models.Answer) error

	// MarkCompleted transitions a session to the completed state
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error
}
