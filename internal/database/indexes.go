package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// IndexManager handles MongoDB index creation and management
type IndexManager struct {
	db *mongo.Database
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *mongo.Database) *IndexManager {
	return &IndexManager{db: db}
}

// CreateAllIndexes creates all indexes for all collections
// #MIGRATION_DECISION: Indexes created at application startup if they don't exist
func (m *IndexManager) CreateAllIndexes(ctx context.Context) error {
	log.Println("Creating MongoDB indexes...")

	if err := m.createQuestionIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create question indexes: %w", err)
	}

	if err := m.createSessionIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}

	log.Println("All indexes created successfully")
	return nil
}

// createQuestionIndexes creates indexes for the questions collection
// #INDEX_IMPLEMENTATION: question_id unique, channel + factor + order for catalog listing
func (m *IndexManager) createQuestionIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Question{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "question_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_question_id_unique"),
		},
		{
			Keys: bson.D{
				{Key: "channel", Value: 1},
				{Key: "factor", Value: 1},
				{Key: "order", Value: 1},
			},
			Options: options.Index().SetName("idx_channel_factor_order"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createSessionIndexes creates indexes for the assessment_sessions collection
// #INDEX_IMPLEMENTATION: Status filters and recency queries
func (m *IndexManager) createSessionIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.AssessmentSession{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_status_created"),
		},
		{
			Keys:    bson.D{{Key: "completed_at", Value: -1}},
			Options: options.Index().SetSparse(true).SetName("idx_completed_at_sparse"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// DropAllIndexes drops all custom indexes (not the _id index)
func (m *IndexManager) DropAllIndexes(ctx context.Context) error {
	collections := []string{
		models.Question{}.CollectionName(),
		models.AssessmentSession{}.CollectionName(),
	}

	for _, collName := range collections {
		_, err := m.db.Collection(collName).Indexes().DropAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes for %s: %w", collName, err)
		}
	}

	return nil
}
