package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// MongoSessionRepository implements SessionRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{
		collection: db.Collection(models.AssessmentSession{}.CollectionName()),
	}
}

// Create creates a new assessment session
func (r *MongoSessionRepository) Create(ctx context.Context, session *models.AssessmentSession) error {
	session.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

// GetByID finds a session by ID
func (r *MongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertAnswer stores or replaces a single answer on a session.
// #IMPLEMENTATION_DECISION: Updating a single map entry avoids read-modify-write
// races when a respondent answers quickly in succession
func (r *MongoSessionRepository) UpsertAnswer(ctx context.Context, id primitive.ObjectID, questionID string, answer models.Answer) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("answers.%s", questionID): answer,
			"updated_at":                          time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

// MarkCompleted transitions a session to the completed state
func (r *MongoSessionRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":       models.SessionStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

// Ensure MongoSessionRepository implements SessionRepository
var _ SessionRepository = (*MongoSessionRepository)(nil)
