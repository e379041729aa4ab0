package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// MongoQuestionRepository implements QuestionRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new MongoDB question repository
func NewMongoQuestionRepository(db *mongo.Database) *MongoQuestionRepository {
	return &MongoQuestionRepository{
		collection: db.Collection(models.Question{}.CollectionName()),
	}
}

// Create creates a new catalog question
func (r *MongoQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	question.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, question)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateQuestion
	}
	return err
}

// CreateMany inserts a batch of catalog questions
func (r *MongoQuestionRepository) CreateMany(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		q.BeforeCreate()
		docs[i] = q
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateQuestion
	}
	return err
}

// GetByQuestionID finds a question by its stable catalog identifier
func (r *MongoQuestionRepository) GetByQuestionID(ctx context.Context, questionID string) (*models.Question, error) {
	var question models.Question
	filter := bson.M{"question_id": questionID}
	err := r.collection.FindOne(ctx, filter).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// ListAll lists the full catalog in instrument order
// #QUERY_PATTERN: The catalog is small enough to fetch in one round trip
func (r *MongoQuestionRepository) ListAll(ctx context.Context) ([]models.Question, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}

	return questions, nil
}

// Count counts the catalog questions
func (r *MongoQuestionRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DeleteAll removes the entire catalog
func (r *MongoQuestionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Ensure MongoQuestionRepository implements QuestionRepository
var _ QuestionRepository = (*MongoQuestionRepository)(nil)
