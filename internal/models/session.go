package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus represents the lifecycle state of an assessment session
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// Respondent holds free-form metadata about who is taking the assessment.
// #SECURITY_ASSUMPTION: These fields are never included in payloads sent to
// the external text generation backend
type Respondent struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Organization string `bson:"organization,omitempty" json:"organization,omitempty"`
	Role         string `bson:"role,omitempty" json:"role,omitempty"`
}

// AssessmentSession is one respondent's response store. Answers are embedded
// by question id; the session document is the source of truth - aggregates
// and reports are recomputed from it on demand and never persisted as such.
// #CARDINALITY_ASSUMPTION: One session per respondent per assessment run
// #IMPLEMENTATION_DECISION: Per-session documents keep concurrent sessions
// fully isolated from each other
type AssessmentSession struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Respondent Respondent         `bson:"respondent" json:"respondent"`
	Status     SessionStatus      `bson:"status" json:"status"`

	// Answers keyed by question id
	Answers map[string]Answer `bson:"answers" json:"answers"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for sessions
func (AssessmentSession) CollectionName() string {
	return "assessment_sessions"
}

// BeforeCreate sets default values before inserting a new session
func (s *AssessmentSession) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.Status = SessionStatusInProgress
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Answers == nil {
		s.Answers = map[string]Answer{}
	}
}

// Complete marks the session as completed
func (s *AssessmentSession) Complete() {
	now := time.Now().UTC()
	s.Status = SessionStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
}

// IsCompleted returns true if the session has been completed
func (s *AssessmentSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// AnsweredCount returns the number of answers carrying a scorable value
func (s *AssessmentSession) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsAnswered() {
			n++
		}
	}
	return n
}

// MissingQuestions returns the ids of catalog questions that have neither an
// answer nor an explicit skip. The session is complete only when this is empty.
func (s *AssessmentSession) MissingQuestions(catalog []Question) []string {
	var missing []string
	for _, q := range catalog {
		if _, ok := s.Answers[q.QuestionID]; !ok {
			missing = append(missing, q.QuestionID)
		}
	}
	return missing
}
