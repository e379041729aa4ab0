package services

import (
	"errors"
	"testing"

	"github.com/kval-tools/assessment_backend/internal/models"
)

func validQuestion(id string) models.Question {
	return models.Question{
		QuestionID: id,
		Channel:    models.ChannelJointResearch,
		Factor:     models.FactorEnvironmental,
		Type:       models.AnswerTypeLikert7,
		Prompt:     "Policy frameworks support co-creation.",
		Order:      1,
	}
}

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.Question
		wantErr   error
	}{
		{
			name:      "valid catalog",
			questions: []models.Question{validQuestion("q_1"), validQuestion("q_2")},
			wantErr:   nil,
		},
		{
			name:      "empty catalog",
			questions: nil,
			wantErr:   models.ErrCatalogEmpty,
		},
		{
			name:      "duplicate question id",
			questions: []models.Question{validQuestion("q_1"), validQuestion("q_1")},
			wantErr:   models.ErrDuplicateQuestion,
		},
		{
			name: "invalid question",
			questions: func() []models.Question {
				q := validQuestion("q_1")
				q.Prompt = ""
				return []models.Question{q}
			}(),
			wantErr: models.ErrCatalogInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.questions)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
