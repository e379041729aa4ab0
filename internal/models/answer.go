package models

import (
	"fmt"
	"time"
)

// Answer represents one respondent's answer to one question.
// #IMPLEMENTATION_DECISION: Tagged variant - exactly one of Likert or YesNo is
// set, matching the question's declared answer type. The variant is checked at
// insertion time, not at scoring time.
// #DATA_ASSUMPTION: A question with no Answer document is "missing", which is
// distinct from an explicit skip and from any numeric value
type Answer struct {
	QuestionID string `bson:"question_id" json:"question_id"`

	// Value variant - at most one is set
	Likert *int  `bson:"likert,omitempty" json:"likert,omitempty"`
	YesNo  *bool `bson:"yes_no,omitempty" json:"yes_no,omitempty"`

	// Skipped marks an explicit skip: the respondent saw the question and
	// declined it. Counts as unanswered for scoring but closes completion.
	Skipped bool `bson:"skipped,omitempty" json:"skipped,omitempty"`

	// Optional free-text comment, fed to the insight generator
	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`

	SavedAt time.Time `bson:"saved_at" json:"saved_at"`
}

// BeforeSave sets the save timestamp
func (a *Answer) BeforeSave() {
	a.SavedAt = time.Now().UTC()
}

// Validate checks the answer against the question it references.
// #BUSINESS_RULE: Type mismatches are rejected here so the scoring engine can
// trust every stored answer
func (a *Answer) Validate(q *Question) error {
	if a.Skipped {
		if a.Likert != nil || a.YesNo != nil {
			return fmt.Errorf("%w: question %q", ErrAnswerTypeMismatch, q.QuestionID)
		}
		return nil
	}

	switch q.Type {
	case AnswerTypeLikert7:
		if a.Likert == nil || a.YesNo != nil {
			if a.Likert == nil && a.YesNo == nil {
				return fmt.Errorf("%w: question %q", ErrAnswerEmpty, q.QuestionID)
			}
			return fmt.Errorf("%w: question %q expects a likert value", ErrAnswerTypeMismatch, q.QuestionID)
		}
		if *a.Likert < 1 || *a.Likert > 7 {
			return fmt.Errorf("%w: question %q got %d", ErrLikertOutOfRange, q.QuestionID, *a.Likert)
		}
	case AnswerTypeYesNo:
		if a.YesNo == nil || a.Likert != nil {
			if a.Likert == nil && a.YesNo == nil {
				return fmt.Errorf("%w: question %q", ErrAnswerEmpty, q.QuestionID)
			}
			return fmt.Errorf("%w: question %q expects a yes/no value", ErrAnswerTypeMismatch, q.QuestionID)
		}
	default:
		return fmt.Errorf("%w: question %q has unrecognized answer type %q", ErrCatalogInvalid, q.QuestionID, q.Type)
	}
	return nil
}

// IsAnswered returns true when the answer carries a scorable value
func (a *Answer) IsAnswered() bool {
	return !a.Skipped && (a.Likert != nil || a.YesNo != nil)
}

// Normalized maps the answer onto the shared 1-7 scale.
// Yes and No map to the two extremes of the scale; Likert values pass
// through unchanged. The second return is false for skips and empty answers.
func (a *Answer) Normalized() (float64, bool) {
	if !a.IsAnswered() {
		return 0, false
	}
	if a.Likert != nil {
		return float64(*a.Likert), true
	}
	if *a.YesNo {
		return 7.0, true
	}
	return 1.0, true
}
