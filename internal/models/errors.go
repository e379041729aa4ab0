package models

import "errors"

// Model validation and operation errors
var (
	// Catalog errors - fatal at load, scoring must never start on a bad catalog
	ErrCatalogInvalid     = errors.New("question catalog is invalid")
	ErrCatalogEmpty       = errors.New("question catalog is empty")
	ErrDuplicateQuestion  = errors.New("duplicate question id in catalog")
	ErrQuestionNotFound   = errors.New("question not found")

	// Answer errors - rejected at insertion time, never reach scoring
	ErrAnswerTypeMismatch = errors.New("answer value does not match the question's answer type")
	ErrLikertOutOfRange   = errors.New("likert value must be between 1 and 7")
	ErrAnswerEmpty        = errors.New("answer carries neither a value nor an explicit skip")

	// Session errors
	ErrSessionNotFound   = errors.New("assessment session not found")
	ErrSessionCompleted  = errors.New("assessment session has already been completed")
	ErrSessionIncomplete = errors.New("assessment session still has unanswered questions")

	// Scoring errors
	ErrInsufficientData = errors.New("no answered questions - scores cannot be computed")

	// Insight generation errors - recoverable, converted to fallback text
	ErrBackendUnavailable = errors.New("text generation backend unavailable")

	// Report assembly errors - contract violation between scoring and insight output
	ErrIncompleteReport = errors.New("narrative sections do not match defined channel scores")
)

// IsValidationError returns true if the error is a catalog or answer
// validation error that should map to a 400 response
func IsValidationError(err error) bool {
	return errors.Is(err, ErrCatalogInvalid) ||
		errors.Is(err, ErrDuplicateQuestion) ||
		errors.Is(err, ErrAnswerTypeMismatch) ||
		errors.Is(err, ErrLikertOutOfRange) ||
		errors.Is(err, ErrAnswerEmpty)
}
