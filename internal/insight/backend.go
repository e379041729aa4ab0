// Package insight turns score aggregates and free-text comments into a
// narrative report. Text synthesis is delegated to a pluggable TextBackend;
// any backend failure is caught per section and converted to the
// deterministic template fallback, so one section's failure never aborts
// report generation for the others.
package insight

import (
	"context"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// DeltaDirection values describe where a score sits relative to the benchmark
const (
	DeltaAbove = "above"
	DeltaBelow = "below"
	DeltaAt    = "at"
)

// SectionPayload is the structured prompt payload for one narrative section.
// #SECURITY_ASSUMPTION: Built only from numeric aggregates and anonymized
// comment texts - never from respondent-identifying fields
type SectionPayload struct {
	Kind        models.SectionKind
	Channel     models.Channel
	ChannelName string

	Score          float64
	FactorScores   map[models.Factor]float64
	BenchmarkDelta float64
	DeltaDirection string
	Maturity       models.MaturityLevel

	// Summary-only context
	StrongestChannel string
	WeakestChannel   string
	CompletionRate   float64

	// Best-effort enrichment from free-text comments
	Comments  []string
	Sentiment SentimentSummary
	Themes    []string
}

// TextBackend is the capability interface for narrative text synthesis.
// Exactly two implementations exist: the external Gemini backend and the
// deterministic template fallback.
type TextBackend interface {
	// Name identifies the backend in logs and health output
	Name() string

	// GenerateSection synthesizes the narrative text for one section.
	// Implementations must respect ctx cancellation; errors are wrapped
	// with models.ErrBackendUnavailable by convention.
	GenerateSection(ctx context.Context, payload *SectionPayload) (string, error)
}

// DirectionFor classifies a benchmark delta
func DirectionFor(delta float64) string {
	switch {
	case delta > 0:
		return DeltaAbove
	case delta < 0:
		return DeltaBelow
	default:
		return DeltaAt
	}
}
