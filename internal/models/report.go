package models

import "time"

// ReportSchemaVersion identifies the shape of ExportableResult.
// Bump on any structural change to the exported document.
const ReportSchemaVersion = "1.0"

// SectionKind distinguishes the per-channel narratives from the executive summary
type SectionKind string

const (
	SectionKindChannel SectionKind = "channel"
	SectionKindSummary SectionKind = "summary"
)

// Narrative source labels
const (
	NarrativeSourceAI       = "ai"
	NarrativeSourceTemplate = "template"
)

// ReportSection is one narrative block of the insight report.
// Sections produced by the fallback path are structurally identical to
// AI-generated ones so downstream consumers never special-case the
// absence of AI.
type ReportSection struct {
	Kind      SectionKind `json:"kind"`
	Channel   Channel     `json:"channel,omitempty"`
	Title     string      `json:"title"`
	Narrative string      `json:"narrative"`

	// Source records which path produced the text ("ai" or "template")
	Source string `json:"source"`
}

// ChannelResult combines one channel's scores with its narrative section
type ChannelResult struct {
	Channel        Channel            `json:"channel"`
	Name           string             `json:"name"`
	Score          float64            `json:"score"`
	FactorScores   map[Factor]float64 `json:"factor_scores"`
	BenchmarkDelta float64            `json:"benchmark_delta"`
	Maturity       MaturityLevel      `json:"maturity"`
	Section        ReportSection      `json:"section"`
}

// ExportableResult is the assembled, versioned output of one assessment:
// score aggregates plus narrative sections, suitable for serialization.
// #INTEGRATION_POINT: Serialized to JSON (nested) and CSV (flat) for export
type ExportableResult struct {
	SchemaVersion string     `json:"schema_version"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Respondent    Respondent `json:"respondent"`

	Benchmark      float64       `json:"benchmark"`
	Overall        *float64      `json:"overall_score,omitempty"`
	BenchmarkDelta *float64      `json:"benchmark_delta,omitempty"`
	Maturity       MaturityLevel `json:"maturity,omitempty"`
	CompletionRate float64       `json:"completion_rate"`

	// Channels holds one entry per channel with a defined score, in
	// instrument order; channels with undefined scores are absent entirely
	Channels []ChannelResult `json:"channels"`

	// Summary is the executive-summary section
	Summary ReportSection `json:"summary"`

	// Partial-data indicators, mirrored from the aggregate
	PartialData       bool        `json:"partial_data"`
	UndefinedPairs    []FactorRef `json:"undefined_pairs,omitempty"`
	UndefinedChannels []Channel   `json:"undefined_channels,omitempty"`
}
