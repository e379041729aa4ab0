// Package report assembles score aggregates and narrative sections into one
// exportable, versioned result and serializes it to JSON and CSV.
package report

import (
	"fmt"
	"time"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// Assemble combines the aggregate and the insight sections into an
// ExportableResult. Pure composition, no computation.
// #BUSINESS_RULE: Every channel with a defined score must have exactly one
// narrative section and vice versa - a mismatch is a contract violation
// between the scoring engine and the insight generator, reported as
// ErrIncompleteReport and never papered over with an empty report
func Assemble(agg *models.Aggregate, sections []models.ReportSection, respondent models.Respondent) (*models.ExportableResult, error) {
	if agg == nil {
		return nil, fmt.Errorf("%w: nil aggregate", models.ErrIncompleteReport)
	}

	channelSections := map[models.Channel]models.ReportSection{}
	var summary *models.ReportSection
	for _, s := range sections {
		switch s.Kind {
		case models.SectionKindChannel:
			if _, dup := channelSections[s.Channel]; dup {
				return nil, fmt.Errorf("%w: duplicate section for channel %s", models.ErrIncompleteReport, s.Channel)
			}
			channelSections[s.Channel] = s
		case models.SectionKindSummary:
			if summary != nil {
				return nil, fmt.Errorf("%w: more than one executive summary", models.ErrIncompleteReport)
			}
			s := s
			summary = &s
		default:
			return nil, fmt.Errorf("%w: unrecognized section kind %q", models.ErrIncompleteReport, s.Kind)
		}
	}

	if summary == nil {
		return nil, fmt.Errorf("%w: executive summary missing", models.ErrIncompleteReport)
	}

	defined := agg.DefinedChannels()
	if len(channelSections) != len(defined) {
		return nil, fmt.Errorf("%w: %d channel sections for %d defined channels",
			models.ErrIncompleteReport, len(channelSections), len(defined))
	}

	result := &models.ExportableResult{
		SchemaVersion:     models.ReportSchemaVersion,
		GeneratedAt:       time.Now().UTC(),
		Respondent:        respondent,
		Benchmark:         models.BolognaBenchmark,
		Overall:           agg.Overall,
		BenchmarkDelta:    agg.BenchmarkDelta,
		Maturity:          agg.Maturity,
		CompletionRate:    agg.CompletionRate,
		Summary:           *summary,
		PartialData:       agg.IsPartial(),
		UndefinedPairs:    agg.UndefinedPairs,
		UndefinedChannels: agg.UndefinedChannels,
	}

	for _, ch := range defined {
		section, ok := channelSections[ch]
		if !ok {
			return nil, fmt.Errorf("%w: defined channel %s has no narrative section", models.ErrIncompleteReport, ch)
		}
		score := agg.ChannelScores[ch]
		result.Channels = append(result.Channels, models.ChannelResult{
			Channel:        ch,
			Name:           ch.DisplayName(),
			Score:          score,
			FactorScores:   agg.FactorScores[ch],
			BenchmarkDelta: score - models.BolognaBenchmark,
			Maturity:       models.MaturityFor(score),
			Section:        section,
		})
	}

	return result, nil
}
