package insight

import (
	"context"
	"fmt"
	"log"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// Generator maps score aggregates and raw comments to narrative report
// sections: one section per channel with a defined score, plus one executive
// summary, always in that structure regardless of which backend produced the
// text.
type Generator struct {
	backend  TextBackend
	fallback TextBackend
}

// NewGenerator creates a generator around the given backend. A nil backend
// selects the template path for everything. The template fallback is always
// kept at hand for per-section degradation.
func NewGenerator(backend TextBackend) *Generator {
	fallback := NewTemplateBackend()
	if backend == nil {
		backend = fallback
	}
	return &Generator{backend: backend, fallback: fallback}
}

// BackendName reports which backend the generator tries first
func (g *Generator) BackendName() string {
	return g.backend.Name()
}

// Generate produces the full ordered section set for the aggregate: defined
// channels in instrument order, executive summary last. Channels with an
// undefined score get no section at all.
// #BUSINESS_RULE: A backend failure is local to its section - it is logged,
// converted to template text, and never aborts the other sections
func (g *Generator) Generate(ctx context.Context, agg *models.Aggregate, catalog []models.Question, session *models.AssessmentSession) ([]models.ReportSection, error) {
	if agg == nil || agg.Overall == nil {
		return nil, models.ErrInsufficientData
	}

	commentsByChannel := collectComments(catalog, session)
	var allComments []string
	for _, ch := range models.Channels() {
		allComments = append(allComments, commentsByChannel[ch]...)
	}

	var sections []models.ReportSection

	for _, ch := range agg.DefinedChannels() {
		score := agg.ChannelScores[ch]
		delta := score - models.BolognaBenchmark
		comments := commentsByChannel[ch]

		payload := &SectionPayload{
			Kind:           models.SectionKindChannel,
			Channel:        ch,
			ChannelName:    ch.DisplayName(),
			Score:          score,
			FactorScores:   agg.FactorScores[ch],
			BenchmarkDelta: delta,
			DeltaDirection: DirectionFor(delta),
			Maturity:       models.MaturityFor(score),
			Comments:       comments,
			Sentiment:      AnalyzeSentiment(comments),
			Themes:         ExtractThemes(comments),
		}

		text, source := g.generateSection(ctx, payload)
		sections = append(sections, models.ReportSection{
			Kind:      models.SectionKindChannel,
			Channel:   ch,
			Title:     ch.DisplayName(),
			Narrative: text,
			Source:    source,
		})
	}

	strongest, weakest := extremeChannels(agg)
	summaryPayload := &SectionPayload{
		Kind:             models.SectionKindSummary,
		Score:            *agg.Overall,
		BenchmarkDelta:   *agg.BenchmarkDelta,
		DeltaDirection:   DirectionFor(*agg.BenchmarkDelta),
		Maturity:         agg.Maturity,
		StrongestChannel: strongest,
		WeakestChannel:   weakest,
		CompletionRate:   agg.CompletionRate,
		Comments:         allComments,
		Sentiment:        AnalyzeSentiment(allComments),
		Themes:           ExtractThemes(allComments),
	}

	text, source := g.generateSection(ctx, summaryPayload)
	sections = append(sections, models.ReportSection{
		Kind:      models.SectionKindSummary,
		Title:     "Executive Summary",
		Narrative: text,
		Source:    source,
	})

	return sections, nil
}

// generateSection tries the configured backend and falls back to the
// deterministic template on any error
func (g *Generator) generateSection(ctx context.Context, payload *SectionPayload) (string, string) {
	text, err := g.backend.GenerateSection(ctx, payload)
	if err == nil {
		source := models.NarrativeSourceAI
		if g.backend == g.fallback {
			source = models.NarrativeSourceTemplate
		}
		return text, source
	}

	label := string(payload.Kind)
	if payload.Kind == models.SectionKindChannel {
		label = fmt.Sprintf("channel %s", payload.Channel)
	}
	log.Printf("[AI] %s section fell back to template: %v", label, err)

	// The template backend never fails
	text, _ = g.fallback.GenerateSection(ctx, payload)
	return text, models.NarrativeSourceTemplate
}

// collectComments gathers anonymized comment texts per channel. Comments on
// skipped answers count too - the respondent may explain why they skipped.
func collectComments(catalog []models.Question, session *models.AssessmentSession) map[models.Channel][]string {
	byChannel := map[models.Channel][]string{}
	if session == nil {
		return byChannel
	}
	for _, q := range catalog {
		answer, ok := session.Answers[q.QuestionID]
		if !ok || answer.Comment == "" {
			continue
		}
		byChannel[q.Channel] = append(byChannel[q.Channel], answer.Comment)
	}
	return byChannel
}

// extremeChannels returns the display names of the best and worst defined
// channels, breaking ties by instrument order
func extremeChannels(agg *models.Aggregate) (strongest, weakest string) {
	var bestCh, worstCh models.Channel
	found := false
	for _, ch := range agg.DefinedChannels() {
		score := agg.ChannelScores[ch]
		if !found {
			bestCh, worstCh, found = ch, ch, true
			continue
		}
		if score > agg.ChannelScores[bestCh] {
			bestCh = ch
		}
		if score < agg.ChannelScores[worstCh] {
			worstCh = ch
		}
	}
	if !found {
		return "", ""
	}
	return bestCh.DisplayName(), worstCh.DisplayName()
}
