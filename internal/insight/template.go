package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// TemplateBackend is the deterministic fallback path: fixed phrase banks
// keyed by maturity band and benchmark-delta direction. It is a pure function
// of its payload - identical payloads always select identical templates - and
// it never fails.
type TemplateBackend struct{}

// NewTemplateBackend creates the deterministic template backend
func NewTemplateBackend() *TemplateBackend {
	return &TemplateBackend{}
}

// Name identifies the backend
func (b *TemplateBackend) Name() string {
	return "template"
}

// performancePhrases describe the maturity band of a single channel
var performancePhrases = map[models.MaturityLevel]string{
	models.MaturityAdvanced:     "shows an excellent performance",
	models.MaturityIntermediate: "shows a solid performance",
	models.MaturityBasic:        "shows an average performance",
	models.MaturityInitial:      "shows significant room for improvement",
}

// overallPhrases describe the maturity band of the whole assessment
var overallPhrases = map[models.MaturityLevel]string{
	models.MaturityAdvanced:     "an advanced level of maturity",
	models.MaturityIntermediate: "an intermediate level of maturity",
	models.MaturityBasic:        "a basic level of maturity",
	models.MaturityInitial:      "an initial level of maturity",
}

// deltaPhrases describe the position relative to the Bologna benchmark
var deltaPhrases = map[string]string{
	DeltaAbove: "above the Bologna benchmark",
	DeltaBelow: "below the Bologna benchmark",
	DeltaAt:    "exactly at the Bologna benchmark",
}

// sentimentPhrases describe the tone of the free-text comments
var sentimentPhrases = map[string]string{
	"positive": "The comments reveal a positive attitude towards this area.",
	"negative": "The comments voice concerns about this area.",
	"neutral":  "The comments take a balanced view of this area.",
}

// GenerateSection renders a section from the phrase banks. The error is
// always nil; the signature satisfies TextBackend.
func (b *TemplateBackend) GenerateSection(_ context.Context, p *SectionPayload) (string, error) {
	if p.Kind == models.SectionKindSummary {
		return b.summaryText(p), nil
	}
	return b.channelText(p), nil
}

func (b *TemplateBackend) channelText(p *SectionPayload) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The channel %s %s with a score of %.2f/7, %s (%+.2f). ",
		p.ChannelName,
		performancePhrases[p.Maturity],
		p.Score,
		deltaPhrases[p.DeltaDirection],
		p.BenchmarkDelta,
	)

	strongest, weakest, ok := extremeFactors(p.FactorScores)
	if ok {
		fmt.Fprintf(&sb, "The %s factor emerges as the strongest aspect (%.2f/7), while the %s factor presents the clearest development opportunity (%.2f/7). ",
			strings.ToLower(strongest.DisplayName()),
			p.FactorScores[strongest],
			strings.ToLower(weakest.DisplayName()),
			p.FactorScores[weakest],
		)
		fmt.Fprintf(&sb, "Focus on strengthening the %s dimension while maintaining the current level on the %s side.",
			strings.ToLower(string(weakest)),
			strings.ToLower(string(strongest)),
		)
	} else {
		sb.WriteString("Factor-level detail is not yet available for this channel.")
	}

	if p.Sentiment.Total > 0 {
		sb.WriteString(" ")
		sb.WriteString(sentimentPhrases[p.Sentiment.Overall])
	}
	if len(p.Themes) > 0 {
		fmt.Fprintf(&sb, " Recurring themes: %s.", strings.Join(p.Themes, ", "))
	}

	return sb.String()
}

func (b *TemplateBackend) summaryText(p *SectionPayload) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The organization presents %s in knowledge valorisation, with an overall score of %.2f/7, %s (%+.2f). ",
		overallPhrases[p.Maturity],
		p.Score,
		deltaPhrases[p.DeltaDirection],
		p.BenchmarkDelta,
	)

	if p.StrongestChannel != "" && p.WeakestChannel != "" {
		fmt.Fprintf(&sb, "%s emerges as the strongest channel, while %s requires priority attention. ",
			p.StrongestChannel, p.WeakestChannel)
		fmt.Fprintf(&sb, "Develop an action plan focused on %s and capitalize on the results achieved in %s to drive improvement.",
			p.WeakestChannel, p.StrongestChannel)
	}

	if p.CompletionRate > 0 && p.CompletionRate < 1 {
		fmt.Fprintf(&sb, " Note: this assessment is based on %.0f%% of the question bank; undefined areas are excluded rather than assumed.",
			p.CompletionRate*100)
	}

	if p.Sentiment.Total > 0 {
		sb.WriteString(" ")
		sb.WriteString(sentimentPhrases[p.Sentiment.Overall])
	}

	return sb.String()
}

// extremeFactors returns the strongest and weakest defined factors, breaking
// ties by instrument order so the selection stays deterministic
func extremeFactors(scores map[models.Factor]float64) (strongest, weakest models.Factor, ok bool) {
	for _, f := range models.Factors() {
		score, defined := scores[f]
		if !defined {
			continue
		}
		if !ok {
			strongest, weakest, ok = f, f, true
			continue
		}
		if score > scores[strongest] {
			strongest = f
		}
		if score < scores[weakest] {
			weakest = f
		}
	}
	return strongest, weakest, ok
}
