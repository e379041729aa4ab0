package insight

import (
	"context"
	"strings"
	"testing"

	"github.com/kval-tools/assessment_backend/internal/models"
)

func channelPayload() *SectionPayload {
	return &SectionPayload{
		Kind:        models.SectionKindChannel,
		Channel:     models.ChannelJointResearch,
		ChannelName: models.ChannelJointResearch.DisplayName(),
		Score:       5.2,
		FactorScores: map[models.Factor]float64{
			models.FactorEnvironmental:  6.0,
			models.FactorOrganizational: 5.0,
			models.FactorIndividual:     4.6,
		},
		BenchmarkDelta: 5.2 - models.BolognaBenchmark,
		DeltaDirection: DeltaBelow,
		Maturity:       models.MaturityIntermediate,
	}
}

func TestTemplateBackend_Deterministic(t *testing.T) {
	backend := NewTemplateBackend()

	first, err := backend.GenerateSection(context.Background(), channelPayload())
	if err != nil {
		t.Fatalf("GenerateSection() error = %v", err)
	}
	second, err := backend.GenerateSection(context.Background(), channelPayload())
	if err != nil {
		t.Fatalf("GenerateSection() error = %v", err)
	}

	if first != second {
		t.Error("identical payloads must produce identical template text")
	}
}

func TestTemplateBackend_BandSelectsPhrase(t *testing.T) {
	backend := NewTemplateBackend()

	tests := []struct {
		name     string
		maturity models.MaturityLevel
		want     string
	}{
		{"advanced", models.MaturityAdvanced, "excellent"},
		{"intermediate", models.MaturityIntermediate, "solid"},
		{"basic", models.MaturityBasic, "average"},
		{"initial", models.MaturityInitial, "room for improvement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := channelPayload()
			p.Maturity = tt.maturity
			got, err := backend.GenerateSection(context.Background(), p)
			if err != nil {
				t.Fatalf("GenerateSection() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("narrative for %s band does not contain %q:\n%s", tt.maturity, tt.want, got)
			}
		})
	}
}

func TestTemplateBackend_DeltaDirection(t *testing.T) {
	backend := NewTemplateBackend()

	above := channelPayload()
	above.DeltaDirection = DeltaAbove
	below := channelPayload()
	below.DeltaDirection = DeltaBelow

	aboveText, _ := backend.GenerateSection(context.Background(), above)
	belowText, _ := backend.GenerateSection(context.Background(), below)

	if !strings.Contains(aboveText, "above the Bologna benchmark") {
		t.Errorf("above-delta narrative missing direction phrase:\n%s", aboveText)
	}
	if !strings.Contains(belowText, "below the Bologna benchmark") {
		t.Errorf("below-delta narrative missing direction phrase:\n%s", belowText)
	}
}

func TestTemplateBackend_FactorExtremes(t *testing.T) {
	backend := NewTemplateBackend()

	got, err := backend.GenerateSection(context.Background(), channelPayload())
	if err != nil {
		t.Fatalf("GenerateSection() error = %v", err)
	}

	if !strings.Contains(got, "environmental") {
		t.Errorf("narrative does not name the strongest factor:\n%s", got)
	}
	if !strings.Contains(got, "individual") {
		t.Errorf("narrative does not name the weakest factor:\n%s", got)
	}
}

func TestTemplateBackend_Summary(t *testing.T) {
	backend := NewTemplateBackend()

	p := &SectionPayload{
		Kind:             models.SectionKindSummary,
		Score:            6.1,
		BenchmarkDelta:   6.1 - models.BolognaBenchmark,
		DeltaDirection:   DeltaAbove,
		Maturity:         models.MaturityAdvanced,
		StrongestChannel: models.ChannelJointResearch.DisplayName(),
		WeakestChannel:   models.ChannelMobilitySkills.DisplayName(),
		CompletionRate:   1.0,
	}

	got, err := backend.GenerateSection(context.Background(), p)
	if err != nil {
		t.Fatalf("GenerateSection() error = %v", err)
	}

	if !strings.Contains(got, "advanced level of maturity") {
		t.Errorf("summary missing maturity phrase:\n%s", got)
	}
	if !strings.Contains(got, p.StrongestChannel) || !strings.Contains(got, p.WeakestChannel) {
		t.Errorf("summary missing channel extremes:\n%s", got)
	}
}

func TestDirectionFor(t *testing.T) {
	tests := []struct {
		delta    float64
		expected string
	}{
		{0.5, DeltaAbove},
		{-0.76, DeltaBelow},
		{0, DeltaAt},
	}
	for _, tt := range tests {
		if got := DirectionFor(tt.delta); got != tt.expected {
			t.Errorf("DirectionFor(%v) = %v, want %v", tt.delta, got, tt.expected)
		}
	}
}

func TestExtremeFactors_TieBreaksByInstrumentOrder(t *testing.T) {
	scores := map[models.Factor]float64{
		models.FactorEnvironmental:  5.0,
		models.FactorOrganizational: 5.0,
		models.FactorIndividual:     5.0,
	}

	strongest, weakest, ok := extremeFactors(scores)
	if !ok {
		t.Fatal("extremeFactors() ok = false, want true")
	}
	if strongest != models.FactorEnvironmental || weakest != models.FactorEnvironmental {
		t.Errorf("tie must resolve to the first factor in instrument order, got strongest=%v weakest=%v", strongest, weakest)
	}

	if _, _, ok := extremeFactors(map[models.Factor]float64{}); ok {
		t.Error("extremeFactors() on empty map should report ok=false")
	}
}
