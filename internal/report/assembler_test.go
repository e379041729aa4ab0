package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kval-tools/assessment_backend/internal/models"
)

func testAggregate() *models.Aggregate {
	overall := 5.5
	delta := overall - models.BolognaBenchmark
	return &models.Aggregate{
		FactorScores: map[models.Channel]map[models.Factor]float64{
			models.ChannelJointResearch: {
				models.FactorEnvironmental:  6.0,
				models.FactorOrganizational: 5.0,
			},
			models.ChannelKnowledgeTransfer: {
				models.FactorIndividual: 5.5,
			},
		},
		ChannelScores: map[models.Channel]float64{
			models.ChannelJointResearch:     5.5,
			models.ChannelKnowledgeTransfer: 5.5,
		},
		Overall:        &overall,
		BenchmarkDelta: &delta,
		Maturity:       models.MaturityIntermediate,
		CompletionRate: 0.25,
		UndefinedPairs: []models.FactorRef{
			{Channel: models.ChannelJointResearch, Factor: models.FactorIndividual},
		},
	}
}

func testSections() []models.ReportSection {
	return []models.ReportSection{
		{Kind: models.SectionKindChannel, Channel: models.ChannelJointResearch, Title: "Joint Research & Co-creation", Narrative: "n1", Source: models.NarrativeSourceTemplate},
		{Kind: models.SectionKindChannel, Channel: models.ChannelKnowledgeTransfer, Title: "Knowledge & Technology Transfer", Narrative: "n2", Source: models.NarrativeSourceAI},
		{Kind: models.SectionKindSummary, Title: "Executive Summary", Narrative: "s", Source: models.NarrativeSourceTemplate},
	}
}

func TestAssemble(t *testing.T) {
	result, err := Assemble(testAggregate(), testSections(), models.Respondent{Name: "Jo", Organization: "Uni"})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if result.SchemaVersion != models.ReportSchemaVersion {
		t.Errorf("schema version = %q, want %q", result.SchemaVersion, models.ReportSchemaVersion)
	}
	if len(result.Channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(result.Channels))
	}
	if result.Channels[0].Channel != models.ChannelJointResearch {
		t.Error("channels must keep instrument order")
	}
	if result.Channels[0].Section.Narrative != "n1" {
		t.Error("channel section not attached to its channel")
	}
	if !result.PartialData {
		t.Error("partial data flag must mirror the aggregate")
	}
	if result.Summary.Narrative != "s" {
		t.Error("summary section missing from result")
	}
}

func TestAssemble_ContractViolations(t *testing.T) {
	tests := []struct {
		name     string
		sections func() []models.ReportSection
	}{
		{"missing channel section", func() []models.ReportSection {
			s := testSections()
			return append(s[:1], s[2])
		}},
		{"missing summary", func() []models.ReportSection {
			return testSections()[:2]
		}},
		{"extra section for undefined channel", func() []models.ReportSection {
			s := testSections()
			return append(s, models.ReportSection{Kind: models.SectionKindChannel, Channel: models.ChannelMobilitySkills, Narrative: "x", Source: models.NarrativeSourceTemplate})
		}},
		{"duplicate channel section", func() []models.ReportSection {
			s := testSections()
			return append(s, s[0])
		}},
		{"duplicate summary", func() []models.ReportSection {
			s := testSections()
			return append(s, s[2])
		}},
		{"unknown section kind", func() []models.ReportSection {
			s := testSections()
			s[0].Kind = "appendix"
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(testAggregate(), tt.sections(), models.Respondent{})
			if !errors.Is(err, models.ErrIncompleteReport) {
				t.Errorf("Assemble() error = %v, want ErrIncompleteReport", err)
			}
		})
	}
}

func TestAssemble_NilAggregate(t *testing.T) {
	if _, err := Assemble(nil, testSections(), models.Respondent{}); !errors.Is(err, models.ErrIncompleteReport) {
		t.Errorf("Assemble(nil) error = %v, want ErrIncompleteReport", err)
	}
}

func TestExportJSON_Lossless(t *testing.T) {
	result, err := Assemble(testAggregate(), testSections(), models.Respondent{Name: "Jo"})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, result); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var decoded models.ExportableResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported JSON does not round-trip: %v", err)
	}

	if decoded.Overall == nil || *decoded.Overall != *result.Overall {
		t.Error("overall score lost in JSON export")
	}
	if len(decoded.Channels) != len(result.Channels) {
		t.Error("channel results lost in JSON export")
	}
	if decoded.Channels[0].Section.Narrative != "n1" {
		t.Error("narrative text lost in JSON export")
	}
	if decoded.Benchmark != models.BolognaBenchmark {
		t.Error("benchmark constant lost in JSON export")
	}
}

func TestExportCSV(t *testing.T) {
	result, err := Assemble(testAggregate(), testSections(), models.Respondent{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, result); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}

	// header + 2 channels x 3 factors + overall summary row
	if len(rows) != 1+6+1 {
		t.Fatalf("csv rows = %d, want 8", len(rows))
	}

	if strings.Join(rows[0], ",") != "channel,channel_name,factor,score,benchmark_delta,maturity" {
		t.Errorf("unexpected csv header: %v", rows[0])
	}

	// First data row: joint_research / environmental = 6.00
	if rows[1][0] != "joint_research" || rows[1][2] != "environmental" || rows[1][3] != "6.00" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
	if rows[1][5] != "advanced" {
		t.Errorf("factor maturity band = %q, want advanced", rows[1][5])
	}

	// Undefined factor (joint_research, individual) must be an empty cell, not zero
	if rows[3][2] != "individual" || rows[3][3] != "" {
		t.Errorf("undefined factor must export as empty cell: %v", rows[3])
	}

	// Summary row
	last := rows[len(rows)-1]
	if last[0] != "overall" || last[3] != "5.50" || last[5] != "intermediate" {
		t.Errorf("unexpected summary row: %v", last)
	}
	if !strings.HasPrefix(last[4], "-0.26") {
		t.Errorf("summary benchmark delta = %q, want -0.26", last[4])
	}
}
