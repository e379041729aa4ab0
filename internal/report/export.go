package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// ExportJSON writes the nested structured form of the result: channel and
// factor scores with the narrative sections embedded.
func ExportJSON(w io.Writer, result *models.ExportableResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// csvHeader is the column set of the flat export
var csvHeader = []string{"channel", "channel_name", "factor", "score", "benchmark_delta", "maturity"}

// ExportCSV writes the flat tabular form: one row per (channel, factor) of
// every channel present in the result, plus one summary row for the overall.
// Undefined factor scores are written as empty cells, never as zero.
// #INTEGRATION_POINT: Column layout is part of the versioned export contract
func ExportCSV(w io.Writer, result *models.ExportableResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, ch := range result.Channels {
		for _, f := range models.Factors() {
			row := []string{
				strings.ToLower(string(ch.Channel)),
				ch.Name,
				strings.ToLower(string(f)),
				"", "", "",
			}
			if score, ok := ch.FactorScores[f]; ok {
				row[3] = formatScore(score)
				row[4] = formatDelta(score - models.BolognaBenchmark)
				row[5] = string(models.MaturityFor(score))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	overallRow := []string{"overall", "Overall", "", "", "", ""}
	if result.Overall != nil {
		overallRow[3] = formatScore(*result.Overall)
		overallRow[4] = formatDelta(*result.BenchmarkDelta)
		overallRow[5] = string(result.Maturity)
	}
	if err := cw.Write(overallRow); err != nil {
		return fmt.Errorf("failed to write csv summary row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatDelta(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
