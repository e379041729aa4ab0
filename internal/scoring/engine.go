// Package scoring computes score aggregates from a question catalog and one
// respondent's answers. Compute is a pure function of its inputs: no external
// calls, no retries, safe to invoke repeatedly on partial data.
package scoring

import (
	"github.com/kval-tools/assessment_backend/internal/models"
)

// Compute normalizes every answered question onto the 1-7 scale and
// aggregates bottom-up: factor score = mean of normalized answers sharing a
// (channel, factor), channel score = mean of that channel's defined factor
// scores, overall = mean of defined channel scores.
// #BUSINESS_RULE: A level with zero underlying answers is undefined and is
// excluded from the denominator of the mean above it - never treated as zero
// or as the scale midpoint.
// Returns ErrInsufficientData only when there are zero answered questions of
// any kind; otherwise a best-effort aggregate with some levels possibly
// undefined.
func Compute(catalog []models.Question, answers map[string]models.Answer) (*models.Aggregate, error) {
	if len(catalog) == 0 {
		return nil, models.ErrCatalogEmpty
	}

	type cell struct {
		sum   float64
		count int
	}
	cells := map[models.Channel]map[models.Factor]*cell{}
	for _, c := range models.Channels() {
		cells[c] = map[models.Factor]*cell{}
	}

	// Which (channel, factor) pairs the catalog actually covers; pairs with
	// no questions at all are not reported as undefined, they simply do not exist
	catalogPairs := map[models.Channel]map[models.Factor]bool{}
	answered := 0

	for _, q := range catalog {
		if catalogPairs[q.Channel] == nil {
			catalogPairs[q.Channel] = map[models.Factor]bool{}
		}
		catalogPairs[q.Channel][q.Factor] = true

		answer, ok := answers[q.QuestionID]
		if !ok {
			continue
		}
		value, scorable := answer.Normalized()
		if !scorable {
			continue
		}
		if cells[q.Channel][q.Factor] == nil {
			cells[q.Channel][q.Factor] = &cell{}
		}
		cells[q.Channel][q.Factor].sum += value
		cells[q.Channel][q.Factor].count++
		answered++
	}

	if answered == 0 {
		return nil, models.ErrInsufficientData
	}

	agg := &models.Aggregate{
		FactorScores:   map[models.Channel]map[models.Factor]float64{},
		ChannelScores:  map[models.Channel]float64{},
		FactorSummary:  map[models.Factor]float64{},
		AnsweredCount:  answered,
		TotalQuestions: len(catalog),
	}
	agg.CompletionRate = float64(answered) / float64(len(catalog))

	factorTotals := map[models.Factor]*cell{}

	for _, ch := range models.Channels() {
		channelSum := 0.0
		channelDefined := 0

		for _, f := range models.Factors() {
			if !catalogPairs[ch][f] {
				continue
			}
			c := cells[ch][f]
			if c == nil || c.count == 0 {
				agg.UndefinedPairs = append(agg.UndefinedPairs, models.FactorRef{Channel: ch, Factor: f})
				continue
			}
			score := c.sum / float64(c.count)
			if agg.FactorScores[ch] == nil {
				agg.FactorScores[ch] = map[models.Factor]float64{}
			}
			agg.FactorScores[ch][f] = score
			channelSum += score
			channelDefined++

			if factorTotals[f] == nil {
				factorTotals[f] = &cell{}
			}
			factorTotals[f].sum += score
			factorTotals[f].count++
		}

		if channelDefined == 0 {
			if len(catalogPairs[ch]) > 0 {
				agg.UndefinedChannels = append(agg.UndefinedChannels, ch)
			}
			continue
		}
		agg.ChannelScores[ch] = channelSum / float64(channelDefined)
	}

	// Sum in instrument order: map iteration order would make the
	// float summation order, and hence the result bits, vary per call
	overallSum := 0.0
	for _, ch := range models.Channels() {
		if score, ok := agg.ChannelScores[ch]; ok {
			overallSum += score
		}
	}
	if len(agg.ChannelScores) > 0 {
		overall := overallSum / float64(len(agg.ChannelScores))
		delta := overall - models.BolognaBenchmark
		agg.Overall = &overall
		agg.BenchmarkDelta = &delta
		agg.Maturity = models.MaturityFor(overall)
	}

	for f, totals := range factorTotals {
		if totals.count > 0 {
			agg.FactorSummary[f] = totals.sum / float64(totals.count)
		}
	}

	return agg, nil
}
