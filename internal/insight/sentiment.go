package insight

import (
	"sort"
	"strings"
)

// SentimentSummary is a lexicon-based sentiment read over free-text comments.
// #IMPLEMENTATION_DECISION: Word-list scoring instead of an NLP dependency -
// comments only enrich the narrative, so a coarse signal is enough
type SentimentSummary struct {
	Overall  string  `json:"overall"`
	Polarity float64 `json:"polarity"`
	Positive int     `json:"positive_count"`
	Negative int     `json:"negative_count"`
	Neutral  int     `json:"neutral_count"`
	Total    int     `json:"total"`
}

var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "strong": true,
	"effective": true, "successful": true, "improving": true, "improved": true,
	"supportive": true, "productive": true, "valuable": true, "positive": true,
	"well": true, "growing": true, "active": true, "engaged": true,
}

var negativeWords = map[string]bool{
	"bad": true, "poor": true, "weak": true, "lacking": true, "lack": true,
	"insufficient": true, "difficult": true, "slow": true, "barrier": true,
	"barriers": true, "bureaucratic": true, "missing": true, "limited": true,
	"unclear": true, "fragmented": true, "underfunded": true, "negative": true,
}

// domainKeywords are recurring knowledge-valorisation topics looked for in
// comments; matches become the section's themes
var domainKeywords = []string{
	"collaboration", "partnership", "innovation", "research", "technology",
	"transfer", "industry", "academia", "university", "spin-off", "startup",
	"intellectual property", "licensing", "commercialization",
	"entrepreneurship", "incubator", "accelerator", "funding", "investment",
	"skills", "training", "mobility", "exchange", "network", "ecosystem",
	"policy", "regulation", "governance", "framework", "strategy",
}

const maxThemes = 10

// AnalyzeSentiment scores each comment by positive minus negative word hits
// and summarizes the balance
func AnalyzeSentiment(comments []string) SentimentSummary {
	summary := SentimentSummary{Overall: "neutral", Total: len(comments)}
	if len(comments) == 0 {
		return summary
	}

	polaritySum := 0.0
	for _, comment := range comments {
		score := 0
		words := strings.Fields(strings.ToLower(comment))
		for _, w := range words {
			w = strings.Trim(w, ".,;:!?()\"'")
			if positiveWords[w] {
				score++
			}
			if negativeWords[w] {
				score--
			}
		}
		switch {
		case score > 0:
			summary.Positive++
			polaritySum += 1.0
		case score < 0:
			summary.Negative++
			polaritySum -= 1.0
		default:
			summary.Neutral++
		}
	}

	summary.Polarity = polaritySum / float64(len(comments))
	switch {
	case summary.Polarity > 0.1:
		summary.Overall = "positive"
	case summary.Polarity < -0.1:
		summary.Overall = "negative"
	}
	return summary
}

// ExtractThemes returns the domain keywords present in the comments, at most
// maxThemes, in lexicon order for determinism
func ExtractThemes(comments []string) []string {
	if len(comments) == 0 {
		return nil
	}
	combined := strings.ToLower(strings.Join(comments, " "))

	var themes []string
	for _, keyword := range domainKeywords {
		if strings.Contains(combined, keyword) {
			themes = append(themes, keyword)
			if len(themes) == maxThemes {
				break
			}
		}
	}
	sort.Strings(themes)
	return themes
}
