package models

// BolognaBenchmark is the fixed reference overall score from the Bologna
// case study, on the shared 1-7 scale. It is used only for comparison and is
// never blended into the respondent's own aggregates.
// #BUSINESS_RULE: Changing this value is a data-model change, not a runtime option
const BolognaBenchmark = 5.76

// MaturityLevel classifies an overall score into one of four ordered bands
type MaturityLevel string

const (
	MaturityInitial      MaturityLevel = "initial"
	MaturityBasic        MaturityLevel = "basic"
	MaturityIntermediate MaturityLevel = "intermediate"
	MaturityAdvanced     MaturityLevel = "advanced"
)

// MaturityFor bands a score on the 1-7 scale.
// Bands are closed on the lower end and open on the upper end, except the
// top band which is closed-ended.
func MaturityFor(score float64) MaturityLevel {
	switch {
	case score >= 6.0:
		return MaturityAdvanced
	case score >= 5.0:
		return MaturityIntermediate
	case score >= 4.0:
		return MaturityBasic
	default:
		return MaturityInitial
	}
}

// FactorRef identifies one (channel, factor) pair
type FactorRef struct {
	Channel Channel `json:"channel"`
	Factor  Factor  `json:"factor"`
}

// Aggregate holds the full set of derived scores for one respondent.
// Presence in a map means the level is defined; an absent entry means the
// level has no underlying answered questions and must be treated as "not yet
// computable", never as zero.
// #IMPLEMENTATION_DECISION: Undefined levels are excluded from the means
// above them, not imputed with a sentinel value
type Aggregate struct {
	// FactorScores maps channel -> factor -> mean of normalized scores of
	// answered questions in that pair. Pairs with zero answers are absent.
	FactorScores map[Channel]map[Factor]float64 `json:"factor_scores"`

	// ChannelScores maps channel -> mean of that channel's defined factor
	// scores. Channels with zero defined factors are absent.
	ChannelScores map[Channel]float64 `json:"channel_scores"`

	// Overall is the mean of all defined channel scores, nil when no channel
	// is defined (which Compute reports as ErrInsufficientData instead)
	Overall *float64 `json:"overall_score,omitempty"`

	// BenchmarkDelta is Overall minus BolognaBenchmark, nil when Overall is
	BenchmarkDelta *float64 `json:"benchmark_delta,omitempty"`

	// Maturity is the band of the overall score, empty when undefined
	Maturity MaturityLevel `json:"maturity,omitempty"`

	// FactorSummary maps factor -> mean of that factor's defined scores
	// across channels
	FactorSummary map[Factor]float64 `json:"factor_summary"`

	// Completion statistics
	AnsweredCount  int     `json:"answered_count"`
	TotalQuestions int     `json:"total_questions"`
	CompletionRate float64 `json:"completion_rate"`

	// Partial-data surface: catalog pairs/channels that have zero answers.
	// Callers must visibly mark these rather than rendering zero.
	UndefinedPairs    []FactorRef `json:"undefined_pairs,omitempty"`
	UndefinedChannels []Channel   `json:"undefined_channels,omitempty"`
}

// IsPartial returns true when at least one catalog (channel, factor) pair
// has no answered questions
func (a *Aggregate) IsPartial() bool {
	return len(a.UndefinedPairs) > 0
}

// ChannelScore returns the channel's score and whether it is defined
func (a *Aggregate) ChannelScore(c Channel) (float64, bool) {
	score, ok := a.ChannelScores[c]
	return score, ok
}

// DefinedChannels returns the channels with a defined score, in instrument order
func (a *Aggregate) DefinedChannels() []Channel {
	var defined []Channel
	for _, c := range Channels() {
		if _, ok := a.ChannelScores[c]; ok {
			defined = append(defined, c)
		}
	}
	return defined
}
