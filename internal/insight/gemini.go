package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// GeminiConfig holds the external text generation backend configuration.
// #INTEGRATION_POINT: API key comes from the environment via internal/config;
// its absence selects the template backend at startup, never an error
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiBackend synthesizes narrative text through the Gemini generateContent
// API. Every failure mode - timeout, transport error, bad status, empty
// candidate - is reported as a wrapped models.ErrBackendUnavailable so the
// generator can fall back per section.
type GeminiBackend struct {
	config GeminiConfig
	client *http.Client
}

// NewGeminiBackend creates the HTTP-based Gemini backend
func NewGeminiBackend(cfg GeminiConfig) *GeminiBackend {
	return &GeminiBackend{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name identifies the backend
func (b *GeminiBackend) Name() string {
	return "gemini"
}

// geminiRequest is the generateContent request body
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// GenerateSection calls the Gemini API once with a structured prompt built
// from the payload. A timeout is treated identically to any other failure.
func (b *GeminiBackend) GenerateSection(ctx context.Context, payload *SectionPayload) (string, error) {
	prompt := b.buildPrompt(payload)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", models.ErrBackendUnavailable, err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", b.config.BaseURL, b.config.Model, b.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", models.ErrBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[AI] gemini returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
		return "", fmt.Errorf("%w: status %d", models.ErrBackendUnavailable, resp.StatusCode)
	}

	text := gjson.GetBytes(respBody, "candidates.0.content.parts.0.text").String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty candidate in response", models.ErrBackendUnavailable)
	}

	return strings.TrimSpace(text), nil
}

// buildPrompt renders the structured payload into the generation prompt.
// Only numeric aggregates and anonymized comments go in.
func (b *GeminiBackend) buildPrompt(p *SectionPayload) string {
	var sb strings.Builder

	sb.WriteString("You are an expert in knowledge valorisation and industry-academia collaboration. ")
	sb.WriteString("Write a professional, analytical narrative based on the following self-assessment data.\n\n")

	if p.Kind == models.SectionKindSummary {
		fmt.Fprintf(&sb, "Section: executive summary\n")
		fmt.Fprintf(&sb, "Overall score: %.2f/7 (maturity: %s)\n", p.Score, p.Maturity)
		fmt.Fprintf(&sb, "Benchmark (Bologna case): %.2f, delta %+.2f (%s)\n", models.BolognaBenchmark, p.BenchmarkDelta, p.DeltaDirection)
		if p.StrongestChannel != "" {
			fmt.Fprintf(&sb, "Strongest channel: %s\nWeakest channel: %s\n", p.StrongestChannel, p.WeakestChannel)
		}
		fmt.Fprintf(&sb, "Completion rate: %.0f%%\n", p.CompletionRate*100)
		sb.WriteString("\nInclude: overall maturity evaluation, top strengths, top improvement areas, strategic recommendations. Length: 200-250 words.\n")
	} else {
		fmt.Fprintf(&sb, "Section: channel narrative\n")
		fmt.Fprintf(&sb, "Channel: %s\n", p.ChannelName)
		fmt.Fprintf(&sb, "Channel score: %.2f/7 (maturity: %s)\n", p.Score, p.Maturity)
		fmt.Fprintf(&sb, "Benchmark (Bologna case): %.2f, delta %+.2f (%s)\n", models.BolognaBenchmark, p.BenchmarkDelta, p.DeltaDirection)
		for _, f := range models.Factors() {
			if score, ok := p.FactorScores[f]; ok {
				fmt.Fprintf(&sb, "Factor %s: %.2f/7\n", f.DisplayName(), score)
			}
		}
		sb.WriteString("\nInclude: current situation, specific strengths, identified barriers, concrete improvement opportunities, actionable recommendations. Length: 150-200 words.\n")
	}

	if p.Sentiment.Total > 0 {
		fmt.Fprintf(&sb, "Comment sentiment: %s (polarity %.2f over %d comments)\n", p.Sentiment.Overall, p.Sentiment.Polarity, p.Sentiment.Total)
	}
	if len(p.Themes) > 0 {
		fmt.Fprintf(&sb, "Recurring themes: %s\n", strings.Join(p.Themes, ", "))
	}
	if len(p.Comments) > 0 {
		sb.WriteString("Anonymized respondent comments:\n")
		for _, comment := range p.Comments {
			fmt.Fprintf(&sb, "- %s\n", comment)
		}
	}

	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
