package engine

import (
	"context"
	"fmt"
	"strings"
)

// Model Query Engine — calls one completion model with bounded retries on
// duplicate detection and computes the usage cost of the winning call.

// Attempt temperature schedule: base + step per attempt number (1-based),
// diversifying output on collision.
const (
	temperatureBase = 0.6
	temperatureStep = 0.1
)

// modelPrice is USD per one million tokens.
type modelPrice struct {
	Input  float64
	Output float64
}

// modelPricing is the per-model price table. lowestTierModel is the fallback
// entry for unknown model names.
var modelPricing = map[string]modelPrice{
	"gpt-4":         {Input: 3.0, Output: 12.0},
	"gpt-3.5-turbo": {Input: 0.5, Output: 1.5},
}

const lowestTierModel = "gpt-3.5-turbo"

// modelCost computes the approximate USD cost of one completion.
func modelCost(usage ChatUsage, model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		pricing = modelPricing[lowestTierModel]
	}
	costIn := float64(usage.PromptTokens) / 1e6 * pricing.Input
	costOut := float64(usage.CompletionTokens) / 1e6 * pricing.Output
	return costIn + costOut
}

// parseCandidate splits raw model output on the fixed
// "Title - Artist - Album" delimiter convention.
func parseCandidate(raw string) Candidate {
	raw = strings.TrimSpace(raw)
	c := Candidate{Raw: raw}
	parts := strings.SplitN(raw, " - ", 3)
	c.Title = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		c.Artist = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		c.Album = strings.TrimSpace(parts[2])
	}
	return c
}

// comparableTitle prepares a candidate title for duplicate comparison:
// quotes stripped, lower-cased.
func comparableTitle(title string) string {
	return strings.ToLower(strings.Trim(title, `"'`))
}

// queryModel attempts up to MaxAttempts completions against one model,
// rejecting candidates that collide with the exclusion set. Returns the raw
// recommendation text and the attempt accounting, or ErrDuplicateExhausted
// once attempts run out. Transport errors abort immediately.
func (p *Pipeline) queryModel(ctx context.Context, prompt string, exclusions []string, model string, buf *LogBuffer) (string, Attempt, error) {
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		temp := temperatureBase + temperatureStep*float64(attempt)
		buf.Logf("Querying %s, attempt %d, temperature=%.1f", model, attempt, temp)

		metrics.LLMCalls.Add(1)
		resp, err := p.cfg.LLM.Complete(ctx, ChatRequest{
			Model: model,
			Messages: []ChatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: temp,
			MaxTokens:   p.cfg.MaxTokens,
		})
		if err != nil {
			metrics.LLMErrors.Add(1)
			return "", Attempt{}, fmt.Errorf("completion with %s: %w", model, err)
		}

		rec := strings.TrimSpace(resp.Content)
		title := comparableTitle(parseCandidate(rec).Title)
		if dup := findDuplicate(title, exclusions, p.cfg.SimilarityThreshold); dup != "" {
			metrics.DuplicateRejections.Add(1)
			buf.Logf("Duplicate detected (%s), retrying...", title)
			continue
		}

		return rec, Attempt{
			Model:   model,
			Usage:   resp.Usage,
			CostUSD: modelCost(resp.Usage, model),
		}, nil
	}
	return "", Attempt{}, fmt.Errorf("%w after %d attempts with %s", ErrDuplicateExhausted, p.cfg.MaxAttempts, model)
}
