package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Description Sanitizer — cleans free-text descriptions in batches via the
// text-transformation model, with a deterministic rule-based fallback.
// Output always has the same length and order as the input; a failed batch
// degrades per-item to CleanDescription, it never drops entries.

const (
	sanitizeInputCap = 500 // runes submitted per description (cost control)
)

// SanitizeDescriptions cleans descs and returns a same-length, same-order
// slice. Empty descriptions pass through as empty and are excluded from
// model calls.
func (p *Pipeline) SanitizeDescriptions(ctx context.Context, descs []string, buf *LogBuffer) []string {
	out := make([]string, len(descs))

	// Positions of non-empty descriptions, preserving order.
	var positions []int
	for i, d := range descs {
		if strings.TrimSpace(d) != "" {
			positions = append(positions, i)
		}
	}

	for start := 0; start < len(positions); start += p.cfg.SanitizeBatchSize {
		end := start + p.cfg.SanitizeBatchSize
		if end > len(positions) {
			end = len(positions)
		}
		batch := positions[start:end]

		inputs := make([]string, len(batch))
		for j, pos := range batch {
			inputs[j] = TruncateRunes(strings.TrimSpace(descs[pos]), sanitizeInputCap, "")
		}

		cleaned, err := p.sanitizeBatch(ctx, inputs)
		if err != nil {
			metrics.SanitizeFallbacks.Add(1)
			buf.Logf("Description cleaning batch failed (%v), using rule-based fallback", err)
			for j, pos := range batch {
				out[pos] = CleanDescription(inputs[j])
			}
			continue
		}
		for j, pos := range batch {
			out[pos] = cleaned[j]
		}
	}
	return out
}

// sanitizeBatch submits one batch to the model and re-aligns the response.
// A count mismatch is an error; the caller falls back per item.
func (p *Pipeline) sanitizeBatch(ctx context.Context, inputs []string) ([]string, error) {
	var body strings.Builder
	for i, in := range inputs {
		fmt.Fprintf(&body, "%d. %s\n%s\n", i+1, in, sanitizeDelim)
	}

	prompt := fmt.Sprintf(sanitizePrompt, len(inputs), sanitizeDelim, sanitizeDelim, body.String())
	metrics.LLMCalls.Add(1)
	resp, err := p.cfg.LLM.Complete(ctx, ChatRequest{
		Model:       p.cfg.SanitizeModel,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.0,
		MaxTokens:   len(inputs) * 200,
	})
	if err != nil {
		metrics.LLMErrors.Add(1)
		return nil, err
	}

	parts := strings.Split(resp.Content, sanitizeDelim)
	cleaned := make([]string, 0, len(inputs))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	if len(cleaned) != len(inputs) {
		return nil, fmt.Errorf("cleaned %d entries, expected %d", len(cleaned), len(inputs))
	}
	return cleaned, nil
}

// Rule-based fallback patterns. Line-scoped patterns remove the whole line.
var (
	urlRE       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	handleRE    = regexp.MustCompile(`[@#][A-Za-z0-9_.]+`)
	socialRE    = regexp.MustCompile(`(?im)^.*\b(follow (me|us)|find (me|us) on|instagram|facebook|tiktok|twitter)\b.*$`)
	subscribeRE = regexp.MustCompile(`(?im)^.*\b(subscribe|like and share|smash that like|turn on notifications|hit the bell)\b.*$`)
	timestampRE = regexp.MustCompile(`(?m)^\s*\(?\d{1,2}:\d{2}(?::\d{2})?\)?\s*[-–—:]?.*$`)
	copyrightRE = regexp.MustCompile(`(?im)^.*(©|\(c\)|copyright|all rights reserved).*$`)
	promoRE     = regexp.MustCompile(`(?im)^.*\b(merch|use code|promo code|discount|buy now|shop now|limited time|out now on|stream now|available now on)\b.*$`)
	newlinesRE  = regexp.MustCompile(`\n{3,}`)
)

// CleanDescription is the deterministic fallback cleaner. Pure and total:
// never fails on malformed input; worst case it returns the trimmed original.
func CleanDescription(s string) string {
	cleaned := s
	for _, re := range []*regexp.Regexp{
		urlRE, socialRE, subscribeRE, timestampRE, copyrightRE, promoRE, handleRE,
	} {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = newlinesRE.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
