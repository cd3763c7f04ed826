package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PlaylistFetches     atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
	DuplicateRejections atomic.Int64
	SanitizeFallbacks   atomic.Int64
	VideoSearches       atomic.Int64
	VideoSearchErrors   atomic.Int64
	AnalyticsErrors     atomic.Int64
	Recommendations     atomic.Int64
	Failures            atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"playlist_fetches":     metrics.PlaylistFetches.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
		"duplicate_rejections": metrics.DuplicateRejections.Load(),
		"sanitize_fallbacks":   metrics.SanitizeFallbacks.Load(),
		"video_searches":       metrics.VideoSearches.Load(),
		"video_search_errors":  metrics.VideoSearchErrors.Load(),
		"analytics_errors":     metrics.AnalyticsErrors.Load(),
		"recommendations":      metrics.Recommendations.Load(),
		"failures":             metrics.Failures.Load(),
	}
}

// FormatMetrics returns counters as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	snapshot := GetMetrics()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, snapshot[k])
	}
	return sb.String()
}
