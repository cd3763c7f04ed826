package engine

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
)

// Pipeline Orchestrator — composes normalizer, sanitizer, prompt builder,
// query engine and link resolver into one forward-only state machine:
//
//	FETCHING → (empty → DONE:no_data)
//	         → PROMPTING → QUERYING (per model, per attempt)
//	         → (success → ENRICHING → DONE:success)
//	         → (all exhausted → DONE:failure)
//
// Exactly one Event is handed to the analytics recorder per invocation,
// whatever the outcome. Recommend never returns an error; every path yields
// a structured Result with populated logs.

// Recommend runs the full pipeline for one playlist.
func (p *Pipeline) Recommend(ctx context.Context, req Request) Result {
	buf := NewLogBuffer()

	if !req.Service.Valid() {
		return p.fail(ctx, req, buf, fmt.Sprintf("Unknown service %q.", req.Service))
	}

	snap, err := p.fetchSnapshot(ctx, req)
	if err != nil {
		buf.Logf("Playlist fetch failed: %v", err)
		return p.fail(ctx, req, buf, fmt.Sprintf("Playlist fetch failed: %v", err))
	}
	if snap.Empty() {
		buf.Logf(msgEmptyPlaylist)
		metrics.Failures.Add(1)
		result := Result{
			Outcome: OutcomeNoData,
			Details: Details{Error: msgEmptyPlaylist, Logs: buf.Entries()},
		}
		p.recordEvent(ctx, req, snap.PlaylistID, result, buf)
		return result
	}

	if snap.Provenance == ProvenanceYouTube {
		p.sanitizeSnapshot(ctx, &snap, buf)
	}

	prompt, exclusions := BuildPrompt(snap, req.Language, p.cfg.SampleSize)
	buf.Logf("Prompt built from %d sampled tracks", len(exclusions))

	for _, model := range p.models() {
		rec, attempt, err := p.queryModel(ctx, prompt, exclusions, model, buf)
		if err != nil {
			buf.Logf("%v", err)
			if !errors.Is(err, ErrDuplicateExhausted) {
				slog.Warn("model query failed", slog.String("model", model), slog.Any("error", err))
			}
			continue
		}
		buf.Logf("Success with %s, cost=$%.6f", attempt.Model, attempt.CostUSD)

		video := p.resolveVideo(ctx, rec, buf)

		metrics.Recommendations.Add(1)
		result := Result{
			Recommendation: html.EscapeString(rec),
			Outcome:        OutcomeSuccess,
			Details: Details{
				Model:   attempt.Model,
				CostUSD: attempt.CostUSD,
				Video:   video,
				Logs:    buf.Entries(),
			},
		}
		p.recordEvent(ctx, req, snap.PlaylistID, result, buf)
		return result
	}

	buf.Logf(msgAllExhausted)
	return p.fail(ctx, req, buf, msgAllExhausted)
}

// fetchSnapshot dispatches to the provenance-specific normalizer.
func (p *Pipeline) fetchSnapshot(ctx context.Context, req Request) (Snapshot, error) {
	switch req.Service {
	case ProvenanceSpotify:
		if req.Spotify == nil {
			return Snapshot{}, errors.New("spotify client not configured")
		}
		return BuildSpotifySnapshot(ctx, req.Spotify, req.Playlist)
	case ProvenanceYouTube:
		if req.YouTube == nil {
			return Snapshot{}, errors.New("youtube client not configured")
		}
		return BuildYouTubeSnapshot(ctx, req.YouTube, req.Playlist)
	}
	return Snapshot{}, fmt.Errorf("unknown service %q", req.Service)
}

// sanitizeSnapshot fills TransformedDescription for every track, aligned by
// position. Sanitizer failures degrade to the rule-based cleaner inside
// SanitizeDescriptions; nothing here is fatal.
func (p *Pipeline) sanitizeSnapshot(ctx context.Context, snap *Snapshot, buf *LogBuffer) {
	descs := make([]string, len(snap.Tracks))
	for i, t := range snap.Tracks {
		descs[i] = t.Description
	}
	cleaned := p.SanitizeDescriptions(ctx, descs, buf)
	for i := range snap.Tracks {
		snap.Tracks[i].TransformedDescription = cleaned[i]
	}
}

// fail produces the failure Result and its analytics event.
func (p *Pipeline) fail(ctx context.Context, req Request, buf *LogBuffer, errMsg string) Result {
	metrics.Failures.Add(1)
	result := Result{
		Outcome: OutcomeFailure,
		Details: Details{Error: errMsg, Logs: buf.Entries()},
	}
	p.recordEvent(ctx, req, ExtractPlaylistID(req.Service, req.Playlist), result, buf)
	return result
}

// recordEvent hands the invocation's event to the analytics collaborator.
// Analytics failures are swallowed and logged, never surfaced to the caller.
func (p *Pipeline) recordEvent(ctx context.Context, req Request, playlistID string, result Result, buf *LogBuffer) {
	if p.cfg.Events == nil {
		return
	}
	ev := Event{
		SessionID:      req.SessionID,
		Service:        req.Service,
		PlaylistID:     playlistID,
		Recommendation: result.Recommendation,
		Details:        result.Details,
		Language:       req.Language,
		Outcome:        result.Outcome,
		ErrorMessage:   result.Details.Error,
	}
	if err := p.cfg.Events.RecordRecommendation(ctx, ev); err != nil {
		metrics.AnalyticsErrors.Add(1)
		buf.Logf("Analytics error: %v", err)
		slog.Warn("analytics write failed", slog.Any("error", err))
	}
}
