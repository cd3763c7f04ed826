package engine

import "errors"

var (
	// ErrEmptyPlaylist means the snapshot had zero usable tracks.
	// Reported as the no_data outcome, never surfaced as an error.
	ErrEmptyPlaylist = errors.New("playlist data unavailable or empty")

	// ErrDuplicateExhausted means one model ran out of attempts without
	// producing a non-duplicate candidate. The orchestrator moves on to
	// the next model.
	ErrDuplicateExhausted = errors.New("no unique recommendation")

	// ErrAllModelsExhausted means every configured model failed or ran
	// out of attempts. Fatal for the invocation.
	ErrAllModelsExhausted = errors.New("all models exhausted")
)

// User-facing error strings, kept stable for API consumers.
const (
	msgEmptyPlaylist = "Playlist data unavailable or empty."
	msgAllExhausted  = "Failed to generate recommendation with all models."
)
