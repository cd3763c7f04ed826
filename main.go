// go_tunes — playlist-driven song recommendation service.
//
// Samples tracks from a Spotify or YouTube playlist, asks a completion
// model for one new song not already in the playlist, filters near-duplicate
// titles, attaches a video link and records an analytics event.
//
// OAuth flows for the two provenances live outside this process; the server
// is handed already-authenticated tokens via the environment.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_tunes/internal/analytics"
	"github.com/anatolykoptev/go_tunes/internal/engine"
	"github.com/anatolykoptev/go_tunes/internal/engine/sources"
	"github.com/anatolykoptev/go_tunes/internal/recserver"
	spotifyapi "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

var (
	version = "dev"
	port    = env.Str("PORT", "8890")
)

func main() {
	openaiKey := env.Str("OPENAI_API_KEY", "")
	youtubeKey := env.Str("YOUTUBE_API_KEY", "")
	if openaiKey == "" || youtubeKey == "" {
		slog.Error("missing OPENAI_API_KEY or YOUTUBE_API_KEY configuration")
		os.Exit(1)
	}

	store, err := analytics.Open(env.Str("ANALYTICS_DB_PATH", "instance/analytics.db"))
	if err != nil {
		slog.Error("analytics store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	spotify, youtube := buildProviders(youtubeKey)

	pipeline, err := engine.NewPipeline(engine.Config{
		LLM:                 engine.NewOpenAIClient(openaiKey),
		VideoSearch:         youtube,
		Events:              store,
		Model:               env.Str("OPENAI_MODEL", "gpt-4"),
		FallbackModel:       env.Str("OPENAI_FALLBACK_MODEL", "gpt-3.5-turbo"),
		MaxAttempts:         env.Int("MAX_ATTEMPTS", 3),
		SampleSize:          env.Int("SAMPLE_SIZE", 200),
		SimilarityThreshold: env.Int("SIMILARITY_THRESHOLD", 85),
		SanitizeBatchSize:   env.Int("SANITIZE_BATCH_SIZE", 50),
	})
	if err != nil {
		slog.Error("pipeline init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_tunes",
		slog.String("version", version),
		slog.String("port", port),
		slog.Bool("spotify", spotify != nil),
	)

	srv := recserver.New(pipeline, spotify, youtube)
	if err := srv.Run(":" + port); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// buildProviders constructs the provenance clients from environment tokens.
// A missing Spotify token leaves that service disabled; YouTube playlist
// reads work for public playlists with the API key alone.
func buildProviders(youtubeKey string) (recserver.SpotifyProvider, recserver.YouTubeProvider) {
	var spotify recserver.SpotifyProvider
	if token := env.Str("SPOTIFY_TOKEN", ""); token != "" {
		httpClient := oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		spotify = sources.NewSpotifyClient(spotifyapi.New(httpClient))
	} else {
		slog.Warn("SPOTIFY_TOKEN not set, spotify provenance disabled")
	}

	ytHTTP := &http.Client{Timeout: 30 * time.Second}
	if token := env.Str("YOUTUBE_TOKEN", ""); token != "" {
		ytHTTP = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return spotify, sources.NewYouTubeClient(ytHTTP, youtubeKey)
}
