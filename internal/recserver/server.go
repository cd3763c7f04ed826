// Package recserver exposes the recommendation pipeline over a thin JSON
// HTTP API. OAuth login flows live outside this process; handlers receive
// pre-authenticated provenance clients.
package recserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_tunes/internal/engine"
	"github.com/anatolykoptev/go_tunes/internal/engine/sources"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Recommender runs one recommendation pipeline invocation.
type Recommender interface {
	Recommend(ctx context.Context, req engine.Request) engine.Result
}

// SpotifyProvider is an authenticated audio-catalog client with playlist listing.
type SpotifyProvider interface {
	engine.SpotifySource
	UserPlaylists(ctx context.Context) ([]sources.PlaylistRef, error)
}

// YouTubeProvider is an authenticated video client with playlist listing.
type YouTubeProvider interface {
	engine.YouTubeSource
	engine.VideoSearcher
	UserPlaylists(ctx context.Context) ([]sources.PlaylistRef, error)
}

// Server wires the pipeline and provenance clients into HTTP handlers.
// A nil provider disables its service with a 503.
type Server struct {
	pipeline Recommender
	spotify  SpotifyProvider
	youtube  YouTubeProvider
}

// New returns a Server ready to build its router.
func New(pipeline Recommender, spotify SpotifyProvider, youtube YouTubeProvider) *Server {
	return &Server{pipeline: pipeline, spotify: spotify, youtube: youtube}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(securityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Route("/api", func(r chi.Router) {
		r.Get("/playlists", s.handlePlaylists)
		r.Post("/recommendation", s.handleRecommendation)
	})
	return r
}

// Run serves the API until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      150 * time.Second,
	}
	slog.Info("serving recommendations", slog.String("addr", addr))
	return srv.ListenAndServe()
}

// securityHeaders mirrors the hardening headers the front end expects.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
