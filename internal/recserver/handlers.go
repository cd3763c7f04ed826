package recserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_tunes/internal/engine"
	"github.com/anatolykoptev/go_tunes/internal/engine/sources"
	"github.com/google/uuid"
)

// recommendationRequest is the POST /api/recommendation body.
type recommendationRequest struct {
	Service    string `json:"service"`
	PlaylistID string `json:"playlist_id"`
	Language   string `json:"language,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// recommendationResponse mirrors the pipeline result. Recommendation is
// null on failure and no-data outcomes.
type recommendationResponse struct {
	Recommendation *string        `json:"recommendation"`
	Details        engine.Details `json:"details"`
	Outcome        engine.Outcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// playlistsResponse is the GET /api/playlists envelope.
type playlistsResponse struct {
	Playlists []sources.PlaylistRef `json:"playlists"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(engine.FormatMetrics()))
}

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	service := engine.Provenance(r.URL.Query().Get("service"))
	if !service.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown or missing service"})
		return
	}

	switch service {
	case engine.ProvenanceSpotify:
		if s.spotify == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "spotify client not configured"})
			return
		}
		refs, err := s.spotify.UserPlaylists(r.Context())
		if err != nil {
			slog.Warn("playlist listing failed", slog.String("service", string(service)), slog.Any("error", err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "playlist listing failed"})
			return
		}
		writeJSON(w, http.StatusOK, playlistsResponse{Playlists: refs})
	case engine.ProvenanceYouTube:
		if s.youtube == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "youtube client not configured"})
			return
		}
		refs, err := s.youtube.UserPlaylists(r.Context())
		if err != nil {
			slog.Warn("playlist listing failed", slog.String("service", string(service)), slog.Any("error", err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "playlist listing failed"})
			return
		}
		writeJSON(w, http.StatusOK, playlistsResponse{Playlists: refs})
	}
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var in recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	service := engine.Provenance(in.Service)
	if !service.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown or missing service"})
		return
	}
	if in.PlaylistID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "playlist_id is required"})
		return
	}
	if in.Language == "" {
		in.Language = "english"
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}

	req := engine.Request{
		Service:   service,
		Playlist:  in.PlaylistID,
		Language:  in.Language,
		SessionID: in.SessionID,
	}
	switch service {
	case engine.ProvenanceSpotify:
		if s.spotify == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "spotify client not configured"})
			return
		}
		req.Spotify = s.spotify
	case engine.ProvenanceYouTube:
		if s.youtube == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "youtube client not configured"})
			return
		}
		req.YouTube = s.youtube
	}

	result := s.pipeline.Recommend(r.Context(), req)

	resp := recommendationResponse{Details: result.Details, Outcome: result.Outcome}
	if result.Outcome == engine.OutcomeSuccess {
		resp.Recommendation = &result.Recommendation
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", slog.Any("error", err))
	}
}
