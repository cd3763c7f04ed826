package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_tunes/internal/engine"
	spotifyapi "github.com/zmb3/spotify/v2"
)

// SpotifyClient adapts an authenticated zmb3/spotify client to the engine's
// audio-catalog provenance. Token refresh and auth state belong to the
// caller; this adapter only reads.
type SpotifyClient struct {
	api *spotifyapi.Client
}

// NewSpotifyClient wraps an already-authenticated API client.
func NewSpotifyClient(api *spotifyapi.Client) *SpotifyClient {
	return &SpotifyClient{api: api}
}

var _ engine.SpotifySource = (*SpotifyClient)(nil)

// PlaylistTracks pages through the playlist until exhausted. Non-track
// entries (episodes, removed items) are skipped.
func (c *SpotifyClient) PlaylistTracks(ctx context.Context, playlistID string) ([]engine.SpotifyTrack, error) {
	page, err := c.api.GetPlaylistItems(ctx, spotifyapi.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("playlist items: %w", err)
	}

	var tracks []engine.SpotifyTrack
	for {
		for _, item := range page.Items {
			t := item.Track.Track
			if t == nil || t.ID == "" {
				continue
			}
			artist := ""
			if len(t.Artists) > 0 {
				artist = t.Artists[0].Name
			}
			tracks = append(tracks, engine.SpotifyTrack{
				ID:     string(t.ID),
				Name:   t.Name,
				Artist: artist,
				Album:  t.Album.Name,
			})
		}
		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotifyapi.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("playlist items page: %w", err)
		}
	}
	return tracks, nil
}

// AudioFeatures fetches one batch of at most 100 feature records.
// Tracks the catalog has no analysis for come back nil and are dropped.
func (c *SpotifyClient) AudioFeatures(ctx context.Context, ids []string) ([]engine.SpotifyFeatures, error) {
	sids := make([]spotifyapi.ID, len(ids))
	for i, id := range ids {
		sids[i] = spotifyapi.ID(id)
	}

	feats, err := c.api.GetAudioFeatures(ctx, sids...)
	if err != nil {
		return nil, fmt.Errorf("audio features: %w", err)
	}

	out := make([]engine.SpotifyFeatures, 0, len(feats))
	for _, f := range feats {
		if f == nil {
			continue
		}
		out = append(out, engine.SpotifyFeatures{
			ID:           string(f.ID),
			Danceability: float64(f.Danceability),
			Energy:       float64(f.Energy),
			Tempo:        float64(f.Tempo),
			Valence:      float64(f.Valence),
		})
	}
	return out, nil
}

// UserPlaylists lists the current user's playlists (id and name), paging
// until exhausted. Used by the HTTP playlist listing, not the pipeline.
func (c *SpotifyClient) UserPlaylists(ctx context.Context) ([]PlaylistRef, error) {
	page, err := c.api.CurrentUsersPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("user playlists: %w", err)
	}

	var refs []PlaylistRef
	for {
		for _, pl := range page.Playlists {
			refs = append(refs, PlaylistRef{ID: string(pl.ID), Name: pl.Name})
		}
		err = c.api.NextPage(ctx, page)
		if errors.Is(err, spotifyapi.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("user playlists page: %w", err)
		}
	}
	return refs, nil
}

// PlaylistRef is one entry in a user's playlist listing.
type PlaylistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
