package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Source Normalizer — converts a playlist from either provenance into one
// unified Snapshot. Transport errors are not retried here; they propagate to
// the orchestrator as fatal for the invocation.

// Provenance batch limits for secondary lookups.
const (
	spotifyFeatureBatch = 100
	youtubeDetailBatch  = 50
)

var (
	spotifyPathRE  = regexp.MustCompile(`open\.spotify\.com/(?:[a-z]{2,5}(?:-[A-Za-z]{2})?/)?playlist/([A-Za-z0-9]+)`)
	spotifyURIRE   = regexp.MustCompile(`^spotify:playlist:([A-Za-z0-9]+)$`)
	youtubeListRE  = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
	youtubePathRE  = regexp.MustCompile(`youtube\.com/playlist/([A-Za-z0-9_-]+)`)
	youtubeShortRE = regexp.MustCompile(`youtu\.be/.*[?&]list=([A-Za-z0-9_-]+)`)
)

// ExtractPlaylistID pulls a playlist ID out of the accepted URL shapes for
// the given provenance: web link, short link, URI scheme, or bare ID.
// Input that matches no pattern is treated as already being a bare ID.
func ExtractPlaylistID(p Provenance, raw string) string {
	raw = strings.TrimSpace(raw)
	switch p {
	case ProvenanceSpotify:
		for _, re := range []*regexp.Regexp{spotifyPathRE, spotifyURIRE} {
			if m := re.FindStringSubmatch(raw); len(m) == 2 {
				return m[1]
			}
		}
	case ProvenanceYouTube:
		for _, re := range []*regexp.Regexp{youtubeListRE, youtubeShortRE, youtubePathRE} {
			if m := re.FindStringSubmatch(raw); len(m) == 2 {
				return m[1]
			}
		}
	}
	// Bare ID: strip any stray query string.
	if id, _, found := strings.Cut(raw, "?"); found {
		return id
	}
	return raw
}

// BuildSpotifySnapshot fetches all playlist tracks, joins them with their
// audio features (batched at 100 IDs per call) and drops tracks that have no
// feature record.
func BuildSpotifySnapshot(ctx context.Context, src SpotifySource, playlist string) (Snapshot, error) {
	metrics.PlaylistFetches.Add(1)
	id := ExtractPlaylistID(ProvenanceSpotify, playlist)
	snap := Snapshot{Provenance: ProvenanceSpotify, PlaylistID: id}

	tracks, err := src.PlaylistTracks(ctx, id)
	if err != nil {
		return snap, fmt.Errorf("spotify playlist %s: %w", id, err)
	}
	if len(tracks) == 0 {
		return snap, nil
	}

	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}

	featsByID := make(map[string]SpotifyFeatures, len(ids))
	for _, batch := range chunkStrings(ids, spotifyFeatureBatch) {
		feats, err := src.AudioFeatures(ctx, batch)
		if err != nil {
			return snap, fmt.Errorf("spotify audio features: %w", err)
		}
		for _, f := range feats {
			featsByID[f.ID] = f
		}
	}

	// Inner join on ID: tracks without feature data are silently excluded.
	for _, t := range tracks {
		f, ok := featsByID[t.ID]
		if !ok || t.Name == "" {
			continue
		}
		snap.Tracks = append(snap.Tracks, Track{
			ID:     t.ID,
			Name:   t.Name,
			Artist: t.Artist,
			Album:  t.Album,
			Features: &AudioFeatures{
				Danceability: f.Danceability,
				Energy:       f.Energy,
				Tempo:        f.Tempo,
				Valence:      f.Valence,
			},
		})
	}
	return snap, nil
}

// BuildYouTubeSnapshot fetches all playlist items and enriches each with
// tags, topic categories, publish date and description (batched at 50 IDs
// per call). Missing enrichment data defaults to empty, never nil.
func BuildYouTubeSnapshot(ctx context.Context, src YouTubeSource, playlist string) (Snapshot, error) {
	metrics.PlaylistFetches.Add(1)
	id := ExtractPlaylistID(ProvenanceYouTube, playlist)
	snap := Snapshot{Provenance: ProvenanceYouTube, PlaylistID: id}

	items, err := src.PlaylistItems(ctx, id)
	if err != nil {
		return snap, fmt.Errorf("youtube playlist %s: %w", id, err)
	}
	if len(items) == 0 {
		return snap, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID != "" {
			ids = append(ids, it.VideoID)
		}
	}

	detailsByID := make(map[string]VideoDetails, len(ids))
	for _, batch := range chunkStrings(ids, youtubeDetailBatch) {
		details, err := src.VideoDetails(ctx, batch)
		if err != nil {
			return snap, fmt.Errorf("youtube video details: %w", err)
		}
		for _, d := range details {
			detailsByID[d.ID] = d
		}
	}

	for _, it := range items {
		if it.VideoID == "" || it.Title == "" {
			continue
		}
		d := detailsByID[it.VideoID]
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		topics := d.TopicCategories
		if topics == nil {
			topics = []string{}
		}
		snap.Tracks = append(snap.Tracks, Track{
			ID:              it.VideoID,
			Name:            it.Title,
			Artist:          it.Channel,
			Tags:            tags,
			TopicCategories: topics,
			PublishedAt:     d.PublishedAt,
			Description:     d.Description,
		})
	}
	return snap, nil
}

// chunkStrings splits ids into slices of at most size entries.
func chunkStrings(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
