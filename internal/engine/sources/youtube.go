package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_tunes/internal/engine"
)

// YouTube Data API v3 client: playlist reads for the video provenance and
// top-1 search for the link resolver. Playlist reads go through the caller's
// OAuth-authenticated http.Client; search uses the API key.

const (
	ytAPIBase       = "https://www.googleapis.com/youtube/v3"
	ytPageSize      = 50 // provenance page and batch limit
	userAgent       = "go_tunes/1.0"
	ytMaxErrorBytes = 512
)

// YouTubeClient talks to the Data API. httpClient carries the caller's
// credentials for playlist reads; apiKey is appended when set (required for
// search, optional for reads of public playlists).
type YouTubeClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewYouTubeClient wraps an authenticated http.Client and an optional API key.
func NewYouTubeClient(httpClient *http.Client, apiKey string) *YouTubeClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YouTubeClient{httpClient: httpClient, apiKey: apiKey, baseURL: ytAPIBase}
}

var (
	_ engine.YouTubeSource = (*YouTubeClient)(nil)
	_ engine.VideoSearcher = (*YouTubeClient)(nil)
)

// --- Data API response types ---

type ytPlaylistItemsResp struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			ResourceID   struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type ytVideosResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			PublishedAt string   `json:"publishedAt"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"snippet"`
		TopicDetails struct {
			TopicCategories []string `json:"topicCategories"`
		} `json:"topicDetails"`
	} `json:"items"`
}

type ytSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytPlaylistsResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// PlaylistItems pages through the playlist until exhausted.
func (c *YouTubeClient) PlaylistItems(ctx context.Context, playlistID string) ([]engine.YouTubeItem, error) {
	var items []engine.YouTubeItem
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", fmt.Sprintf("%d", ytPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page ytPlaylistItemsResp
		if err := c.get(ctx, "playlistItems", params, &page); err != nil {
			return nil, fmt.Errorf("playlist items: %w", err)
		}
		for _, it := range page.Items {
			if it.Snippet.ResourceID.VideoID == "" {
				continue
			}
			items = append(items, engine.YouTubeItem{
				VideoID: it.Snippet.ResourceID.VideoID,
				Title:   it.Snippet.Title,
				Channel: it.Snippet.ChannelTitle,
			})
		}
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

// VideoDetails fetches one batch of at most 50 enrichment records.
func (c *YouTubeClient) VideoDetails(ctx context.Context, ids []string) ([]engine.VideoDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet,topicDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", fmt.Sprintf("%d", ytPageSize))

	var resp ytVideosResp
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	details := make([]engine.VideoDetails, 0, len(resp.Items))
	for _, it := range resp.Items {
		details = append(details, engine.VideoDetails{
			ID:              it.ID,
			Tags:            it.Snippet.Tags,
			TopicCategories: it.TopicDetails.TopicCategories,
			PublishedAt:     it.Snippet.PublishedAt,
			Description:     it.Snippet.Description,
		})
	}
	return details, nil
}

// TopVideo returns the single best video match for a free-text query, or
// nil when the search has no results.
func (c *YouTubeClient) TopVideo(ctx context.Context, query string) (*engine.VideoLink, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", "1")

	var resp ytSearchResp
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	it := resp.Items[0]
	return &engine.VideoLink{
		VideoID: it.ID.VideoID,
		Title:   it.Snippet.Title,
		Channel: it.Snippet.ChannelTitle,
		URL:     "https://youtu.be/" + it.ID.VideoID,
	}, nil
}

// UserPlaylists lists the authenticated user's playlists (id and name),
// paging until exhausted. Used by the HTTP playlist listing.
func (c *YouTubeClient) UserPlaylists(ctx context.Context) ([]PlaylistRef, error) {
	var refs []PlaylistRef
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("mine", "true")
		params.Set("maxResults", fmt.Sprintf("%d", ytPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page ytPlaylistsResp
		if err := c.get(ctx, "playlists", params, &page); err != nil {
			return nil, fmt.Errorf("user playlists: %w", err)
		}
		for _, it := range page.Items {
			refs = append(refs, PlaylistRef{ID: it.ID, Name: it.Snippet.Title})
		}
		if page.NextPageToken == "" {
			return refs, nil
		}
		pageToken = page.NextPageToken
	}
}

// get performs one Data API call through the shared retry transport and
// decodes the JSON response into v.
func (c *YouTubeClient) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	apiURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		return c.httpClient.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, ytMaxErrorBytes))
		return fmt.Errorf("youtube data API %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode youtube data API: %w", err)
	}
	return nil
}
