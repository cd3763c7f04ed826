package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestYouTube(t *testing.T, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewYouTubeClient(srv.Client(), "test-key")
	c.baseURL = srv.URL
	return c
}

func TestPlaylistItemsPagination(t *testing.T) {
	var tokens []string
	c := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/playlistItems") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("playlistId"); got != "PLx" {
			t.Errorf("playlistId %q, want PLx", got)
		}
		token := r.URL.Query().Get("pageToken")
		tokens = append(tokens, token)

		page := map[string]any{
			"items": []map[string]any{
				{"snippet": map[string]any{
					"title":        "Clip " + token,
					"channelTitle": "Chan",
					"resourceId":   map[string]any{"videoId": "vid-" + token},
				}},
			},
		}
		if token == "" {
			page["nextPageToken"] = "p2"
		}
		json.NewEncoder(w).Encode(page)
	})

	items, err := c.PlaylistItems(context.Background(), "PLx")
	if err != nil {
		t.Fatalf("PlaylistItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[1].VideoID != "vid-p2" || items[1].Channel != "Chan" {
		t.Errorf("second item = %+v", items[1])
	}
	if len(tokens) != 2 || tokens[0] != "" || tokens[1] != "p2" {
		t.Errorf("page tokens = %v, want [\"\" p2]", tokens)
	}
}

func TestPlaylistItemsSkipsEmptyVideoIDs(t *testing.T) {
	c := newTestYouTube(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"snippet": map[string]any{"title": "Deleted video"}},
				{"snippet": map[string]any{
					"title":      "Kept",
					"resourceId": map[string]any{"videoId": "v1"},
				}},
			},
		})
	})

	items, err := c.PlaylistItems(context.Background(), "PLx")
	if err != nil {
		t.Fatalf("PlaylistItems: %v", err)
	}
	if len(items) != 1 || items[0].VideoID != "v1" {
		t.Errorf("items = %+v, want only v1", items)
	}
}

func TestVideoDetailsBatchRequest(t *testing.T) {
	c := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "v1,v2" {
			t.Errorf("id param %q, want v1,v2", got)
		}
		if got := r.URL.Query().Get("part"); got != "snippet,topicDetails" {
			t.Errorf("part param %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id": "v1",
					"snippet": map[string]any{
						"publishedAt": "2020-01-02T03:04:05Z",
						"description": "a song",
						"tags":        []string{"synth"},
					},
					"topicDetails": map[string]any{
						"topicCategories": []string{"Music"},
					},
				},
			},
		})
	})

	details, err := c.VideoDetails(context.Background(), []string{"v1", "v2"})
	if err != nil {
		t.Fatalf("VideoDetails: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d details, want 1", len(details))
	}
	d := details[0]
	if d.ID != "v1" || d.PublishedAt != "2020-01-02T03:04:05Z" || d.Description != "a song" {
		t.Errorf("details = %+v", d)
	}
	if len(d.Tags) != 1 || d.Tags[0] != "synth" {
		t.Errorf("tags = %v", d.Tags)
	}
	if len(d.TopicCategories) != 1 || d.TopicCategories[0] != "Music" {
		t.Errorf("topics = %v", d.TopicCategories)
	}
}

func TestTopVideo(t *testing.T) {
	c := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Blue Monday - New Order" {
			t.Errorf("query %q", q.Get("q"))
		}
		if q.Get("maxResults") != "1" || q.Get("type") != "video" {
			t.Errorf("search params = %v", q)
		}
		if q.Get("key") != "test-key" {
			t.Errorf("key param %q, want test-key", q.Get("key"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id": map[string]any{"videoId": "FYH8DsU2WCk"},
					"snippet": map[string]any{
						"title":        "Blue Monday (Official)",
						"channelTitle": "New Order",
					},
				},
			},
		})
	})

	link, err := c.TopVideo(context.Background(), "Blue Monday - New Order")
	if err != nil {
		t.Fatalf("TopVideo: %v", err)
	}
	if link == nil {
		t.Fatal("want a link, got nil")
	}
	if link.URL != "https://youtu.be/FYH8DsU2WCk" {
		t.Errorf("url %q", link.URL)
	}
	if link.Title != "Blue Monday (Official)" || link.Channel != "New Order" {
		t.Errorf("link = %+v", link)
	}
}

func TestTopVideoNoResults(t *testing.T) {
	c := newTestYouTube(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{}})
	})

	link, err := c.TopVideo(context.Background(), "nothing matches this")
	if err != nil {
		t.Fatalf("TopVideo: %v", err)
	}
	if link != nil {
		t.Errorf("want nil link, got %+v", link)
	}
}

func TestUserPlaylists(t *testing.T) {
	c := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("mine"); got != "true" {
			t.Errorf("mine param %q, want true", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "PL1", "snippet": map[string]any{"title": "Road trip"}},
				{"id": "PL2", "snippet": map[string]any{"title": "Focus"}},
			},
		})
	})

	refs, err := c.UserPlaylists(context.Background())
	if err != nil {
		t.Fatalf("UserPlaylists: %v", err)
	}
	if len(refs) != 2 || refs[0].ID != "PL1" || refs[1].Name != "Focus" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestGetSurfacesAPIErrors(t *testing.T) {
	c := newTestYouTube(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"quotaExceeded"}}`)
	})

	_, err := c.PlaylistItems(context.Background(), "PLx")
	if err == nil {
		t.Fatal("want error on 403 response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "quotaExceeded") {
		t.Errorf("error %q should carry status and body", err)
	}
}
