package engine

import "context"

// Provenance identifies the platform a playlist originates from.
type Provenance string

const (
	ProvenanceSpotify Provenance = "spotify"
	ProvenanceYouTube Provenance = "youtube"
)

// Valid reports whether p is a known provenance.
func (p Provenance) Valid() bool {
	return p == ProvenanceSpotify || p == ProvenanceYouTube
}

// AudioFeatures holds the catalog audio analysis values used in prompt lines.
type AudioFeatures struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Valence      float64 `json:"valence"`
}

// Track is the unified record shape both provenances normalize into.
// Features is only set for the Spotify provenance; Tags, TopicCategories,
// PublishedAt and the description fields only for YouTube.
type Track struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	Artist                 string         `json:"artist"`
	Album                  string         `json:"album,omitempty"`
	Features               *AudioFeatures `json:"features,omitempty"`
	Tags                   []string       `json:"tags,omitempty"`
	TopicCategories        []string       `json:"topic_categories,omitempty"`
	PublishedAt            string         `json:"published_at,omitempty"`
	Description            string         `json:"description,omitempty"`
	TransformedDescription string         `json:"transformed_description,omitempty"`
}

// Snapshot is the normalized in-memory view of one playlist at one point in time.
type Snapshot struct {
	Provenance Provenance
	PlaylistID string
	Tracks     []Track
}

// Empty reports whether the snapshot has no usable tracks.
func (s Snapshot) Empty() bool { return len(s.Tracks) == 0 }

// Candidate is one parsed model recommendation ("Title - Artist - Album").
type Candidate struct {
	Title  string
	Artist string
	Album  string
	Raw    string
}

// Attempt records the usage of the model call that produced a kept candidate.
type Attempt struct {
	Model   string
	Usage   ChatUsage
	CostUSD float64
}

// VideoLink is the top video match for a recommendation.
type VideoLink struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

// Details carries per-invocation metadata alongside the recommendation.
type Details struct {
	Model   string     `json:"model,omitempty"`
	CostUSD float64    `json:"cost_usd,omitempty"`
	Video   *VideoLink `json:"video,omitempty"`
	Logs    []string   `json:"logs"`
	Error   string     `json:"error,omitempty"`
}

// Outcome is the terminal state of one pipeline invocation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeNoData  Outcome = "no_data"
)

// Result is what Recommend returns. Recommendation is empty unless
// Outcome is OutcomeSuccess.
type Result struct {
	Recommendation string
	Details        Details
	Outcome        Outcome
}

// Request describes one recommendation invocation. Exactly one provenance
// client must be set, matching Service. The clients are opaque authenticated
// handles; the engine never manages their auth state.
type Request struct {
	Service   Provenance
	Playlist  string // playlist ID or any accepted URL form
	Language  string
	SessionID string
	Spotify   SpotifySource
	YouTube   YouTubeSource
}

// Event is the record handed to the analytics collaborator, once per invocation.
type Event struct {
	SessionID      string
	Service        Provenance
	PlaylistID     string
	Recommendation string
	Details        Details
	Language       string
	Outcome        Outcome
	ErrorMessage   string
}

// --- Collaborator interfaces (implemented in sources/, analytics/, llm.go) ---

// SpotifyTrack is a raw playlist entry from the audio-catalog provenance.
type SpotifyTrack struct {
	ID     string
	Name   string
	Artist string
	Album  string
}

// SpotifyFeatures is one audio-feature record keyed by track ID.
type SpotifyFeatures struct {
	ID           string
	Danceability float64
	Energy       float64
	Tempo        float64
	Valence      float64
}

// SpotifySource exposes the audio-catalog provenance. PlaylistTracks pages
// through the full playlist; AudioFeatures handles a single batch of at most
// 100 IDs (the normalizer does the batching).
type SpotifySource interface {
	PlaylistTracks(ctx context.Context, playlistID string) ([]SpotifyTrack, error)
	AudioFeatures(ctx context.Context, ids []string) ([]SpotifyFeatures, error)
}

// YouTubeItem is a raw playlist entry from the video provenance.
type YouTubeItem struct {
	VideoID string
	Title   string
	Channel string
}

// VideoDetails is the enrichment record for one video.
type VideoDetails struct {
	ID              string
	Tags            []string
	TopicCategories []string
	PublishedAt     string
	Description     string
}

// YouTubeSource exposes the video provenance. PlaylistItems pages through the
// full playlist; VideoDetails handles a single batch of at most 50 IDs.
type YouTubeSource interface {
	PlaylistItems(ctx context.Context, playlistID string) ([]YouTubeItem, error)
	VideoDetails(ctx context.Context, ids []string) ([]VideoDetails, error)
}

// VideoSearcher finds the top video match for a free-text query.
// A nil result with nil error means no match.
type VideoSearcher interface {
	TopVideo(ctx context.Context, query string) (*VideoLink, error)
}

// ChatMessage is one turn in a completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatUsage is the token accounting returned with a completion.
type ChatUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// ChatRequest is a single text-completion call.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

// ChatResponse is the completion text plus its usage.
type ChatResponse struct {
	Content string
	Usage   ChatUsage
}

// ChatCompleter is the text-completion capability the engine delegates to.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// EventRecorder is the analytics sink. Failures are logged, never surfaced.
type EventRecorder interface {
	RecordRecommendation(ctx context.Context, ev Event) error
}
