package engine

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
)

// Prompt Builder — samples snapshot records, renders one descriptive line per
// record and assembles the curator prompt plus its exclusion set.

const (
	sampleSeed      = 42  // fixed seed: identical snapshots sample identically
	promptTagLimit  = 5   // tags rendered per line
	topicLimit      = 3   // topic categories rendered per line
	snippetMaxRunes = 100 // description context snippet cap
)

// BuildPrompt renders the curator prompt for a deterministic sample of at
// most sampleSize tracks and returns it with the exclusion set: the
// lower-cased name of every sampled track, in sampling order.
func BuildPrompt(snap Snapshot, language string, sampleSize int) (string, []string) {
	sampled := sampleTracks(snap.Tracks, sampleSize)

	lines := make([]string, 0, len(sampled))
	exclusions := make([]string, 0, len(sampled))
	for _, t := range sampled {
		lines = append(lines, renderTrackLine(t))
		exclusions = append(exclusions, strings.ToLower(t.Name))
	}

	quoted := make([]string, len(exclusions))
	for i, e := range exclusions {
		quoted[i] = fmt.Sprintf("%q", e)
	}

	var sb strings.Builder
	// Escape the language value: it ends up in downstream display contexts.
	fmt.Fprintf(&sb, recommendHeader, html.EscapeString(language))
	sb.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&sb, recommendFooter, strings.Join(quoted, ", "))
	return sb.String(), exclusions
}

// sampleTracks selects min(len(tracks), n) records uniformly at random with
// a fixed seed, so repeated runs over the same snapshot are reproducible.
func sampleTracks(tracks []Track, n int) []Track {
	if n > len(tracks) {
		n = len(tracks)
	}
	r := rand.New(rand.NewSource(sampleSeed))
	perm := r.Perm(len(tracks))

	sampled := make([]Track, 0, n)
	for _, idx := range perm[:n] {
		sampled = append(sampled, tracks[idx])
	}
	return sampled
}

// renderTrackLine formats one descriptive prompt line: always name and
// artist, then whatever optional context the record carries.
func renderTrackLine(t Track) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- '%s' by %s", t.Name, t.Artist)

	if t.Album != "" {
		fmt.Fprintf(&sb, " (album: %s)", t.Album)
	}
	if len(t.Tags) > 0 {
		tags := t.Tags
		if len(tags) > promptTagLimit {
			tags = tags[:promptTagLimit]
		}
		fmt.Fprintf(&sb, " [tags: %s]", strings.Join(tags, ", "))
	}
	if len(t.TopicCategories) > 0 {
		topics := t.TopicCategories
		if len(topics) > topicLimit {
			topics = topics[:topicLimit]
		}
		fmt.Fprintf(&sb, " [topics: %s]", strings.Join(topics, ", "))
	}
	if t.PublishedAt != "" {
		fmt.Fprintf(&sb, " (published: %s)", DatePart(t.PublishedAt))
	}
	if snippet := descriptionSnippet(t); snippet != "" {
		fmt.Fprintf(&sb, " context: %q", snippet)
	}
	if f := t.Features; f != nil {
		fmt.Fprintf(&sb, " [danceability=%.2f, energy=%.2f, tempo=%.1f, valence=%.2f]",
			f.Danceability, f.Energy, f.Tempo, f.Valence)
	}
	return sb.String()
}

// descriptionSnippet returns up to 100 runes of the cleaned description,
// with an ellipsis marker when truncated.
func descriptionSnippet(t Track) string {
	desc := t.TransformedDescription
	if desc == "" {
		desc = t.Description
	}
	desc = strings.TrimSpace(strings.ReplaceAll(desc, "\n", " "))
	if desc == "" {
		return ""
	}
	return TruncateRunes(desc, snippetMaxRunes, "...")
}
