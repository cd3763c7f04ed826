package engine

import (
	"fmt"
	"strings"
	"testing"
)

func testSnapshot(n int) Snapshot {
	tracks := make([]Track, n)
	for i := range tracks {
		tracks[i] = Track{
			ID:     fmt.Sprintf("id-%d", i),
			Name:   fmt.Sprintf("Song %d", i),
			Artist: fmt.Sprintf("Artist %d", i),
		}
	}
	return Snapshot{Provenance: ProvenanceSpotify, PlaylistID: "pl", Tracks: tracks}
}

func TestBuildPromptDeterministic(t *testing.T) {
	snap := testSnapshot(300)

	prompt1, excl1 := BuildPrompt(snap, "english", 200)
	prompt2, excl2 := BuildPrompt(snap, "english", 200)

	if prompt1 != prompt2 {
		t.Error("two invocations produced different prompts for the same snapshot")
	}
	if len(excl1) != len(excl2) {
		t.Fatalf("exclusion sizes differ: %d vs %d", len(excl1), len(excl2))
	}
	for i := range excl1 {
		if excl1[i] != excl2[i] {
			t.Fatalf("exclusion order differs at %d: %q vs %q", i, excl1[i], excl2[i])
		}
	}
}

func TestBuildPromptSampleCap(t *testing.T) {
	snap := testSnapshot(300)
	_, excl := BuildPrompt(snap, "english", 200)
	if len(excl) != 200 {
		t.Errorf("sampled %d tracks, want 200", len(excl))
	}

	small := testSnapshot(5)
	_, excl = BuildPrompt(small, "english", 200)
	if len(excl) != 5 {
		t.Errorf("sampled %d tracks from a 5-track snapshot, want 5", len(excl))
	}
}

func TestBuildPromptExclusionsLowercased(t *testing.T) {
	snap := Snapshot{Tracks: []Track{{ID: "1", Name: "LOUD Song", Artist: "A"}}}
	_, excl := BuildPrompt(snap, "english", 200)
	if len(excl) != 1 || excl[0] != "loud song" {
		t.Errorf("exclusions = %v, want [loud song]", excl)
	}
}

func TestBuildPromptEscapesLanguage(t *testing.T) {
	snap := testSnapshot(1)
	prompt, _ := BuildPrompt(snap, `<script>alert("x")</script>`, 200)
	if strings.Contains(prompt, "<script>") {
		t.Error("language value was not escaped")
	}
	if !strings.Contains(prompt, "&lt;script&gt;") {
		t.Error("expected escaped language value in prompt")
	}
}

func TestBuildPromptFraming(t *testing.T) {
	snap := testSnapshot(2)
	prompt, excl := BuildPrompt(snap, "french", 200)

	if !strings.Contains(prompt, "music curator") {
		t.Error("missing curator framing")
	}
	if !strings.Contains(prompt, "in french") {
		t.Error("missing language in framing")
	}
	if !strings.Contains(prompt, "Provide ONLY: Title - Artist - Album") {
		t.Error("missing output format instruction")
	}
	for _, e := range excl {
		if !strings.Contains(prompt, fmt.Sprintf("%q", e)) {
			t.Errorf("exclusion %q not quoted in prompt", e)
		}
	}
}

func TestRenderTrackLineMinimal(t *testing.T) {
	line := renderTrackLine(Track{Name: "Blue", Artist: "Eiffel 65"})
	want := "- 'Blue' by Eiffel 65"
	if line != want {
		t.Errorf("got %q, want %q", line, want)
	}
}

func TestRenderTrackLineFeatures(t *testing.T) {
	line := renderTrackLine(Track{
		Name:   "Song",
		Artist: "Artist",
		Features: &AudioFeatures{
			Danceability: 0.8, Energy: 0.654, Tempo: 120.04, Valence: 0.5,
		},
	})
	want := "[danceability=0.80, energy=0.65, tempo=120.0, valence=0.50]"
	if !strings.Contains(line, want) {
		t.Errorf("line %q missing feature block %q", line, want)
	}
}

func TestRenderTrackLineVideoContext(t *testing.T) {
	line := renderTrackLine(Track{
		Name:            "Clip",
		Artist:          "Channel",
		Tags:            []string{"a", "b", "c", "d", "e", "f", "g"},
		TopicCategories: []string{"Music", "Pop music", "Rock", "Jazz"},
		PublishedAt:     "2021-04-02T17:00:00Z",
		Description:     strings.Repeat("x", 150),
	})

	if !strings.Contains(line, "[tags: a, b, c, d, e]") {
		t.Errorf("line %q: want first 5 tags", line)
	}
	if strings.Contains(line, "f, g") {
		t.Errorf("line %q: more than 5 tags rendered", line)
	}
	if !strings.Contains(line, "[topics: Music, Pop music, Rock]") {
		t.Errorf("line %q: want first 3 topics", line)
	}
	if !strings.Contains(line, "(published: 2021-04-02)") {
		t.Errorf("line %q: want date portion only", line)
	}
	if !strings.Contains(line, strings.Repeat("x", 100)+"...") {
		t.Errorf("line %q: want 100-char snippet with ellipsis", line)
	}
}

func TestRenderTrackLinePrefersTransformedDescription(t *testing.T) {
	line := renderTrackLine(Track{
		Name:                   "Clip",
		Artist:                 "Channel",
		Description:            "raw with http://junk.example",
		TransformedDescription: "clean text",
	})
	if !strings.Contains(line, `"clean text"`) {
		t.Errorf("line %q: want cleaned description snippet", line)
	}
}
