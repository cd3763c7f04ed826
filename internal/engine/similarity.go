package engine

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Duplicate Filter — approximate string matcher deciding whether a candidate
// title collides with an excluded title.

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]`)

// normalizeTitle lower-cases s and strips everything but letters and digits,
// so punctuation and casing differences never mask a duplicate.
func normalizeTitle(s string) string {
	return nonAlnumRE.ReplaceAllString(strings.ToLower(s), "")
}

// SimilarityRatio returns the normalized edit-distance ratio (0-100) between
// two titles after normalization. Identical titles score 100.
func SimilarityRatio(a, b string) int {
	return fuzzy.Ratio(normalizeTitle(a), normalizeTitle(b))
}

// findDuplicate returns the first exclusion entry whose similarity with
// title strictly exceeds threshold, or "" when the title is unique.
func findDuplicate(title string, exclusions []string, threshold int) string {
	for _, ex := range exclusions {
		if SimilarityRatio(title, ex) > threshold {
			return ex
		}
	}
	return ""
}
