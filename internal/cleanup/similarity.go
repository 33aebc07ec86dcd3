package cleanup

import "strings"

// variantSimilarity is returned when two names differ only by a recognized
// variant token (size or color). High enough to group as likely duplicates,
// below 1.0 so exact matches still rank first.
const variantSimilarity = 0.9

// variantTokens are size/color words stripped before the variant-only
// comparison. Matching is per whole word, after lowercasing.
var variantTokens = map[string]bool{
	// colors
	"red": true, "blue": true, "green": true, "black": true, "white": true,
	"yellow": true, "pink": true, "purple": true, "orange": true, "brown": true,
	"grey": true, "gray": true, "silver": true, "gold": true, "navy": true,
	"beige": true,
	// sizes
	"xs": true, "small": true, "medium": true, "large": true, "xl": true,
	"xxl": true, "mini": true, "jumbo": true, "tall": true, "short": true,
}

// Similarity computes a normalized similarity between two item names in
// [0, 1]. Names are lowercased and trimmed first; identical names score 1.0,
// names differing only by variant tokens score 0.9, everything else falls
// through to normalized Levenshtein distance. Comparison is case-insensitive
// but keeps whitespace and punctuation beyond the variant-stripping step.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}

	// Empty stripped forms must not match: two all-variant names
	// ("Red" vs "Blue") are not the same product.
	sa := stripVariantTokens(a)
	sb := stripVariantTokens(b)
	if sa != "" && sa == sb {
		return variantSimilarity
	}

	return levenshteinRatio(a, b)
}

func stripVariantTokens(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if !variantTokens[f] {
			kept = append(kept, f)
		}
	}

	return strings.Join(kept, " ")
}

// levenshteinRatio is 1 - editDistance/maxLen over runes.
func levenshteinRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			min := prev[j] + 1 // deletion
			if ins := curr[j-1] + 1; ins < min {
				min = ins // insertion
			}
			if sub := prev[j-1] + cost; sub < min {
				min = sub // substitution
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
