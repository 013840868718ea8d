package generator

import (
	"strings"
	"unicode/utf8"
)

// Closest returns the entry of known nearest to input by edit distance, if
// any is close enough to be a plausible typo. Site identifiers are compared
// case-insensitively, so a known site differing from input only in case is
// treated as an exact match and not returned.
func Closest(input string, known []string) (string, bool) {
	folded := strings.ToLower(input)
	threshold := max(2, utf8.RuneCountInString(folded)/3)

	best := ""
	bestDist := threshold + 1
	for _, k := range known {
		dist := editDistance(folded, strings.ToLower(k))
		if dist > 0 && dist <= threshold && dist < bestDist {
			bestDist = dist
			best = k
		}
	}
	return best, best != ""
}

// editDistance is the Levenshtein distance counted in characters, so an
// internationalized label like "bücher.de" is one edit from "bucher.de".
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
