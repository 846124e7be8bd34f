package prune

import "strings"

// markDuplicates runs pairwise near-duplicate detection across candidates
// of the same type and tags the lower-scoring member of each pair. It is
// O(n²) over candidates, which is acceptable because the exclusion and
// candidacy rules have already shrunk the set.
//
// Tie-break: when scores are exactly equal the first-indexed candidate is
// the one marked duplicate. Preserved intentionally for behavioral
// compatibility with existing review tooling, though for equal scores the
// pair ordering says nothing about which member is more complete.
func markDuplicates(cands []*Candidate, threshold float64) {
	tokens := make([]map[string]bool, len(cands))
	for i, c := range cands {
		tokens[i] = tokenSet(c.Content)
	}

	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if cands[i].Type != cands[j].Type {
				continue
			}
			if jaccard(tokens[i], tokens[j]) < threshold {
				continue
			}
			if cands[i].Score <= cands[j].Score {
				cands[i].Reasons = appendReason(cands[i].Reasons, ReasonDuplicate)
			} else {
				cands[j].Reasons = appendReason(cands[j].Reasons, ReasonDuplicate)
			}
		}
	}
}

// tokenSet lowercases and whitespace-tokenizes content into a word set.
func tokenSet(content string) map[string]bool {
	words := strings.Fields(strings.ToLower(content))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// jaccard is |A∩B| / |A∪B|, with 1 when both sets are empty and 0 when
// exactly one is.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
