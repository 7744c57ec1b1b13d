package registry

// Similarity computes a [0,1] similarity ratio between two strings using the
// SequenceMatcher approach: twice the total length of the longest matching
// blocks divided by the combined length. Symmetric and order-sensitive.
// Two empty strings are identical by convention and score 1.0.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingTotal(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchingTotal sums the lengths of the matching blocks found by repeatedly
// taking the longest common substring and recursing into the unmatched
// regions on either side of it.
func matchingTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	bestI, bestJ, bestSize := longestMatch(a, b, alo, ahi, blo, bhi)
	if bestSize == 0 {
		return 0
	}
	total := bestSize
	total += matchingTotal(a, b, alo, bestI, blo, bestJ)
	total += matchingTotal(a, b, bestI+bestSize, ahi, bestJ+bestSize, bhi)
	return total
}

// longestMatch finds the longest matching block in a[alo:ahi] and b[blo:bhi].
// Of all maximal blocks it prefers the one starting earliest in a, then
// earliest in b, mirroring the reference algorithm's tie-breaking.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	bestI, bestJ, bestSize := alo, blo, 0

	// j2len[j] holds the length of the longest match ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}

	return bestI, bestJ, bestSize
}
