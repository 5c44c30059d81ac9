// Package mapreduce aggregates token document frequencies across examples.
package mapreduce

// Map counts each distinct token of a single document once.
func Map(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok] = 1
	}
	return counts
}

// Reduce aggregates a slice of frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for token, count := range counts {
			finalResults[token] += count
		}
	}

	return finalResults
}
