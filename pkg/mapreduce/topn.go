package mapreduce

import (
	"fmt"
	"sort"
)

// Count is a token with its aggregated frequency.
type Count struct {
	Token string `json:"token" yaml:"token"`
	Count int    `json:"count" yaml:"count"`
}

// TopN returns the n most frequent tokens, ties broken alphabetically so the
// result does not depend on map iteration order.
func TopN(counts map[string]int, n int) []Count {
	ss := make([]Count, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, Count{Token: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Token < ss[j].Token
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}
	return ss[:limit]
}

// TopKeywords formats TopN as "token:count" strings.
func TopKeywords(counts map[string]int, n int) []string {
	top := TopN(counts, n)
	keywords := make([]string, len(top))
	for i, c := range top {
		keywords[i] = fmt.Sprintf("%s:%d", c.Token, c.Count)
	}
	return keywords
}
