package mapreduce

import (
	"fmt"
	"sort"
)

// TopN returns the n most frequent keys formatted as "key:count"
// (e.g., "total assets:12"). Ties are broken alphabetically.
func TopN(counts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, kv{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := min(n, len(ss))

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}

	return out
}
