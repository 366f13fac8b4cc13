// Package mapreduce aggregates matched indicators across a batch of
// documents.
package mapreduce

import "github.com/dtnitsch/finchunk/pkg/locator"

// Map counts the indicators matched by one document. An indicator matched for
// two statements counts twice.
func Map(out *locator.Output) map[string]int {
	counts := make(map[string]int)
	if out == nil {
		return counts
	}

	for _, st := range locator.StatementTypes {
		for _, ind := range out.Result(st).Indicators {
			counts[ind]++
		}
	}
	return counts
}

// Reduce aggregates a slice of frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for key, count := range counts {
			finalResults[key] += count
		}
	}

	return finalResults
}
