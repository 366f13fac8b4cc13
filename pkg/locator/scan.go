package locator

import "strings"

// topHits keeps the five best scores in descending order.
type topHits [5]int

// offer inserts score at the first rank it strictly beats and returns that
// rank, or -1.
func (t *topHits) offer(score int) int {
	for rank := range t {
		if score > t[rank] {
			copy(t[rank+1:], t[rank:len(t)-1])
			t[rank] = score
			return rank
		}
	}
	return -1
}

func (t *topHits) metrics() Metrics {
	return Metrics{
		FirstUniqueHits:  t[0],
		SecondUniqueHits: t[1],
		ThirdUniqueHits:  t[2],
		FourthUniqueHits: t[3],
		FifthUniqueHits:  t[4],
	}
}

// Scan slides a WindowSize window over the folded text in OverlapStride
// steps and scores each window by the number of distinct indicators it
// contains. The best window only changes on a strictly higher score, so the
// earliest window wins ties.
func Scan(doc *FoldedText, indicators []string, s Settings) ScanResult {
	unique := dedupe(indicators)
	res := ScanResult{Indicators: []string{}}

	var top topHits
	n := doc.Len()
	for i := 0; i < n; i += s.OverlapStride {
		w := doc.window(i, min(i+s.WindowSize, n))

		var matched []string
		for _, ind := range unique {
			if strings.Contains(w, ind) {
				matched = append(matched, ind)
			}
		}

		if top.offer(len(matched)) == 0 {
			res.BestStart = i
			res.Indicators = matched
		}
	}

	res.Metrics = top.metrics()
	return res
}

// FindChunk scans doc and cuts the chunk around the best window out of the
// original text: it starts BufferSize runes before the window and is at most
// OutputChunkSize runes long.
func FindChunk(doc *FoldedText, indicators []string, s Settings) ChunkResult {
	res := Scan(doc, indicators, s)

	start := max(0, doc.OriginalOffset(res.BestStart)-s.BufferSize)
	length := min(s.OutputChunkSize, doc.OriginalLen()-start)

	return ChunkResult{
		Chunk:      doc.OriginalSlice(start, start+length),
		Start:      start,
		Metrics:    res.Metrics,
		Indicators: res.Indicators,
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
