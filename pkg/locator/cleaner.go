package locator

import (
	"strings"
)

// Cleaned is what a Cleaner returns for one chunk. Units is the reporting
// multiplier (1000 for "in thousands"), 0 when unknown.
type Cleaned struct {
	Text  string
	Units int64
}

// Cleaner post-processes a located chunk before structured extraction.
type Cleaner interface {
	Clean(statement StatementType, chunk string, lang Language, period string) (Cleaned, error)
}

// CleanerFunc adapts a function to Cleaner.
type CleanerFunc func(statement StatementType, chunk string, lang Language, period string) (Cleaned, error)

func (f CleanerFunc) Clean(statement StatementType, chunk string, lang Language, period string) (Cleaned, error) {
	return f(statement, chunk, lang, period)
}

type unitPhrase struct {
	phrase string
	units  int64
}

// Longer phrases first so "en miles de millones" is not read as thousands.
var unitPhrases = []unitPhrase{
	{"en miles de millones", 1_000_000_000},
	{"miles de millones", 1_000_000_000},
	{"in thousands", 1_000},
	{"in millions", 1_000_000},
	{"in billions", 1_000_000_000},
	{"en millones", 1_000_000},
	{"en miles", 1_000},
}

// BasicCleaner trims lines, collapses blank-line runs and reads the unit
// from phrases such as "(in thousands)" or "(en millones de pesos)".
type BasicCleaner struct{}

func (BasicCleaner) Clean(_ StatementType, chunk string, _ Language, _ string) (Cleaned, error) {
	return Cleaned{
		Text:  tidyLines(chunk),
		Units: DetectUnits(chunk),
	}, nil
}

// DetectUnits returns the multiplier of the earliest unit phrase in text, or
// 0 when there is none.
func DetectUnits(text string) int64 {
	folded := Fold(text)

	best, bestIdx := int64(0), -1
	for _, p := range unitPhrases {
		idx := strings.Index(folded, p.phrase)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best, bestIdx = p.units, idx
		}
	}
	return best
}

func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	blank := true // drops leading blank lines
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}

	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
