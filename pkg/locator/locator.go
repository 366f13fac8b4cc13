// Package locator finds the balance sheet, income statement and cash-flow
// statement in flat document text.
//
// Each statement is located by sliding a window over the folded text and
// counting how many distinct indicator phrases it contains. English
// indicators are tried first; if any statement scores below MinUniqueHits
// the whole document is rescanned with the Spanish sets.
package locator

import (
	"errors"
	"fmt"
	"log/slog"
)

// MinUniqueHits is the English score every statement must reach to keep the
// English results.
const MinUniqueHits = 15

// ErrPreprocessingFailed is wrapped by every error Preprocess returns.
var ErrPreprocessingFailed = errors.New("preprocessing failed")

// Locator is safe for concurrent use.
type Locator struct {
	cfg     *Config
	cleaner Cleaner
	logger  *slog.Logger
}

// New creates a Locator. A nil cleaner selects BasicCleaner and a nil logger
// uses slog.Default().
func New(cfg *Config, cleaner Cleaner, logger *slog.Logger) *Locator {
	if cleaner == nil {
		cleaner = BasicCleaner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{cfg: cfg, cleaner: cleaner, logger: logger}
}

// NewDefault creates a Locator from the embedded configuration.
func NewDefault(logger *slog.Logger) (*Locator, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, nil, logger), nil
}

// Config returns the configuration in use.
func (l *Locator) Config() *Config { return l.cfg }

// Preprocess locates all three statements in content and cleans them.
// period is passed through to the Cleaner.
func (l *Locator) Preprocess(content, period string) (*Output, error) {
	out, err := l.preprocess(content, period)
	if err != nil {
		l.logger.Error("error during preprocessing", "period", period, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPreprocessingFailed, err)
	}
	return out, nil
}

func (l *Locator) preprocess(content, period string) (*Output, error) {
	if err := l.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	doc := NewFoldedText(content)

	out := &Output{Language: English}
	if weak, hits := l.locateAll(doc, English, out); weak != "" {
		l.logger.Info("english indicators below threshold, rescanning in spanish",
			"statement", weak, "first_unique_hits", hits, "min_unique_hits", MinUniqueHits)
		out = &Output{Language: Spanish}
		l.locateAll(doc, Spanish, out)
	}

	for _, t := range StatementTypes {
		res := out.Result(t)
		cleaned, err := l.cleaner.Clean(t, res.Chunk, out.Language, period)
		if err != nil {
			return nil, fmt.Errorf("failed to clean %s chunk: %w", t, err)
		}
		res.Cleaned = cleaned.Text
		res.Units = cleaned.Units
		out.set(t, res)

		l.logger.Debug("statement located",
			"statement", t,
			"language", out.Language,
			"start", res.Start,
			"first_unique_hits", res.Metrics.FirstUniqueHits,
			"units", res.Units)
	}

	return out, nil
}

// locateAll fills out with one chunk per statement and returns the first
// statement scoring below MinUniqueHits, or "".
func (l *Locator) locateAll(doc *FoldedText, lang Language, out *Output) (StatementType, int) {
	var weak StatementType
	var weakHits int
	for _, t := range StatementTypes {
		res := FindChunk(doc, l.cfg.IndicatorSet(t, lang), l.cfg.Settings)
		out.set(t, res)
		if weak == "" && res.Metrics.FirstUniqueHits < MinUniqueHits {
			weak, weakHits = t, res.Metrics.FirstUniqueHits
		}
	}
	return weak, weakHits
}
