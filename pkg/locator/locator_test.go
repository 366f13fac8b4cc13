package locator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig builds 20 synthetic indicators per set, e.g. "balance-en-07".
func testConfig() *Config {
	cfg := &Config{
		Settings:   Settings{WindowSize: 1000, OverlapStride: 100, BufferSize: 50, OutputChunkSize: 2000},
		Indicators: map[StatementType]IndicatorSets{},
	}
	for _, st := range StatementTypes {
		cfg.Indicators[st] = IndicatorSets{
			EN: tokens(string(st)+"-en", 20),
			ES: tokens(string(st)+"-es", 20),
		}
	}
	return cfg
}

type section struct {
	st   StatementType
	lang Language
	hits int
}

// buildDocument lays out one block of indicators per section, separated by
// enough filler that no window spans two blocks of the same statement.
func buildDocument(cfg *Config, sections ...section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(strings.Repeat("x", 2000))
		b.WriteString(strings.Join(cfg.IndicatorSet(s.st, s.lang)[:s.hits], " "))
	}
	b.WriteString(strings.Repeat("x", 2000))
	return b.String()
}

type recordingCleaner struct {
	mu    sync.Mutex
	calls []string
}

func (c *recordingCleaner) Clean(st StatementType, chunk string, lang Language, period string) (Cleaned, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, string(st)+"/"+string(lang)+"/"+period)
	return Cleaned{Text: "cleaned " + string(st), Units: 1000}, nil
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestPreprocessEnglish(t *testing.T) {
	cfg := testConfig()
	content := buildDocument(cfg,
		section{Balance, English, 18},
		section{Income, English, 15},
		section{CashFlow, English, 20},
		section{Balance, Spanish, 20},
	)

	cleaner := &recordingCleaner{}
	out, err := New(cfg, cleaner, nil).Preprocess(content, "2024-FY")
	require.NoError(t, err)

	assert.Equal(t, English, out.Language)
	assert.Equal(t, 18, out.Balance.Metrics.FirstUniqueHits)
	assert.Equal(t, 15, out.Income.Metrics.FirstUniqueHits)
	assert.Equal(t, 20, out.CashFlow.Metrics.FirstUniqueHits)

	doc := NewFoldedText(content)
	for _, st := range StatementTypes {
		want := FindChunk(doc, cfg.IndicatorSet(st, English), cfg.Settings)
		got := out.Result(st)

		assert.Equal(t, want.Chunk, got.Chunk, st)
		assert.Equal(t, want.Metrics, got.Metrics, st)
		assert.Equal(t, want.Indicators, got.Indicators, st)
		assert.Equal(t, "cleaned "+string(st), got.Cleaned)
		assert.Equal(t, int64(1000), got.Units)
	}

	assert.Equal(t, []string{"balance/EN/2024-FY", "income/EN/2024-FY", "cash_flow/EN/2024-FY"}, cleaner.calls)
}

func TestPreprocessOneWeakStatementSwitchesAllToSpanish(t *testing.T) {
	cfg := testConfig()
	content := buildDocument(cfg,
		section{Balance, English, 20},
		section{Income, English, 10},
		section{CashFlow, English, 20},
		section{Balance, Spanish, 16},
		section{Income, Spanish, 17},
		section{CashFlow, Spanish, 3},
	)

	out, err := New(cfg, nil, nil).Preprocess(content, "2024-Q4")
	require.NoError(t, err)

	assert.Equal(t, Spanish, out.Language)
	assert.Equal(t, 16, out.Balance.Metrics.FirstUniqueHits)
	assert.Equal(t, 17, out.Income.Metrics.FirstUniqueHits)
	assert.Equal(t, 3, out.CashFlow.Metrics.FirstUniqueHits)

	for _, st := range StatementTypes {
		for _, ind := range out.Result(st).Indicators {
			assert.Contains(t, ind, "-es-")
		}
	}
}

func TestPreprocessEmptyContent(t *testing.T) {
	out, err := New(testConfig(), nil, nil).Preprocess("", "2024-FY")
	require.NoError(t, err)

	assert.Equal(t, Spanish, out.Language)
	for _, st := range StatementTypes {
		assert.Equal(t, "", out.Result(st).Chunk)
		assert.Equal(t, 0, out.Result(st).Start)
	}
}

func TestPreprocessErrors(t *testing.T) {
	t.Run("invalid settings", func(t *testing.T) {
		cfg := testConfig()
		cfg.Settings.WindowSize = 0

		_, err := New(cfg, nil, nil).Preprocess("content", "2024-FY")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPreprocessingFailed)
		assert.Contains(t, err.Error(), "window_size")
	})

	t.Run("empty indicator", func(t *testing.T) {
		cfg := testConfig()
		cfg.Indicators[Income] = IndicatorSets{EN: []string{""}, ES: []string{"x"}}

		_, err := New(cfg, nil, nil).Preprocess("content", "2024-FY")
		assert.ErrorIs(t, err, ErrPreprocessingFailed)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil, nil, nil).Preprocess("content", "2024-FY")
		assert.ErrorIs(t, err, ErrPreprocessingFailed)
	})

	t.Run("cleaner failure keeps cause", func(t *testing.T) {
		cause := errors.New("cleaner unavailable")
		cleaner := CleanerFunc(func(StatementType, string, Language, string) (Cleaned, error) {
			return Cleaned{}, cause
		})

		_, err := New(testConfig(), cleaner, nil).Preprocess("content", "2024-FY")
		assert.ErrorIs(t, err, ErrPreprocessingFailed)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPreprocessFixtures(t *testing.T) {
	loc, err := NewDefault(nil)
	require.NoError(t, err)

	t.Run("english annual report", func(t *testing.T) {
		out, err := loc.Preprocess(readFixture(t, "annual_report_en.txt"), "2024-FY")
		require.NoError(t, err)

		assert.Equal(t, English, out.Language)
		for _, st := range StatementTypes {
			assert.GreaterOrEqual(t, out.Result(st).Metrics.FirstUniqueHits, MinUniqueHits, st)
			assert.Equal(t, int64(1_000_000), out.Result(st).Units, st)
		}
		assert.Contains(t, out.Balance.Chunk, "Total assets")
		assert.Contains(t, out.Income.Chunk, "Gross profit")
		assert.Contains(t, out.CashFlow.Chunk, "Dividends paid")
		assert.Contains(t, out.Balance.Indicators, "retained earnings")
	})

	t.Run("spanish annual report", func(t *testing.T) {
		out, err := loc.Preprocess(readFixture(t, "informe_anual_es.txt"), "2024-FY")
		require.NoError(t, err)

		assert.Equal(t, Spanish, out.Language)
		for _, st := range StatementTypes {
			assert.GreaterOrEqual(t, out.Result(st).Metrics.FirstUniqueHits, MinUniqueHits, st)
			assert.Equal(t, int64(1_000_000), out.Result(st).Units, st)
		}
		assert.Contains(t, out.Balance.Chunk, "Plusvalía")
		assert.Contains(t, out.Income.Indicators, "utilidad bruta")
		assert.Contains(t, out.CashFlow.Indicators, "actividades de inversion")
	})
}

func TestPreprocessConcurrent(t *testing.T) {
	loc, err := NewDefault(nil)
	require.NoError(t, err)

	docs := []string{
		readFixture(t, "annual_report_en.txt"),
		readFixture(t, "informe_anual_es.txt"),
	}

	want := make([]*Output, len(docs))
	for i, d := range docs {
		want[i], err = loc.Preprocess(d, "2024-FY")
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	got := make([]*Output, 8)
	errs := make([]error, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = loc.Preprocess(docs[i%len(docs)], "2024-FY")
		}(i)
	}
	wg.Wait()

	for i := range got {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i%len(docs)], got[i])
	}
}
