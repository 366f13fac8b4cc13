package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dtnitsch/finchunk/pkg/locator"
	"github.com/dtnitsch/finchunk/pkg/mapreduce"
	"github.com/dtnitsch/finchunk/pkg/storage"
)

// DocumentResult is the outcome of locating statements in one document.
type DocumentResult struct {
	Source     string
	RunID      string
	Kind       string
	Title      string
	ReportPath string
	Output     *locator.Output
	Error      error
	ErrorType  string
	SizeBytes  int64
	Cached     bool
}

// GenerateSummary writes summary-<date>.json into dir and returns its path.
func GenerateSummary(batchID, period string, results []DocumentResult, dir string, s *storage.Storage) (string, error) {
	m := Build(batchID, period, results, time.Now())

	// Report sizes come from disk via the storage layer
	for i := range m.Results {
		if m.Results[i].ReportPath == "" {
			continue
		}
		if stats, err := s.GetFileStats(m.Results[i].ReportPath); err == nil {
			m.Results[i].ReportBytes = stats.SizeBytes
		}
	}

	manifestPath := filepath.Join(dir, fmt.Sprintf("summary-%s.json", time.Now().Format("2006-01-02")))
	manifestData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(manifestPath, manifestData); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}

	return manifestPath, nil
}

// Build aggregates results into a SummaryManifest.
func Build(batchID, period string, results []DocumentResult, now time.Time) SummaryManifest {
	m := SummaryManifest{
		GeneratedAt:    now.Format(time.RFC3339),
		BatchID:        batchID,
		Period:         period,
		TotalDocuments: len(results),
		Languages:      map[string]int{},
		Results:        make([]DocumentSummary, 0, len(results)),
	}

	var counts []map[string]int
	for _, result := range results {
		summary := DocumentSummary{
			Source:    result.Source,
			RunID:     result.RunID,
			Kind:      result.Kind,
			Title:     result.Title,
			SizeBytes: result.SizeBytes,
			Cached:    result.Cached,
		}

		if result.Error != nil {
			m.Failed++
			summary.Status = "error"
			summary.ErrorType = result.ErrorType
			summary.ErrorMessage = result.Error.Error()
		} else {
			m.Successful++
			summary.Status = "success"
			summary.ReportPath = result.ReportPath

			if out := result.Output; out != nil {
				summary.Language = string(out.Language)
				m.Languages[summary.Language]++

				summary.TopHits = make(map[string]int, len(locator.StatementTypes))
				summary.Units = make(map[string]int64, len(locator.StatementTypes))
				for _, st := range locator.StatementTypes {
					r := out.Result(st)
					summary.TopHits[string(st)] = r.Metrics.FirstUniqueHits
					summary.Units[string(st)] = r.Units
				}
				counts = append(counts, mapreduce.Map(out))
			}
		}

		m.Results = append(m.Results, summary)
	}

	m.TopIndicators = mapreduce.TopN(mapreduce.Reduce(counts), 25)
	return m
}
