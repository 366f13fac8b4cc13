package locate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtnitsch/finchunk/internal/common"
	"github.com/dtnitsch/finchunk/models"
	"github.com/dtnitsch/finchunk/pkg/caching"
	"github.com/dtnitsch/finchunk/pkg/db"
	"github.com/dtnitsch/finchunk/pkg/detector"
	"github.com/dtnitsch/finchunk/pkg/fetcher"
	"github.com/dtnitsch/finchunk/pkg/locator"
	"github.com/dtnitsch/finchunk/pkg/manifest"
	"github.com/dtnitsch/finchunk/pkg/pdftext"
	"github.com/dtnitsch/finchunk/pkg/storage"
)

// pipeline holds what every worker shares. database may be nil, in which
// case runs are not recorded.
type pipeline struct {
	logger    *slog.Logger
	config    *models.LocateConfig
	batchID   string
	fetcher   *fetcher.Fetcher
	storage   *storage.Storage
	cache     *caching.Cache
	extractor *pdftext.Extractor
	locator   *locator.Locator
	database  *db.DB
}

func run(ctx context.Context, p *pipeline) ([]manifest.DocumentResult, error) {
	workers := max(p.config.WorkerCount, 1)

	p.logger.Info("Starting concurrent locate phase", "document_count", len(p.config.Sources), "workers", workers, "force", p.config.Force, "max_age", p.config.MaxAge, "batch_id", p.batchID)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(p.config.Sources))
	results := make(chan manifest.DocumentResult, len(p.config.Sources))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(ctx, w, p, &wg, jobs, results)
	}

	for _, source := range p.config.Sources {
		jobs <- Job{Source: source}
	}
	close(jobs)

	wg.Wait()
	close(results)
	p.logger.Info("All locate workers finished")

	allResults := make([]manifest.DocumentResult, 0, len(p.config.Sources))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = fmt.Errorf("one or more documents failed")
		}
	}

	return allResults, runErr
}

func worker(ctx context.Context, id int, p *pipeline, wg *sync.WaitGroup, jobs <-chan Job, results chan<- manifest.DocumentResult) {
	defer wg.Done()
	for job := range jobs {
		p.logger.Info("Worker started job", "worker_id", id, "source", job.Source)
		results <- p.process(ctx, id, job)
	}
}

func (p *pipeline) process(ctx context.Context, id int, job Job) manifest.DocumentResult {
	result := manifest.DocumentResult{Source: job.Source}

	doc, err := common.LoadDocument(ctx, job.Source, p.fetcher, p.storage)
	if err != nil {
		p.logger.Error("Error loading document", "worker_id", id, "source", job.Source, "error", err)
		result.RunID = p.startRun(job.Source, "", "")
		p.finishRun(result.RunID, "", "", err)
		result.Error = err
		result.ErrorType = ErrorTypeLoad
		return result
	}

	result.Kind = string(doc.Kind)
	result.SizeBytes = int64(len(doc.Body))
	result.RunID = p.startRun(job.Source, doc.Kind, common.ContentHash(doc.Body))

	text, cached, err := p.flatten(ctx, doc)
	if err != nil {
		p.logger.Error("Error extracting text", "worker_id", id, "source", job.Source, "kind", doc.Kind, "error", err)
		p.finishRun(result.RunID, "", "", err)
		result.Error = err
		result.ErrorType = ErrorTypeExtract
		return result
	}
	result.Cached = cached

	md := detector.Analyze(doc, text)
	result.Title = md.Title
	if md.LanguageHint != "" {
		p.logger.Debug("Language hint", "worker_id", id, "source", job.Source, "hint", md.LanguageHint, "confidence", md.LanguageConfidence)
	}

	out, err := p.locator.Preprocess(text, p.config.Period)
	if err != nil {
		p.finishRun(result.RunID, "", md.Title, err)
		result.Error = err
		result.ErrorType = ErrorTypePreprocess
		return result
	}
	result.Output = out

	report := Report{
		RunID:      result.RunID,
		BatchID:    p.batchID,
		Source:     job.Source,
		Period:     p.config.Period,
		Pages:      p.config.Pages,
		Metadata:   md,
		Statements: out,
	}
	reportPath, err := p.storage.SaveReport(p.config.OutputDir, result.RunID, report, p.config.Format)
	if err != nil {
		p.logger.Error("Error saving report", "worker_id", id, "source", job.Source, "error", err)
		p.finishRun(result.RunID, string(out.Language), md.Title, err)
		result.Error = err
		result.ErrorType = ErrorTypeSave
		return result
	}
	result.ReportPath = reportPath

	p.recordChunks(result.RunID, out)
	p.finishRun(result.RunID, string(out.Language), md.Title, nil)

	p.logger.Info("Worker finished processing", "worker_id", id, "source", job.Source, "language", out.Language, "cached", cached)
	return result
}

// flatten returns the document text, from the cache when possible.
func (p *pipeline) flatten(ctx context.Context, doc *models.Document) (string, bool, error) {
	key := caching.Key(doc.Body, common.PageVariant(doc, p.config.Pages))

	if p.cache != nil && !p.config.Force {
		if data, ok := p.cache.Get(key); ok {
			p.logger.Info("Flat text found in cache, using it", "source", doc.Source)
			return string(data), true, nil
		}
	}

	text, err := common.Flatten(ctx, doc, p.extractor, p.config.Pages)
	if err != nil {
		return "", false, err
	}

	if p.cache != nil {
		if err := p.cache.Set(key, []byte(text)); err != nil {
			p.logger.Warn("Failed to store flat text in cache", "source", doc.Source, "error", err)
		}
	}
	return text, false, nil
}

func (p *pipeline) startRun(source string, kind models.DocumentKind, hash string) string {
	if p.database == nil {
		return uuid.NewString()
	}
	runID, err := p.database.InsertRun(p.batchID, source, string(kind), hash, p.config.Period)
	if err != nil {
		p.logger.Warn("Failed to insert run to DB", "source", source, "error", err)
		return uuid.NewString()
	}
	return runID
}

func (p *pipeline) finishRun(runID, language, title string, runErr error) {
	if p.database == nil {
		return
	}
	if err := p.database.FinishRun(runID, language, title, runErr); err != nil {
		p.logger.Warn("Failed to finish run in DB", "run_id", runID, "error", err)
	}
}

func (p *pipeline) recordChunks(runID string, out *locator.Output) {
	if p.database == nil {
		return
	}
	for _, st := range locator.StatementTypes {
		r := out.Result(st)
		chunk := db.RunChunk{
			RunID:            runID,
			Statement:        string(st),
			FirstUniqueHits:  r.Metrics.FirstUniqueHits,
			SecondUniqueHits: r.Metrics.SecondUniqueHits,
			ThirdUniqueHits:  r.Metrics.ThirdUniqueHits,
			FourthUniqueHits: r.Metrics.FourthUniqueHits,
			FifthUniqueHits:  r.Metrics.FifthUniqueHits,
			Indicators:       r.Indicators,
			ChunkStart:       r.Start,
			ChunkRunes:       utf8.RuneCountInString(r.Chunk),
			Units:            r.Units,
		}
		if err := p.database.InsertChunk(chunk); err != nil {
			p.logger.Warn("Failed to insert chunk to DB", "run_id", runID, "statement", st, "error", err)
		}
	}
}
