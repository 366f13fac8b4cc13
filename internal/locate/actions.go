package locate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/finchunk/internal/common"
	"github.com/dtnitsch/finchunk/models"
	"github.com/dtnitsch/finchunk/pkg/caching"
	"github.com/dtnitsch/finchunk/pkg/db"
	"github.com/dtnitsch/finchunk/pkg/fetcher"
	"github.com/dtnitsch/finchunk/pkg/locator"
	"github.com/dtnitsch/finchunk/pkg/manifest"
	"github.com/dtnitsch/finchunk/pkg/pdftext"
	"github.com/dtnitsch/finchunk/pkg/storage"
	"github.com/urfave/cli/v2"
)

func LocateAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	config := &models.LocateConfig{
		Period:      c.String("period"),
		WorkerCount: c.Int("workers"),
		Format:      strings.ToLower(c.String("format")),
		OutputDir:   c.String("output-dir"),
		ConfigPath:  c.String("config"),
		Force:       c.Bool("force"),
		DBPath:      c.String("db"),
		Pages:       common.PageArgs(c),
	}

	if !config.Force {
		maxAge, err := time.ParseDuration(c.String("max-age"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid max-age duration: %v", err), 2)
		}
		config.MaxAge = maxAge
	}

	if c.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: No documents provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  finchunk locate --period 2024-FY report.pdf https://example.com/10k.htm`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: finchunk locate --help")
		return cli.Exit("", 1)
	}

	sources, invalid := common.SanitizeSources(c.Args().Slice())
	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d URL(s) are malformed (even after cleanup):\n", len(invalid))
		for _, bad := range invalid {
			fmt.Fprintf(os.Stderr, "  - %s\n", bad)
		}
		return cli.Exit("", 1)
	}
	config.Sources = sources

	database, err := db.Open(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	results, summaryPath, err := Locate(c.Context, logger, config, database)
	if err != nil && results == nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	fmt.Printf("%d/%d documents located in %.1fs\nSummary: %s\n",
		len(results)-failed, len(results), time.Since(startTime).Seconds(), summaryPath)
	for i, r := range results {
		if r.Error != nil {
			fmt.Printf("  %d. [failed] %s\n     %s: %v\n", i+1, r.Source, r.ErrorType, r.Error)
			continue
		}
		fmt.Printf("  %d. [%s] %s -> %s\n", i+1, r.Output.Language, r.Source, r.ReportPath)
	}

	if !c.Bool("quiet") && len(results) > 0 {
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  finchunk runs          # List recorded runs\n")
		fmt.Printf("  finchunk run <run_id>  # Show located statements\n")
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d document(s) failed", failed), 1)
	}
	return nil
}

// Locate runs the statement locator over every source in config and writes
// one report per document plus the batch summary. database may be nil. The
// returned error is non-nil if setup failed or any document failed; in the
// latter case the results are still returned.
func Locate(ctx context.Context, logger *slog.Logger, config *models.LocateConfig, database *db.DB) ([]manifest.DocumentResult, string, error) {
	loc, err := newLocator(config.ConfigPath, logger)
	if err != nil {
		return nil, "", err
	}

	cache, err := caching.NewCache(filepath.Join(config.OutputDir, "cache"), config.MaxAge)
	if err != nil {
		return nil, "", err
	}

	p := &pipeline{
		logger:    logger,
		config:    config,
		batchID:   db.NewBatchID(),
		fetcher:   fetcher.NewFetcher(),
		storage:   &storage.Storage{},
		cache:     cache,
		extractor: pdftext.NewExtractor(nil, logger),
		locator:   loc,
		database:  database,
	}

	results, runErr := run(ctx, p)

	if removed, err := cache.Prune(); err != nil {
		logger.Warn("Failed to prune text cache", "error", err)
	} else if removed > 0 {
		logger.Info("Pruned expired cache entries", "removed", removed)
	}

	summaryPath, err := manifest.GenerateSummary(p.batchID, config.Period, results, config.OutputDir, p.storage)
	if err != nil {
		return results, "", fmt.Errorf("failed to write summary: %w", err)
	}
	logger.Info("Summary written", "path", summaryPath, "batch_id", p.batchID)

	return results, summaryPath, runErr
}

func newLocator(configPath string, logger *slog.Logger) (*locator.Locator, error) {
	if configPath == "" {
		return locator.NewDefault(logger)
	}
	cfg, err := locator.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return locator.New(cfg, nil, logger), nil
}
