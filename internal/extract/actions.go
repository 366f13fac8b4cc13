// Package extract implements the normalize and pdf commands, which print the
// flat text of a single document.
package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/dtnitsch/finchunk/internal/common"
	"github.com/dtnitsch/finchunk/models"
	"github.com/dtnitsch/finchunk/pkg/fetcher"
	"github.com/dtnitsch/finchunk/pkg/normalizer"
	"github.com/dtnitsch/finchunk/pkg/pdftext"
	"github.com/dtnitsch/finchunk/pkg/storage"
	"github.com/urfave/cli/v2"
)

func NormalizeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	doc, err := loadArg(c)
	if err != nil {
		return err
	}
	logger.Info("Normalizing document", "source", doc.Source, "kind", doc.Kind, "size_bytes", len(doc.Body))

	return writeText(os.Stdout, normalizer.Normalize(string(doc.Body)))
}

func PDFAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	doc, err := loadArg(c)
	if err != nil {
		return err
	}
	if doc.Kind != models.KindPDF {
		logger.Warn("Document does not look like a PDF", "source", doc.Source, "kind", doc.Kind)
	}

	pages := common.PageArgs(c)
	logger.Info("Extracting PDF text", "source", doc.Source, "pages", pages)

	text, err := common.ExtractPDF(c.Context, doc, pdftext.NewExtractor(nil, logger), pages)
	if err != nil {
		return err
	}
	return writeText(os.Stdout, text)
}

func loadArg(c *cli.Context) (*models.Document, error) {
	if c.NArg() != 1 {
		return nil, cli.Exit(fmt.Sprintf("Usage: finchunk %s <file|url>", c.Command.Name), 1)
	}

	source := c.Args().First()
	if common.IsURL(source) {
		cleaned, ok := common.ValidateURL(source)
		if !ok {
			return nil, cli.Exit(fmt.Sprintf("Error: URL is malformed (even after cleanup): %s", source), 1)
		}
		source = cleaned
	}

	return common.LoadDocument(c.Context, source, fetcher.NewFetcher(), &storage.Storage{})
}

func writeText(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(text) > 0 && text[len(text)-1] != '\n' {
		_, _ = io.WriteString(w, "\n")
	}
	return nil
}
