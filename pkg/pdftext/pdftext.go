// Package pdftext rebuilds readable text from PDF reports. Layout is
// reconstructed from the position of each text run, so statement tables keep
// a rough row/column shape.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrExtractionFailed is wrapped by every error Extract returns.
var ErrExtractionFailed = errors.New("extraction failed")

// Loader opens a PDF document.
type Loader interface {
	Load(ctx context.Context, r io.ReaderAt, size int64) (Document, error)
}

// Document is an opened PDF. Pages are numbered from 1.
type Document interface {
	NumPages() int
	Page(ctx context.Context, n int) (Page, error)
	Close() error
}

// Page exposes the positioned text runs of one page.
type Page interface {
	TextContent(ctx context.Context) ([]TextItem, error)
}

// TextItem is a run of glyphs and its affine transform [a b c d e f];
// e and f hold the x and y position.
type TextItem struct {
	Str       string
	Transform [6]float64
}

func (t TextItem) X() float64 { return t.Transform[4] }
func (t TextItem) Y() float64 { return t.Transform[5] }

// Extractor turns PDF bytes into layout-preserving text.
type Extractor struct {
	loader Loader
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil loader selects the ledongthuc/pdf
// backend; a nil logger uses slog.Default().
func NewExtractor(loader Loader, logger *slog.Logger) *Extractor {
	if loader == nil {
		loader = NewLedongthucLoader()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{loader: loader, logger: logger}
}

// Extract reads the requested page range of file. pages holds the optional
// first and last page as user-supplied strings (see ParsePageRange).
func (e *Extractor) Extract(ctx context.Context, file []byte, pages ...string) (string, error) {
	return e.extract(ctx, bytes.NewReader(file), int64(len(file)), pages)
}

// ExtractFile is Extract for a file on disk. The file handle is closed on
// every path.
func (e *Extractor) ExtractFile(ctx context.Context, path string, pages ...string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", wrap("failed to open file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("failed to close pdf file", "path", path, "error", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return "", wrap("failed to stat file", err)
	}

	return e.extract(ctx, f, info.Size(), pages)
}

// Extract reads file with loader using a default Extractor.
func Extract(ctx context.Context, loader Loader, file []byte, pages ...string) (string, error) {
	return NewExtractor(loader, nil).Extract(ctx, file, pages...)
}

// ExtractFile reads the PDF at path with loader using a default Extractor.
func ExtractFile(ctx context.Context, loader Loader, path string, pages ...string) (string, error) {
	return NewExtractor(loader, nil).ExtractFile(ctx, path, pages...)
}

func (e *Extractor) extract(ctx context.Context, r io.ReaderAt, size int64, pages []string) (string, error) {
	req := ParsePageRange(pageArg(pages, 0), pageArg(pages, 1))

	doc, err := e.loader.Load(ctx, r, size)
	if err != nil {
		e.logger.Error("error loading pdf", "error", err)
		return "", wrap("failed to load document", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			e.logger.Warn("failed to release pdf document", "error", cerr)
		}
	}()

	first, last := ResolvePageRange(req, doc.NumPages())
	e.logger.Debug("extracting pdf text", "doc_pages", doc.NumPages(), "first", first, "last", last)

	var b strings.Builder
	for n := first; n <= last; n++ {
		page, err := doc.Page(ctx, n)
		if err != nil {
			e.logger.Error("error reading pdf page", "page", n, "error", err)
			return "", wrap(fmt.Sprintf("failed to read page %d", n), err)
		}

		items, err := page.TextContent(ctx)
		if err != nil {
			e.logger.Error("error reading pdf text content", "page", n, "error", err)
			return "", wrap(fmt.Sprintf("failed to read text content of page %d", n), err)
		}

		b.WriteString(ReconstructPage(items))
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

func wrap(msg string, err error) error {
	return fmt.Errorf("%w: failed to extract text from PDF: %s: %w", ErrExtractionFailed, msg, err)
}

func pageArg(pages []string, i int) string {
	if i < len(pages) {
		return pages[i]
	}
	return ""
}
