package common

import (
	"context"
	"strings"

	"github.com/dtnitsch/finchunk/models"
	"github.com/dtnitsch/finchunk/pkg/normalizer"
	"github.com/dtnitsch/finchunk/pkg/pdftext"
)

// Flatten turns doc into the flat text the locator scans. pages limits PDF
// extraction and is ignored for other kinds.
func Flatten(ctx context.Context, doc *models.Document, extractor *pdftext.Extractor, pages []string) (string, error) {
	switch doc.Kind {
	case models.KindPDF:
		return ExtractPDF(ctx, doc, extractor, pages)
	case models.KindMIME, models.KindHTML:
		return normalizer.Normalize(string(doc.Body)), nil
	default:
		return string(doc.Body), nil
	}
}

// ExtractPDF reads a local PDF straight from disk; fetched documents are
// read from doc.Body.
func ExtractPDF(ctx context.Context, doc *models.Document, extractor *pdftext.Extractor, pages []string) (string, error) {
	if doc.Source != "" && !IsURL(doc.Source) {
		return extractor.ExtractFile(ctx, doc.Source, pages...)
	}
	return extractor.Extract(ctx, doc.Body, pages...)
}

// PageVariant is the cache variant for a page request.
func PageVariant(doc *models.Document, pages []string) string {
	if doc.Kind != models.KindPDF {
		return string(doc.Kind)
	}
	return string(doc.Kind) + ":" + strings.Join(pages, "-")
}
