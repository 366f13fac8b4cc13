package common

import (
	"context"
	"fmt"

	"github.com/dtnitsch/finchunk/models"
	"github.com/dtnitsch/finchunk/pkg/detector"
	"github.com/dtnitsch/finchunk/pkg/fetcher"
	"github.com/dtnitsch/finchunk/pkg/storage"
)

// LoadDocument reads source from disk or over HTTP and classifies it.
func LoadDocument(ctx context.Context, source string, f *fetcher.Fetcher, s *storage.Storage) (*models.Document, error) {
	doc := &models.Document{Source: source}

	if IsURL(source) {
		body, contentType, err := f.GetBytes(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		doc.Body = body
		doc.ContentType = contentType
	} else {
		body, err := s.ReadFile(source)
		if err != nil {
			return nil, err
		}
		doc.Body = body
	}

	doc.Kind = detector.Detect(doc)
	return doc, nil
}
