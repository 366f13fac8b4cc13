package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	userAgent = "finchunk/1.0 (+https://github.com/dtnitsch/finchunk)"

	// maxBodyBytes bounds a single filing download.
	maxBodyBytes = 256 << 20
)

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewFetcherWithClient uses client for every request.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// GetBytes downloads url and returns the body with its Content-Type.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch document, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) > maxBodyBytes {
		return nil, "", fmt.Errorf("failed to fetch document: body exceeds %d bytes", maxBodyBytes)
	}

	return bodyBytes, resp.Header.Get("Content-Type"), nil
}
