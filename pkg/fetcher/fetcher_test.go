package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/report.pdf":
			assert.Contains(t, r.Header.Get("User-Agent"), "finchunk")
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcherWithClient(srv.Client())

	body, contentType, err := f.GetBytes(context.Background(), srv.URL+"/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, "application/pdf", contentType)

	_, _, err = f.GetBytes(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetBytesCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewFetcherWithClient(srv.Client()).GetBytes(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
