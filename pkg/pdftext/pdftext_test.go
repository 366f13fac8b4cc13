package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	doc  *fakeDocument
	err  error
	size int64
}

func (l *fakeLoader) Load(_ context.Context, _ io.ReaderAt, size int64) (Document, error) {
	l.size = size
	if l.err != nil {
		return nil, l.err
	}
	return l.doc, nil
}

type fakeDocument struct {
	numPages   int
	items      map[int][]TextItem
	pageErr    map[int]error
	contentErr map[int]error
	requested  []int
	closed     bool
}

func (d *fakeDocument) NumPages() int { return d.numPages }

func (d *fakeDocument) Page(_ context.Context, n int) (Page, error) {
	d.requested = append(d.requested, n)
	if err := d.pageErr[n]; err != nil {
		return nil, err
	}
	return fakePage{items: d.items[n], err: d.contentErr[n]}, nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakePage struct {
	items []TextItem
	err   error
}

func (p fakePage) TextContent(context.Context) ([]TextItem, error) {
	return p.items, p.err
}

func pagesBetween(first, last int) []int {
	var out []int
	for n := first; n <= last; n++ {
		out = append(out, n)
	}
	return out
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("pages in order with separators", func(t *testing.T) {
		doc := &fakeDocument{
			numPages: 2,
			items: map[int][]TextItem{
				1: {item("Balance", 0, 700)},
				2: {item("Income", 0, 700)},
			},
		}

		text, err := Extract(ctx, &fakeLoader{doc: doc}, []byte("%PDF-1.7"))
		require.NoError(t, err)
		assert.Equal(t, "Balance\n\nIncome\n\n", text)
		assert.Equal(t, []int{1, 2}, doc.requested)
		assert.True(t, doc.closed)
	})

	t.Run("default caps at MaxPages", func(t *testing.T) {
		doc := &fakeDocument{numPages: 250}

		text, err := Extract(ctx, &fakeLoader{doc: doc}, nil)
		require.NoError(t, err)
		assert.Equal(t, pagesBetween(1, MaxPages), doc.requested)
		assert.Len(t, text, 2*MaxPages)
	})

	t.Run("zero start behaves like default", func(t *testing.T) {
		doc := &fakeDocument{numPages: 250}

		_, err := Extract(ctx, &fakeLoader{doc: doc}, nil, "0", "1")
		require.NoError(t, err)
		assert.Equal(t, pagesBetween(1, MaxPages), doc.requested)
	})

	t.Run("explicit range", func(t *testing.T) {
		doc := &fakeDocument{numPages: 20}

		_, err := Extract(ctx, &fakeLoader{doc: doc}, nil, "3", "5")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 5}, doc.requested)
	})

	t.Run("start only", func(t *testing.T) {
		doc := &fakeDocument{numPages: 8}

		_, err := Extract(ctx, &fakeLoader{doc: doc}, nil, "5")
		require.NoError(t, err)
		assert.Equal(t, []int{5, 6, 7, 8}, doc.requested)
	})

	t.Run("start past end reads nothing", func(t *testing.T) {
		doc := &fakeDocument{numPages: 3}

		text, err := Extract(ctx, &fakeLoader{doc: doc}, nil, "9")
		require.NoError(t, err)
		assert.Equal(t, "", text)
		assert.Empty(t, doc.requested)
		assert.True(t, doc.closed)
	})
}

func TestExtractErrors(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("boom")

	t.Run("load failure", func(t *testing.T) {
		_, err := Extract(ctx, &fakeLoader{err: cause}, []byte("junk"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("page failure closes document", func(t *testing.T) {
		doc := &fakeDocument{numPages: 3, pageErr: map[int]error{2: cause}}

		_, err := Extract(ctx, &fakeLoader{doc: doc}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "page 2")
		assert.Equal(t, []int{1, 2}, doc.requested)
		assert.True(t, doc.closed)
	})

	t.Run("text content failure closes document", func(t *testing.T) {
		doc := &fakeDocument{numPages: 1, contentErr: map[int]error{1: fmt.Errorf("bad stream: %w", cause)}}

		_, err := Extract(ctx, &fakeLoader{doc: doc}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.ErrorIs(t, err, cause)
		assert.True(t, doc.closed)
	})
}

func TestExtractFile(t *testing.T) {
	ctx := context.Background()

	t.Run("passes file size to loader", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 body"), 0644))

		doc := &fakeDocument{numPages: 1, items: map[int][]TextItem{1: {item("Total", 0, 0)}}}
		loader := &fakeLoader{doc: doc}

		text, err := ExtractFile(ctx, loader, path)
		require.NoError(t, err)
		assert.Equal(t, "Total\n\n", text)
		assert.Equal(t, int64(len("%PDF-1.7 body")), loader.size)
		assert.True(t, doc.closed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractFile(ctx, &fakeLoader{}, filepath.Join(t.TempDir(), "missing.pdf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLedongthucLoaderRejectsGarbage(t *testing.T) {
	_, err := Extract(context.Background(), NewLedongthucLoader(), []byte("not a pdf at all"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
