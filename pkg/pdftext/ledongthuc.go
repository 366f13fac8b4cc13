package pdftext

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LedongthucLoader reads PDFs with github.com/ledongthuc/pdf. Items are
// built from the positioned glyphs of Page.Content, merged into runs.
type LedongthucLoader struct{}

func NewLedongthucLoader() *LedongthucLoader {
	return &LedongthucLoader{}
}

func (l *LedongthucLoader) Load(ctx context.Context, r io.ReaderAt, size int64) (doc Document, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return &ledongthucDocument{reader: reader}, nil
}

type ledongthucDocument struct {
	reader *pdf.Reader
}

func (d *ledongthucDocument) NumPages() int {
	if d.reader == nil {
		return 0
	}
	return d.reader.NumPage()
}

func (d *ledongthucDocument) Page(ctx context.Context, n int) (page Page, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.reader == nil {
		return nil, fmt.Errorf("document is closed")
	}
	if n < 1 || n > d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, d.reader.NumPage())
	}

	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, fmt.Errorf("pdf page %d panic: %v", n, rec)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", n)
	}
	return ledongthucPage{page: p}, nil
}

// Close drops the reader. The caller owns the underlying io.ReaderAt.
func (d *ledongthucDocument) Close() error {
	d.reader = nil
	return nil
}

type ledongthucPage struct {
	page pdf.Page
}

func (p ledongthucPage) TextContent(ctx context.Context) (items []TextItem, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			items, err = nil, fmt.Errorf("pdf text content panic: %v", rec)
		}
	}()

	return mergeGlyphs(p.page.Content().Text), nil
}

// glyphGap is how far, as a fraction of the font size, a glyph may start
// from the end of the previous one and still extend its run.
const glyphGap = 0.2

// mergeGlyphs joins the per-glyph output of Content into runs: consecutive
// glyphs on the same baseline, in the same font, with contiguous x. Runs
// that are empty after trimming are dropped.
func mergeGlyphs(glyphs []pdf.Text) []TextItem {
	var items []TextItem
	var (
		run  strings.Builder
		cur  pdf.Text
		end  float64
		open bool
	)

	flush := func() {
		if !open {
			return
		}
		if s := strings.TrimSpace(run.String()); s != "" {
			items = append(items, TextItem{
				Str:       s,
				Transform: [6]float64{1, 0, 0, 1, cur.X, cur.Y},
			})
		}
		run.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.S == "\n" {
			flush()
			continue
		}
		if open && !continues(cur, end, g) {
			flush()
		}
		if !open {
			// The run starts at its first visible glyph.
			if strings.TrimSpace(g.S) == "" {
				continue
			}
			cur, open = g, true
		}
		run.WriteString(g.S)
		end = g.X + g.W
	}
	flush()

	return items
}

func continues(cur pdf.Text, end float64, g pdf.Text) bool {
	if g.Font != cur.Font || math.Abs(g.Y-cur.Y) > 0.5 {
		return false
	}
	tol := max(1, cur.FontSize*glyphGap)
	return math.Abs(g.X-end) <= tol
}
