package locator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// FoldedText pairs a document with its lowercased, accent-stripped form.
// Each folded rune remembers the original rune it came from, so matches found
// in the folded text can be sliced out of the original.
type FoldedText struct {
	original  string
	origBytes []int // byte offset of each original rune, plus len(original)

	folded    string
	foldBytes []int // byte offset of each folded rune, plus len(folded)
	origin    []int // original rune index of each folded rune
}

// NewFoldedText folds content: lowercase, canonical decomposition, then
// combining diacritical marks (U+0300 to U+036F) removed.
func NewFoldedText(content string) *FoldedText {
	ft := &FoldedText{
		original:  content,
		origBytes: make([]int, 0, len(content)+1),
		foldBytes: make([]int, 0, len(content)+1),
		origin:    make([]int, 0, len(content)),
	}

	var b strings.Builder
	b.Grow(len(content))

	var scratch, decomposed []byte
	idx := 0
	for pos, r := range content {
		ft.origBytes = append(ft.origBytes, pos)

		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			ft.emit(&b, r, idx)
			idx++
			continue
		}

		scratch = utf8.AppendRune(scratch[:0], unicode.ToLower(r))
		decomposed = norm.NFD.Append(decomposed[:0], scratch...)
		for _, d := range string(decomposed) {
			if !isCombiningMark(d) {
				ft.emit(&b, d, idx)
			}
		}
		idx++
	}

	ft.origBytes = append(ft.origBytes, len(content))
	ft.folded = b.String()
	ft.foldBytes = append(ft.foldBytes, len(ft.folded))
	return ft
}

func (ft *FoldedText) emit(b *strings.Builder, r rune, origIdx int) {
	ft.foldBytes = append(ft.foldBytes, b.Len())
	ft.origin = append(ft.origin, origIdx)
	b.WriteRune(r)
}

// Fold returns the folded form of s. Fold(Fold(s)) == Fold(s).
func Fold(s string) string {
	return NewFoldedText(s).Text()
}

// Text returns the folded text.
func (ft *FoldedText) Text() string { return ft.folded }

// Len is the folded length in runes.
func (ft *FoldedText) Len() int { return len(ft.origin) }

// OriginalLen is the original length in runes.
func (ft *FoldedText) OriginalLen() int { return len(ft.origBytes) - 1 }

// window returns folded runes [start, end).
func (ft *FoldedText) window(start, end int) string {
	return ft.folded[ft.foldBytes[start]:ft.foldBytes[end]]
}

// OriginalOffset maps a folded rune offset to the original rune offset.
func (ft *FoldedText) OriginalOffset(i int) int {
	if i < 0 || i >= len(ft.origin) {
		return 0
	}
	return ft.origin[i]
}

// OriginalSlice returns original runes [start, end), clamped to the text.
func (ft *FoldedText) OriginalSlice(start, end int) string {
	n := ft.OriginalLen()
	start = max(0, min(start, n))
	end = max(start, min(end, n))
	return ft.original[ft.origBytes[start]:ft.origBytes[end]]
}

func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}
