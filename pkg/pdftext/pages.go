package pdftext

import (
	"strconv"
	"strings"
)

// MaxPages caps how many pages are read when no explicit end is given.
const MaxPages = 100

// PageRange is a parsed page request. Last == 1 means no explicit end.
type PageRange struct {
	First int
	Last  int
}

// ParsePageNumber coerces user input to a page number of at most three
// digits. Anything else, including zero, falls back to 1.
func ParsePageNumber(value string) int {
	s := strings.TrimLeft(strings.TrimSpace(value), "0")
	if s == "" || len(s) > 3 {
		return 1
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 1
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// ParsePageRange parses both ends of a request. An end before the start is
// dropped.
func ParsePageRange(first, last string) PageRange {
	r := PageRange{
		First: ParsePageNumber(first),
		Last:  ParsePageNumber(last),
	}
	if r.Last < r.First {
		r.Last = 1
	}
	return r
}

// ResolvePageRange maps a request onto a document with docPages pages and
// returns the inclusive page interval to read. first > last means nothing
// is read.
func ResolvePageRange(r PageRange, docPages int) (first, last int) {
	switch {
	case r.Last > 1 && r.Last > r.First:
		return r.First, min(docPages, r.Last)
	case r.First > 1 && r.Last <= 1:
		return r.First, min(docPages, r.First+MaxPages)
	default:
		return 1, min(docPages, MaxPages)
	}
}

// SplitPageSpec splits a "3-9" style flag into its first and last parts.
// A spec without a dash only sets the first page.
func SplitPageSpec(spec string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(spec), "-")
	return first, last
}
