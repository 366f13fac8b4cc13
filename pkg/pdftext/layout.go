package pdftext

import (
	"math"
	"sort"
	"strings"
)

const (
	// columnMinCount is how often an x position must repeat to be a column.
	columnMinCount = 2
	// lineTolerance groups runs whose y differs by at most this into a line.
	lineTolerance = 5
	// columnTolerance is the maximum distance between a run and its column.
	columnTolerance = 20
)

type lineGroup struct {
	key   int
	items []TextItem
}

// ReconstructPage lays out one page of text runs as lines, top to bottom,
// with tab separated columns.
func ReconstructPage(items []TextItem) string {
	columns := detectColumns(items)
	lines := groupLines(items)

	out := make([]string, 0, len(lines))
	for _, g := range lines {
		out = append(out, formatLine(g.items, columns))
	}
	return strings.Join(out, "\n")
}

// detectColumns returns the rounded x positions seen at least twice.
func detectColumns(items []TextItem) []int {
	freq := make(map[int]int)
	for _, it := range items {
		freq[round(it.X())]++
	}

	var columns []int
	for x, n := range freq {
		if n >= columnMinCount {
			columns = append(columns, x)
		}
	}
	sort.Ints(columns)
	return columns
}

// groupLines clusters runs by rounded y. Each run joins the lowest-keyed
// group within lineTolerance, or starts a new one. Groups come back with
// the highest y (top of the page) first.
func groupLines(items []TextItem) []*lineGroup {
	var groups []*lineGroup // ascending by key

	for _, it := range items {
		y := round(it.Y())

		var target *lineGroup
		for _, g := range groups {
			if abs(y-g.key) <= lineTolerance {
				target = g
				break
			}
		}

		if target == nil {
			target = &lineGroup{key: y}
			i := sort.Search(len(groups), func(i int) bool { return groups[i].key > y })
			groups = append(groups, nil)
			copy(groups[i+1:], groups[i:])
			groups[i] = target
		}
		target.items = append(target.items, it)
	}

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return groups
}

func formatLine(items []TextItem, columns []int) string {
	sorted := make([]TextItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X() < sorted[j].X() })

	cells := make(map[int]*strings.Builder)
	var order []int
	for _, it := range sorted {
		col := columnIndex(columns, round(it.X()))
		cell, ok := cells[col]
		if !ok {
			cell = &strings.Builder{}
			cells[col] = cell
			order = append(order, col)
		}
		cell.WriteString(it.Str)
		cell.WriteString(" ")
	}
	sort.Ints(order)

	parts := make([]string, 0, len(order))
	for _, col := range order {
		parts = append(parts, strings.TrimSpace(cells[col].String()))
	}
	return strings.Join(parts, "\t")
}

// columnIndex picks the nearest column strictly within columnTolerance,
// preferring the leftmost on ties. Runs near no column go to column 0.
func columnIndex(columns []int, x int) int {
	best, bestDist := 0, columnTolerance
	for i, c := range columns {
		if d := abs(c - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// round rounds half up, so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
