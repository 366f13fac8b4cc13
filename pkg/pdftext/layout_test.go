package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func item(s string, x, y float64) TextItem {
	return TextItem{Str: s, Transform: [6]float64{1, 0, 0, 1, x, y}}
}

func TestReconstructPage(t *testing.T) {
	t.Run("columns and lines", func(t *testing.T) {
		items := []TextItem{
			item("Cash", 10.4, 680),
			item("500", 200.2, 682),
			item("Title", 300, 750),
			item("Assets", 10, 700),
			item("1,000", 200, 700),
		}

		assert.Equal(t, "Title\nAssets\t1,000\nCash\t500", ReconstructPage(items))
	})

	t.Run("same column joined with spaces", func(t *testing.T) {
		items := []TextItem{
			item("current", 45, 660),
			item("Total", 10, 660),
			item("Cash", 10, 640),
		}

		assert.Equal(t, "Total current\nCash", ReconstructPage(items))
	})

	t.Run("line joins lowest group within tolerance", func(t *testing.T) {
		items := []TextItem{
			item("a", 0, 100),
			item("b", 0, 108),
			item("c", 50, 104),
		}

		assert.Equal(t, "b\na c", ReconstructPage(items))
	})

	t.Run("equidistant run goes left", func(t *testing.T) {
		items := []TextItem{
			item("L1", 0, 10),
			item("R1", 30, 10),
			item("L2", 0, 30),
			item("R2", 30, 30),
			item("M", 15, 50),
		}

		assert.Equal(t, "M\nL2\tR2\nL1\tR1", ReconstructPage(items))
	})

	t.Run("empty page", func(t *testing.T) {
		assert.Equal(t, "", ReconstructPage(nil))
	})
}

func TestColumnIndex(t *testing.T) {
	columns := []int{0, 30}

	assert.Equal(t, 0, columnIndex(columns, 15))
	assert.Equal(t, 1, columnIndex(columns, 18))
	assert.Equal(t, 1, columnIndex(columns, 45))
	assert.Equal(t, 0, columnIndex(columns, 50))
	assert.Equal(t, 0, columnIndex(nil, 50))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3, round(2.5))
	assert.Equal(t, -2, round(-2.5))
	assert.Equal(t, 1, round(1.4999))
	assert.Equal(t, 0, round(0))
}
