package trace

import (
	"fmt"
	"math"
)

// Faceted grid layout: one subplot per facet, at most 4 columns, facets
// assigned fractional domain rectangles with fixed padding so they never
// overlap. Row 0 is the top row, matching the page's reading order.

const (
	maxColumns = 4
	facetPadX  = 0.04
	facetPadY  = 0.08
)

// Facet is one subplot's grid position and axis assignment
type Facet struct {
	Index   int
	Row     int
	Col     int
	XAxis   string // "x", "x2", ...
	YAxis   string
	XDomain [2]float64
	YDomain [2]float64
}

// Grid returns the column and row counts for n facets
func Grid(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = n
	if cols > maxColumns {
		cols = maxColumns
	}
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return cols, rows
}

// FacetDomains lays out n facets. All domains lie within [0,1] and are
// separated by the fixed padding.
func FacetDomains(n int) []Facet {
	cols, rows := Grid(n)
	if cols == 0 {
		return nil
	}

	cellW := 1.0 / float64(cols)
	cellH := 1.0 / float64(rows)

	facets := make([]Facet, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols

		f := Facet{Index: i, Row: row, Col: col}
		if i == 0 {
			f.XAxis, f.YAxis = "x", "y"
		} else {
			f.XAxis = fmt.Sprintf("x%d", i+1)
			f.YAxis = fmt.Sprintf("y%d", i+1)
		}

		f.XDomain = [2]float64{
			float64(col)*cellW + facetPadX/2,
			float64(col+1)*cellW - facetPadX/2,
		}
		// Row 0 occupies the top band
		f.YDomain = [2]float64{
			1 - float64(row+1)*cellH + facetPadY/2,
			1 - float64(row)*cellH - facetPadY/2,
		}
		facets[i] = f
	}
	return facets
}

// axisKey converts a trace axis ref ("x2") to its layout key ("xaxis2")
func axisKey(ref string) string {
	if len(ref) <= 1 {
		return ref + "axis"
	}
	return ref[:1] + "axis" + ref[1:]
}
