// Package tabledetect judges whether a TextBlock looks like a table, a
// feature the distilled specification never named but the teacher
// implements at length (see SPEC_FULL.md §12). It does not change any
// role itself; semantic's tableModule promotes qualifying blocks to
// SemanticRole TABLE.
//
// The teacher's table.go/table_extract.go/segments.go implement
// pdfplumber's edge-intersection strategy, which needs Shape-derived
// ruling lines most PDFs don't draw. Grounded instead on the
// text-alignment signal table_extract.go documents as its "text"
// strategy fallback (MinWordsVertical/MinWordsHorizontal in
// TableSettings): a block whose lines repeatedly start words at the
// same handful of x-offsets is a grid, ruling lines or not.
package tabledetect

import (
	"math"
	"sort"

	"github.com/pdflayout/pdflayout"
)

// Settings mirrors the teacher's TableSettings tolerances, narrowed to
// the text-alignment signal this package actually computes.
type Settings struct {
	ColumnXTolerance float64 // word-start x-positions within this are the same column
	MinColumns       int     // minimum recurring columns to call it a table
	MinRows          int     // minimum lines exhibiting the column pattern
}

// DefaultSettings returns the thresholds used when none are supplied.
func DefaultSettings() Settings {
	return Settings{ColumnXTolerance: 3.0, MinColumns: 2, MinRows: 3}
}

// IsTable reports whether block exhibits a recurring multi-column word
// alignment consistent enough, across enough lines, to be a table.
func IsTable(block pdflayout.TextBlock, s Settings) bool {
	if len(block.Lines) < s.MinRows {
		return false
	}

	columns := columnStarts(block.Lines, s.ColumnXTolerance)
	if len(columns) < s.MinColumns {
		return false
	}

	matchingRows := 0
	for _, line := range block.Lines {
		if len(line.Words) < s.MinColumns {
			continue
		}
		if rowMatchesColumns(line, columns, s.ColumnXTolerance) {
			matchingRows++
		}
	}
	return matchingRows >= s.MinRows
}

// columnStarts clusters every word's left edge across all lines into
// recurring x-positions (within tolerance), keeping only positions that
// occur at least twice — candidate column boundaries. Occurrences are
// counted per word, so two word starts on the same line also count.
func columnStarts(lines []pdflayout.TextLine, tolerance float64) []float64 {
	var starts []float64
	for _, line := range lines {
		for _, w := range line.Words {
			starts = append(starts, w.Box.MinX)
		}
	}
	if len(starts) == 0 {
		return nil
	}
	sort.Float64s(starts)

	type cluster struct {
		sum   float64
		count int
	}
	var clusters []cluster
	for _, x := range starts {
		if len(clusters) > 0 && x-clusters[len(clusters)-1].sum/float64(clusters[len(clusters)-1].count) <= tolerance {
			c := &clusters[len(clusters)-1]
			c.sum += x
			c.count++
			continue
		}
		clusters = append(clusters, cluster{sum: x, count: 1})
	}

	var result []float64
	for _, c := range clusters {
		if c.count >= 2 {
			result = append(result, c.sum/float64(c.count))
		}
	}
	return result
}

func rowMatchesColumns(line pdflayout.TextLine, columns []float64, tolerance float64) bool {
	matched := 0
	for _, w := range line.Words {
		for _, col := range columns {
			if math.Abs(w.Box.MinX-col) <= tolerance {
				matched++
				break
			}
		}
	}
	return matched >= 2
}
