// Package statistics implements the Statistician (spec.md §4.4): pure
// aggregations over immutable inputs, computed bottom-up from character
// to line to block to page to document scope.
//
// Grounded on the teacher's structure.go helpers (getAverageFontSize,
// calculateMedian, calculateStdDev) and extract.go:aggregateWord's
// dominant-value-by-frequency-count pattern, generalized to "most common
// wins, ties broken by first-seen order" across FontFace, Color and
// line-pitch-by-FontFace.
package statistics

import (
	"math"

	"github.com/pdflayout/pdflayout"
)

// CharacterStats aggregates a CharacterStatistic over any set of
// Characters: most-common FontFace and Color, average font size, count.
// "Most common" is argmax of frequency, ties broken by first-seen order.
func CharacterStats(chars []pdflayout.Character) pdflayout.CharacterStatistic {
	if len(chars) == 0 {
		return pdflayout.CharacterStatistic{}
	}

	faceCounts := make(map[pdflayout.FontFaceKey]int)
	faceFirst := make(map[pdflayout.FontFaceKey]pdflayout.FontFace)
	var faceOrder []pdflayout.FontFaceKey

	colorCounts := make(map[int]int)
	colorFirst := make(map[int]pdflayout.Color)
	var colorOrder []int

	var sizeSum float64
	for _, c := range chars {
		k := c.Face.Key()
		if _, seen := faceCounts[k]; !seen {
			faceOrder = append(faceOrder, k)
			faceFirst[k] = c.Face
		}
		faceCounts[k]++

		if _, seen := colorCounts[c.Color.ID]; !seen {
			colorOrder = append(colorOrder, c.Color.ID)
			colorFirst[c.Color.ID] = c.Color
		}
		colorCounts[c.Color.ID]++

		sizeSum += c.Face.Size
	}

	bestFace := argmax(faceOrder, faceCounts)
	bestColor := argmax(colorOrder, colorCounts)

	return pdflayout.CharacterStatistic{
		MostCommonFace:  faceFirst[bestFace],
		HasFace:         true,
		MostCommonColor: colorFirst[bestColor],
		HasColor:        true,
		AverageFontSize: sizeSum / float64(len(chars)),
		Count:           len(chars),
	}
}

func argmax[K comparable](order []K, counts map[K]int) K {
	best := order[0]
	for _, k := range order {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// LinePitchByFace computes the document-level "most common line pitch per
// FontFace" statistic (spec.md §4.4): bucket each adjacent-line pitch on a
// page by the lower line's most-common FontFace, take argmax per bucket.
func LinePitchByFace(pagesLines [][]pdflayout.TextLine) pdflayout.TextLineStatistic {
	type sample struct {
		pitch float64
	}
	byFace := make(map[pdflayout.FontFaceKey][]float64)

	for _, lines := range pagesLines {
		for i := 1; i < len(lines); i++ {
			a, b := lines[i-1], lines[i]
			if a.Page != b.Page {
				continue
			}
			pitch := math.Abs(a.Baseline.Y0 - b.Baseline.Y0)
			if !b.CharStats.HasFace {
				continue
			}
			k := b.CharStats.MostCommonFace.Key()
			byFace[k] = append(byFace[k], pitch)
		}
	}

	result := pdflayout.TextLineStatistic{PitchByFace: make(map[pdflayout.FontFaceKey]float64)}
	for k, pitches := range byFace {
		counts := make(map[float64]int)
		var order []float64
		for _, p := range pitches {
			rounded := math.Round(p*10) / 10
			if _, seen := counts[rounded]; !seen {
				order = append(order, rounded)
			}
			counts[rounded]++
		}
		if len(order) == 0 {
			continue
		}
		result.PitchByFace[k] = argmax(order, counts)
	}
	return result
}

// Document computes the document-level CharacterStatistic and
// TextLineStatistic, the aggregate of page-level (itself the aggregate of
// block-level, itself the aggregate of line-level), as required by
// spec.md §4.4.
func Document(pages []pdflayout.Page) pdflayout.DocumentStatistic {
	var allChars []pdflayout.Character
	var pagesLines [][]pdflayout.TextLine
	for _, p := range pages {
		allChars = append(allChars, p.Characters...)
		pagesLines = append(pagesLines, p.TextLines)
	}
	return pdflayout.DocumentStatistic{
		CharStats: CharacterStats(allChars),
		LineStats: LinePitchByFace(pagesLines),
	}
}

// Page computes a page-level CharacterStatistic from its characters.
func Page(page pdflayout.Page) pdflayout.CharacterStatistic {
	return CharacterStats(page.Characters)
}

// Block computes a TextBlock-level CharacterStatistic from its lines.
func Block(block pdflayout.TextBlock) pdflayout.CharacterStatistic {
	var chars []pdflayout.Character
	for _, l := range block.Lines {
		for _, w := range l.Words {
			chars = append(chars, w.Characters...)
		}
	}
	return CharacterStats(chars)
}
