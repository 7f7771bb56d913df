// Package linetok implements the Line Tokenizer (spec.md §4.1): grouping
// Characters into Words and Words into TextLines per page.
//
// Grounded on the teacher's extract.go:groupCharsIntoWords (whitespace-gap
// word grouping) and structure.go:groupWordsIntoLinesBaseline
// (baseline-tolerance clustering), generalized to the font-size-proportional
// tolerances spec.md §4.1 specifies, plus rotation.go's angle-bucketing for
// rotated text and columns.go's reading-order detection for multi-column
// pages.
package linetok

import (
	"math"
	"sort"

	"github.com/pdflayout/pdflayout"
)

// rotationBucketStep is the quantization step (degrees) used to assign
// characters to a rotation bucket, per spec.md §4.1's "separate rotation
// bucket" edge case. Grounded on the teacher's rotation.go 15° histogram.
const rotationBucketStep = 15.0

// subSuperscriptHeightFraction is the spec.md §4.1 threshold: a baseline
// within 0.3 * line height of the dominant baseline attaches to it.
const subSuperscriptHeightFraction = 0.3

// baselineToleranceFraction expresses "a tolerance proportional to the
// most-common font size on the page" as a concrete multiplier.
const baselineToleranceFraction = 0.5

// wordGapFallbackFraction is spec.md §4.1's documented fallback: 0.25 *
// font size, used when a line has no measurable whitespace-width sample.
const wordGapFallbackFraction = 0.25

// Tokenize groups a page's Characters into TextLines with Words and
// baselines, in reading order. Never fails; a page with zero clusterable
// characters yields an empty slice (spec.md §4.1 Failure clause).
func Tokenize(page pdflayout.Page, wordGapFallbackFrac float64) []pdflayout.TextLine {
	if len(page.Characters) == 0 {
		return nil
	}
	if wordGapFallbackFrac <= 0 {
		wordGapFallbackFrac = wordGapFallbackFraction
	}

	mostCommonSize := mostCommonFontSize(page.Characters)
	tolerance := baselineToleranceFraction * mostCommonSize
	if tolerance <= 0 {
		tolerance = 1.0
	}

	buckets := bucketByRotation(page.Characters)

	var lines []pdflayout.TextLine
	for _, bucket := range buckets {
		lines = append(lines, linesFromRotationBucket(bucket.chars, bucket.angle, tolerance, wordGapFallbackFrac)...)
	}

	reorderForReadingOrder(&lines, page.Width)

	return lines
}

type rotationBucket struct {
	angle float64
	chars []pdflayout.Character
}

// bucketByRotation groups characters by quantized rotation angle so that
// rotated text forms its own lines, independent of the horizontal stream.
func bucketByRotation(chars []pdflayout.Character) []rotationBucket {
	byAngle := make(map[float64][]pdflayout.Character)
	var order []float64
	for _, c := range chars {
		q := quantize(normalizeAngle(c.Rotation), rotationBucketStep)
		if _, seen := byAngle[q]; !seen {
			order = append(order, q)
		}
		byAngle[q] = append(byAngle[q], c)
	}
	buckets := make([]rotationBucket, 0, len(order))
	for _, a := range order {
		buckets = append(buckets, rotationBucket{angle: a, chars: byAngle[a]})
	}
	return buckets
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func quantize(a, step float64) float64 { return math.Round(a/step) * step }

// linesFromRotationBucket clusters one rotation bucket's characters by
// baseline Y (or, for vertical buckets, by centerX) into ordered TextLines.
func linesFromRotationBucket(chars []pdflayout.Character, angle, tolerance, wordGapFallbackFrac float64) []pdflayout.TextLine {
	vertical := angle >= 45 && angle < 135 || angle >= 225 && angle < 315

	sorted := make([]pdflayout.Character, len(chars))
	copy(sorted, chars)
	if vertical {
		sort.SliceStable(sorted, func(i, j int) bool {
			ci, cj := centerX(sorted[i].Box), centerX(sorted[j].Box)
			if math.Abs(ci-cj) < tolerance {
				return sorted[i].Box.MinY > sorted[j].Box.MinY
			}
			return ci < cj
		})
	} else {
		sort.SliceStable(sorted, func(i, j int) bool {
			if math.Abs(sorted[i].Baseline-sorted[j].Baseline) < tolerance {
				return sorted[i].Box.MinX < sorted[j].Box.MinX
			}
			return sorted[i].Baseline > sorted[j].Baseline // top to bottom: larger Y first
		})
	}

	var clusters [][]pdflayout.Character
	var dominant []float64 // baseline (horizontal) or centerX (vertical) per cluster

	key := func(c pdflayout.Character) float64 {
		if vertical {
			return centerX(c.Box)
		}
		return c.Baseline
	}

	for _, c := range sorted {
		k := key(c)
		placed := false
		for i := range clusters {
			if math.Abs(k-dominant[i]) < tolerance {
				clusters[i] = append(clusters[i], c)
				placed = true
				break
			}
			// attach sub/superscripts to the dominant baseline of a nearby cluster
			lineHeight := mostCommonFontSizeOf(clusters[i])
			if !vertical && lineHeight > 0 && math.Abs(k-dominant[i]) < subSuperscriptHeightFraction*lineHeight {
				clusters[i] = append(clusters[i], c)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []pdflayout.Character{c})
			dominant = append(dominant, k)
		}
	}

	lines := make([]pdflayout.TextLine, 0, len(clusters))
	for _, cluster := range clusters {
		line := buildLine(cluster, angle, wordGapFallbackFrac)
		if len(line.Words) == 0 {
			continue // empty lines are discarded
		}
		lines = append(lines, line)
	}

	if !vertical {
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].Box.MinY > lines[j].Box.MinY })
	}

	return lines
}

func centerX(r pdflayout.Rectangle) float64 { return (r.MinX + r.MaxX) / 2 }

func buildLine(chars []pdflayout.Character, angle, wordGapFallbackFrac float64) pdflayout.TextLine {
	sort.SliceStable(chars, func(i, j int) bool { return chars[i].Box.MinX < chars[j].Box.MinX })

	gapThreshold := mostCommonWhitespaceWidth(chars)
	if gapThreshold <= 0 {
		gapThreshold = wordGapFallbackFrac * mostCommonFontSizeOf(chars)
	}
	if gapThreshold <= 0 {
		gapThreshold = 1.0
	}

	var words []pdflayout.Word
	var current []pdflayout.Character
	flush := func() {
		if len(current) == 0 {
			return
		}
		words = append(words, wordFromChars(current))
		current = nil
	}
	var prev *pdflayout.Character
	for i := range chars {
		c := chars[i]
		if prev != nil && c.Box.MinX-prev.Box.MaxX > gapThreshold {
			flush()
		}
		current = append(current, c)
		prevCopy := c
		prev = &prevCopy
	}
	flush()

	if len(words) == 0 {
		return pdflayout.TextLine{}
	}

	box := words[0].Box
	var baselineSum, baselineWeight float64
	page := chars[0].Page
	for _, w := range words {
		box = box.Union(w.Box)
	}
	for _, c := range chars {
		baselineSum += c.Baseline
		baselineWeight++
	}
	baselineY := baselineSum / math.Max(baselineWeight, 1)

	return pdflayout.TextLine{
		Box:   box,
		Words: words,
		Baseline: pdflayout.Line{
			X0: box.MinX, Y0: baselineY, X1: box.MaxX, Y1: baselineY,
		},
		CharStats: characterStatistic(chars),
		Page:      page,
		Rotation:  angle,
	}
}

func wordFromChars(chars []pdflayout.Character) pdflayout.Word {
	box := chars[0].Box
	text := ""
	for _, c := range chars {
		box = box.Union(c.Box)
		text += c.Text
	}
	cs := make([]pdflayout.Character, len(chars))
	copy(cs, chars)
	return pdflayout.Word{Box: box, Characters: cs, Text: text}
}

// mostCommonWhitespaceWidth estimates the line's most-common inter-word
// gap by looking at the distribution of positive gaps between consecutive
// characters (in 0.1pt buckets) and picking the gap that occurs most
// often. Falls back to 0 (caller applies the 0.25x font-size default)
// when the line has fewer than 3 characters or no gap occurs twice.
func mostCommonWhitespaceWidth(chars []pdflayout.Character) float64 {
	if len(chars) < 3 {
		return 0
	}
	sorted := make([]pdflayout.Character, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Box.MinX < sorted[j].Box.MinX })

	counts := make(map[float64]int)
	for i := 1; i < len(sorted); i++ {
		gap := math.Round((sorted[i].Box.MinX - sorted[i-1].Box.MaxX) * 10) // 0.1pt buckets
		if gap > 0 {
			counts[gap]++
		}
	}
	best, bestCount := 0.0, 0
	for g, n := range counts {
		if n > bestCount {
			best, bestCount = g, n
		}
	}
	if bestCount < 2 {
		return 0
	}
	return best / 10
}

func mostCommonFontSize(chars []pdflayout.Character) float64 {
	return mostCommonFontSizeOf(chars)
}

func mostCommonFontSizeOf(chars []pdflayout.Character) float64 {
	counts := make(map[float64]int)
	var order []float64
	for _, c := range chars {
		if _, seen := counts[c.Face.Size]; !seen {
			order = append(order, c.Face.Size)
		}
		counts[c.Face.Size]++
	}
	best, bestCount := 0.0, -1
	for _, size := range order {
		if counts[size] > bestCount {
			best, bestCount = size, counts[size]
		}
	}
	return best
}

func characterStatistic(chars []pdflayout.Character) pdflayout.CharacterStatistic {
	if len(chars) == 0 {
		return pdflayout.CharacterStatistic{}
	}
	faceCounts := make(map[pdflayout.FontFaceKey]int)
	faceFirst := make(map[pdflayout.FontFaceKey]pdflayout.FontFace)
	var faceOrder []pdflayout.FontFaceKey

	colorCounts := make(map[int]int)
	colorFirst := make(map[int]pdflayout.Color)
	var colorOrder []int

	var totalSize float64
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

		totalSize += c.Face.Size
	}

	bestFaceKey := faceOrder[0]
	for _, k := range faceOrder {
		if faceCounts[k] > faceCounts[bestFaceKey] {
			bestFaceKey = k
		}
	}
	bestColorID := colorOrder[0]
	for _, id := range colorOrder {
		if colorCounts[id] > colorCounts[bestColorID] {
			bestColorID = id
		}
	}

	return pdflayout.CharacterStatistic{
		MostCommonFace:  faceFirst[bestFaceKey],
		HasFace:         true,
		MostCommonColor: colorFirst[bestColorID],
		HasColor:        true,
		AverageFontSize: totalSize / float64(len(chars)),
		Count:           len(chars),
	}
}

// reorderForReadingOrder applies column-aware linearization: when the
// page's lines fall into distinct vertical bands (columns), lines are
// emitted column-major (all of column 1 top-to-bottom, then column 2...)
// instead of the naive top-to-bottom stream, which would interleave
// columns. Grounded on the teacher's columns.go vertical-projection-profile
// approach, generalized from word-level to line-level column assignment.
func reorderForReadingOrder(lines *[]pdflayout.TextLine, pageWidth float64) {
	if len(*lines) < 2 || pageWidth <= 0 {
		return
	}
	cols := detectColumnBands(*lines, pageWidth)
	if len(cols) < 2 {
		return
	}
	var reordered []pdflayout.TextLine
	for _, band := range cols {
		for _, l := range *lines {
			if centerX(l.Box) >= band.min && centerX(l.Box) < band.max {
				reordered = append(reordered, l)
			}
		}
	}
	if len(reordered) == len(*lines) {
		*lines = reordered
	}
}

type band struct{ min, max float64 }

// detectColumnBands finds vertical gaps that no line's x-extent covers,
// splitting the page width into bands. Every such gap at least
// minGapWidth (20pt) wide is treated as a column boundary.
func detectColumnBands(lines []pdflayout.TextLine, pageWidth float64) []band {
	const minGapWidth = 20.0
	const binWidth = 2.0
	numBins := int(math.Ceil(pageWidth / binWidth))
	if numBins <= 0 {
		return nil
	}
	occupied := make([]bool, numBins)
	for _, l := range lines {
		start := int(l.Box.MinX / binWidth)
		end := int(math.Ceil(l.Box.MaxX / binWidth))
		for b := start; b < end && b < numBins; b++ {
			if b >= 0 {
				occupied[b] = true
			}
		}
	}

	var bands []band
	start := 0
	gapStart := -1
	for b := 0; b < numBins; b++ {
		if !occupied[b] {
			if gapStart == -1 {
				gapStart = b
			}
		} else if gapStart != -1 {
			gapWidth := float64(b-gapStart) * binWidth
			if gapWidth >= minGapWidth {
				bands = append(bands, band{min: float64(start) * binWidth, max: float64(gapStart) * binWidth})
				start = b
			}
			gapStart = -1
		}
	}
	bands = append(bands, band{min: float64(start) * binWidth, max: pageWidth})
	return bands
}
