// Package blocktok implements the Block Tokenizer (spec.md §4.2), the
// hardest subsystem: streaming a page's TextLines and deciding, via an
// ordered ten-rule set, whether each line introduces a new TextBlock.
//
// Grounded on the teacher's segments.go agglomerative-clustering approach
// (reused for the horizontal-overlap and font-face-change tests) and
// structure.go:groupLinesIntoParagraphsAdaptive's adaptive-gap-threshold
// pattern (reused for the line-pitch rules, generalized to the document
// Statistician's per-FontFace expected pitch instead of a single
// document-wide threshold).
package blocktok

import (
	"math"
	"regexp"

	"github.com/pdflayout/pdflayout"
)

// referenceAnchor matches a bracketed citation marker at the start of a
// line: "[12] " or "[A] ..." but not "[12]Smith" (no trailing whitespace).
var referenceAnchor = regexp.MustCompile(`^\[(.*)\]\s+`)

// Tunables bundles the five configurable constants spec.md §4.2 calls out
// as "part of the contract", at their documented defaults.
type Tunables struct {
	LinePitchSlack        float64 // default 1.5
	LinePitchHeightFactor float64 // default 3
	PitchDeltaSlack       float64 // default 1
	IndentSlack           float64 // default 1
	ReferenceStartSlack   float64 // default 0.5
}

// DefaultTunables returns the constants at the values spec.md §4.2 mandates.
func DefaultTunables() Tunables {
	return Tunables{
		LinePitchSlack:        1.5,
		LinePitchHeightFactor: 3,
		PitchDeltaSlack:       1,
		IndentSlack:           1,
		ReferenceStartSlack:   0.5,
	}
}

// Tokenize streams a page's TextLines in order and groups them into
// TextBlocks using the ten ordered rules in spec.md §4.2. docLineStats is
// the document-level line-pitch-by-FontFace statistic (must already be
// final, per spec.md §5).
func Tokenize(page int, lines []pdflayout.TextLine, docLineStats pdflayout.TextLineStatistic, t Tunables) []pdflayout.TextBlock {
	var blocks []pdflayout.TextBlock
	var current []pdflayout.TextLine

	for i, line := range lines {
		var prev *pdflayout.TextLine
		if i > 0 {
			prev = &lines[i-1]
		}
		var next *pdflayout.TextLine
		if i+1 < len(lines) {
			next = &lines[i+1]
		}

		if introducesNewBlock(current, prev, line, next, docLineStats, t) {
			if len(current) > 0 {
				blocks = append(blocks, buildBlock(page, current))
			}
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, buildBlock(page, current))
	}
	return blocks
}

// introducesNewBlock applies the ten rules in order; the first rule that
// fires decides. Rule 1 (null line) can't occur here since lines are
// always well-formed values, so it has no check of its own.
func introducesNewBlock(current []pdflayout.TextLine, prev *pdflayout.TextLine, line pdflayout.TextLine, next *pdflayout.TextLine, docLineStats pdflayout.TextLineStatistic, t Tunables) bool {
	// Rule 1: null line -> no. (len(line.Words)==0 never reaches here; linetok discards empty lines.)

	// Rule 2: no previous line -> yes.
	if prev == nil {
		return true
	}

	// Rule 3: current block empty -> no (append).
	if len(current) == 0 {
		return false
	}

	currentBox := blockBox(current)

	// Rule 4: line doesn't overlap the current block horizontally -> yes.
	if !currentBox.OverlapsHorizontally(line.Box) {
		return true
	}

	// Rule 5: line pitch larger than expected -> yes.
	if linePitchLargerThanExpected(*prev, line, docLineStats, t) {
		return true
	}

	// Rule 6: pitchToPrev - pitchToNext > slack -> yes.
	if next != nil {
		pitchToPrev := linePitch(*prev, line)
		pitchToNext := linePitch(line, *next)
		if !math.IsNaN(pitchToPrev) && !math.IsNaN(pitchToNext) && pitchToPrev-pitchToNext > t.PitchDeltaSlack {
			return true
		}
	}

	// Rule 7: isIndented.
	if isIndented(*prev, line, next, t) {
		return true
	}

	// Rule 8: significant font face change.
	if significantFontFaceChange(*prev, line) {
		return true
	}

	// Rule 9: probably the start of a reference entry.
	if isProbablyReferenceStart(prev, line, next, t) {
		return true
	}

	// Rule 10: otherwise -> no.
	return false
}

// linePitch is |baseline(a).y - baseline(b).y|, defined only when both
// lines are on the same page and have baselines; NaN otherwise (treated
// as "not larger" by callers).
func linePitch(a, b pdflayout.TextLine) float64 {
	if a.Page != b.Page {
		return math.NaN()
	}
	return math.Abs(a.Baseline.Y0 - b.Baseline.Y0)
}

func linePitchLargerThanExpected(prev, line pdflayout.TextLine, docLineStats pdflayout.TextLineStatistic, t Tunables) bool {
	actual := linePitch(prev, line)
	if math.IsNaN(actual) {
		return false
	}
	expected, ok := docLineStats.ExpectedPitch(line.CharStats.MostCommonFace)
	if ok && actual-expected > t.LinePitchSlack {
		return true
	}
	if actual > t.LinePitchHeightFactor*line.Box.Height() {
		return true
	}
	return false
}

func significantFontFaceChange(prev, line pdflayout.TextLine) bool {
	a, aok := prev.CharStats.MostCommonFace, prev.CharStats.HasFace
	b, bok := line.CharStats.MostCommonFace, line.CharStats.HasFace
	if aok != bok {
		return true // null-asymmetric: one null, one non-null
	}
	if !aok && !bok {
		return false
	}
	if a.Font.Family != b.Font.Family {
		return true
	}
	if math.Abs(a.Size-b.Size) > 0.5 {
		return true
	}
	if a.Font.IsBold != b.Font.IsBold {
		return true
	}
	return false
}

func isIndented(prev, line pdflayout.TextLine, next *pdflayout.TextLine, t Tunables) bool {
	if next == nil {
		return false
	}
	pitchToPrev := linePitch(prev, line)
	pitchToNext := linePitch(line, *next)
	if math.IsNaN(pitchToPrev) || math.IsNaN(pitchToNext) {
		return false
	}
	if math.Abs(pitchToPrev-pitchToNext) >= t.PitchDeltaSlack {
		return false
	}
	if startsWithReferenceAnchor(prev.Text()) && startsWithReferenceAnchor(next.Text()) {
		return false
	}
	if !(line.Box.MinX-prev.Box.MinX > t.IndentSlack && line.Box.MinX-next.Box.MinX > t.IndentSlack) {
		return false
	}
	if math.Abs(prev.Box.MinX-next.Box.MinX) >= t.IndentSlack {
		return false
	}
	return true
}

func startsWithReferenceAnchor(text string) bool {
	return referenceAnchor.MatchString(text)
}

// isProbablyReferenceStart implements spec.md §4.2's predicate. Per the
// Open Question decision in SPEC_FULL.md §13, nil prev/next are allowed
// at document edges with conservative defaults: a nil neighbor is treated
// as "not a reference anchor" and "far enough away", so the clause that
// depends on it takes its permissive branch rather than forcing the rule
// to always fail at document edges.
func isProbablyReferenceStart(prev *pdflayout.TextLine, line pdflayout.TextLine, next *pdflayout.TextLine, t Tunables) bool {
	if !startsWithReferenceAnchor(line.Text()) {
		return false
	}

	prevFarOrAnchor := true
	if prev != nil {
		prevFarOrAnchor = math.Abs(prev.Box.MinX-line.Box.MinX) > t.ReferenceStartSlack || startsWithReferenceAnchor(prev.Text())
	}
	if !prevFarOrAnchor {
		return false
	}

	nextFarOrAnchor := true
	if next != nil {
		nextFarOrAnchor = math.Abs(next.Box.MinX-line.Box.MinX) > t.ReferenceStartSlack || startsWithReferenceAnchor(next.Text())
	}
	return nextFarOrAnchor
}

func blockBox(lines []pdflayout.TextLine) pdflayout.Rectangle {
	box := lines[0].Box
	for _, l := range lines[1:] {
		box = box.Union(l.Box)
	}
	return box
}

func buildBlock(page int, lines []pdflayout.TextLine) pdflayout.TextBlock {
	box := blockBox(lines)
	text := ""
	for i, l := range lines {
		if i > 0 {
			text += " "
		}
		text += l.Text()
	}
	return pdflayout.TextBlock{
		Page:           page,
		Lines:          append([]pdflayout.TextLine(nil), lines...),
		Box:            box,
		CharStats:      aggregateCharacterStats(lines),
		LinePitchStats: aggregateLinePitchStats(lines),
		Text:           text,
		Role:           pdflayout.RoleOther,
	}
}

func aggregateCharacterStats(lines []pdflayout.TextLine) pdflayout.CharacterStatistic {
	var total pdflayout.CharacterStatistic
	faceCounts := make(map[pdflayout.FontFaceKey]int)
	faceFirst := make(map[pdflayout.FontFaceKey]pdflayout.FontFace)
	var faceOrder []pdflayout.FontFaceKey
	colorCounts := make(map[int]int)
	colorFirst := make(map[int]pdflayout.Color)
	var colorOrder []int
	var sizeSum float64
	var count int

	for _, l := range lines {
		if l.CharStats.HasFace {
			k := l.CharStats.MostCommonFace.Key()
			if _, seen := faceCounts[k]; !seen {
				faceOrder = append(faceOrder, k)
				faceFirst[k] = l.CharStats.MostCommonFace
			}
			faceCounts[k] += l.CharStats.Count
		}
		if l.CharStats.HasColor {
			id := l.CharStats.MostCommonColor.ID
			if _, seen := colorCounts[id]; !seen {
				colorOrder = append(colorOrder, id)
				colorFirst[id] = l.CharStats.MostCommonColor
			}
			colorCounts[id] += l.CharStats.Count
		}
		sizeSum += l.CharStats.AverageFontSize * float64(l.CharStats.Count)
		count += l.CharStats.Count
	}

	if len(faceOrder) > 0 {
		best := faceOrder[0]
		for _, k := range faceOrder {
			if faceCounts[k] > faceCounts[best] {
				best = k
			}
		}
		total.MostCommonFace = faceFirst[best]
		total.HasFace = true
	}
	if len(colorOrder) > 0 {
		best := colorOrder[0]
		for _, id := range colorOrder {
			if colorCounts[id] > colorCounts[best] {
				best = id
			}
		}
		total.MostCommonColor = colorFirst[best]
		total.HasColor = true
	}
	if count > 0 {
		total.AverageFontSize = sizeSum / float64(count)
	}
	total.Count = count
	return total
}

func aggregateLinePitchStats(lines []pdflayout.TextLine) pdflayout.TextLineStatistic {
	pitchByFace := make(map[pdflayout.FontFaceKey][]float64)
	for i := 1; i < len(lines); i++ {
		p := linePitch(lines[i-1], lines[i])
		if math.IsNaN(p) || !lines[i].CharStats.HasFace {
			continue
		}
		k := lines[i].CharStats.MostCommonFace.Key()
		pitchByFace[k] = append(pitchByFace[k], p)
	}
	result := pdflayout.TextLineStatistic{PitchByFace: make(map[pdflayout.FontFaceKey]float64)}
	for k, pitches := range pitchByFace {
		counts := make(map[float64]int)
		var order []float64
		for _, p := range pitches {
			rounded := math.Round(p*10) / 10
			if _, seen := counts[rounded]; !seen {
				order = append(order, rounded)
			}
			counts[rounded]++
		}
		best := order[0]
		for _, p := range order {
			if counts[p] > counts[best] {
				best = p
			}
		}
		result.PitchByFace[k] = best
	}
	return result
}
