package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdflayout/pdflayout"
)

func face(family string, size float64) pdflayout.FontFace {
	return pdflayout.FontFace{Font: pdflayout.Font{Family: family, Name: family}, Size: size}
}

func TestCharacterStats_Empty(t *testing.T) {
	stats := CharacterStats(nil)
	assert.False(t, stats.HasFace)
	assert.False(t, stats.HasColor)
	assert.Equal(t, 0, stats.Count)
}

func TestCharacterStats_MostCommonFaceTieBrokenByFirstSeen(t *testing.T) {
	a := face("Arial", 10)
	b := face("Times", 10)
	chars := []pdflayout.Character{
		{Face: a, Color: pdflayout.Color{ID: 1}},
		{Face: b, Color: pdflayout.Color{ID: 1}},
	}

	stats := CharacterStats(chars)
	assert.True(t, stats.HasFace)
	assert.Equal(t, "Arial", stats.MostCommonFace.Font.Family, "a tie must resolve to the first-seen face")
	assert.Equal(t, 2, stats.Count)
}

func TestCharacterStats_MostCommonFaceByFrequency(t *testing.T) {
	a := face("Arial", 10)
	b := face("Times", 10)
	chars := []pdflayout.Character{
		{Face: a, Color: pdflayout.Color{ID: 1}},
		{Face: b, Color: pdflayout.Color{ID: 1}},
		{Face: b, Color: pdflayout.Color{ID: 1}},
	}

	stats := CharacterStats(chars)
	assert.Equal(t, "Times", stats.MostCommonFace.Font.Family)
}

func TestCharacterStats_AverageFontSize(t *testing.T) {
	chars := []pdflayout.Character{
		{Face: face("Arial", 10)},
		{Face: face("Arial", 20)},
	}
	stats := CharacterStats(chars)
	assert.Equal(t, 15.0, stats.AverageFontSize)
}

func TestArgmax_TieBrokenByOrder(t *testing.T) {
	order := []string{"x", "y"}
	counts := map[string]int{"x": 2, "y": 2}
	assert.Equal(t, "x", argmax(order, counts))
}

func TestLinePitchByFace_PicksMostCommonPitch(t *testing.T) {
	f := face("Arial", 10)
	line := func(y float64) pdflayout.TextLine {
		return pdflayout.TextLine{
			Page:      1,
			Baseline:  pdflayout.Line{Y0: y},
			CharStats: pdflayout.CharacterStatistic{MostCommonFace: f, HasFace: true},
		}
	}
	// pitches: 12, 12, 20 -> most common is 12
	lines := []pdflayout.TextLine{line(100), line(88), line(76), line(56)}

	stats := LinePitchByFace([][]pdflayout.TextLine{lines})
	pitch, ok := stats.ExpectedPitch(f)
	assert.True(t, ok)
	assert.Equal(t, 12.0, pitch)
}

func TestLinePitchByFace_IgnoresCrossPagePairs(t *testing.T) {
	f := face("Arial", 10)
	a := pdflayout.TextLine{Page: 1, Baseline: pdflayout.Line{Y0: 100}, CharStats: pdflayout.CharacterStatistic{MostCommonFace: f, HasFace: true}}
	b := pdflayout.TextLine{Page: 2, Baseline: pdflayout.Line{Y0: 50}, CharStats: pdflayout.CharacterStatistic{MostCommonFace: f, HasFace: true}}

	stats := LinePitchByFace([][]pdflayout.TextLine{{a, b}})
	_, ok := stats.ExpectedPitch(f)
	assert.False(t, ok, "a page boundary must not contribute a pitch sample")
}

func TestDocument_AggregatesAcrossPages(t *testing.T) {
	f := face("Arial", 10)
	pages := []pdflayout.Page{
		{Characters: []pdflayout.Character{{Face: f}}},
		{Characters: []pdflayout.Character{{Face: f}}},
	}
	stats := Document(pages)
	assert.Equal(t, 2, stats.CharStats.Count)
}

func TestBlock_AggregatesWordCharacters(t *testing.T) {
	f := face("Arial", 10)
	block := pdflayout.TextBlock{
		Lines: []pdflayout.TextLine{
			{Words: []pdflayout.Word{{Characters: []pdflayout.Character{{Face: f}, {Face: f}}}}},
		},
	}
	stats := Block(block)
	assert.Equal(t, 2, stats.Count)
}
