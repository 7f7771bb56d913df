package pdflayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectangle_WidthHeight(t *testing.T) {
	r := Rectangle{MinX: 1, MinY: 2, MaxX: 5, MaxY: 9}
	assert.Equal(t, 4.0, r.Width())
	assert.Equal(t, 7.0, r.Height())
}

func TestRectangle_Degenerate(t *testing.T) {
	assert.True(t, Rectangle{MinX: 5, MaxX: 5, MinY: 0, MaxY: 10}.Degenerate())
	assert.True(t, Rectangle{MinX: 0, MaxX: 10, MinY: 5, MaxY: 5}.Degenerate())
	assert.False(t, Rectangle{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}.Degenerate())
}

func TestRectangle_Union(t *testing.T) {
	a := Rectangle{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}
	b := Rectangle{MinX: 3, MinY: -2, MaxX: 10, MaxY: 4}
	u := a.Union(b)
	assert.Equal(t, Rectangle{MinX: 0, MinY: -2, MaxX: 10, MaxY: 5}, u)
}

func TestRectangle_OverlapsHorizontally(t *testing.T) {
	a := Rectangle{MinX: 0, MaxX: 10}
	b := Rectangle{MinX: 5, MaxX: 15}
	c := Rectangle{MinX: 20, MaxX: 30}
	assert.True(t, a.OverlapsHorizontally(b))
	assert.False(t, a.OverlapsHorizontally(c))
}

func TestFontFace_KeyIdentifiesByValueNotFontID(t *testing.T) {
	a := FontFace{Font: Font{ID: 1, Family: "Arial", IsBold: true}, Size: 12}
	b := FontFace{Font: Font{ID: 2, Family: "Arial", IsBold: true}, Size: 12}
	assert.Equal(t, a.Key(), b.Key(), "two distinct Font IDs with identical family/size/style must share a key")
}

func TestTextLine_TextJoinsWordsWithSpace(t *testing.T) {
	l := TextLine{Words: []Word{{Text: "Hello"}, {Text: "World"}}}
	assert.Equal(t, "Hello World", l.Text())
}

func TestTextLine_TextEmptyForNoWords(t *testing.T) {
	assert.Equal(t, "", TextLine{}.Text())
}

func TestSemanticRole_String(t *testing.T) {
	assert.Equal(t, "BODY_TEXT", RoleBodyText.String())
	assert.Equal(t, "TITLE", RoleTitle.String())
	assert.Equal(t, "FORMULA", RoleFormula.String())
}

func TestTextBlock_WithSecondaryRole(t *testing.T) {
	b := TextBlock{Role: RoleOther}
	assert.False(t, b.HasSecondaryRole())

	withSecondary := b.WithSecondaryRole(RoleHeading)
	assert.True(t, withSecondary.HasSecondaryRole())
	assert.False(t, b.HasSecondaryRole(), "WithSecondaryRole must not mutate the receiver")
}

func TestTextLineStatistic_ExpectedPitch(t *testing.T) {
	face := FontFace{Font: Font{Family: "Arial"}, Size: 10}
	stat := TextLineStatistic{
		PitchByFace: map[FontFaceKey]float64{face.Key(): 14.5},
	}
	pitch, ok := stat.ExpectedPitch(face)
	assert.True(t, ok)
	assert.Equal(t, 14.5, pitch)

	_, ok = stat.ExpectedPitch(FontFace{Font: Font{Family: "Times"}, Size: 12})
	assert.False(t, ok)
}
