// Package pdflayout recovers the logical reading structure of a PDF
// document: paragraphs, words and characters, grouped and tagged with a
// semantic role, together with their geometry, fonts and colors.
package pdflayout

import "math"

// Rectangle is an axis-aligned bounding box in PDF coordinate space
// (origin bottom-left). MinX <= MaxX and MinY <= MaxY always hold for a
// well-formed Rectangle.
type Rectangle struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 { return r.MaxY - r.MinY }

// Degenerate reports whether the rectangle has zero area on either axis.
func (r Rectangle) Degenerate() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	return Rectangle{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// OverlapsHorizontally reports whether the x-intervals of r and o intersect.
func (r Rectangle) OverlapsHorizontally(o Rectangle) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX
}

// Line is a horizontal reference segment, used as a TextLine's baseline.
type Line struct {
	X0, Y0, X1, Y1 float64
}

// Position locates a rectangle on a specific page of a Document.
type Position struct {
	Page      int // 1-based
	Rectangle Rectangle
}

// Font identifies a distinct typeface used in the document.
type Font struct {
	ID         int
	Name       string // normalized name
	Family     string
	BaseName   string
	IsBold     bool
	IsItalic   bool
	IsType3    bool
}

// FontFace pairs a Font with a point size.
type FontFace struct {
	Font Font
	Size float64
}

// Key returns a value-equality identity for the face: family name, size
// rounded to 0.1pt, bold and italic flags, as required by spec.md's
// "statistics keyed by FontFace" design note.
func (f FontFace) Key() FontFaceKey {
	return FontFaceKey{
		Family:   f.Font.Family,
		Size10:   math.Round(f.Size * 10),
		IsBold:   f.Font.IsBold,
		IsItalic: f.Font.IsItalic,
	}
}

// FontFaceKey is the hashable identity of a FontFace, interned at load time.
type FontFaceKey struct {
	Family   string
	Size10   float64
	IsBold   bool
	IsItalic bool
}

// Color is an RGB triple with a document-unique id.
type Color struct {
	ID      int
	R, G, B int
}

// Character is a single positioned glyph.
type Character struct {
	Page     int
	Box      Rectangle
	Face     FontFace
	Color    Color
	Text     string // glyph text, may be a ligature or surrogate pair
	Baseline float64
	Rotation float64 // degrees; used only to bucket rotated text into its own lines
}

// Word is a run of Characters with no internal whitespace gap.
type Word struct {
	Box        Rectangle
	Characters []Character
	Text       string
}

// TextLine is a horizontal run of Words sharing a baseline.
type TextLine struct {
	Box       Rectangle
	Words     []Word
	Baseline  Line
	CharStats CharacterStatistic
	Page      int
	Rotation  float64 // degrees; 0 for unrotated text
}

// Text concatenates the line's words separated by a single space.
func (l TextLine) Text() string {
	s := ""
	for i, w := range l.Words {
		if i > 0 {
			s += " "
		}
		s += w.Text
	}
	return s
}

// SemanticRole is the logical function of a TextBlock or Paragraph.
type SemanticRole int

const (
	RoleOther SemanticRole = iota
	RoleAbstract
	RoleAcknowledgments
	RoleBodyText
	RoleCaption
	RoleCategories
	RoleFootnote
	RoleGeneralTerms
	RoleHeading
	RoleItemizeItem
	RoleKeywords
	RolePageHeader
	RolePageFooter
	RoleReference
	RoleTable
	RoleTitle
	RoleFormula
)

// String renders the role using the names from spec.md's SemanticRole enum.
func (r SemanticRole) String() string {
	switch r {
	case RoleAbstract:
		return "ABSTRACT"
	case RoleAcknowledgments:
		return "ACKNOWLEDGMENTS"
	case RoleBodyText:
		return "BODY_TEXT"
	case RoleCaption:
		return "CAPTION"
	case RoleCategories:
		return "CATEGORIES"
	case RoleFootnote:
		return "FOOTNOTE"
	case RoleGeneralTerms:
		return "GENERAL_TERMS"
	case RoleHeading:
		return "HEADING"
	case RoleItemizeItem:
		return "ITEMIZE_ITEM"
	case RoleKeywords:
		return "KEYWORDS"
	case RolePageHeader:
		return "PAGE_HEADER"
	case RolePageFooter:
		return "PAGE_FOOTER"
	case RoleReference:
		return "REFERENCE"
	case RoleTable:
		return "TABLE"
	case RoleTitle:
		return "TITLE"
	case RoleFormula:
		return "FORMULA"
	default:
		return "OTHER"
	}
}

// TextBlock groups consecutive TextLines on a single page. Only the
// Semanticizer stage may mutate Role/SecondaryRole after construction.
type TextBlock struct {
	ID              string
	Page            int
	Lines           []TextLine
	Box             Rectangle
	CharStats       CharacterStatistic
	LinePitchStats  TextLineStatistic
	Text            string
	Role            SemanticRole
	SecondaryRole   SemanticRole
	hasSecondary    bool
}

// HasSecondaryRole reports whether a secondary role hint has been set on
// the block (the hint itself is in SecondaryRole).
func (b TextBlock) HasSecondaryRole() bool { return b.hasSecondary }

// WithSecondaryRole returns a copy of b carrying the given secondary role.
func (b TextBlock) WithSecondaryRole(role SemanticRole) TextBlock {
	b.SecondaryRole = role
	b.hasSecondary = true
	return b
}

// Paragraph is a logical reading unit assembled from one or more TextBlocks,
// possibly spanning pages.
type Paragraph struct {
	Words     []Word
	Positions []Position
	Role      SemanticRole
	Text      string
}

// Figure is a positioned non-text graphic (image, embedded object).
type Figure struct {
	Page     int
	Position Position
}

// Shape is a positioned vector graphic primitive (line, rectangle, curve).
type Shape struct {
	Page     int
	Position Position
}

// Page owns the content extracted from one page of the document.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64

	Characters []Character
	Figures    []Figure
	Shapes     []Shape

	TextLines  []TextLine
	TextBlocks []TextBlock
}

// Document is the complete extracted and analyzed structure of a PDF.
type Document struct {
	Pages      []Page
	Paragraphs []Paragraph

	Fonts  []Font
	Colors []Color

	Stats DocumentStatistic
}

// ExtractionUnit is the granularity at which a caller wants serialized output.
type ExtractionUnit int

const (
	UnitCharacter ExtractionUnit = iota
	UnitWord
	UnitParagraph
	UnitFigure
	UnitShape
	UnitPage
)

// CharacterStatistic aggregates character-level properties over a scope
// (line, block, page, or document).
type CharacterStatistic struct {
	MostCommonFace  FontFace
	HasFace         bool
	MostCommonColor Color
	HasColor        bool
	AverageFontSize float64
	Count           int
}

// TextLineStatistic aggregates line-pitch expectations, keyed by FontFace.
type TextLineStatistic struct {
	PitchByFace map[FontFaceKey]float64
}

// ExpectedPitch returns the most-common line pitch observed for the given
// face, or 0 with ok=false if no observation was recorded for it.
func (s TextLineStatistic) ExpectedPitch(face FontFace) (float64, bool) {
	if s.PitchByFace == nil {
		return 0, false
	}
	v, ok := s.PitchByFace[face.Key()]
	return v, ok
}

// DocumentStatistic is the document-scope aggregation of CharacterStatistic
// and TextLineStatistic, the final authority the Semanticizer reads from.
type DocumentStatistic struct {
	CharStats CharacterStatistic
	LineStats TextLineStatistic
}
