package serialize

import (
	"bytes"
	"encoding/xml"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

// The wire element names below are exact, per spec.md §6: document,
// paragraphs, paragraph, words, word, characters, character, figures,
// figure, shapes, shape, pages, page, positions, position, page (inside
// position), minX, minY, maxX, maxY, role, font, fontsize, color, id,
// name, isBold, isItalic, isType3, r, g, b, width, height, text,
// textBlock, textLine.

type xmlPosition struct {
	Page int     `xml:"page" json:"page"`
	MinX float64 `xml:"minX" json:"minX"`
	MinY float64 `xml:"minY" json:"minY"`
	MaxX float64 `xml:"maxX" json:"maxX"`
	MaxY float64 `xml:"maxY" json:"maxY"`
}

type xmlPositions struct {
	Position []xmlPosition `xml:"position" json:"position"`
}

// Per the Open Question decision in SPEC_FULL.md §13, the <positions>
// wrapper is always emitted when there is at least one position, even a
// single one — never collapsed to a bare <position>.
func buildPositions(positions []pdflayout.Position) *xmlPositions {
	if len(positions) == 0 {
		return nil
	}
	out := &xmlPositions{}
	for _, p := range positions {
		out.Position = append(out.Position, xmlPosition{
			Page: p.Page,
			MinX: p.Rectangle.MinX,
			MinY: p.Rectangle.MinY,
			MaxX: p.Rectangle.MaxX,
			MaxY: p.Rectangle.MaxY,
		})
	}
	return out
}

type xmlFontRef struct {
	ID       int     `xml:"id" json:"id"`
	FontSize float64 `xml:"fontsize" json:"fontsize"`
}

type xmlColorRef struct {
	ID int `xml:"id" json:"id"`
}

type xmlCharacter struct {
	XMLName   xml.Name      `xml:"character" json:"-"`
	Text      string        `xml:"text" json:"text"`
	Font      *xmlFontRef   `xml:"font,omitempty" json:"font,omitempty"`
	Color     *xmlColorRef  `xml:"color,omitempty" json:"color,omitempty"`
	Positions *xmlPositions `xml:"positions,omitempty" json:"positions,omitempty"`
}

type xmlWord struct {
	XMLName    xml.Name       `xml:"word" json:"-"`
	Text       string         `xml:"text" json:"text"`
	Font       *xmlFontRef    `xml:"font,omitempty" json:"font,omitempty"`
	Color      *xmlColorRef   `xml:"color,omitempty" json:"color,omitempty"`
	Positions  *xmlPositions  `xml:"positions,omitempty" json:"positions,omitempty"`
	Characters *xmlCharacters `xml:"characters,omitempty" json:"characters,omitempty"`
}

type xmlCharacters struct {
	Character []xmlCharacter `xml:"character" json:"character"`
}

type xmlWords struct {
	Word []xmlWord `xml:"word" json:"word"`
}

type xmlParagraph struct {
	XMLName   xml.Name      `xml:"paragraph" json:"-"`
	Role      string        `xml:"role" json:"role"`
	Positions *xmlPositions `xml:"positions,omitempty" json:"positions,omitempty"`
	Text      string        `xml:"text" json:"text"`
	Words     *xmlWords     `xml:"words,omitempty" json:"words,omitempty"`
}

type xmlParagraphs struct {
	Paragraph []xmlParagraph `xml:"paragraph" json:"paragraph"`
}

type xmlFigure struct {
	XMLName   xml.Name      `xml:"figure" json:"-"`
	Positions *xmlPositions `xml:"positions,omitempty" json:"positions,omitempty"`
}

type xmlFigures struct {
	Figure []xmlFigure `xml:"figure" json:"figure"`
}

type xmlShape struct {
	XMLName   xml.Name      `xml:"shape" json:"-"`
	Positions *xmlPositions `xml:"positions,omitempty" json:"positions,omitempty"`
}

type xmlShapes struct {
	Shape []xmlShape `xml:"shape" json:"shape"`
}

type xmlFont struct {
	XMLName  xml.Name `xml:"font" json:"-"`
	ID       int      `xml:"id" json:"id"`
	Name     string   `xml:"name" json:"name"`
	IsBold   bool     `xml:"isBold" json:"isBold"`
	IsItalic bool     `xml:"isItalic" json:"isItalic"`
	IsType3  bool     `xml:"isType3" json:"isType3"`
}

type xmlFonts struct {
	Font []xmlFont `xml:"font" json:"font"`
}

type xmlColor struct {
	XMLName xml.Name `xml:"color" json:"-"`
	ID      int      `xml:"id" json:"id"`
	R       int      `xml:"r" json:"r"`
	G       int      `xml:"g" json:"g"`
	B       int      `xml:"b" json:"b"`
}

type xmlColors struct {
	Color []xmlColor `xml:"color" json:"color"`
}

type xmlTextLine struct {
	XMLName   xml.Name      `xml:"textLine" json:"-"`
	Positions *xmlPositions `xml:"positions,omitempty" json:"positions,omitempty"`
	Text      string        `xml:"text" json:"text"`
}

type xmlTextBlock struct {
	XMLName   xml.Name      `xml:"textBlock" json:"-"`
	Role      string        `xml:"role" json:"role"`
	Positions *xmlPositions `xml:"positions,omitempty" json:"positions,omitempty"`
	Text      string        `xml:"text" json:"text"`
	TextLine  []xmlTextLine `xml:"textLine" json:"textLine"`
}

type xmlPage struct {
	XMLName   xml.Name       `xml:"page" json:"-"`
	Page      int            `xml:"page" json:"page"`
	Width     float64        `xml:"width" json:"width"`
	Height    float64        `xml:"height" json:"height"`
	TextBlock []xmlTextBlock `xml:"textBlock" json:"textBlock"`
}

type xmlPages struct {
	Page []xmlPage `xml:"page" json:"page"`
}

type xmlDocument struct {
	XMLName    xml.Name       `xml:"document" json:"-"`
	Paragraphs *xmlParagraphs `xml:"paragraphs,omitempty" json:"paragraphs,omitempty"`
	Words      *xmlWords      `xml:"words,omitempty" json:"words,omitempty"`
	Characters *xmlCharacters `xml:"characters,omitempty" json:"characters,omitempty"`
	Figures    *xmlFigures    `xml:"figures,omitempty" json:"figures,omitempty"`
	Shapes     *xmlShapes     `xml:"shapes,omitempty" json:"shapes,omitempty"`
	Fonts      *xmlFonts      `xml:"fonts,omitempty" json:"fonts,omitempty"`
	Colors     *xmlColors     `xml:"colors,omitempty" json:"colors,omitempty"`
	Pages      *xmlPages      `xml:"pages,omitempty" json:"pages,omitempty"`
}

// xmlSerializer implements Serializer using encoding/xml with an
// explicit tagged-struct model (see SPEC_FULL.md §11: no third-party
// XML encoder in the pack offers an advantage over this approach, since
// struct field order already gives the exact, deterministic element
// ordering the contract requires).
type xmlSerializer struct{}

func (xmlSerializer) Serialize(doc pdflayout.Document, cfg config.Config) ([]byte, error) {
	usedFonts := make(map[int]bool)
	usedColors := make(map[int]bool)

	build := newBuilder(doc, cfg, usedFonts, usedColors)

	out := xmlDocument{}
	if cfg.HasUnit(pdflayout.UnitParagraph) {
		if paragraphs := build.paragraphs(); len(paragraphs) > 0 {
			out.Paragraphs = &xmlParagraphs{Paragraph: paragraphs}
		}
	}
	if cfg.HasUnit(pdflayout.UnitWord) {
		if words := build.allWords(); len(words) > 0 {
			out.Words = &xmlWords{Word: words}
		}
	}
	if cfg.HasUnit(pdflayout.UnitCharacter) {
		if chars := build.allCharacters(); len(chars) > 0 {
			out.Characters = &xmlCharacters{Character: chars}
		}
	}
	if cfg.HasUnit(pdflayout.UnitFigure) {
		if figures := build.figures(); len(figures) > 0 {
			out.Figures = &xmlFigures{Figure: figures}
		}
	}
	if cfg.HasUnit(pdflayout.UnitShape) {
		if shapes := build.shapes(); len(shapes) > 0 {
			out.Shapes = &xmlShapes{Shape: shapes}
		}
	}
	if cfg.HasUnit(pdflayout.UnitPage) {
		if pages := build.pages(); len(pages) > 0 {
			out.Pages = &xmlPages{Page: pages}
		}
	}

	if fonts := build.fonts(doc); len(fonts) > 0 {
		out.Fonts = &xmlFonts{Font: fonts}
	}
	if colors := build.colors(doc); len(colors) > 0 {
		out.Colors = &xmlColors{Color: colors}
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
