package serialize

import (
	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

// builder assembles the xml-tagged intermediate model from a Document,
// filtering by the selected ExtractionUnits/SemanticRoles and tracking
// which fonts/colors actually end up referenced.
type builder struct {
	doc         pdflayout.Document
	cfg         config.Config
	usedFonts   map[int]bool
	usedColors  map[int]bool
}

func newBuilder(doc pdflayout.Document, cfg config.Config, usedFonts, usedColors map[int]bool) *builder {
	return &builder{doc: doc, cfg: cfg, usedFonts: usedFonts, usedColors: usedColors}
}

func (b *builder) fontRef(f pdflayout.FontFace) *xmlFontRef {
	b.usedFonts[f.Font.ID] = true
	return &xmlFontRef{ID: f.Font.ID, FontSize: f.Size}
}

func (b *builder) colorRef(c pdflayout.Color) *xmlColorRef {
	b.usedColors[c.ID] = true
	return &xmlColorRef{ID: c.ID}
}

// paragraphs builds the <paragraph> list: only paragraphs whose role is
// in the inclusion set are emitted (spec.md §4.6), in document order.
func (b *builder) paragraphs() []xmlParagraph {
	var out []xmlParagraph
	for _, p := range b.doc.Paragraphs {
		if !b.cfg.HasRole(p.Role) {
			continue
		}
		xp := xmlParagraph{
			Role:      p.Role.String(),
			Positions: buildPositions(p.Positions),
			Text:      p.Text,
		}
		if b.cfg.HasUnit(pdflayout.UnitWord) {
			if words := b.words(p.Words); len(words) > 0 {
				xp.Words = &xmlWords{Word: words}
			}
		}
		out = append(out, xp)
	}
	return out
}

func (b *builder) words(words []pdflayout.Word) []xmlWord {
	var out []xmlWord
	for _, w := range words {
		xw := xmlWord{Text: w.Text}
		if len(w.Characters) > 0 {
			xw.Font = b.fontRef(w.Characters[0].Face)
			xw.Color = b.colorRef(w.Characters[0].Color)
		}
		page := 0
		if len(w.Characters) > 0 {
			page = w.Characters[0].Page
		}
		xw.Positions = buildPositions([]pdflayout.Position{{Page: page, Rectangle: w.Box}})
		if b.cfg.HasUnit(pdflayout.UnitCharacter) {
			if chars := b.characters(w.Characters); len(chars) > 0 {
				xw.Characters = &xmlCharacters{Character: chars}
			}
		}
		out = append(out, xw)
	}
	return out
}

// allWords flattens every Word on every page, independent of paragraph
// assembly or role filtering — spec.md §6 lists <words> as a document
// child section on its own, not merely nested inside <paragraph>, so a
// unit selection of {word} alone (without {paragraph}) must still
// produce output.
func (b *builder) allWords() []xmlWord {
	var words []pdflayout.Word
	for _, p := range b.doc.Pages {
		for _, block := range p.TextBlocks {
			for _, line := range block.Lines {
				words = append(words, line.Words...)
			}
		}
	}
	return b.words(words)
}

// allCharacters flattens every Character on every page, for the same
// reason allWords exists: <characters> is an independent document child
// section, selectable without {word} or {paragraph}.
func (b *builder) allCharacters() []xmlCharacter {
	var chars []pdflayout.Character
	for _, p := range b.doc.Pages {
		for _, block := range p.TextBlocks {
			for _, line := range block.Lines {
				for _, w := range line.Words {
					chars = append(chars, w.Characters...)
				}
			}
		}
	}
	return b.characters(chars)
}

func (b *builder) characters(chars []pdflayout.Character) []xmlCharacter {
	var out []xmlCharacter
	for _, c := range chars {
		out = append(out, xmlCharacter{
			Text:      c.Text,
			Font:      b.fontRef(c.Face),
			Color:     b.colorRef(c.Color),
			Positions: buildPositions([]pdflayout.Position{{Page: c.Page, Rectangle: c.Box}}),
		})
	}
	return out
}

// figures/shapes are emitted unconditionally once their ExtractionUnit
// is selected (spec.md §4.6), independent of any role filter.
func (b *builder) figures() []xmlFigure {
	var out []xmlFigure
	for _, p := range b.doc.Pages {
		for _, f := range p.Figures {
			out = append(out, xmlFigure{Positions: buildPositions([]pdflayout.Position{f.Position})})
		}
	}
	return out
}

func (b *builder) shapes() []xmlShape {
	var out []xmlShape
	for _, p := range b.doc.Pages {
		for _, s := range p.Shapes {
			out = append(out, xmlShape{Positions: buildPositions([]pdflayout.Position{s.Position})})
		}
	}
	return out
}

// pages builds the raw per-page structural dump: every TextBlock/
// TextLine on the page, unfiltered by role, since this is geometry/
// structure output rather than paragraph content.
func (b *builder) pages() []xmlPage {
	var out []xmlPage
	for _, p := range b.doc.Pages {
		xp := xmlPage{Page: p.Number, Width: p.Width, Height: p.Height}
		for _, block := range p.TextBlocks {
			xb := xmlTextBlock{
				Role:      block.Role.String(),
				Positions: buildPositions([]pdflayout.Position{{Page: block.Page, Rectangle: block.Box}}),
				Text:      block.Text,
			}
			for _, line := range block.Lines {
				xb.TextLine = append(xb.TextLine, xmlTextLine{
					Positions: buildPositions([]pdflayout.Position{{Page: p.Number, Rectangle: line.Box}}),
					Text:      line.Text(),
				})
			}
			xp.TextBlock = append(xp.TextBlock, xb)
		}
		out = append(out, xp)
	}
	return out
}

func (b *builder) fonts(doc pdflayout.Document) []xmlFont {
	var out []xmlFont
	for _, f := range doc.Fonts {
		if !b.usedFonts[f.ID] {
			continue
		}
		out = append(out, xmlFont{
			ID:       f.ID,
			Name:     f.Name,
			IsBold:   f.IsBold,
			IsItalic: f.IsItalic,
			IsType3:  f.IsType3,
		})
	}
	return out
}

func (b *builder) colors(doc pdflayout.Document) []xmlColor {
	var out []xmlColor
	for _, c := range doc.Colors {
		if !b.usedColors[c.ID] {
			continue
		}
		out = append(out, xmlColor{ID: c.ID, R: c.R, G: c.G, B: c.B})
	}
	return out
}
