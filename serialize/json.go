package serialize

import (
	"encoding/json"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

// jsonSerializer reuses the xml-tagged intermediate model (its fields
// carry both xml and json tags) so both back-ends emit the same shape
// under the same section/field names, just in a different encoding.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(doc pdflayout.Document, cfg config.Config) ([]byte, error) {
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

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
