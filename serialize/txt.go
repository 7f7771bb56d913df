package serialize

import (
	"bytes"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

// txtSerializer emits plain text: one paragraph's text per line, blank
// line separated, in document order, filtered by the selected
// SemanticRoles. Only ExtractionUnit PARAGRAPH has a defined rendering;
// other units are silently ignored since plain text has no positional
// or structural vocabulary to carry them.
type txtSerializer struct{}

func (txtSerializer) Serialize(doc pdflayout.Document, cfg config.Config) ([]byte, error) {
	var buf bytes.Buffer
	if !cfg.HasUnit(pdflayout.UnitParagraph) {
		return buf.Bytes(), nil
	}
	first := true
	for _, p := range doc.Paragraphs {
		if !cfg.HasRole(p.Role) {
			continue
		}
		if !first {
			buf.WriteString("\n\n")
		}
		buf.WriteString(p.Text)
		first = false
	}
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
