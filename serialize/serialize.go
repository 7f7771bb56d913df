// Package serialize implements the Serializer (spec.md §4.6): a common
// `serialize(Document) → bytes` contract parameterized by ExtractionUnit
// and SemanticRole selection, with XML, JSON and TXT back-ends plus a
// Markdown back-end supplementing the teacher's own output format (see
// SPEC_FULL.md §11).
//
// Grounded on the teacher's markdown.go for the Markdown back-end
// (reusing github.com/ivanvanderbyl/markdown); XML and JSON use stdlib
// encoding/xml and encoding/json since no third-party encoder anywhere
// in the retrieved pack offers a fitness advantage over the exact,
// struct-tag-ordered element names the contract demands.
package serialize

import (
	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

// Serializer turns a Document into bytes under the given Config's
// selected ExtractionUnits, SemanticRoles and Format.
type Serializer interface {
	Serialize(doc pdflayout.Document, cfg config.Config) ([]byte, error)
}

// For builds the Serializer named by cfg.Format.
func For(format config.Format) Serializer {
	switch format {
	case config.FormatJSON:
		return jsonSerializer{}
	case config.FormatTXT:
		return txtSerializer{}
	case config.FormatMarkdown:
		return markdownSerializer{}
	default:
		return xmlSerializer{}
	}
}

// Serialize is the package-level convenience entry point: serialize(doc)
// with cfg.Format selecting the back-end.
func Serialize(doc pdflayout.Document, cfg config.Config) ([]byte, error) {
	return For(cfg.Format).Serialize(doc, cfg)
}
