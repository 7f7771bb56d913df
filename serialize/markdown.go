package serialize

import (
	"bytes"

	"github.com/ivanvanderbyl/markdown"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

// markdownSerializer is a fourth back-end beyond spec.md §4.6's xml/
// json/txt contract (SPEC_FULL.md §11), grounded directly on the
// teacher's markdown.go ToMarkdown: paragraphs are rendered by role
// (headings as H1/H2, list items as bullets, tables as fenced blocks
// since our Paragraph doesn't retain per-cell structure the way the
// teacher's Table type does) using the same
// github.com/ivanvanderbyl/markdown builder.
type markdownSerializer struct{}

func (markdownSerializer) Serialize(doc pdflayout.Document, cfg config.Config) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	if cfg.HasUnit(pdflayout.UnitParagraph) {
		for _, p := range doc.Paragraphs {
			if !cfg.HasRole(p.Role) {
				continue
			}
			renderParagraph(md, p)
		}
	}

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderParagraph(md *markdown.Markdown, p pdflayout.Paragraph) {
	switch p.Role {
	case pdflayout.RoleTitle:
		md.H1(p.Text)
	case pdflayout.RoleHeading:
		md.H2(p.Text)
	case pdflayout.RoleItemizeItem:
		md.BulletList(p.Text)
	case pdflayout.RoleTable:
		md.CodeBlocks(markdown.SyntaxHighlightNone, p.Text)
	case pdflayout.RolePageHeader, pdflayout.RolePageFooter:
		return
	default:
		md.PlainText(p.Text)
	}
	md.LF()
}
