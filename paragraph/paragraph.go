// Package paragraph implements the Paragraph Assembler (spec.md §4.3):
// joining consecutive TextBlocks, across page boundaries, into Paragraphs
// when typographic and semantic continuity holds, with a dehyphenation
// policy for blocks split mid-word.
//
// Grounded on the teacher's structure.go paragraph-building shape, and on
// the hyphen signal the teacher extracts but never consumes
// (extract.go's EnrichedChar.IsHyphen, sourced from pdfium's
// FPDFText_IsHyphen) — this module is the first to act on it.
package paragraph

import (
	"strings"
	"unicode"

	"github.com/pdflayout/pdflayout"
)

// Dictionary reports whether a word is a known word, used by the
// dehyphenation policy (spec.md §4.3: "the concatenation appears in a
// supplied dictionary"). A nil Dictionary is treated as always returning
// false, so dehyphenation then falls back to the hyphen-preceded-by-digit
// check alone.
type Dictionary interface {
	Contains(word string) bool
}

// Assemble merges TextBlocks, across pages, into Paragraphs. blocks must
// be supplied in document reading order (spec.md §5's ordering guarantee).
func Assemble(blocks []pdflayout.TextBlock, dict Dictionary) []pdflayout.Paragraph {
	var paragraphs []pdflayout.Paragraph
	var current *pdflayout.Paragraph

	for i, block := range blocks {
		if current == nil {
			p := newParagraph(block)
			current = &p
			continue
		}

		if continues(blocks[i-1], block, dict) {
			mergeInto(current, block, blocks[i-1], dict)
			continue
		}

		paragraphs = append(paragraphs, *current)
		p := newParagraph(block)
		current = &p
	}
	if current != nil {
		paragraphs = append(paragraphs, *current)
	}
	return paragraphs
}

// continues reports whether `next` continues the paragraph ending at
// `prev`, per spec.md §4.3: same primary role, or a hyphen continuation —
// the last word of `prev` ends in a hyphen and the first word of `next`
// starts lowercase. Whether the merged text strips that hyphen is a
// separate decision, made by dehyphenates() inside mergeInto.
func continues(prev, next pdflayout.TextBlock, dict Dictionary) bool {
	if prev.Role == next.Role {
		return true
	}
	return hasHyphenShape(prev, next)
}

func hasHyphenShape(prev, next pdflayout.TextBlock) bool {
	lastWord := lastWordOf(prev)
	firstWord := firstWordOf(next)
	if lastWord == "" || firstWord == "" {
		return false
	}
	if !strings.HasSuffix(lastWord, "-") {
		return false
	}
	firstRune := []rune(firstWord)[0]
	return unicode.IsLower(firstRune)
}

// dehyphenates implements spec.md §4.3's dehyphenation policy: once a
// hyphen continuation has already been established by hasHyphenShape,
// this decides whether the merged text strips the hyphen (concatenation
// is a known dictionary word, or the hyphen isn't preceded by a digit) or
// preserves it literally.
func dehyphenates(lastWord, firstWord string, dict Dictionary) bool {
	stem := strings.TrimSuffix(lastWord, "-")
	if stem == "" {
		return true // hyphen not preceded by anything, let alone a digit
	}
	combined := stem + firstWord
	if dict != nil && dict.Contains(combined) {
		return true
	}
	lastRune := []rune(stem)[len([]rune(stem))-1]
	return !unicode.IsDigit(lastRune)
}

func lastWordOf(b pdflayout.TextBlock) string {
	if len(b.Lines) == 0 {
		return ""
	}
	line := b.Lines[len(b.Lines)-1]
	if len(line.Words) == 0 {
		return ""
	}
	return line.Words[len(line.Words)-1].Text
}

func firstWordOf(b pdflayout.TextBlock) string {
	if len(b.Lines) == 0 {
		return ""
	}
	line := b.Lines[0]
	if len(line.Words) == 0 {
		return ""
	}
	return line.Words[0].Text
}

func newParagraph(block pdflayout.TextBlock) pdflayout.Paragraph {
	var words []pdflayout.Word
	for _, l := range block.Lines {
		words = append(words, l.Words...)
	}
	return pdflayout.Paragraph{
		Words:     words,
		Positions: []pdflayout.Position{{Page: block.Page, Rectangle: block.Box}},
		Role:      block.Role,
		Text:      block.Text,
	}
}

func mergeInto(p *pdflayout.Paragraph, block pdflayout.TextBlock, prevBlock pdflayout.TextBlock, dict Dictionary) {
	words := blockWords(block)

	if hasHyphenShape(prevBlock, block) && len(p.Words) > 0 && len(words) > 0 {
		lastWord := p.Words[len(p.Words)-1].Text
		if dehyphenates(lastWord, words[0].Text, dict) {
			lastIdx := len(p.Words) - 1
			stem := strings.TrimSuffix(p.Words[lastIdx].Text, "-")
			p.Words[lastIdx].Text = stem + words[0].Text
			p.Text = strings.TrimSuffix(strings.TrimRight(p.Text, " "), "-") + words[0].Text
			words = words[1:]
		}
	}

	for _, w := range words {
		p.Text += " " + w.Text
	}
	p.Words = append(p.Words, words...)
	p.Positions = append(p.Positions, pdflayout.Position{Page: block.Page, Rectangle: block.Box})
}

func blockWords(b pdflayout.TextBlock) []pdflayout.Word {
	var words []pdflayout.Word
	for _, l := range b.Lines {
		words = append(words, l.Words...)
	}
	return words
}
