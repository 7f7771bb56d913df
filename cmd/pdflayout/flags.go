package main

import (
	"strings"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
	"github.com/pdflayout/pdflayout/internal/errs"
)

var unitNames = map[string]pdflayout.ExtractionUnit{
	"character": pdflayout.UnitCharacter,
	"word":      pdflayout.UnitWord,
	"paragraph": pdflayout.UnitParagraph,
	"figure":    pdflayout.UnitFigure,
	"shape":     pdflayout.UnitShape,
	"page":      pdflayout.UnitPage,
}

var roleNames = map[string]pdflayout.SemanticRole{
	"other":           pdflayout.RoleOther,
	"abstract":        pdflayout.RoleAbstract,
	"acknowledgments": pdflayout.RoleAcknowledgments,
	"body_text":       pdflayout.RoleBodyText,
	"caption":         pdflayout.RoleCaption,
	"categories":      pdflayout.RoleCategories,
	"footnote":        pdflayout.RoleFootnote,
	"general_terms":   pdflayout.RoleGeneralTerms,
	"heading":         pdflayout.RoleHeading,
	"itemize_item":    pdflayout.RoleItemizeItem,
	"keywords":        pdflayout.RoleKeywords,
	"page_header":     pdflayout.RolePageHeader,
	"page_footer":     pdflayout.RolePageFooter,
	"reference":       pdflayout.RoleReference,
	"table":           pdflayout.RoleTable,
	"title":           pdflayout.RoleTitle,
	"formula":         pdflayout.RoleFormula,
}

func parseUnits(raw string) []pdflayout.ExtractionUnit {
	var out []pdflayout.ExtractionUnit
	for _, name := range splitCSV(raw) {
		if u, ok := unitNames[strings.ToLower(name)]; ok {
			out = append(out, u)
		}
	}
	return out
}

func parseRoles(raw string) []pdflayout.SemanticRole {
	var out []pdflayout.SemanticRole
	for _, name := range splitCSV(raw) {
		if r, ok := roleNames[strings.ToLower(name)]; ok {
			out = append(out, r)
		}
	}
	return out
}

func parseFormat(raw string) config.Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return config.FormatJSON
	case "txt":
		return config.FormatTXT
	case "markdown", "md":
		return config.FormatMarkdown
	default:
		return config.FormatXML
	}
}

// cliError carries the exit code spec.md §6 assigns to each error kind
// alongside the underlying error, for the top-level os.Exit.
type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }
func (e cliError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	if ce, ok := err.(cliError); ok {
		return ce.code
	}
	return exitUsageError
}

func exitCodeForPipelineError(err error) int {
	pe, ok := err.(*errs.Error)
	if !ok {
		return exitIOError
	}
	switch pe.Kind {
	case errs.KindParse:
		return exitParseError
	case errs.KindCancelled:
		return exitCancelled
	default:
		return exitIOError
	}
}
