// Package config holds the tunable knobs for the pdflayout pipeline, in
// the style of the teacher's converter.go Config/DefaultConfig pair.
package config

import "github.com/pdflayout/pdflayout"

// Format selects a Serializer backend.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
	FormatTXT
	// FormatMarkdown is an additional backend beyond spec.md's xml/json/txt
	// contract (see SPEC_FULL.md §11); it is never the default.
	FormatMarkdown
)

// Config controls both layout analysis and serialization.
type Config struct {
	// Block tokenizer tunables (spec.md §4.2 — "part of the contract and
	// must be configurable but default as given").
	LinePitchSlack         float64 // rule 5: actual-expected > this -> new block. Default 1.5
	LinePitchHeightFactor  float64 // rule 5 fallback: actual > factor*line.height. Default 3
	PitchDeltaSlack        float64 // rule 6: pitchToPrev - pitchToNext > this. Default 1
	IndentSlack            float64 // rule 7 isIndented threshold. Default 1
	ReferenceStartSlack    float64 // rule 9 isProbablyReferenceStart threshold. Default 0.5
	WhitespaceFallbackFrac float64 // word-gap fallback: 0.25 * font size. Default 0.25

	// Serializer selection (spec.md §6 CLI surface).
	Units  []pdflayout.ExtractionUnit
	Roles  []pdflayout.SemanticRole
	Format Format

	// Pipeline behavior.
	DetectTables         bool // supplemented feature, SPEC_FULL.md §12
	MaxPageConcurrency   int  // not read by the pipeline; per-page stages run one goroutine per page
	EnableMetricsLogging bool
}

// Default returns the pipeline defaults: the five block-tokenizer
// constants at the values spec.md §4.2 mandates, XML output of all units
// and all roles, and table detection on (matching the teacher's own
// DetectTables default).
func Default() Config {
	return Config{
		LinePitchSlack:         1.5,
		LinePitchHeightFactor:  3,
		PitchDeltaSlack:        1,
		IndentSlack:            1,
		ReferenceStartSlack:    0.5,
		WhitespaceFallbackFrac: 0.25,
		Units: []pdflayout.ExtractionUnit{
			pdflayout.UnitCharacter, pdflayout.UnitWord, pdflayout.UnitParagraph,
			pdflayout.UnitFigure, pdflayout.UnitShape, pdflayout.UnitPage,
		},
		Roles:                allRoles(),
		Format:               FormatXML,
		DetectTables:         true,
		EnableMetricsLogging: false,
	}
}

func allRoles() []pdflayout.SemanticRole {
	return []pdflayout.SemanticRole{
		pdflayout.RoleAbstract, pdflayout.RoleAcknowledgments, pdflayout.RoleBodyText,
		pdflayout.RoleCaption, pdflayout.RoleCategories, pdflayout.RoleFootnote,
		pdflayout.RoleGeneralTerms, pdflayout.RoleHeading, pdflayout.RoleItemizeItem,
		pdflayout.RoleKeywords, pdflayout.RolePageHeader, pdflayout.RolePageFooter,
		pdflayout.RoleReference, pdflayout.RoleTable, pdflayout.RoleTitle,
		pdflayout.RoleFormula, pdflayout.RoleOther,
	}
}

// HasUnit reports whether u is in the selected extraction units.
func (c Config) HasUnit(u pdflayout.ExtractionUnit) bool {
	for _, x := range c.Units {
		if x == u {
			return true
		}
	}
	return false
}

// HasRole reports whether r is in the selected semantic roles.
func (c Config) HasRole(r pdflayout.SemanticRole) bool {
	for _, x := range c.Roles {
		if x == r {
			return true
		}
	}
	return false
}
