package semantic

import (
	"github.com/google/uuid"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/tabledetect"
)

// Module is a single semantic pass over a Document, invoked in
// registration order (spec.md §4.5, §9's "avoid runtime reflection, a
// static table is sufficient").
type Module interface {
	Name() string
	Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error
}

// DefaultRegistry returns the fixed module order spec.md §4.5 mandates:
// title -> (table, if enabled) -> heading -> section-range modules ->
// caption -> footnote -> header/footer -> body fallback. detectTables
// mirrors config.Config.DetectTables (SPEC_FULL.md §12's supplemented
// feature toggle).
func DefaultRegistry(detectTables bool) []Module {
	modules := []Module{titleModule{}}
	if detectTables {
		modules = append(modules, tableModule{})
	}
	return append(modules,
		headingModule{},
		sectionModule{role: pdflayout.RoleAbstract},
		sectionModule{role: pdflayout.RoleCategories},
		sectionModule{role: pdflayout.RoleKeywords},
		sectionModule{role: pdflayout.RoleGeneralTerms},
		sectionModule{role: pdflayout.RoleAcknowledgments},
		sectionModule{role: pdflayout.RoleReference},
		captionModule{},
		footnoteModule{},
		headerFooterModule{},
		bodyModule{},
	)
}

type titleModule struct{}

func (titleModule) Name() string { return "title" }

// Semanticize promotes the page-1 block hinted RoleTitle to primary role
// TITLE, first-seen only (spec.md: Title is a single-pass classifier).
func (titleModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		if block.Role == pdflayout.RoleOther && block.SecondaryRole == pdflayout.RoleTitle {
			a.SetRole(ref, pdflayout.RoleTitle, moduleID)
		}
	}
	return nil
}

// tableModule promotes TextBlocks exhibiting tabledetect's recurring
// multi-column word alignment to primary role TABLE. It runs early in
// the registry, right after titleModule, so that rows of a table are
// never mistaken for heading-like blocks by a later module and so that
// the mutation goes through RoleAssignment like every other module's
// does (spec.md §3's Lifecycle invariant: only the Semanticizer mutates
// TextBlock.Role, and always with rollback history).
type tableModule struct{}

func (tableModule) Name() string { return "table" }

func (tableModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	settings := tabledetect.DefaultSettings()
	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		if block.Role != pdflayout.RoleOther {
			continue
		}
		if tabledetect.IsTable(block, settings) {
			a.SetRole(ref, pdflayout.RoleTable, moduleID)
		}
	}
	return nil
}

type headingModule struct{}

func (headingModule) Name() string { return "heading" }

// Semanticize promotes every heading-hinted block (generic HEADING hint,
// or a section-keyword hint since matching a keyword implies the block
// is itself heading-like) to primary role HEADING.
func (headingModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		if block.Role != pdflayout.RoleOther {
			continue
		}
		if headingLikeRoles[block.SecondaryRole] {
			a.SetRole(ref, pdflayout.RoleHeading, moduleID)
		}
	}
	return nil
}

// sectionModule implements the shared OUT/IN state-machine pattern
// spec.md §4.5 specifies for the section-range modules (abstract,
// categories, keywords, general-terms, acknowledgments, references).
type sectionModule struct {
	role pdflayout.SemanticRole
}

func (m sectionModule) Name() string { return "section:" + m.role.String() }

func (m sectionModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	state := "OUT"
	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		r, s := block.Role, block.SecondaryRole

		// End-of-section check runs before the start-of-section check
		// within the same block (spec.md §4.5's ordering subtlety).
		if state == "IN" {
			if r == pdflayout.RoleHeading {
				state = "OUT"
			} else {
				a.SetRole(ref, m.role, moduleID)
			}
		}

		if r == pdflayout.RoleHeading && s == m.role {
			state = "IN"
		}
	}
	return nil
}

type captionModule struct{}

func (captionModule) Name() string { return "caption" }

func (captionModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		if block.Role == pdflayout.RoleOther && block.SecondaryRole == pdflayout.RoleCaption {
			a.SetRole(ref, pdflayout.RoleCaption, moduleID)
		}
	}
	return nil
}

type footnoteModule struct{}

func (footnoteModule) Name() string { return "footnote" }

// footnoteFontRatio is how much smaller than the body font a block's
// average font size must be, inside the footer zone, to be a footnote
// rather than a running footer.
const footnoteFontRatio = 0.85

func (footnoteModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	bodySize := modalFontSize(doc)
	for pi, page := range doc.Pages {
		if page.Height <= 0 {
			continue
		}
		zone := page.Height * headerFooterZoneFraction
		for bi, block := range page.TextBlocks {
			if block.Role != pdflayout.RoleOther {
				continue
			}
			if block.Box.MaxY > zone {
				continue
			}
			if bodySize > 0 && block.CharStats.AverageFontSize < bodySize*footnoteFontRatio {
				a.SetRole(BlockRef{Page: pi, Block: bi}, pdflayout.RoleFootnote, moduleID)
			}
		}
	}
	return nil
}

type headerFooterModule struct{}

func (headerFooterModule) Name() string { return "header_footer" }

func (headerFooterModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	for pi, page := range doc.Pages {
		if page.Height <= 0 {
			continue
		}
		topZone := page.Height * (1 - headerFooterZoneFraction)
		bottomZone := page.Height * headerFooterZoneFraction
		for bi, block := range page.TextBlocks {
			if block.Role != pdflayout.RoleOther {
				continue
			}
			ref := BlockRef{Page: pi, Block: bi}
			switch {
			case block.Box.MinY >= topZone:
				a.SetRole(ref, pdflayout.RolePageHeader, moduleID)
			case block.Box.MaxY <= bottomZone:
				a.SetRole(ref, pdflayout.RolePageFooter, moduleID)
			}
		}
	}
	return nil
}

type bodyModule struct{}

func (bodyModule) Name() string { return "body" }

func (bodyModule) Semanticize(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) error {
	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		if block.Role == pdflayout.RoleOther {
			a.SetRole(ref, pdflayout.RoleBodyText, moduleID)
		}
	}
	return nil
}
