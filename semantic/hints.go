package semantic

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pdflayout/pdflayout"
)

// headerFooterZoneFraction is the top/bottom fraction of page height treated
// as a header/footer candidate zone (spec.md §4.5: "top/bottom 10%").
const headerFooterZoneFraction = 0.10

// headingFontSizeRatio is how much larger than the body font size a
// block's average font size must be to qualify as heading-like.
const headingFontSizeRatio = 1.15

// captionAdjacency is the maximum vertical gap, in points, between a
// block and a Figure/Shape for the block to be considered its caption.
const captionAdjacency = 24.0

var sectionKeywords = map[string]pdflayout.SemanticRole{
	"abstract":                       pdflayout.RoleAbstract,
	"categories and subject descriptors": pdflayout.RoleCategories,
	"categories":                     pdflayout.RoleCategories,
	"keywords":                       pdflayout.RoleKeywords,
	"general terms":                  pdflayout.RoleGeneralTerms,
	"acknowledgments":                pdflayout.RoleAcknowledgments,
	"acknowledgements":               pdflayout.RoleAcknowledgments,
	"references":                     pdflayout.RoleReference,
	"bibliography":                   pdflayout.RoleReference,
}

// headingLikeRoles are the secondary-role hints a block can carry that
// mark it as heading-like, consumed by headingModule to assign the
// primary HEADING role before section-range modules run.
var headingLikeRoles = map[pdflayout.SemanticRole]bool{
	pdflayout.RoleHeading:         true,
	pdflayout.RoleAbstract:        true,
	pdflayout.RoleCategories:      true,
	pdflayout.RoleKeywords:        true,
	pdflayout.RoleGeneralTerms:    true,
	pdflayout.RoleAcknowledgments: true,
	pdflayout.RoleReference:       true,
}

// ComputeHints runs the font-size/position/keyword heuristics spec.md
// §4.5 describes as producing the optional secondary-role hints the
// Semanticizer's modules consume. It never touches primary Role.
func ComputeHints(doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) {
	bodySize := modalFontSize(doc)
	titleAssigned := false

	for _, ref := range AllRefs(doc) {
		block := a.Block(ref)
		page := doc.Pages[ref.Page]

		if isHeadingLike(block, bodySize) {
			hint := pdflayout.RoleHeading
			if kw, ok := matchSectionKeyword(block.Text); ok {
				hint = kw
			} else if !titleAssigned && ref.Page == 0 {
				hint = pdflayout.RoleTitle
				titleAssigned = true
			}
			a.SetSecondaryRole(ref, hint, moduleID)
			continue
		}

		if isNearFigureOrShape(block, page) {
			a.SetSecondaryRole(ref, pdflayout.RoleCaption, moduleID)
		}
	}
}

func isHeadingLike(block pdflayout.TextBlock, bodySize float64) bool {
	if bodySize <= 0 {
		return false
	}
	if len(block.Lines) > 2 {
		return false
	}
	return block.CharStats.AverageFontSize >= bodySize*headingFontSizeRatio
}

func matchSectionKeyword(text string) (pdflayout.SemanticRole, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	for kw, role := range sectionKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return role, true
		}
	}
	return pdflayout.RoleOther, false
}

func isNearFigureOrShape(block pdflayout.TextBlock, page pdflayout.Page) bool {
	for _, f := range page.Figures {
		if verticallyAdjacent(block.Box, f.Position.Rectangle) {
			return true
		}
	}
	for _, s := range page.Shapes {
		if verticallyAdjacent(block.Box, s.Position.Rectangle) {
			return true
		}
	}
	return false
}

func verticallyAdjacent(a, b pdflayout.Rectangle) bool {
	if !a.OverlapsHorizontally(b) {
		return false
	}
	gapAbove := a.MinY - b.MaxY
	gapBelow := b.MinY - a.MaxY
	return (gapAbove >= 0 && gapAbove <= captionAdjacency) || (gapBelow >= 0 && gapBelow <= captionAdjacency)
}

// modalFontSize returns the document's most common block-level average
// font size, used as the body-text baseline for heading-like detection.
func modalFontSize(doc *pdflayout.Document) float64 {
	counts := make(map[float64]int)
	var order []float64
	for _, p := range doc.Pages {
		for _, b := range p.TextBlocks {
			size := b.CharStats.AverageFontSize
			if size <= 0 {
				continue
			}
			if _, seen := counts[size]; !seen {
				order = append(order, size)
			}
			counts[size]++
		}
	}
	if len(order) == 0 {
		return 0
	}
	best := order[0]
	for _, s := range order {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
