package semantic

import (
	"github.com/google/uuid"

	"github.com/pdflayout/pdflayout"
)

// BlockRef addresses a single TextBlock within a Document by page and
// block index, both stable for the lifetime of a Semanticizer run (no
// stage after Block Tokenization adds or removes blocks).
type BlockRef struct {
	Page  int
	Block int
}

type change struct {
	ref          BlockRef
	oldRole      pdflayout.SemanticRole
	oldSecondary pdflayout.SemanticRole
	hadSecondary bool
	moduleID     uuid.UUID
}

// RoleAssignment is the sole path by which Modules mutate TextBlock role
// fields (spec.md §9's design note): every mutation is recorded so a
// failed module's effects can be rolled back to the state before it ran
// (spec.md §7's ModuleFailure recovery).
type RoleAssignment struct {
	doc     *pdflayout.Document
	history []change
}

// NewRoleAssignment wraps doc for role mutation under the given facade.
func NewRoleAssignment(doc *pdflayout.Document) *RoleAssignment {
	return &RoleAssignment{doc: doc}
}

// Block returns the current value of the referenced TextBlock.
func (a *RoleAssignment) Block(ref BlockRef) pdflayout.TextBlock {
	return a.doc.Pages[ref.Page].TextBlocks[ref.Block]
}

// SetRole assigns a new primary role to the referenced block, recording
// the prior role under moduleID for later rollback.
func (a *RoleAssignment) SetRole(ref BlockRef, role pdflayout.SemanticRole, moduleID uuid.UUID) {
	block := &a.doc.Pages[ref.Page].TextBlocks[ref.Block]
	a.history = append(a.history, change{
		ref:          ref,
		oldRole:      block.Role,
		oldSecondary: block.SecondaryRole,
		hadSecondary: block.HasSecondaryRole(),
		moduleID:     moduleID,
	})
	block.Role = role
}

// SetSecondaryRole assigns a secondary role hint, recording the prior
// value under moduleID for later rollback.
func (a *RoleAssignment) SetSecondaryRole(ref BlockRef, role pdflayout.SemanticRole, moduleID uuid.UUID) {
	block := &a.doc.Pages[ref.Page].TextBlocks[ref.Block]
	a.history = append(a.history, change{
		ref:          ref,
		oldRole:      block.Role,
		oldSecondary: block.SecondaryRole,
		hadSecondary: block.HasSecondaryRole(),
		moduleID:     moduleID,
	})
	*block = block.WithSecondaryRole(role)
}

// Rollback undoes every mutation recorded under moduleID, in reverse
// order, restoring each touched block to its pre-module state. A block
// that a different module changed after moduleID did is left as that
// later module set it.
func (a *RoleAssignment) Rollback(moduleID uuid.UUID) {
	changedLater := make(map[BlockRef]bool)
	for i := len(a.history) - 1; i >= 0; i-- {
		c := a.history[i]
		if c.moduleID != moduleID {
			changedLater[c.ref] = true
			continue
		}
		if changedLater[c.ref] {
			continue
		}
		block := &a.doc.Pages[c.ref.Page].TextBlocks[c.ref.Block]
		block.Role = c.oldRole
		if c.hadSecondary {
			*block = block.WithSecondaryRole(c.oldSecondary)
		} else {
			*block = pdflayout.TextBlock{ID: block.ID, Page: block.Page, Lines: block.Lines, Box: block.Box,
				CharStats: block.CharStats, LinePitchStats: block.LinePitchStats, Text: block.Text, Role: block.Role}
		}
	}
	kept := a.history[:0]
	for _, c := range a.history {
		if c.moduleID != moduleID {
			kept = append(kept, c)
		}
	}
	a.history = kept
}

// AllRefs returns a BlockRef for every TextBlock in the Document, in
// page order then block order, matching the Character Producer's
// reading order (spec.md §5).
func AllRefs(doc *pdflayout.Document) []BlockRef {
	var refs []BlockRef
	for pi, p := range doc.Pages {
		for bi := range p.TextBlocks {
			refs = append(refs, BlockRef{Page: pi, Block: bi})
		}
	}
	return refs
}
