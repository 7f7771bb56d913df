package semantic

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/observer"
)

func textBlock(page int, role pdflayout.SemanticRole, avgSize float64, text string, box pdflayout.Rectangle) pdflayout.TextBlock {
	return pdflayout.TextBlock{
		Page:      page,
		Role:      role,
		Text:      text,
		Box:       box,
		CharStats: pdflayout.CharacterStatistic{AverageFontSize: avgSize},
		Lines:     []pdflayout.TextLine{{}},
	}
}

func TestRoleAssignment_SetRoleAndRollback(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{
		{TextBlocks: []pdflayout.TextBlock{textBlock(1, pdflayout.RoleOther, 10, "x", pdflayout.Rectangle{})}},
	}}
	a := NewRoleAssignment(doc)
	ref := BlockRef{Page: 0, Block: 0}
	moduleID := uuid.New()

	a.SetRole(ref, pdflayout.RoleHeading, moduleID)
	assert.Equal(t, pdflayout.RoleHeading, a.Block(ref).Role)

	a.Rollback(moduleID)
	assert.Equal(t, pdflayout.RoleOther, a.Block(ref).Role, "rollback must restore the pre-module role")
}

func TestRoleAssignment_RollbackOnlyUndoesOwnModule(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{
		{TextBlocks: []pdflayout.TextBlock{textBlock(1, pdflayout.RoleOther, 10, "x", pdflayout.Rectangle{})}},
	}}
	a := NewRoleAssignment(doc)
	ref := BlockRef{Page: 0, Block: 0}
	moduleA, moduleB := uuid.New(), uuid.New()

	a.SetRole(ref, pdflayout.RoleHeading, moduleA)
	a.SetRole(ref, pdflayout.RoleTitle, moduleB)
	a.Rollback(moduleA)

	assert.Equal(t, pdflayout.RoleTitle, a.Block(ref).Role, "rolling back an earlier module must not touch a later module's change")
}

func TestRoleAssignment_SecondaryRoleRollbackRestoresHadSecondaryFalse(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{
		{TextBlocks: []pdflayout.TextBlock{textBlock(1, pdflayout.RoleOther, 10, "x", pdflayout.Rectangle{})}},
	}}
	a := NewRoleAssignment(doc)
	ref := BlockRef{Page: 0, Block: 0}
	moduleID := uuid.New()

	require.False(t, a.Block(ref).HasSecondaryRole())
	a.SetSecondaryRole(ref, pdflayout.RoleCaption, moduleID)
	assert.True(t, a.Block(ref).HasSecondaryRole())

	a.Rollback(moduleID)
	assert.False(t, a.Block(ref).HasSecondaryRole())
}

func TestAllRefs_PageThenBlockOrder(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{
		{TextBlocks: []pdflayout.TextBlock{{}, {}}},
		{TextBlocks: []pdflayout.TextBlock{{}}},
	}}
	refs := AllRefs(doc)
	assert.Equal(t, []BlockRef{{Page: 0, Block: 0}, {Page: 0, Block: 1}, {Page: 1, Block: 0}}, refs)
}

func TestSectionModule_AssignsRangeBetweenHeadingAndNextHeading(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{
		{Role: pdflayout.RoleHeading, SecondaryRole: pdflayout.RoleAbstract},
		{Role: pdflayout.RoleOther},
		{Role: pdflayout.RoleOther},
		{Role: pdflayout.RoleHeading},
		{Role: pdflayout.RoleOther},
	}}}}
	a := NewRoleAssignment(doc)
	moduleID := uuid.New()

	m := sectionModule{role: pdflayout.RoleAbstract}
	require.NoError(t, m.Semanticize(doc, a, moduleID))

	assert.Equal(t, pdflayout.RoleAbstract, doc.Pages[0].TextBlocks[1].Role)
	assert.Equal(t, pdflayout.RoleAbstract, doc.Pages[0].TextBlocks[2].Role)
	assert.Equal(t, pdflayout.RoleHeading, doc.Pages[0].TextBlocks[3].Role, "a new heading must close the section")
	assert.Equal(t, pdflayout.RoleOther, doc.Pages[0].TextBlocks[4].Role, "blocks after the section closes must be untouched")
}

func TestHeadingModule_PromotesHeadingLikeHintedBlocks(t *testing.T) {
	hinted := pdflayout.TextBlock{Role: pdflayout.RoleOther}.WithSecondaryRole(pdflayout.RoleHeading)
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{hinted}}}}
	a := NewRoleAssignment(doc)
	require.NoError(t, headingModule{}.Semanticize(doc, a, uuid.New()))
	assert.Equal(t, pdflayout.RoleHeading, doc.Pages[0].TextBlocks[0].Role)
}

func TestBodyModule_FallsBackEveryRemainingOtherBlock(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{
		{Role: pdflayout.RoleOther}, {Role: pdflayout.RoleHeading},
	}}}}
	a := NewRoleAssignment(doc)
	require.NoError(t, bodyModule{}.Semanticize(doc, a, uuid.New()))
	assert.Equal(t, pdflayout.RoleBodyText, doc.Pages[0].TextBlocks[0].Role)
	assert.Equal(t, pdflayout.RoleHeading, doc.Pages[0].TextBlocks[1].Role, "an already-assigned role must never be reconsidered")
}

func TestComputeHints_HeadingLikeBlockGetsSectionKeywordHint(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{
		textBlock(1, pdflayout.RoleOther, 20, "Abstract", pdflayout.Rectangle{}),
		textBlock(1, pdflayout.RoleOther, 10, "Body text at normal size", pdflayout.Rectangle{}),
		textBlock(1, pdflayout.RoleOther, 10, "More body text at normal size", pdflayout.Rectangle{}),
	}}}}
	a := NewRoleAssignment(doc)
	ComputeHints(doc, a, uuid.New())

	assert.Equal(t, pdflayout.RoleAbstract, a.Block(BlockRef{Page: 0, Block: 0}).SecondaryRole)
}

func TestRun_BodyFallbackAssignsRemainingBlocks(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{
		textBlock(1, pdflayout.RoleOther, 10, "plain body text", pdflayout.Rectangle{}),
	}}}}
	err := Run(doc, true, observer.Noop{}, nil)
	require.NoError(t, err)
	assert.Equal(t, pdflayout.RoleBodyText, doc.Pages[0].TextBlocks[0].Role, "the body fallback module must still run to completion")
}

func TestRun_CancelledBetweenModules(t *testing.T) {
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{
		textBlock(1, pdflayout.RoleOther, 10, "x", pdflayout.Rectangle{}),
	}}}}
	err := Run(doc, true, observer.Noop{}, func() bool { return true })
	require.Error(t, err)
}

func TestTableModule_PromotesQualifyingBlockToTable(t *testing.T) {
	rowLine := func(xs ...float64) pdflayout.TextLine {
		var words []pdflayout.Word
		for _, x := range xs {
			words = append(words, pdflayout.Word{Box: pdflayout.Rectangle{MinX: x, MaxX: x + 10}})
		}
		return pdflayout.TextLine{Words: words}
	}
	block := pdflayout.TextBlock{
		Role: pdflayout.RoleOther,
		Lines: []pdflayout.TextLine{
			rowLine(0, 50, 100),
			rowLine(0, 50, 100),
			rowLine(0, 50, 100),
		},
	}
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{block}}}}
	a := NewRoleAssignment(doc)
	require.NoError(t, tableModule{}.Semanticize(doc, a, uuid.New()))
	assert.Equal(t, pdflayout.RoleTable, doc.Pages[0].TextBlocks[0].Role)
}

func TestTableModule_LeavesNonTableBlocksAlone(t *testing.T) {
	block := pdflayout.TextBlock{Role: pdflayout.RoleOther, Lines: []pdflayout.TextLine{{}}}
	doc := &pdflayout.Document{Pages: []pdflayout.Page{{TextBlocks: []pdflayout.TextBlock{block}}}}
	a := NewRoleAssignment(doc)
	require.NoError(t, tableModule{}.Semanticize(doc, a, uuid.New()))
	assert.Equal(t, pdflayout.RoleOther, doc.Pages[0].TextBlocks[0].Role)
}

func TestTableModule_RegisteredBeforeHeadingModule(t *testing.T) {
	registry := DefaultRegistry(true)
	require.True(t, len(registry) >= 2)
	assert.Equal(t, "title", registry[0].Name())
	assert.Equal(t, "table", registry[1].Name())
}

func TestDefaultRegistry_DetectTablesFalseOmitsTableModule(t *testing.T) {
	for _, m := range DefaultRegistry(false) {
		assert.NotEqual(t, "table", m.Name())
	}
}
