package serialize

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
)

func sampleDoc() pdflayout.Document {
	return pdflayout.Document{
		Pages: []pdflayout.Page{
			{Number: 1, Width: 612, Height: 792},
		},
		Paragraphs: []pdflayout.Paragraph{
			{
				Role: pdflayout.RoleBodyText,
				Text: "Hello world",
				Positions: []pdflayout.Position{
					{Page: 1, Rectangle: pdflayout.Rectangle{MinX: 0, MinY: 0, MaxX: 100, MaxY: 20}},
				},
			},
		},
	}
}

func TestFor_SelectsBackendByFormat(t *testing.T) {
	assert.IsType(t, xmlSerializer{}, For(config.FormatXML))
	assert.IsType(t, jsonSerializer{}, For(config.FormatJSON))
	assert.IsType(t, txtSerializer{}, For(config.FormatTXT))
	assert.IsType(t, markdownSerializer{}, For(config.FormatMarkdown))
}

func TestXMLSerializer_EmptyDocumentSerializesToRootElementOnly(t *testing.T) {
	cfg := config.Default()
	out, err := Serialize(pdflayout.Document{}, cfg)
	require.NoError(t, err)

	var doc xmlDocument
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Nil(t, doc.Paragraphs)
	assert.Nil(t, doc.Pages)
}

func TestXMLSerializer_ParagraphRoundTrips(t *testing.T) {
	cfg := config.Default()
	out, err := xmlSerializer{}.Serialize(sampleDoc(), cfg)
	require.NoError(t, err)

	var doc xmlDocument
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.NotNil(t, doc.Paragraphs)
	require.Len(t, doc.Paragraphs.Paragraph, 1)
	assert.Equal(t, "BODY_TEXT", doc.Paragraphs.Paragraph[0].Role)
	assert.Equal(t, "Hello world", doc.Paragraphs.Paragraph[0].Text)
}

func TestXMLSerializer_RoleFilterExcludesParagraph(t *testing.T) {
	cfg := config.Default()
	cfg.Roles = []pdflayout.SemanticRole{pdflayout.RoleHeading} // body text excluded
	out, err := xmlSerializer{}.Serialize(sampleDoc(), cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Hello world")
}

func TestXMLSerializer_WordOnlyUnitSelectionProducesTopLevelWords(t *testing.T) {
	doc := sampleDoc()
	doc.Pages[0].TextBlocks = []pdflayout.TextBlock{{
		Page: 1,
		Lines: []pdflayout.TextLine{{
			Words: []pdflayout.Word{{
				Text:       "Hi",
				Characters: []pdflayout.Character{{Page: 1, Text: "H"}, {Page: 1, Text: "i"}},
			}},
		}},
	}}

	cfg := config.Default()
	cfg.Units = []pdflayout.ExtractionUnit{pdflayout.UnitWord} // no UnitParagraph selected
	out, err := xmlSerializer{}.Serialize(doc, cfg)
	require.NoError(t, err)

	var parsed xmlDocument
	require.NoError(t, xml.Unmarshal(out, &parsed))
	assert.Nil(t, parsed.Paragraphs, "paragraph unit wasn't selected")
	require.NotNil(t, parsed.Words, "word unit alone must still produce a top-level <words> section")
	require.Len(t, parsed.Words.Word, 1)
	assert.Equal(t, "Hi", parsed.Words.Word[0].Text)
}

func TestXMLSerializer_CharacterOnlyUnitSelectionProducesTopLevelCharacters(t *testing.T) {
	doc := sampleDoc()
	doc.Pages[0].TextBlocks = []pdflayout.TextBlock{{
		Page: 1,
		Lines: []pdflayout.TextLine{{
			Words: []pdflayout.Word{{
				Text:       "Hi",
				Characters: []pdflayout.Character{{Page: 1, Text: "H"}, {Page: 1, Text: "i"}},
			}},
		}},
	}}

	cfg := config.Default()
	cfg.Units = []pdflayout.ExtractionUnit{pdflayout.UnitCharacter} // no UnitParagraph, no UnitWord selected
	out, err := xmlSerializer{}.Serialize(doc, cfg)
	require.NoError(t, err)

	var parsed xmlDocument
	require.NoError(t, xml.Unmarshal(out, &parsed))
	assert.Nil(t, parsed.Paragraphs)
	assert.Nil(t, parsed.Words, "word unit wasn't selected")
	require.NotNil(t, parsed.Characters, "character unit alone must still produce a top-level <characters> section")
	require.Len(t, parsed.Characters.Character, 2)
}

func TestJSONSerializer_ParagraphRoundTrips(t *testing.T) {
	cfg := config.Default()
	out, err := jsonSerializer{}.Serialize(sampleDoc(), cfg)
	require.NoError(t, err)

	var doc xmlDocument
	require.NoError(t, json.Unmarshal(out, &doc))
	require.NotNil(t, doc.Paragraphs)
	require.Len(t, doc.Paragraphs.Paragraph, 1)
	assert.Equal(t, "Hello world", doc.Paragraphs.Paragraph[0].Text)
}

func TestTXTSerializer_EmitsParagraphTextOnly(t *testing.T) {
	cfg := config.Default()
	out, err := txtSerializer{}.Serialize(sampleDoc(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n", string(out))
}

func TestTXTSerializer_MultipleParagraphsBlankLineSeparated(t *testing.T) {
	doc := sampleDoc()
	doc.Paragraphs = append(doc.Paragraphs, pdflayout.Paragraph{Role: pdflayout.RoleBodyText, Text: "Second paragraph"})
	cfg := config.Default()
	out, err := txtSerializer{}.Serialize(doc, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Hello world\n\nSecond paragraph\n", string(out))
}

func TestTXTSerializer_EmptyDocument(t *testing.T) {
	cfg := config.Default()
	out, err := txtSerializer{}.Serialize(pdflayout.Document{}, cfg)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarkdownSerializer_RendersTitleAsH1(t *testing.T) {
	doc := pdflayout.Document{Paragraphs: []pdflayout.Paragraph{{Role: pdflayout.RoleTitle, Text: "My Title"}}}
	cfg := config.Default()
	out, err := markdownSerializer{}.Serialize(doc, cfg)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "My Title"))
	assert.True(t, strings.Contains(string(out), "#"), "a title must render as a heading")
}

func TestBuildPositions_NilForEmptySlice(t *testing.T) {
	assert.Nil(t, buildPositions(nil))
}

func TestBuildPositions_WrapsSinglePosition(t *testing.T) {
	positions := buildPositions([]pdflayout.Position{{Page: 1, Rectangle: pdflayout.Rectangle{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}}})
	require.NotNil(t, positions)
	require.Len(t, positions.Position, 1)
	assert.Equal(t, 1, positions.Position[0].Page)
}
