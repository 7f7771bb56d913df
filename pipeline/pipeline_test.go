package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/observer"
)

func TestForEachPage_RunsFnForEveryPage(t *testing.T) {
	pages := []pdflayout.Page{{Number: 1}, {Number: 2}, {Number: 3}}
	var mu sync.Mutex
	var touched []int

	forEachPage(pages, nil, observer.Noop{}, "test", func(p *pdflayout.Page) {
		p.Width = float64(p.Number) * 10
		mu.Lock()
		touched = append(touched, p.Number)
		mu.Unlock()
	})

	assert.Len(t, touched, 3)
	for _, p := range pages {
		assert.Equal(t, float64(p.Number)*10, p.Width)
	}
}

func TestForEachPage_CancellationBeforeFirstPageSkipsAllPages(t *testing.T) {
	pages := []pdflayout.Page{{Number: 1}, {Number: 2}, {Number: 3}}
	calls := 0
	cancelled := func() bool { return true }

	forEachPage(pages, cancelled, observer.Noop{}, "test", func(p *pdflayout.Page) {
		calls++
	})

	assert.Equal(t, 0, calls, "cancellation observed before the first page must skip all of them")
}

func TestForEachPage_NilCancelledNeverSkips(t *testing.T) {
	pages := []pdflayout.Page{{Number: 1}, {Number: 2}}
	count := 0
	forEachPage(pages, nil, observer.Noop{}, "test", func(p *pdflayout.Page) { count++ })
	assert.Equal(t, 2, count)
}

func TestAllBlocks_FlattensAcrossPages(t *testing.T) {
	doc := pdflayout.Document{Pages: []pdflayout.Page{
		{TextBlocks: []pdflayout.TextBlock{{}, {}}},
		{TextBlocks: []pdflayout.TextBlock{{}}},
	}}
	assert.Len(t, allBlocks(doc), 3)
}

func TestDocumentMetric_CountsWordsAndCharacters(t *testing.T) {
	doc := pdflayout.Document{
		Pages: []pdflayout.Page{{
			TextBlocks: []pdflayout.TextBlock{{
				Lines: []pdflayout.TextLine{{
					Words: []pdflayout.Word{
						{Characters: []pdflayout.Character{{}, {}}},
						{Characters: []pdflayout.Character{{}}},
					},
				}},
			}},
		}},
		Paragraphs: []pdflayout.Paragraph{{}},
	}

	m := documentMetric(doc, 0)
	assert.Equal(t, 1, m.Pages)
	assert.Equal(t, 1, m.Paragraphs)
	assert.Equal(t, 1, m.TextBlocks)
	assert.Equal(t, 2, m.Words)
	assert.Equal(t, 3, m.Characters)
}
