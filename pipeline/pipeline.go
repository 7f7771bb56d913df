// Package pipeline wires the Character Producer, Line Tokenizer, Block
// Tokenizer, Semanticizer (which also runs table detection as a
// Module), Paragraph Assembler, Statistician and Serializer together in
// the runtime order
// SPEC_FULL.md §13's Open Question decision #4 settles on, with the
// cancellation checkpoints and per-page/per-module recovery policy
// spec.md §5/§7 describe.
//
// Grounded on the teacher's converter.go Converter/ConvertFile/
// convertDocument shape: per-page timing collected into a metrics
// struct, logged through an injected Observer instead of converter.go's
// direct log.Printf (spec.md §9's design note), generalized from a
// single markdown-output call to the full multi-stage, multi-format
// pipeline. Per-page fan-out uses the standard library (sync.WaitGroup
// plus index-addressed slices) rather than a third-party concurrency
// helper — no example repo in the retrieved pack imports one.
package pipeline

import (
	"sync"
	"time"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/blocktok"
	"github.com/pdflayout/pdflayout/config"
	"github.com/pdflayout/pdflayout/internal/errs"
	"github.com/pdflayout/pdflayout/linetok"
	"github.com/pdflayout/pdflayout/observer"
	"github.com/pdflayout/pdflayout/paragraph"
	"github.com/pdflayout/pdflayout/producer"
	"github.com/pdflayout/pdflayout/semantic"
	"github.com/pdflayout/pdflayout/serialize"
	"github.com/pdflayout/pdflayout/statistics"
)

// Dictionary is re-exported so callers don't need to import paragraph
// directly just to supply one.
type Dictionary = paragraph.Dictionary

// Options bundles the knobs a Run call needs beyond Config: the page
// range to extract and an optional dictionary for dehyphenation.
type Options struct {
	StartPage int // 0-indexed; <0 means "from the first page"
	EndPage   int // 0-indexed inclusive; <0 means "through the last page"
	Dict      Dictionary
	Cancelled func() bool
}

// Run executes the complete pipeline against pdfBytes and returns the
// serialized bytes selected by cfg. obs receives diagnostics and a
// final DocumentMetric; a nil obs is treated as Noop.
func Run(pdfBytes []byte, cfg config.Config, opts Options, obs observer.Observer) ([]byte, error) {
	if obs == nil {
		obs = observer.Noop{}
	}
	start := time.Now()

	doc, err := extract(pdfBytes, opts, obs)
	if err != nil {
		return nil, err
	}

	if opts.Cancelled != nil && opts.Cancelled() {
		return nil, errs.Cancelled("cancelled after extraction")
	}

	analyze(&doc, cfg, opts, obs)

	if err := semantic.Run(&doc, cfg.DetectTables, obs, opts.Cancelled); err != nil {
		return nil, err
	}

	doc.Paragraphs = paragraph.Assemble(allBlocks(doc), opts.Dict)
	doc.Stats = statistics.Document(doc.Pages)

	out, err := serialize.Serialize(doc, cfg)
	if err != nil {
		return nil, errs.IOError("failed to serialize document", err)
	}

	obs.OnMetric(documentMetric(doc, time.Since(start)))
	return out, nil
}

func extract(pdfBytes []byte, opts Options, obs observer.Observer) (pdflayout.Document, error) {
	pool, err := producer.OpenPool()
	if err != nil {
		return pdflayout.Document{}, err
	}
	defer pool.Close()

	doc, err := pool.Produce(pdfBytes, opts.StartPage, opts.EndPage)
	if err != nil {
		if pe, ok := err.(*errs.Error); ok && pe.Kind == errs.KindEmptyInput {
			obs.OnDiagnostic(observer.Diagnostic{Stage: "producer", Reason: "empty input, returning empty document"})
			return pdflayout.Document{}, nil
		}
		return pdflayout.Document{}, err
	}
	return doc, nil
}

// analyze runs the per-page Line Tokenizer, the document-level line-
// pitch aggregation Block Tokenization depends on, and the per-page
// Block Tokenizer — in that order (spec.md §5: "Pages may be processed
// in parallel during Line Tokenization and Block Tokenization...
// Statistics that cross pages must be computed in a dedicated
// aggregation step after per-page stages complete"). Table detection now
// runs inside the Semanticizer (tableModule), since promoting a
// TextBlock to RoleTable is a role mutation and spec.md §3 reserves
// those for the Semanticizer's RoleAssignment facade.
func analyze(doc *pdflayout.Document, cfg config.Config, opts Options, obs observer.Observer) {
	forEachPage(doc.Pages, opts.Cancelled, obs, "linetok", func(page *pdflayout.Page) {
		page.TextLines = linetok.Tokenize(*page, cfg.WhitespaceFallbackFrac)
	})

	var allLines [][]pdflayout.TextLine
	for _, p := range doc.Pages {
		allLines = append(allLines, p.TextLines)
	}
	docLineStats := statistics.LinePitchByFace(allLines)

	tunables := blocktok.Tunables{
		LinePitchSlack:        cfg.LinePitchSlack,
		LinePitchHeightFactor: cfg.LinePitchHeightFactor,
		PitchDeltaSlack:       cfg.PitchDeltaSlack,
		IndentSlack:           cfg.IndentSlack,
		ReferenceStartSlack:   cfg.ReferenceStartSlack,
	}
	forEachPage(doc.Pages, opts.Cancelled, obs, "blocktok", func(page *pdflayout.Page) {
		page.TextBlocks = blocktok.Tokenize(page.Number, page.TextLines, docLineStats, tunables)
	})
}

// forEachPage fans work out across doc.Pages, one goroutine per page
// (spec.md §5: page inputs/outputs are disjoint during Line/Block
// Tokenization), joining before returning. Cancellation is checked at
// the page-boundary entry to each goroutine, not mid-page.
func forEachPage(pages []pdflayout.Page, cancelled func() bool, obs observer.Observer, stage string, fn func(*pdflayout.Page)) {
	var wg sync.WaitGroup
	for i := range pages {
		if cancelled != nil && cancelled() {
			obs.OnDiagnostic(observer.Diagnostic{Stage: stage, Page: pages[i].Number, Reason: "skipped, cancellation observed"})
			continue
		}
		wg.Add(1)
		go func(page *pdflayout.Page) {
			defer wg.Done()
			fn(page)
		}(&pages[i])
	}
	wg.Wait()
}

func allBlocks(doc pdflayout.Document) []pdflayout.TextBlock {
	var blocks []pdflayout.TextBlock
	for _, p := range doc.Pages {
		blocks = append(blocks, p.TextBlocks...)
	}
	return blocks
}

func documentMetric(doc pdflayout.Document, total time.Duration) observer.DocumentMetric {
	m := observer.DocumentMetric{TotalTime: total, Pages: len(doc.Pages), Paragraphs: len(doc.Paragraphs)}
	for _, p := range doc.Pages {
		m.TextBlocks += len(p.TextBlocks)
		for _, b := range p.TextBlocks {
			for _, l := range b.Lines {
				m.Words += len(l.Words)
				for _, w := range l.Words {
					m.Characters += len(w.Characters)
				}
			}
		}
	}
	return m
}
