// Package observer replaces the teacher's process-wide logger
// (converter.go's direct log.Printf calls) with an injected interface,
// per spec.md §9's design note: "Global logger in the source should
// become an injected observer; do not rely on process-wide state."
package observer

import (
	"log"
	"time"
)

// Diagnostic is a structured record of a recoverable failure (spec.md
// §7: InconsistentGeometry and ModuleFailure both "write a structured
// diagnostic to an observer interface").
type Diagnostic struct {
	Stage   string
	Page    int
	Reason  string
	Err     error
}

// PageMetric records per-page processing time, the same granularity the
// teacher's ProcessingMetrics.PageExtractions tracks.
type PageMetric struct {
	Page     int
	Duration time.Duration
}

// DocumentMetric mirrors the teacher's DocumentStatistics: counts useful
// for a caller watching pipeline health across a run.
type DocumentMetric struct {
	TotalTime       time.Duration
	Pages           int
	Paragraphs      int
	TextBlocks      int
	Words           int
	Characters      int
	PagePerf        []PageMetric
}

// Observer receives diagnostics and metrics from the pipeline. Nothing in
// the core depends on a concrete implementation; Noop and StdLogObserver
// are provided for convenience.
type Observer interface {
	OnDiagnostic(Diagnostic)
	OnMetric(DocumentMetric)
}

// Noop discards everything. Useful as a default when the caller doesn't
// care about diagnostics, and in tests.
type Noop struct{}

func (Noop) OnDiagnostic(Diagnostic)    {}
func (Noop) OnMetric(DocumentMetric)    {}

// StdLogObserver logs diagnostics and a boxed metrics table via the
// standard log package, in the same format the teacher's
// logProcessingMetrics prints directly from Converter.
type StdLogObserver struct {
	Logger *log.Logger
}

func NewStdLogObserver(logger *log.Logger) *StdLogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &StdLogObserver{Logger: logger}
}

func (o *StdLogObserver) OnDiagnostic(d Diagnostic) {
	if d.Err != nil {
		o.Logger.Printf("[%s] page %d: %s: %v", d.Stage, d.Page, d.Reason, d.Err)
		return
	}
	o.Logger.Printf("[%s] page %d: %s", d.Stage, d.Page, d.Reason)
}

func (o *StdLogObserver) OnMetric(m DocumentMetric) {
	o.Logger.Println("┌─────────────────────────────────────────────┐")
	o.Logger.Println("│ pdflayout processing metrics                │")
	o.Logger.Println("├─────────────────────────────────────────────┤")
	o.Logger.Printf("│ Total Time: %-31v │\n", m.TotalTime.Round(time.Millisecond))
	o.Logger.Println("├─────────────────────────────────────────────┤")
	o.Logger.Printf("│   Pages:      %-29d │\n", m.Pages)
	o.Logger.Printf("│   Paragraphs: %-29d │\n", m.Paragraphs)
	o.Logger.Printf("│   TextBlocks: %-29d │\n", m.TextBlocks)
	o.Logger.Printf("│   Words:      %-29d │\n", m.Words)
	o.Logger.Printf("│   Characters: %-29d │\n", m.Characters)
	o.Logger.Println("├─────────────────────────────────────────────┤")
	for _, pm := range m.PagePerf {
		o.Logger.Printf("│   Page %2d: %-30v │\n", pm.Page, pm.Duration.Round(time.Millisecond))
	}
	o.Logger.Println("└─────────────────────────────────────────────┘")
}
