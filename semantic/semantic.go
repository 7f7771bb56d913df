// Package semantic implements the Semanticizer (spec.md §4.5): an
// ordered, pluggable registry of rule-based Modules that assign each
// TextBlock a SemanticRole, communicating only through the Document and
// the RoleAssignment facade.
//
// Grounded on the teacher's structure.go detectHeadings/detectLists/
// detectCodeBlocks font-size-percentile heuristics (generalized from a
// single "is this a heading" decision into the pre-pass hints consumed
// by a fixed module pipeline), and on spec.md §9's design note to
// localize the shared-mutable-role behind a facade recording (block,
// previous role and secondary role, module id) for rollback. google/uuid mints module
// run ids; everything else is stdlib.
package semantic

import (
	"github.com/google/uuid"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/internal/errs"
	"github.com/pdflayout/pdflayout/observer"
)

// Run executes ComputeHints followed by the DefaultRegistry's modules in
// order. A module that returns an error has its mutations rolled back
// and is skipped (spec.md §7's ModuleFailure recovery); the run
// continues with the next module. cancelled is polled between modules
// (spec.md §5). detectTables selects whether tableModule runs, mirroring
// config.Config.DetectTables.
func Run(doc *pdflayout.Document, detectTables bool, obs observer.Observer, cancelled func() bool) error {
	if obs == nil {
		obs = observer.Noop{}
	}
	a := NewRoleAssignment(doc)

	hintsID := uuid.New()
	ComputeHints(doc, a, hintsID)

	for _, module := range DefaultRegistry(detectTables) {
		if cancelled != nil && cancelled() {
			return errs.Cancelled("semanticizer cancelled between modules")
		}

		moduleID := uuid.New()
		if err := runModule(module, doc, a, moduleID); err != nil {
			a.Rollback(moduleID)
			obs.OnDiagnostic(observer.Diagnostic{
				Stage:  "semanticizer:" + module.Name(),
				Reason: "module failed, rolled back",
				Err:    err,
			})
		}
	}
	return nil
}

// runModule isolates a module's panics as ModuleFailure too, since a
// buggy third-party module must not take down the whole pipeline.
func runModule(module Module, doc *pdflayout.Document, a *RoleAssignment, moduleID uuid.UUID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.ModuleFailure(module.Name(), nil)
		}
	}()
	if e := module.Semanticize(doc, a, moduleID); e != nil {
		return errs.ModuleFailure(module.Name(), e)
	}
	return nil
}
