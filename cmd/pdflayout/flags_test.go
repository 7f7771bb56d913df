package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/config"
	"github.com/pdflayout/pdflayout/internal/errs"
)

func TestSplitCSV_TrimsAndDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitCSV(" a, b ,c,"))
	assert.Nil(t, splitCSV(""))
}

func TestParseUnits_CaseInsensitiveAndUnknownDropped(t *testing.T) {
	units := parseUnits("Word,page,bogus")
	assert.Equal(t, []pdflayout.ExtractionUnit{pdflayout.UnitWord, pdflayout.UnitPage}, units)
}

func TestParseRoles_CaseInsensitiveAndUnknownDropped(t *testing.T) {
	roles := parseRoles("Title,body_text,nonsense")
	assert.Equal(t, []pdflayout.SemanticRole{pdflayout.RoleTitle, pdflayout.RoleBodyText}, roles)
}

func TestParseFormat_RecognizesEachBackend(t *testing.T) {
	assert.Equal(t, config.FormatJSON, parseFormat("JSON"))
	assert.Equal(t, config.FormatTXT, parseFormat("txt"))
	assert.Equal(t, config.FormatMarkdown, parseFormat("markdown"))
	assert.Equal(t, config.FormatMarkdown, parseFormat("md"))
	assert.Equal(t, config.FormatXML, parseFormat("xml"))
}

func TestParseFormat_UnknownDefaultsToXML(t *testing.T) {
	assert.Equal(t, config.FormatXML, parseFormat("  yaml "))
}

func TestExitCodeFor_UnwrapsCliError(t *testing.T) {
	err := cliError{code: exitParseError, err: errors.New("bad pdf")}
	assert.Equal(t, exitParseError, exitCodeFor(err))
}

func TestExitCodeFor_NonCliErrorFallsBackToUsageError(t *testing.T) {
	assert.Equal(t, exitUsageError, exitCodeFor(errors.New("something else")))
}

func TestExitCodeForPipelineError_MapsKindsToExitCodes(t *testing.T) {
	assert.Equal(t, exitParseError, exitCodeForPipelineError(errs.ParseError("bad", nil)))
	assert.Equal(t, exitCancelled, exitCodeForPipelineError(errs.Cancelled("stopped")))
	assert.Equal(t, exitIOError, exitCodeForPipelineError(errs.IOError("disk", nil)))
	assert.Equal(t, exitIOError, exitCodeForPipelineError(errs.EmptyInput("no pages")))
}

func TestExitCodeForPipelineError_NonErrsErrorFallsBackToIOError(t *testing.T) {
	assert.Equal(t, exitIOError, exitCodeForPipelineError(errors.New("unexpected")))
}

func TestCliError_UnwrapExposesUnderlyingError(t *testing.T) {
	cause := errors.New("root cause")
	err := cliError{code: exitIOError, err: cause}
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Equal(t, "root cause", err.Error())
}
