package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitCheck(t *testing.T) {
	clean := &Unit{Path: "a.h", Diagnostics: []Diagnostic{{Severity: SeverityWarning, Message: "unused"}}}
	assert.False(t, clean.HasErrors())
	assert.NoError(t, clean.Check(true))

	broken := &Unit{Path: "b.h", Diagnostics: []Diagnostic{{Severity: SeverityError, Message: "unknown type name 'Foo'", File: "b.h", Line: 3, Column: 5}}}
	assert.True(t, broken.HasErrors())
	assert.NoError(t, broken.Check(false))
	assert.ErrorIs(t, broken.Check(true), ErrParse)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Message: "expected ';'", File: "x.h", Line: 4, Column: 12}
	assert.Equal(t, "x.h:4:12: error: expected ';'", d.String())
	assert.Equal(t, "fatal: boom", Diagnostic{Severity: SeverityFatal, Message: "boom"}.String())
}
