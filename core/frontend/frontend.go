// Package frontend defines the contract between the compiler front-ends and
// the rest of the generator. A front-end turns one header into a neutral
// ast.Node tree plus the diagnostics it reported on the way.
package frontend

import (
	"errors"
	"fmt"

	"github.com/tristendillon/cppbind/core/ast"
	"github.com/tristendillon/cppbind/core/logger"
)

var ErrParse = errors.New("failed to parse header")

type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
}

// Unit is one parsed header.
type Unit struct {
	Path        string
	Root        *ast.Node
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic is an error or worse.
func (u *Unit) HasErrors() bool {
	for _, d := range u.Diagnostics {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// Check logs the diagnostics of the unit. In strict mode a unit with error
// diagnostics is rejected with ErrParse.
func (u *Unit) Check(strict bool) error {
	for _, d := range u.Diagnostics {
		switch {
		case d.Severity >= SeverityError:
			logger.Warn("%s", d)
		case d.Severity == SeverityWarning:
			logger.Debug("%s", d)
		}
	}
	if strict && u.HasErrors() {
		return fmt.Errorf("%w %s: compiler reported errors", ErrParse, u.Path)
	}
	return nil
}

// Parser is implemented by each front-end. A parser is created once per run
// and used serially.
type Parser interface {
	Parse(path string) (*Unit, error)
	Close() error
}
