// Package bgerr implements the error taxonomy shared across every phase of
// the binding pipeline: every error carries the module it originated
// from and, where it comes from an AST node, a source span.
package bgerr

import (
	"fmt"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
)

// Kind tags which of the seven error categories an Error belongs to.
type Kind int

const (
	// IO covers failures to read or canonicalize a path.
	IO Kind = iota
	// Parser covers rejection by the external parser.
	Parser
	// Unsupported covers a deliberately-rejected TypeScript construct.
	Unsupported
	// Resolution covers a traverse() call that returned no rooted definition.
	Resolution
	// Typing covers an AST type node referencing an unknown symbol or using
	// an unsupported type former.
	Typing
	// Compatibility covers one or more detected features exceeding the
	// target profile.
	Compatibility
	// Emission covers an emitter unable to express a type in its profile.
	Emission
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IoError"
	case Parser:
		return "ParserError"
	case Unsupported:
		return "UnsupportedFeature"
	case Resolution:
		return "Resolution"
	case Typing:
		return "Typing"
	case Compatibility:
		return "Compatibility"
	case Emission:
		return "Emission"
	default:
		return "Unknown"
	}
}

// Span is a byte-offset range into a module's source, used for error
// reporting. A zero Span (End == 0) means no span is available.
type Span struct {
	Start uint32
	End   uint32
}

// Error is the single error type every pipeline phase returns for
// taxonomy-classified failures, carrying the originating module path and,
// when derived from a parsed node, its span.
type Error struct {
	Kind   Kind
	Module canon.Path
	Span   Span
	// Feature names the specific unsupported construct for Kind ==
	// Unsupported (e.g. "DefaultExport", "NamespaceImport", "ImportEquals").
	Feature string
	Cause   error
}

func (e *Error) Error() string {
	loc := e.Module.String()
	if e.Span.End > e.Span.Start {
		loc = fmt.Sprintf("%s@%d-%d", loc, e.Span.Start, e.Span.End)
	}
	if e.Kind == Unsupported && e.Feature != "" {
		return fmt.Sprintf("%s: %s(%s): %v", loc, e.Kind, e.Feature, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", loc, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Unsupportedf builds an Unsupported error for feature at span in module,
// optionally wrapping cause (cause may be nil).
func Unsupportedf(module canon.Path, span Span, feature string, format string, args ...any) *Error {
	var cause error
	if format != "" {
		cause = fmt.Errorf(format, args...)
	}
	return &Error{Kind: Unsupported, Module: module, Span: span, Feature: feature, Cause: cause}
}

// Typingf builds a Typing error.
func Typingf(module canon.Path, span Span, format string, args ...any) *Error {
	return &Error{Kind: Typing, Module: module, Span: span, Cause: fmt.Errorf(format, args...)}
}
