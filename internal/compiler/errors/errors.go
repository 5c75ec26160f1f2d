// Package errors provides structured diagnostics for metadata resolution.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	stderrors "errors"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// ErrorCode represents a unique diagnostic code
type ErrorCode string

// ErrorCategory represents the kind of a diagnostic
type ErrorCategory string

const (
	// CategoryParse represents malformed input structure (PAR100-199)
	CategoryParse ErrorCategory = "parse"
	// CategoryValidation represents missing or inconsistent fields (VAL200-299)
	CategoryValidation ErrorCategory = "validation"
	// CategoryIdentifier represents malformed identifiers (IDN300-399)
	CategoryIdentifier ErrorCategory = "identifier"
	// CategoryMissingParent represents unresolved parent references (INH400)
	CategoryMissingParent ErrorCategory = "missing_parent"
	// CategoryCycle represents inheritance cycles (INH401)
	CategoryCycle ErrorCategory = "cycle"
	// CategoryLint represents non-fatal warnings (WRN500-599)
	CategoryLint ErrorCategory = "lint"
)

// ErrorSeverity indicates the severity level of a diagnostic
type ErrorSeverity string

const (
	// SeverityError fails the section it is attributed to
	SeverityError ErrorSeverity = "error"
	// SeverityWarning is reported but does not fail the section
	SeverityWarning ErrorSeverity = "warning"
)

// MetadataError is a structured diagnostic attributed to one section of a
// description file
type MetadataError struct {
	// Code is the unique diagnostic code (e.g., "IDN300")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the diagnostic kind
	Category ErrorCategory `json:"category"`
	// Severity is the severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary message, naming the offending id and rule
	Message string `json:"message"`
	// Location is the section the diagnostic is attributed to
	Location ast.SourceLocation `json:"location"`
	// File is the description file (optional)
	File string `json:"file,omitempty"`
	// Module is the module or plugin the file belongs to (optional)
	Module string `json:"module,omitempty"`
	// SectionID is the id of the offending section, if it has one
	SectionID string `json:"section_id,omitempty"`
	// Expected describes what was expected (optional)
	Expected string `json:"expected,omitempty"`
	// Actual describes what was actually found (optional)
	Actual string `json:"actual,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
}

// Error implements the error interface
func (e *MetadataError) Error() string {
	return FormatCompact(e)
}

// Format returns a human-readable message for terminal output
func (e *MetadataError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *MetadataError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Kind returns the error kind name used in reports
func (e *MetadataError) Kind() string {
	switch e.Category {
	case CategoryParse:
		return "ParseError"
	case CategoryValidation:
		return "ValidationError"
	case CategoryIdentifier:
		return "InvalidIdentifierError"
	case CategoryMissingParent:
		return "MissingParentError"
	case CategoryCycle:
		return "CycleError"
	default:
		return "Warning"
	}
}

// IsError reports whether the diagnostic fails its section
func (e *MetadataError) IsError() bool {
	return e.Severity == SeverityError
}

// WithFile sets the description file for the error
func (e *MetadataError) WithFile(file string) *MetadataError {
	e.File = file
	return e
}

// WithModule sets the module name for the error
func (e *MetadataError) WithModule(module string) *MetadataError {
	e.Module = module
	return e
}

// WithLocation sets the section location for the error
func (e *MetadataError) WithLocation(loc ast.SourceLocation) *MetadataError {
	e.Location = loc
	return e
}

// WithSection sets the id of the offending section
func (e *MetadataError) WithSection(id string) *MetadataError {
	e.SectionID = id
	return e
}

// WithExpected sets the expected value for the error
func (e *MetadataError) WithExpected(expected string) *MetadataError {
	e.Expected = expected
	return e
}

// WithActual sets the actual value for the error
func (e *MetadataError) WithActual(actual string) *MetadataError {
	e.Actual = actual
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *MetadataError) WithSuggestion(suggestion string) *MetadataError {
	e.Suggestion = suggestion
	return e
}

// List is a collection of diagnostics
type List []*MetadataError

// Error implements the error interface
func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	return FormatList(l)
}

// HasErrors returns true if the list contains any errors (excludes warnings)
func (l List) HasErrors() bool {
	for _, err := range l {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the diagnostics with error severity
func (l List) Errors() List {
	var out List
	for _, err := range l {
		if err.Severity == SeverityError {
			out = append(out, err)
		}
	}
	return out
}

// Warnings returns only the diagnostics with warning severity
func (l List) Warnings() List {
	var out List
	for _, err := range l {
		if err.Severity == SeverityWarning {
			out = append(out, err)
		}
	}
	return out
}

// Count returns the number of diagnostics by severity
func (l List) Count() (errors, warnings int) {
	for _, err := range l {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// ToJSON returns all diagnostics as a JSON array
func (l List) ToJSON() (string, error) {
	if l == nil {
		l = List{}
	}
	bytes, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// As finds the first MetadataError in err's chain
func As(err error) (*MetadataError, bool) {
	var me *MetadataError
	if stderrors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// HasCode reports whether err is a MetadataError with the given code
func HasCode(err error, code ErrorCode) bool {
	me, ok := As(err)
	return ok && me.Code == code
}

// newError creates a new MetadataError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc ast.SourceLocation,
) *MetadataError {
	return &MetadataError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}
