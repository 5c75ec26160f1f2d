package errors

import (
	"fmt"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// Parse error codes (PAR100-199)
const (
	// ErrMalformedSection indicates a section that is not valid YAML
	ErrMalformedSection ErrorCode = "PAR100"
	// ErrSectionNotMapping indicates a section whose top level is not a mapping
	ErrSectionNotMapping ErrorCode = "PAR101"
	// ErrInvalidFieldShape indicates a known field with a value of the wrong shape
	ErrInvalidFieldShape ErrorCode = "PAR102"
)

// NewMalformedSection creates a PAR100 error
func NewMalformedSection(loc ast.SourceLocation, reason string) *MetadataError {
	return newError(
		ErrMalformedSection,
		"malformed_section",
		CategoryParse,
		SeverityError,
		fmt.Sprintf("Section %d is not valid YAML: %s", loc.Section, reason),
		loc,
	).WithSuggestion("Check indentation and quoting; sections are separated by lines containing only '---'")
}

// NewSectionNotMapping creates a PAR101 error
func NewSectionNotMapping(loc ast.SourceLocation, actual string) *MetadataError {
	return newError(
		ErrSectionNotMapping,
		"section_not_mapping",
		CategoryParse,
		SeverityError,
		fmt.Sprintf("Section %d must be a mapping of field names to values", loc.Section),
		loc,
	).WithExpected("mapping").WithActual(actual)
}

// NewInvalidFieldShape creates a PAR102 error
func NewInvalidFieldShape(loc ast.SourceLocation, field string, expected ast.Shape, actual string) *MetadataError {
	return newError(
		ErrInvalidFieldShape,
		"invalid_field_shape",
		CategoryParse,
		SeverityError,
		fmt.Sprintf("Field '%s' in section %d has the wrong shape", field, loc.Section),
		loc,
	).WithExpected(expected.String()).WithActual(actual)
}
