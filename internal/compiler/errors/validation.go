package errors

import (
	"fmt"
	"strings"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// Validation error codes (VAL200-299)
const (
	// ErrMissingID indicates a publishable section without an id
	ErrMissingID ErrorCode = "VAL200"
	// ErrDuplicateID indicates two sections with the same id in one file
	ErrDuplicateID ErrorCode = "VAL201"
	// ErrMissingAnnotations indicates an analysis without declared annotations
	ErrMissingAnnotations ErrorCode = "VAL202"
	// ErrNoExample indicates that no example text could be obtained
	ErrNoExample ErrorCode = "VAL203"
	// ErrUnknownAnnotations indicates annotations the module does not produce
	ErrUnknownAnnotations ErrorCode = "VAL204"
	// ErrUnknownHandler indicates a utility handler the module does not provide
	ErrUnknownHandler ErrorCode = "VAL205"
	// ErrUnknownType indicates a section whose type cannot be determined
	ErrUnknownType ErrorCode = "VAL206"
	// ErrInvalidAnalysisUnit indicates an explicit analysis unit that is not a unit level
	ErrInvalidAnalysisUnit ErrorCode = "VAL207"
)

// NewMissingID creates a VAL200 error
func NewMissingID(loc ast.SourceLocation) *MetadataError {
	return newError(
		ErrMissingID,
		"missing_id",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Section %d has no 'id' field", loc.Section),
		loc,
	).WithSuggestion("Every section must declare its own id; ids are not inherited")
}

// NewDuplicateID creates a VAL201 error
func NewDuplicateID(loc ast.SourceLocation, id string, first int) *MetadataError {
	return newError(
		ErrDuplicateID,
		"duplicate_id",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("More than one section with the id '%s' (first declared in section %d)", id, first),
		loc,
	).WithSection(id)
}

// NewMissingAnnotations creates a VAL202 error
func NewMissingAnnotations(loc ast.SourceLocation, id string) *MetadataError {
	return newError(
		ErrMissingAnnotations,
		"missing_annotations",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("No annotations found for analysis '%s'", id),
		loc,
	).WithSection(id).WithSuggestion("Declare at least one annotation under 'annotations'")
}

// NewNoExample creates a VAL203 error
func NewNoExample(loc ast.SourceLocation, id string) *MetadataError {
	return newError(
		ErrNoExample,
		"no_example",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("No example obtainable for '%s'", id),
		loc,
	).WithSection(id).WithSuggestion("Add 'example' or 'example_output' to the section or one of its parents")
}

// NewUnknownAnnotations creates a VAL204 error
func NewUnknownAnnotations(loc ast.SourceLocation, id string, annotations []string) *MetadataError {
	return newError(
		ErrUnknownAnnotations,
		"unknown_annotations",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Unknown annotations in analysis '%s': %s", id, strings.Join(annotations, ", ")),
		loc,
	).WithSection(id).WithSuggestion("Check the annotation names against the module's annotations.yaml")
}

// NewUnknownHandler creates a VAL205 error
func NewUnknownHandler(loc ast.SourceLocation, id, handler string) *MetadataError {
	return newError(
		ErrUnknownHandler,
		"unknown_handler",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Unknown handler in '%s': '%s'", id, handler),
		loc,
	).WithSection(id).WithActual(handler)
}

// NewUnknownType creates a VAL206 error
func NewUnknownType(loc ast.SourceLocation, id, typ string) *MetadataError {
	msg := fmt.Sprintf("Metadata '%s' is of an unknown type", id)
	if typ != "" {
		msg = fmt.Sprintf("Metadata '%s' has unknown type '%s'", id, typ)
	}
	return newError(
		ErrUnknownType,
		"unknown_type",
		CategoryValidation,
		SeverityError,
		msg,
		loc,
	).WithSection(id).WithExpected(ast.TypeAnalysis + " or " + ast.TypeUtility)
}

// NewInvalidAnalysisUnit creates a VAL207 error
func NewInvalidAnalysisUnit(loc ast.SourceLocation, id, unit string, valid []string) *MetadataError {
	return newError(
		ErrInvalidAnalysisUnit,
		"invalid_analysis_unit",
		CategoryValidation,
		SeverityError,
		fmt.Sprintf("Analysis '%s' declares unknown analysis unit '%s'", id, unit),
		loc,
	).WithSection(id).WithExpected(strings.Join(valid, ", ")).WithActual(unit)
}
