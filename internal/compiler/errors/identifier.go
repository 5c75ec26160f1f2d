package errors

import (
	"fmt"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// Identifier error codes (IDN300-399)
const (
	// ErrSegmentCount indicates an id without 4 or 5 '-'-separated segments
	ErrSegmentCount ErrorCode = "IDN300"
	// ErrEmptySegment indicates an id with an empty segment
	ErrEmptySegment ErrorCode = "IDN301"
	// ErrUnknownLanguage indicates an unrecognized language code segment
	ErrUnknownLanguage ErrorCode = "IDN302"
	// ErrReservedSuffix indicates a publishable section using the parent-only suffix
	ErrReservedSuffix ErrorCode = "IDN303"
)

// NewSegmentCount creates an IDN300 error
func NewSegmentCount(id string, count int) *MetadataError {
	return newError(
		ErrSegmentCount,
		"segment_count",
		CategoryIdentifier,
		SeverityError,
		fmt.Sprintf("Invalid id '%s': segment count must be 4 or 5, got %d", id, count),
		ast.SourceLocation{},
	).WithSection(id).
		WithExpected("organization-language-task-tool[-model]").
		WithSuggestion("Use '_' between words inside a segment; '-' only separates segments")
}

// NewEmptySegment creates an IDN301 error
func NewEmptySegment(id string, position int) *MetadataError {
	return newError(
		ErrEmptySegment,
		"empty_segment",
		CategoryIdentifier,
		SeverityError,
		fmt.Sprintf("Invalid id '%s': segment %d is empty", id, position+1),
		ast.SourceLocation{},
	).WithSection(id)
}

// NewUnknownLanguage creates an IDN302 error
func NewUnknownLanguage(id, code string) *MetadataError {
	return newError(
		ErrUnknownLanguage,
		"unknown_language",
		CategoryIdentifier,
		SeverityError,
		fmt.Sprintf("Invalid id '%s': language code '%s' is not a recognized ISO 639-3 code", id, code),
		ast.SourceLocation{},
	).WithSection(id).
		WithActual(code).
		WithSuggestion("Use a three-letter ISO 639-3 code, 'mul' for multiple languages or 'zxx' if not language-specific")
}

// NewReservedSuffix creates an IDN303 error
func NewReservedSuffix(loc ast.SourceLocation, id, suffix string) *MetadataError {
	return newError(
		ErrReservedSuffix,
		"reserved_suffix",
		CategoryIdentifier,
		SeverityError,
		fmt.Sprintf("Invalid id '%s': the suffix '%s' is reserved for abstract sections", id, suffix),
		loc,
	).WithSection(id).WithSuggestion("Mark the section with 'abstract: true' or rename it")
}
