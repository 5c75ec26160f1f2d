package errors

import (
	"fmt"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// Warning codes (WRN500-599)
const (
	// WarnUnknownField indicates a field that is not part of the schema
	WarnUnknownField ErrorCode = "WRN500"
	// WarnAbstractWithoutID indicates an abstract section nothing can inherit from
	WarnAbstractWithoutID ErrorCode = "WRN501"
	// WarnShortDescriptionHTML indicates markup in a short description
	WarnShortDescriptionHTML ErrorCode = "WRN502"
	// WarnShortDescriptionLength indicates an overly long short description
	WarnShortDescriptionLength ErrorCode = "WRN503"
)

// NewUnknownField creates a WRN500 warning
func NewUnknownField(loc ast.SourceLocation, field string) *MetadataError {
	return newError(
		WarnUnknownField,
		"unknown_field",
		CategoryLint,
		SeverityWarning,
		fmt.Sprintf("Unknown field '%s' in section %d is ignored", field, loc.Section),
		loc,
	)
}

// NewAbstractWithoutID creates a WRN501 warning
func NewAbstractWithoutID(loc ast.SourceLocation) *MetadataError {
	return newError(
		WarnAbstractWithoutID,
		"abstract_without_id",
		CategoryLint,
		SeverityWarning,
		fmt.Sprintf("Abstract section %d has no id and cannot be inherited from", loc.Section),
		loc,
	)
}

// NewShortDescriptionHTML creates a WRN502 warning
func NewShortDescriptionHTML(loc ast.SourceLocation, id, lang string, fallback bool) *MetadataError {
	msg := fmt.Sprintf("'short_description' (%s) of '%s' seems to contain HTML", lang, id)
	if fallback {
		msg = fmt.Sprintf("No 'short_description' available for '%s' and 'description' (%s) seems to contain HTML", id, lang)
	}
	return newError(
		WarnShortDescriptionHTML,
		"short_description_html",
		CategoryLint,
		SeverityWarning,
		msg,
		loc,
	).WithSection(id)
}

// NewShortDescriptionLength creates a WRN503 warning
func NewShortDescriptionLength(loc ast.SourceLocation, id, lang string, limit int, fallback bool) *MetadataError {
	msg := fmt.Sprintf("'short_description' (%s) of '%s' is longer than %d characters", lang, id, limit)
	if fallback {
		msg = fmt.Sprintf("No 'short_description' available for '%s' and 'description' (%s) is longer than %d characters",
			id, lang, limit)
	}
	return newError(
		WarnShortDescriptionLength,
		"short_description_length",
		CategoryLint,
		SeverityWarning,
		msg,
		loc,
	).WithSection(id)
}
