package errors

import (
	"fmt"
	"strings"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// Inheritance error codes (INH400-499)
const (
	// ErrMissingParent indicates a parent reference to a section that does not exist
	ErrMissingParent ErrorCode = "INH400"
	// ErrInheritanceCycle indicates a cycle of parent references
	ErrInheritanceCycle ErrorCode = "INH401"
)

// NewMissingParent creates an INH400 error
func NewMissingParent(loc ast.SourceLocation, id, parent string) *MetadataError {
	return newError(
		ErrMissingParent,
		"missing_parent",
		CategoryMissingParent,
		SeverityError,
		fmt.Sprintf("Section '%s' inherits from '%s', which is not defined in this file", id, parent),
		loc,
	).WithSection(id).WithActual(parent)
}

// NewInheritanceCycle creates an INH401 error. The path starts and ends
// with the same id; id may be a section inheriting from the cycle.
func NewInheritanceCycle(loc ast.SourceLocation, id string, path []string) *MetadataError {
	msg := fmt.Sprintf("Section '%s' inherits from an inheritance cycle: %s", id, strings.Join(path, " -> "))
	for _, p := range path {
		if p == id {
			msg = fmt.Sprintf("Section '%s' is part of an inheritance cycle: %s", id, strings.Join(path, " -> "))
			break
		}
	}
	return newError(
		ErrInheritanceCycle,
		"inheritance_cycle",
		CategoryCycle,
		SeverityError,
		msg,
		loc,
	).WithSection(id).WithSuggestion("Remove one of the 'parent' references in the cycle")
}
