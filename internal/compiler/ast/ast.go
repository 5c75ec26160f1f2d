// Package ast defines the parsed form of a metadata description file.
// A description file is a sequence of sections; each section carries an
// identifier, optional inheritance information and a set of fields whose
// values have already been checked against the field schema.
package ast

import (
	"sort"
)

// SourceLocation tracks the position of a section in a description file
type SourceLocation struct {
	Section int `json:"section"` // Section index (0-indexed, empty chunks not counted)
	Line    int `json:"line"`    // Line number of the section's first key (1-indexed)
}

// Section is one parsed unit of a description file
type Section struct {
	Index    int
	ID       string
	Abstract bool
	Parent   string
	Fields   Fields
	Loc      SourceLocation
}

// Location returns the source location of the section
func (s *Section) Location() SourceLocation {
	return s.Loc
}

// HasParent reports whether the section inherits from another section
func (s *Section) HasParent() bool {
	return s.Parent != ""
}

// Fields maps field names to values. Values have one of the Go types
// produced by the schema shapes: string, bool, map[string]string,
// []string, []interface{} or map[string]interface{}.
type Fields map[string]interface{}

// Clone returns a shallow copy of the fields
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Overlay returns a new field set where every field of top replaces the
// field with the same name in f. Neither input is modified.
func (f Fields) Overlay(top Fields) Fields {
	out := f.Clone()
	for k, v := range top {
		out[k] = v
	}
	return out
}

// Has reports whether the field is set
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// String returns a scalar field value, or "" if unset or not a scalar
func (f Fields) String(name string) string {
	if s, ok := f[name].(string); ok {
		return s
	}
	return ""
}

// Strings returns a string list field value
func (f Fields) Strings(name string) []string {
	if s, ok := f[name].([]string); ok {
		return s
	}
	return nil
}

// Text returns a localized text field value
func (f Fields) Text(name string) map[string]string {
	if t, ok := f[name].(map[string]string); ok {
		return t
	}
	return nil
}

// Localized returns a localized text field as either a per-language mapping
// or a plain string. At most one of the results is set.
func (f Fields) Localized(name string) (map[string]string, string) {
	switch v := f[name].(type) {
	case map[string]string:
		return v, ""
	case string:
		return nil, v
	}
	return nil, ""
}

// List returns a list field value
func (f Fields) List(name string) []interface{} {
	if l, ok := f[name].([]interface{}); ok {
		return l
	}
	return nil
}

// Names returns the field names in sorted order
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
