// Package codegen turns resolved sections into catalog records. It applies
// the catalog-wide defaults and serializes records to YAML or JSON.
package codegen

import (
	"strings"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// DefaultLicense is the code license of built-in modules
const DefaultLicense = "MIT"

// Affiliation is the organisation part of a contact record
type Affiliation struct {
	Organisation string `yaml:"organisation" json:"organisation"`
	Email        string `yaml:"email" json:"email"`
}

// Contact is a contact record
type Contact struct {
	Surname     string       `yaml:"surname" json:"surname"`
	GivenName   string       `yaml:"givenName" json:"givenName"`
	Email       string       `yaml:"email" json:"email"`
	Affiliation *Affiliation `yaml:"affiliation,omitempty" json:"affiliation,omitempty"`
}

// DefaultContact is the contact selected by the "sbx-default" keyword
var DefaultContact = Contact{
	Surname:   "Forsberg",
	GivenName: "Markus",
	Email:     "sb-info@svenska.gu.se",
	Affiliation: &Affiliation{
		Organisation: "Språkbanken",
		Email:        "sb-info@svenska.gu.se",
	},
}

// Record is the published form of a non-abstract section. Field order is
// the order of the serialized output; empty fields are omitted.
type Record struct {
	ID                string        `yaml:"-" json:"-"`
	Name              interface{}   `yaml:"name,omitempty" json:"name,omitempty"`
	ShortDescription  interface{}   `yaml:"short_description,omitempty" json:"short_description,omitempty"`
	Description       interface{}   `yaml:"description,omitempty" json:"description,omitempty"`
	Type              string        `yaml:"type,omitempty" json:"type,omitempty"`
	Task              string        `yaml:"task,omitempty" json:"task,omitempty"`
	AnalysisUnit      string        `yaml:"analysis_unit,omitempty" json:"analysis_unit,omitempty"`
	Tools             []interface{} `yaml:"tools,omitempty" json:"tools,omitempty"`
	Models            []interface{} `yaml:"models,omitempty" json:"models,omitempty"`
	TrainedOn         []interface{} `yaml:"trained_on,omitempty" json:"trained_on,omitempty"`
	Tagset            string        `yaml:"tagset,omitempty" json:"tagset,omitempty"`
	EvaluationResults interface{}   `yaml:"evaluation_results,omitempty" json:"evaluation_results,omitempty"`
	Keywords          []string      `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	License           string        `yaml:"license,omitempty" json:"license,omitempty"`
	ContactInfo       interface{}   `yaml:"contact_info,omitempty" json:"contact_info,omitempty"`
	PluginURL         string        `yaml:"plugin_url,omitempty" json:"plugin_url,omitempty"`
	Example           string        `yaml:"example,omitempty" json:"example,omitempty"`
}

// Defaults are applied to fields still unset after inheritance and
// inference
type Defaults struct {
	// License is used for built-in modules; plugins declare their own
	License string
	// Contact is either ast.DefaultContactKeyword or a contact mapping
	Contact interface{}
	// AnalysisUnit is used for analyses whose unit could not be inferred
	AnalysisUnit string
}

// DefaultDefaults returns the catalog defaults
func DefaultDefaults() Defaults {
	return Defaults{
		License: DefaultLicense,
		Contact: ast.DefaultContactKeyword,
	}
}

// Emitter builds records from resolved fields
type Emitter struct {
	defaults Defaults
}

// NewEmitter creates an emitter with the given defaults
func NewEmitter(defaults Defaults) *Emitter {
	return &Emitter{defaults: defaults}
}

// Emit builds the record for a resolved section. fields must already carry
// the computed type, analysis unit and example; they are not modified.
func (e *Emitter) Emit(id string, fields ast.Fields, plugin bool) *Record {
	r := &Record{
		ID:                id,
		Name:              localized(fields, ast.FieldName),
		ShortDescription:  localized(fields, ast.FieldShortDescription),
		Description:       localized(fields, ast.FieldDescription),
		Type:              fields.String(ast.FieldType),
		Task:              fields.String(ast.FieldTask),
		AnalysisUnit:      fields.String(ast.FieldAnalysisUnit),
		Tools:             fields.List(ast.FieldTools),
		Models:            fields.List(ast.FieldModels),
		TrainedOn:         fields.List(ast.FieldTrainedOn),
		Tagset:            fields.String(ast.FieldTagset),
		EvaluationResults: localized(fields, ast.FieldEvaluationResults),
		Keywords:          fields.Strings(ast.FieldKeywords),
		License:           fields.String(ast.FieldLicense),
		PluginURL:         fields.String(ast.FieldPluginURL),
		Example:           fields.String(ast.FieldExample),
	}

	if r.Type == "" {
		r.Type = ast.TypeAnalysis
	}
	if r.License == "" && !plugin {
		r.License = e.defaults.License
	}
	if r.AnalysisUnit == "" && r.Type == ast.TypeAnalysis {
		r.AnalysisUnit = e.defaults.AnalysisUnit
	}

	r.ContactInfo = ExpandContact(fields[ast.FieldContactInfo])
	if r.ContactInfo == nil {
		r.ContactInfo = ExpandContact(e.defaults.Contact)
	}

	return r
}

// ExpandContact resolves the "sbx-default" keyword. Empty values yield nil.
func ExpandContact(v interface{}) interface{} {
	switch c := v.(type) {
	case string:
		if c == ast.DefaultContactKeyword {
			contact := DefaultContact
			return &contact
		}
		return nil
	case map[string]interface{}:
		if len(c) == 0 {
			return nil
		}
		return contactKeys(c)
	case Contact:
		return &c
	case *Contact:
		return c
	}
	return nil
}

// contactKeys restores the case of contact keys that were lowercased by a
// configuration loader
func contactKeys(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if strings.EqualFold(k, "givenName") {
			k = "givenName"
		}
		if sub, ok := v.(map[string]interface{}); ok {
			v = contactKeys(sub)
		}
		out[k] = v
	}
	return out
}

// localized returns a localized field as a plain string or a mapping, with
// empty values dropped
func localized(fields ast.Fields, name string) interface{} {
	text, plain := fields.Localized(name)
	if plain != "" {
		return normalizeText(plain)
	}
	if len(text) == 0 {
		return nil
	}
	out := make(map[string]string, len(text))
	for lang, t := range text {
		if t != "" {
			out[lang] = normalizeText(t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
