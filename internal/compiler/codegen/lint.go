package codegen

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
)

// MaxShortDescriptionLength is the longest short description accepted
// without a warning
const MaxShortDescriptionLength = 250

var htmlTag = regexp.MustCompile(`<([a-z][a-z0-9]+)\b[^>]*>`)

// ShortDescription returns the short description of fields, falling back to
// the description. fallback reports whether the fallback was used.
func ShortDescription(fields ast.Fields) (value interface{}, fallback bool) {
	if v := localized(fields, ast.FieldShortDescription); v != nil {
		return v, false
	}
	if v := localized(fields, ast.FieldDescription); v != nil {
		return v, true
	}
	return nil, false
}

// LintShortDescription warns about short descriptions that seem to contain
// HTML or exceed MaxShortDescriptionLength characters. value is a plain
// string or a mapping of language to text.
func LintShortDescription(loc ast.SourceLocation, id string, value interface{}, fallback bool) errors.List {
	texts := map[string]string{}
	switch v := value.(type) {
	case string:
		texts["all"] = v
	case map[string]string:
		texts = v
	}

	langs := make([]string, 0, len(texts))
	for lang := range texts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var warnings errors.List
	for _, lang := range langs {
		text := texts[lang]
		if htmlTag.MatchString(text) {
			warnings = append(warnings, errors.NewShortDescriptionHTML(loc, id, lang, fallback))
		}
		if utf8.RuneCountInString(text) > MaxShortDescriptionLength {
			warnings = append(warnings, errors.NewShortDescriptionLength(loc, id, lang, MaxShortDescriptionLength, fallback))
		}
	}
	return warnings
}
