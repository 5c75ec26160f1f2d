// Package identifier parses and validates catalog identifiers.
//
// An identifier has four or five '-'-separated segments:
//
//	organization-language-task-tool[-model]
//
// e.g. "sbx-swe-tokenization-sparv-linebreaks". Inside a segment, '_' joins
// words. Identifiers ending in "-parent" name abstract sections and are not
// subject to the segment rules.
package identifier

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
)

const (
	// Separator joins identifier segments
	Separator = "-"
	// WordSeparator joins words inside a segment
	WordSeparator = "_"
	// ParentSuffix marks identifiers of abstract, parent-only sections
	ParentSuffix = "-parent"

	// MultipleLanguages is the ISO 639 code for resources covering several languages
	MultipleLanguages = "mul"
	// NotLanguageSpecific is the ISO 639 code for resources without linguistic content
	NotLanguageSpecific = "zxx"

	minSegments = 4
	maxSegments = 5
)

// Identifier is a decomposed catalog identifier
type Identifier struct {
	Organization string
	Language     string
	Task         string
	Tool         string
	Model        string // optional model or tagset discriminator
}

// Parse splits id into its segments and validates segment count and
// language code. Parent-only ids are not exempt here; use Validate for
// the exemption.
func Parse(id string) (Identifier, error) {
	segments := strings.Split(id, Separator)
	if len(segments) < minSegments || len(segments) > maxSegments {
		return Identifier{}, errors.NewSegmentCount(id, len(segments))
	}
	for i, s := range segments {
		if s == "" {
			return Identifier{}, errors.NewEmptySegment(id, i)
		}
	}

	ident := Identifier{
		Organization: segments[0],
		Language:     segments[1],
		Task:         segments[2],
		Tool:         segments[3],
	}
	if len(segments) == maxSegments {
		ident.Model = segments[4]
	}

	if !ValidLanguage(ident.Language) {
		return Identifier{}, errors.NewUnknownLanguage(id, ident.Language)
	}
	return ident, nil
}

// Validate checks id, exempting parent-only ids
func Validate(id string) error {
	if IsParentOnly(id) {
		return nil
	}
	_, err := Parse(id)
	return err
}

// IsParentOnly reports whether id carries the reserved parent suffix
func IsParentOnly(id string) bool {
	return strings.HasSuffix(id, ParentSuffix)
}

// ValidLanguage reports whether code is a recognized three-letter ISO 639
// code or one of the sentinel codes
func ValidLanguage(code string) bool {
	if code == MultipleLanguages || code == NotLanguageSpecific {
		return true
	}
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	if reservedLanguage(code) {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}

// reservedLanguage reports whether code is an ISO 639 special or private
// use code other than the accepted sentinels
func reservedLanguage(code string) bool {
	switch code {
	case "und", "mis":
		return true
	}
	return code >= "qaa" && code <= "qtz"
}

// Segments returns the identifier's segments in order
func (i Identifier) Segments() []string {
	segments := []string{i.Organization, i.Language, i.Task, i.Tool}
	if i.Model != "" {
		segments = append(segments, i.Model)
	}
	return segments
}

// String rejoins the segments with the separator
func (i Identifier) String() string {
	return strings.Join(i.Segments(), Separator)
}

// Words splits a segment into its '_'-joined words
func Words(segment string) []string {
	return strings.Split(segment, WordSeparator)
}

// LanguageName returns the English name of the identifier's language, or
// the code itself if it has none
func (i Identifier) LanguageName() string {
	return LanguageName(i.Language)
}

// LanguageName returns the English name of a language code, or the code
// itself if it has none
func LanguageName(code string) string {
	switch code {
	case MultipleLanguages:
		return "Multiple languages"
	case NotLanguageSpecific:
		return "Not language-specific"
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return code
	}
	tag, err := language.Compose(base)
	if err != nil {
		return code
	}
	return displayName(tag, code)
}
