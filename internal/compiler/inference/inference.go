// Package inference derives the analysis unit of an analysis from the
// annotations it declares.
package inference

import (
	"strings"
)

// Unit is the granularity an analysis operates on
type Unit string

// Unit levels, in the order they are tried
const (
	Token     Unit = "token"
	Sentence  Unit = "sentence"
	Paragraph Unit = "paragraph"
	Text      Unit = "text"
)

// Levels lists the unit levels in precedence order
var Levels = []Unit{Token, Sentence, Paragraph, Text}

// Classifier reports the unit class of an annotation. It returns "" when
// the annotation is unknown.
type Classifier interface {
	Class(annotation string) string
}

// ParseUnit converts a declared analysis unit
func ParseUnit(s string) (Unit, bool) {
	for _, u := range Levels {
		if string(u) == s {
			return u, true
		}
	}
	return "", false
}

// LevelNames returns the unit level names in precedence order
func LevelNames() []string {
	names := make([]string, len(Levels))
	for i, u := range Levels {
		names[i] = string(u)
	}
	return names
}

// InferUnit scans annotations in declaration order. The first annotation
// that matches any unit level decides, and within one annotation the levels
// are tried from token to text. ok is false if no annotation matches.
// classifier may be nil.
func InferUnit(annotations []string, classifier Classifier) (Unit, bool) {
	for _, annotation := range annotations {
		class := ""
		if classifier != nil {
			class = classifier.Class(annotation)
		}
		for _, level := range Levels {
			if Matches(annotation, class, level) {
				return level, true
			}
		}
	}
	return "", false
}

// Matches reports whether an annotation belongs to a unit level: it is an
// attribute of "<level>", its registry class is the level, or its span
// (the part before ':') names the level, as in "segment.sentence".
func Matches(annotation, class string, level Unit) bool {
	l := string(level)
	if strings.HasPrefix(annotation, "<"+l+">") {
		return true
	}
	if class == l {
		return true
	}
	span, _, _ := strings.Cut(annotation, ":")
	return span == l || strings.HasSuffix(span, "."+l)
}
