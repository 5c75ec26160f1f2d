package identifier

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// displayName returns the English name of tag, falling back to code
func displayName(tag language.Tag, code string) string {
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
