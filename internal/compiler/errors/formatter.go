package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *MetadataError) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)

	file := e.File
	if file == "" {
		file = "<source>"
	}

	fmt.Fprintf(&b, "%s %s in %s\n", icon, e.Kind(), file)
	fmt.Fprintf(&b, "Section %d, Line %d%s:\n", e.Location.Section, e.Location.Line, sectionLabel(e))
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Expected != "" || e.Actual != "" {
		b.WriteString("\n")
		if e.Expected != "" {
			fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(&b, "  Actual:   %s\n", e.Actual)
		}
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	return b.String()
}

// FormatList returns a formatted string of all diagnostics
func FormatList(list List) string {
	if len(list) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount := list.Count()
	fmt.Fprintf(&b, "Metadata resolution reported %d error(s), %d warning(s)\n\n", errCount, warnCount)

	for i, err := range list {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *MetadataError) string {
	file := e.File
	if file == "" {
		file = "<source>"
	}
	return fmt.Sprintf("%s:%d: %s: %s [%s]",
		file, e.Location.Line, e.Severity, e.Message, e.Code)
}

// sectionLabel names the offending section by id if it has one
func sectionLabel(e *MetadataError) string {
	if e.SectionID == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", e.SectionID)
}

// severityIcon returns the emoji/icon for a severity level
func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	default:
		return "❓"
	}
}
