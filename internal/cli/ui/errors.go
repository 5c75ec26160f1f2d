package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ MODULE NOT FOUND: stanz
//	   Cannot find module 'stanz'.
//
//	   Did you mean: stanza?
//
//	   → List modules: sbxmeta check
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	headerColor, bodyColor, symbol := levelStyle(opts.Level)
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Problem != "" && opts.Context != "" {
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

func levelStyle(level ErrorLevel) (header, body *color.Color, symbol string) {
	switch level {
	case ErrorLevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case ErrorLevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// FormatDiagnostic renders a resolution diagnostic with its location,
// expected and actual values and suggestion
func FormatDiagnostic(d *errors.MetadataError, noColor bool) string {
	level := ErrorLevelError
	if !d.IsError() {
		level = ErrorLevelWarning
	}

	where := d.File
	if where == "" {
		where = "<source>"
	}
	where = fmt.Sprintf("%s, section %d, line %d", where, d.Location.Section, d.Location.Line)
	if d.SectionID != "" {
		where += fmt.Sprintf(" (%s)", d.SectionID)
	}

	var details []string
	if d.Expected != "" {
		details = append(details, "Expected: "+d.Expected)
	}
	if d.Actual != "" {
		details = append(details, "Actual:   "+d.Actual)
	}

	opts := ErrorOptions{
		Level:       level,
		Context:     string(d.Code),
		Problem:     d.Kind() + ": " + d.Message,
		Consequence: strings.Join(append([]string{where}, details...), "\n   "),
		NoColor:     noColor,
	}
	if d.Suggestion != "" {
		opts.HelpCommands = []string{d.Suggestion}
	}
	return FormatError(opts)
}

// ModuleNotFoundError creates a standardized module not found error
func ModuleNotFoundError(name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "MODULE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find module '%s'.", name),
		Suggestions: suggestions,
		HelpCommands: []string{
			"List modules: sbxmeta check",
			"Get help: sbxmeta check --help",
		},
		NoColor: noColor,
	})
}

// ExportError creates a standardized export failure message
func ExportError(message string, failed int, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "EXPORT INCOMPLETE",
		Problem:     message,
		Consequence: fmt.Sprintf("%d section(s) were not exported. All other records were written.", failed),
		HelpCommands: []string{
			"Show details: sbxmeta check",
			"Get help: sbxmeta export --help",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "CONFIGURATION ERROR",
		Problem:     message,
		Suggestions: suggestions,
		HelpCommands: []string{
			"View config: cat sbxmeta.yaml",
			"Get help: sbxmeta --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
