package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a record serialization format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (expected yaml or json)", s)
}

// Extension returns the file extension for the format
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// Marshal serializes v in the given format. The output is deterministic.
func Marshal(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return MarshalJSON(v)
	case FormatYAML, "":
		return MarshalYAML(v)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// MarshalYAML serializes v as block-style YAML with two-space indentation.
// Multi-line strings are written as literal blocks.
func MarshalYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON serializes v as indented JSON without HTML escaping, since
// examples routinely contain markup
func MarshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeText trims multi-line text and strips trailing whitespace from
// each line. Trailing whitespace would prevent literal block output.
func normalizeText(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}
