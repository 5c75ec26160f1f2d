// Package lexer splits a metadata description file into raw sections.
// Sections are separated by lines containing only "---"; each resulting
// chunk keeps the file line it starts on so diagnostics can point back
// into the original file.
package lexer

import (
	"strings"
)

const (
	// SectionSeparator separates sections in a description file
	SectionSeparator = "---"
	// documentEnd is the YAML end-of-document marker, which carries no content
	documentEnd = "..."
	bom         = "\ufeff"
)

// Chunk is the raw text of one section
type Chunk struct {
	Index int    // Section index (empty chunks are not counted)
	Line  int    // File line of the chunk's first line (1-indexed)
	Text  string // Section text without the separator lines
}

// Lexer splits description files into chunks.
//
// Thread Safety: Lexer instances are NOT thread-safe. Each goroutine must
// create its own Lexer instance via New().
type Lexer struct {
	source string
	chunks []Chunk
}

// New creates a new Lexer for the given source
func New(source string) *Lexer {
	return &Lexer{
		source: strings.TrimPrefix(source, bom),
		chunks: make([]Chunk, 0),
	}
}

// ScanChunks splits the source into non-empty chunks in declaration order
func (l *Lexer) ScanChunks() []Chunk {
	lines := strings.Split(strings.ReplaceAll(l.source, "\r\n", "\n"), "\n")

	start := 1
	var current []string
	for i, line := range lines {
		lineNo := i + 1
		if IsSeparator(line) {
			l.emit(start, current)
			current = nil
			start = lineNo + 1
			continue
		}
		if strings.TrimRight(line, " \t") == documentEnd {
			current = append(current, "")
			continue
		}
		current = append(current, line)
	}
	l.emit(start, current)

	return l.chunks
}

// emit records a chunk unless it holds nothing but blank lines and comments
func (l *Lexer) emit(start int, lines []string) {
	if isBlank(lines) {
		return
	}
	l.chunks = append(l.chunks, Chunk{
		Index: len(l.chunks),
		Line:  start,
		Text:  strings.Join(lines, "\n"),
	})
}

// IsSeparator reports whether line is a section separator. A separator may
// be followed by a comment.
func IsSeparator(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == SectionSeparator {
		return true
	}
	if !strings.HasPrefix(trimmed, SectionSeparator) {
		return false
	}
	rest := strings.TrimLeft(trimmed[len(SectionSeparator):], " \t")
	return len(rest) < len(trimmed)-len(SectionSeparator) && strings.HasPrefix(rest, "#")
}

// isBlank reports whether every line is empty or a comment
func isBlank(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return false
		}
	}
	return true
}
