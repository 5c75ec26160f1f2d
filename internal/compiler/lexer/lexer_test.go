package lexer

import (
	"testing"
)

// Helper function to create a lexer and scan chunks
func scanSource(source string) []Chunk {
	lexer := New(source)
	return lexer.ScanChunks()
}

func TestScanSingleSection(t *testing.T) {
	chunks := scanSource("id: sbx-swe-pos-hunpos\ntask: pos\n")

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Line != 1 {
		t.Errorf("Expected chunk to start at line 1, got %d", chunks[0].Line)
	}
	if chunks[0].Index != 0 {
		t.Errorf("Expected index 0, got %d", chunks[0].Index)
	}
}

func TestScanMultipleSections(t *testing.T) {
	source := `---
id: sbx-swe-dep-parent
abstract: true
---
id: sbx-swe-dep-malt-ud
parent: sbx-swe-dep-parent
---
id: sbx-swe-dep-malt-sdt
parent: sbx-swe-dep-parent
`
	chunks := scanSource(source)

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}

	expectedLines := []int{2, 5, 8}
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("Chunk %d: expected index %d, got %d", i, i, chunk.Index)
		}
		if chunk.Line != expectedLines[i] {
			t.Errorf("Chunk %d: expected line %d, got %d", i, expectedLines[i], chunk.Line)
		}
	}

	if chunks[1].Text != "id: sbx-swe-dep-malt-ud\nparent: sbx-swe-dep-parent" {
		t.Errorf("Unexpected chunk text: %q", chunks[1].Text)
	}
}

func TestScanSkipsBlankAndCommentChunks(t *testing.T) {
	source := `# Metadata for the stanza module
---
id: a-swe-b-c
---

# nothing here
---
id: d-swe-e-f
`
	chunks := scanSource(source)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Index != 1 {
		t.Errorf("Blank chunks should not consume an index, got %d", chunks[1].Index)
	}
	if chunks[1].Line != 7 {
		t.Errorf("Expected second chunk at line 7, got %d", chunks[1].Line)
	}
}

func TestScanKeepsSeparatorInsideBlockScalar(t *testing.T) {
	// Indented dashes are content, not separators
	source := "id: a-swe-b-c\nexample_output: |\n  ---\n  text\n"
	chunks := scanSource(source)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
}

func TestScanHandlesCRLFAndBOM(t *testing.T) {
	source := "\ufeffid: a-swe-b-c\r\n---\r\nid: d-swe-e-f\r\n"
	chunks := scanSource(source)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "id: a-swe-b-c" {
		t.Errorf("Unexpected first chunk: %q", chunks[0].Text)
	}
}

func TestScanDocumentEndMarker(t *testing.T) {
	source := "id: a-swe-b-c\n...\n---\nid: d-swe-e-f\n"
	chunks := scanSource(source)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
}

func TestIsSeparator(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"---", true},
		{"---   ", true},
		{"--- # analyses", true},
		{"---#x", false},
		{"----", false},
		{"  ---", false},
		{"--- id: x", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSeparator(tt.line); got != tt.expected {
			t.Errorf("IsSeparator(%q) = %v, expected %v", tt.line, got, tt.expected)
		}
	}
}
