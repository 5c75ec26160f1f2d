// Package parser turns the raw sections of a description file into
// ast.Sections. Each section is decoded with yaml.v3 and every field is
// checked against ast.Schema; a malformed section fails on its own and
// never prevents its siblings from loading.
package parser

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/compiler/lexer"
)

// Parser transforms raw chunks into sections
type Parser struct {
	chunks      []lexer.Chunk
	file        string
	diagnostics errors.List
}

// New creates a new parser for the given chunks
func New(chunks []lexer.Chunk) *Parser {
	return &Parser{
		chunks:      chunks,
		diagnostics: make(errors.List, 0),
	}
}

// WithFile sets the file name reported in diagnostics
func (p *Parser) WithFile(file string) *Parser {
	p.file = file
	return p
}

// ParseSource splits and parses a whole description file
func ParseSource(file string, source []byte) ([]*ast.Section, errors.List) {
	chunks := lexer.New(string(source)).ScanChunks()
	return New(chunks).WithFile(file).Parse()
}

// Parse parses every chunk and returns the sections that loaded, in
// declaration order, together with all diagnostics
func (p *Parser) Parse() ([]*ast.Section, errors.List) {
	sections := make([]*ast.Section, 0, len(p.chunks))
	seen := make(map[string]int)

	for _, chunk := range p.chunks {
		section := p.parseSection(chunk)
		if section == nil {
			continue
		}

		if section.ID == "" {
			if section.Abstract {
				p.report(errors.NewAbstractWithoutID(section.Loc))
			} else {
				p.report(errors.NewMissingID(section.Loc))
			}
			continue
		}

		if first, dup := seen[section.ID]; dup {
			p.report(errors.NewDuplicateID(section.Loc, section.ID, first))
			continue
		}
		seen[section.ID] = section.Index

		sections = append(sections, section)
	}

	return sections, p.diagnostics
}

// parseSection decodes one chunk. It returns nil if the section failed.
func (p *Parser) parseSection(chunk lexer.Chunk) *ast.Section {
	loc := ast.SourceLocation{Section: chunk.Index, Line: chunk.Line}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(chunk.Text), &doc); err != nil {
		p.report(errors.NewMalformedSection(loc, err.Error()))
		return nil
	}
	if len(doc.Content) == 0 {
		return nil
	}

	root := deref(doc.Content[0])
	loc.Line = chunk.Line + root.Line - 1
	if root.Kind != yaml.MappingNode {
		p.report(errors.NewSectionNotMapping(loc, kindName(root)))
		return nil
	}

	section := &ast.Section{
		Index:  chunk.Index,
		Fields: make(ast.Fields),
		Loc:    loc,
	}

	failed := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], deref(root.Content[i+1])
		fieldLoc := ast.SourceLocation{Section: chunk.Index, Line: chunk.Line + key.Line - 1}

		shape, known := ast.LookupShape(key.Value)
		if !known {
			p.report(errors.NewUnknownField(fieldLoc, key.Value))
			continue
		}

		decoded, present, ok := decodeField(value, shape)
		if !ok {
			p.report(errors.NewInvalidFieldShape(fieldLoc, key.Value, shape, kindName(value)))
			failed = true
			continue
		}
		if !present {
			continue
		}

		switch key.Value {
		case ast.FieldID:
			section.ID = decoded.(string)
		case ast.FieldAbstract:
			section.Abstract = decoded.(bool)
		case ast.FieldParent:
			section.Parent = decoded.(string)
		default:
			section.Fields[key.Value] = decoded
		}
	}

	if failed {
		// Attribute the shape errors to the section id once it is known
		for _, d := range p.diagnostics {
			if d.Location.Section == chunk.Index && d.SectionID == "" {
				d.WithSection(section.ID)
			}
		}
		return nil
	}
	return section
}

// report records a diagnostic
func (p *Parser) report(err *errors.MetadataError) {
	if p.file != "" {
		err.WithFile(p.file)
	}
	p.diagnostics = append(p.diagnostics, err)
}

// deref follows alias nodes to their anchors
func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// kindName describes a node for shape error messages
func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return "null"
		case "!!bool":
			return "boolean"
		case "!!int", "!!float":
			return "number"
		default:
			return "string"
		}
	case yaml.DocumentNode:
		return "document"
	default:
		return "node kind " + strconv.Itoa(int(node.Kind))
	}
}
