package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
)

// decodeField converts a value node according to the field's shape. present
// is false for explicit nulls, which leave the field unset; ok is false when
// the node does not have the expected shape.
func decodeField(node *yaml.Node, shape ast.Shape) (value interface{}, present bool, ok bool) {
	if isNull(node) {
		return nil, false, true
	}

	switch shape {
	case ast.ShapeScalar:
		if node.Kind != yaml.ScalarNode {
			return nil, false, false
		}
		return node.Value, true, true

	case ast.ShapeBool:
		var b bool
		if node.Kind != yaml.ScalarNode || node.Decode(&b) != nil {
			return nil, false, false
		}
		return b, true, true

	case ast.ShapeLocalized:
		if node.Kind == yaml.ScalarNode {
			return node.Value, true, true
		}
		if node.Kind != yaml.MappingNode {
			return nil, false, false
		}
		text := make(map[string]string)
		if err := node.Decode(&text); err != nil {
			return nil, false, false
		}
		return text, true, true

	case ast.ShapeStringList:
		if node.Kind != yaml.SequenceNode {
			return nil, false, false
		}
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = deref(item)
			if item.Kind != yaml.ScalarNode || isNull(item) {
				return nil, false, false
			}
			items = append(items, item.Value)
		}
		return items, true, true

	case ast.ShapeResourceList:
		if node.Kind != yaml.SequenceNode {
			return nil, false, false
		}
		items := make([]interface{}, 0, len(node.Content))
		for _, item := range node.Content {
			item = deref(item)
			switch item.Kind {
			case yaml.ScalarNode:
				if isNull(item) {
					return nil, false, false
				}
				items = append(items, item.Value)
			case yaml.MappingNode:
				m := make(map[string]interface{})
				if err := item.Decode(&m); err != nil {
					return nil, false, false
				}
				items = append(items, m)
			default:
				return nil, false, false
			}
		}
		return items, true, true

	case ast.ShapeContact:
		switch node.Kind {
		case yaml.ScalarNode:
			if node.Value != ast.DefaultContactKeyword {
				return nil, false, false
			}
			return node.Value, true, true
		case yaml.MappingNode:
			m := make(map[string]interface{})
			if err := node.Decode(&m); err != nil {
				return nil, false, false
			}
			return m, true, true
		}
		return nil, false, false
	}

	return nil, false, false
}

// isNull reports whether a node is an explicit or implicit null
func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
