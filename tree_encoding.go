package gtp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// jsonNode and jsonLeaf are the two shapes trees are exchanged in:
// `{type, children}` and `{type, raw}`.  Ranges aren't serialized.
type jsonNode struct {
	Type     string `json:"type" yaml:"type"`
	Children []AST  `json:"children" yaml:"children"`
}

type jsonLeaf struct {
	Type string `json:"type" yaml:"type"`
	Raw  string `json:"raw" yaml:"raw"`
}

func (n *Node) shape() jsonNode {
	children := n.Children
	if children == nil {
		children = []AST{}
	}
	return jsonNode{Type: n.Name, Children: children}
}

func (n *Node) MarshalJSON() ([]byte, error)      { return marshalJSON(n.shape()) }
func (n *Node) MarshalYAML() (interface{}, error) { return n.shape(), nil }

func (l *Leaf) MarshalJSON() ([]byte, error) {
	return marshalJSON(jsonLeaf{Type: l.Name, Raw: l.Raw})
}

func (l *Leaf) MarshalYAML() (interface{}, error) {
	return jsonLeaf{Type: l.Name, Raw: l.Raw}, nil
}

// marshalJSON is json.Marshal without escaping HTML characters, which
// are common in the raw text of tokens
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodeJSON writes `tree` as JSON.  The output is indented with
// `indent` per level unless it's empty.
func EncodeJSON(w io.Writer, tree AST, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encoding tree as json: %w", err)
	}
	return nil
}

// EncodeYAML writes `tree` as a YAML document
func EncodeYAML(w io.Writer, tree AST) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encoding tree as yaml: %w", err)
	}
	return enc.Close()
}
