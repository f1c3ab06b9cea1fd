// Package source decodes YAML and JSON documents into the ordered raw data
// recordkit constructs records from, and encodes dumps back to text.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/recordkit"
)

// DuplicateKeyError reports a duplicate key found in a mapping with both the
// first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("duplicate key %q", e.Key)
	}
	return fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// YAMLReader decodes a multi-document YAML stream through yaml.Node so key
// order is kept and duplicate keys are rejected with positions.
type YAMLReader struct {
	dec *yaml.Decoder
}

// NewYAMLReader constructs a YAMLReader.
func NewYAMLReader(r io.Reader) *YAMLReader {
	return &YAMLReader{dec: yaml.NewDecoder(r)}
}

// Next returns the next document as raw data: *recordkit.Mapping, []any or a
// scalar. It returns (nil, io.EOF) when the stream is exhausted.
func (s *YAMLReader) Next() (any, error) {
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return fromNode(&root)
}

// ReadAll reads all documents from the stream.
func (s *YAMLReader) ReadAll() ([]any, error) {
	var out []any
	for {
		v, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// YAML decodes the first document of data. An empty input yields nil.
func YAML(data []byte) (any, error) {
	v, err := NewYAMLReader(bytes.NewReader(data)).Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return v, err
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		m := recordkit.NewMapping(len(n.Content) / 2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				if err := mergeInto(m, v); err != nil {
					return nil, err
				}
				continue
			}
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := fromNode(v)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalar(n), nil
	}
	return nil, nil
}

// mergeInto applies a "<<" merge key; explicit keys already set win.
func mergeInto(dst *recordkit.Mapping, v *yaml.Node) error {
	src, err := fromNode(v)
	if err != nil {
		return err
	}
	var sources []any
	if items, ok := src.([]any); ok {
		sources = items
	} else {
		sources = []any{src}
	}
	for _, s := range sources {
		m, ok := s.(*recordkit.Mapping)
		if !ok {
			return fmt.Errorf("merge key at %d:%d: expected mapping", v.Line, v.Column)
		}
		for k, val := range m.All() {
			if !dst.Has(k) {
				dst.Set(k, val)
			}
		}
	}
	return nil
}

func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
