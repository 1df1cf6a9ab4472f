package fixer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// node is one JSON value. Objects keep their key order; a repeated key keeps
// its first position and its last value. Numbers, booleans and null keep
// their source text.
type node struct {
	kind jsonparser.ValueType
	raw  []byte
	str  string
	obj  *orderedmap.OrderedMap[string, *node]
	arr  []*node
}

// parseDocument builds the tree for data, which must already be valid JSON.
func parseDocument(data []byte) (*node, error) {
	value, kind, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	return parseValue(value, kind)
}

func parseValue(value []byte, kind jsonparser.ValueType) (*node, error) {
	n := &node{kind: kind}
	switch kind {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, err
		}
		n.str = s
	case jsonparser.Object:
		n.obj = orderedmap.New[string, *node]()
		err := jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			child, err := parseValue(v, t)
			if err != nil {
				return err
			}
			n.obj.Set(string(key), child)
			return nil
		})
		if err != nil {
			return nil, err
		}
	case jsonparser.Array:
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			child, err := parseValue(v, t)
			if err != nil {
				inner = err
				return
			}
			n.arr = append(n.arr, child)
		})
		if err == nil {
			err = inner
		}
		if err != nil {
			return nil, err
		}
	case jsonparser.Number, jsonparser.Boolean, jsonparser.Null:
		n.raw = bytes.Clone(value)
	default:
		return nil, fmt.Errorf("unexpected value type %s", kind)
	}
	return n, nil
}

// field returns the value stored under key in an object node.
func (n *node) field(key string) (*node, bool) {
	if n.kind != jsonparser.Object {
		return nil, false
	}
	return n.obj.Get(key)
}

// encode writes n indented by indent per level, without a trailing newline.
func (n *node) encode(b *bytes.Buffer, depth int) error {
	switch n.kind {
	case jsonparser.String:
		return writeString(b, n.str)
	case jsonparser.Object:
		if n.obj.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		for pair := n.obj.Oldest(); pair != nil; pair = pair.Next() {
			b.WriteString(strings.Repeat(indent, depth+1))
			if err := writeString(b, pair.Key); err != nil {
				return err
			}
			b.WriteString(": ")
			if err := pair.Value.encode(b, depth+1); err != nil {
				return err
			}
			if pair.Next() != nil {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteByte('}')
	case jsonparser.Array:
		if len(n.arr) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, item := range n.arr {
			b.WriteString(strings.Repeat(indent, depth+1))
			if err := item.encode(b, depth+1); err != nil {
				return err
			}
			if i < len(n.arr)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteByte(']')
	default:
		b.Write(n.raw)
	}
	return nil
}

// writeString writes s as a JSON string with non-ASCII and HTML characters
// left literal.
func writeString(b *bytes.Buffer, s string) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	b.Truncate(b.Len() - 1) // Encode appends '\n'
	return nil
}
