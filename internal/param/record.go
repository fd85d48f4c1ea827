package param

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Field is one entry of a Record.
type Field struct {
	ID    string
	Value any
}

// Record is an ordered id -> value mapping. Containers use it both for their
// stored values and as the argument to their transformer.
type Record []Field

// Get returns the value stored under id.
func (r Record) Get(id string) (any, bool) {
	for _, f := range r {
		if f.ID == id {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the ids in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.ID
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r) }

// Map converts the record and any nested records into plain maps.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		if nested, ok := f.Value.(Record); ok {
			m[f.ID] = nested.Map()
			continue
		}
		m[f.ID] = f.Value
	}
	return m
}

// MarshalJSON encodes the record as an object, keeping field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as a mapping, keeping field order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r {
		var val yaml.Node
		if err := val.Encode(f.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.ID},
			&val,
		)
	}
	return node, nil
}
