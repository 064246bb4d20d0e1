package nodeskema

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/blang/semver/v4"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// OrderedMap is an insertion-ordered string-keyed map. It is what
// Instance.ToDict returns and it keeps declaration order when encoded. The
// zero value is an empty map ready to use.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap { return &OrderedMap{values: map[string]any{}} }

// Set stores v under k, appending k when new.
func (m *OrderedMap) Set(k string, v any) {
	if m.values == nil {
		m.values = map[string]any{}
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *OrderedMap) Get(k string) (any, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *OrderedMap) Keys() []string { return append([]string(nil), m.keys...) }

func (m *OrderedMap) Len() int { return len(m.keys) }

// Map returns a shallow copy as a plain map.
func (m *OrderedMap) Map() map[string]any {
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func (m *OrderedMap) clone() *OrderedMap {
	if m == nil {
		return nil
	}
	c := &OrderedMap{keys: append([]string(nil), m.keys...), values: make(map[string]any, len(m.values))}
	for k, v := range m.values {
		c.values[k] = deepCopy(v)
	}
	return c
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m *OrderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(yamlValue(m.values[k])); err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}

// yamlValue renders values yaml.v3 would otherwise dump field by field.
func yamlValue(v any) any {
	switch t := v.(type) {
	case semver.Version:
		return t.String()
	case *semver.Version:
		if t != nil {
			return t.String()
		}
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlValue(e)
		}
		return out
	}
	return v
}

// Instance is a validated attribute set produced by Schema.Instantiate.
// Every declared attribute is present; optional attributes without input or
// default hold nil.
type Instance struct {
	schema *Schema
	values map[string]any
}

func (i *Instance) Schema() *Schema { return i.schema }

// Get returns the coerced value of the attribute name.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return v, ok
}

func (i *Instance) Has(name string) bool {
	_, ok := i.values[name]
	return ok
}

// Names returns the attribute names in declaration order.
func (i *Instance) Names() []string { return i.schema.Names() }

// ToDict exports the attributes in declaration order. Nested instances become
// *OrderedMap values and containers are copied.
func (i *Instance) ToDict() *OrderedMap {
	m := NewOrderedMap()
	for _, name := range i.schema.names {
		m.Set(name, export(i.values[name]))
	}
	return m
}

func export(v any) any {
	switch t := v.(type) {
	case *Instance:
		if t == nil {
			return nil
		}
		return t.ToDict()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = export(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = export(e)
		}
		return out
	}
	return deepCopy(v)
}

func (i *Instance) String() string {
	names := i.schema.Names()
	sort.Strings(names)
	return fmt.Sprintf("<%s instance, attributes:%v>", i.schema.name, names)
}

func (i *Instance) MarshalJSON() ([]byte, error) { return i.ToDict().MarshalJSON() }

func (i *Instance) MarshalYAML() (any, error) { return i.ToDict().MarshalYAML() }

// Into decodes the instance into dst (a pointer to a struct or map) through
// its JSON form.
func (i *Instance) Into(dst any) error {
	b, err := i.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// Attr returns the attribute name as a T. Absent optional values yield the
// zero T.
func Attr[T any](inst *Instance, name string) (T, error) {
	var zero T
	v, ok := inst.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s has no attribute %q", ErrUnknownAttribute, inst.schema.name, name)
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("nodeskema: attribute %q holds %T, not %T", name, v, zero)
	}
	return t, nil
}
