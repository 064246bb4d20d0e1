package nodeskema

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/multierr"

	"github.com/reoring/nodeskema/i18n"
)

// Node is the definition of one attribute: its expected types, presence rule,
// default, array flag and validators. Nodes are immutable once built and may
// be shared between schemas.
type Node struct {
	name       string
	types      []Type
	required   bool
	def        any
	hasDefault bool
	array      bool
	validators []Validator
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// Required marks the attribute as mandatory.
func Required() NodeOption { return func(n *Node) { n.required = true } }

// Default sets the value used when the attribute is absent or nil.
func Default(v any) NodeOption {
	return func(n *Node) {
		n.def = v
		n.hasDefault = true
	}
}

// Array makes the attribute a sequence of the node's types.
func Array() NodeOption { return func(n *Node) { n.array = true } }

// Validators appends predicates run on the coerced value.
func Validators(v ...Validator) NodeOption {
	return func(n *Node) { n.validators = append(n.validators, v...) }
}

// Named sets the attribute name. Schema construction fills it in from the
// binding when empty.
func Named(name string) NodeOption { return func(n *Node) { n.name = name } }

// NewNode creates a node accepting any of types, tried in order.
func NewNode(types []Type, opts ...NodeOption) *Node {
	n := &Node{types: append([]Type(nil), types...)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// With returns a copy of n with opts applied on top of its definition.
func (n *Node) With(opts ...NodeOption) *Node {
	c := n.clone()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func IntegerNode(opts ...NodeOption) *Node   { return NewNode([]Type{Integer()}, opts...) }
func FloatNode(opts ...NodeOption) *Node     { return NewNode([]Type{Float()}, opts...) }
func StringNode(opts ...NodeOption) *Node    { return NewNode([]Type{String()}, opts...) }
func BooleanNode(opts ...NodeOption) *Node   { return NewNode([]Type{Boolean()}, opts...) }
func TimestampNode(opts ...NodeOption) *Node { return NewNode([]Type{Timestamp()}, opts...) }
func MappingNode(opts ...NodeOption) *Node   { return NewNode([]Type{Mapping()}, opts...) }
func VersionNode(opts ...NodeOption) *Node   { return NewNode([]Type{Version()}, opts...) }

// SchemaNode creates a node whose values are instances of s.
func SchemaNode(s *Schema, opts ...NodeOption) *Node {
	return NewNode([]Type{SchemaOf(s)}, opts...)
}

func (n *Node) Name() string  { return n.name }
func (n *Node) Types() []Type { return append([]Type(nil), n.types...) }

func (n *Node) IsRequired() bool { return n.required }
func (n *Node) IsArray() bool    { return n.array }

// Default returns a deep copy of the declared default and whether one was set.
func (n *Node) Default() (any, bool) { return deepCopy(n.def), n.hasDefault }

func (n *Node) Validators() []Validator { return append([]Validator(nil), n.validators...) }

// TypeNames returns the names of the accepted types in order.
func (n *Node) TypeNames() []string {
	out := make([]string, len(n.types))
	for i, t := range n.types {
		if t != nil {
			out[i] = t.Name()
		}
	}
	return out
}

// Check verifies the definition-time invariants of the node.
func (n *Node) Check() error {
	if len(n.types) == 0 {
		return fmt.Errorf("%w: node %q declares no types", ErrInvalidDefinition, n.name)
	}
	for i, t := range n.types {
		if t == nil {
			return fmt.Errorf("%w: node %q has a nil type at %d", ErrInvalidDefinition, n.name, i)
		}
	}
	if n.required && n.hasDefault {
		return fmt.Errorf("%w (node %q)", ErrRequiredWithDefault, n.name)
	}
	if n.array && n.def != nil {
		if _, ok := toSlice(n.def); !ok {
			return fmt.Errorf("%w: array node %q has a %T default", ErrInvalidDefinition, n.name, n.def)
		}
	}
	for i, v := range n.validators {
		if v.Check == nil {
			return fmt.Errorf("%w: node %q has a nil validator at %d", ErrInvalidDefinition, n.name, i)
		}
	}
	return nil
}

func (n *Node) clone() *Node {
	c := *n
	c.types = append([]Type(nil), n.types...)
	c.validators = append([]Validator(nil), n.validators...)
	return &c
}

func (n *Node) schemaTyped() bool {
	for _, t := range n.types {
		if _, ok := isSchemaType(t); ok {
			return true
		}
	}
	return false
}

// Coerce produces the canonical value of the attribute from raw. present is
// false when the attribute is absent from the input. Failures are returned as
// *AttributeError.
func (n *Node) Coerce(ctx context.Context, raw any, present bool) (any, error) {
	if !present || raw == nil {
		if n.required {
			if !present {
				return nil, n.fail(CodeRequired, -1, nil, i18n.T(CodeRequired, nil), nil)
			}
			return nil, n.fail(CodeNull, -1, nil, i18n.T(CodeNull, nil), nil)
		}
		v, ae := n.defaultValue(ctx)
		if ae != nil {
			return nil, ae
		}
		return v, nil
	}
	if n.array {
		v, ae := n.coerceArray(ctx, raw)
		if ae != nil {
			return nil, ae
		}
		return v, nil
	}
	v, ae := n.coerceValue(ctx, raw, -1)
	if ae != nil {
		return nil, ae
	}
	if ae := n.validate(v, -1); ae != nil {
		return nil, ae
	}
	return v, nil
}

func (n *Node) defaultValue(ctx context.Context) (any, *AttributeError) {
	if n.def == nil {
		return nil, nil
	}
	def := deepCopy(n.def)
	if n.array {
		items, _ := toSlice(def)
		if !n.schemaTyped() {
			return items, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, ae := n.coerceValue(ctx, item, i)
			if ae != nil {
				return nil, ae
			}
			out[i] = v
		}
		return out, nil
	}
	if n.schemaTyped() {
		return n.coerceValue(ctx, def, -1)
	}
	return def, nil
}

func (n *Node) coerceArray(ctx context.Context, raw any) ([]any, *AttributeError) {
	items, ok := toSlice(raw)
	if !ok {
		return nil, n.fail(CodeNotArray, -1, raw, i18n.T(CodeNotArray, map[string]string{"value": describe(raw)}), nil)
	}
	out := make([]any, len(items))
	for i, item := range items {
		v, ae := n.coerceValue(ctx, item, i)
		if ae != nil {
			return nil, ae
		}
		if ae := n.validate(v, i); ae != nil {
			return nil, ae
		}
		out[i] = v
	}
	return out, nil
}

// coerceValue dispatches a single value over the node's types.
func (n *Node) coerceValue(ctx context.Context, raw any, idx int) (any, *AttributeError) {
	for _, t := range n.types {
		if t.Is(raw) {
			return raw, nil
		}
	}
	var causes error
	var nested *ValidationError
	var nestedType string
	for _, t := range n.types {
		v, err := t.Coerce(ctx, raw)
		if err == nil {
			return v, nil
		}
		if ve, ok := AsValidationError(err); ok && nested == nil {
			nested, nestedType = ve, t.Name()
		}
		causes = multierr.Append(causes, err)
	}
	if nested != nil {
		reason := i18n.T(CodeNested, map[string]string{"expected": nestedType}) + ": " + nested.Error()
		ae := n.fail(CodeNested, idx, raw, reason, nil)
		ae.Nested = nested
		return nil, ae
	}
	reason := i18n.T(CodeInvalidType, map[string]string{
		"value":    describe(raw),
		"expected": formatSet(n.TypeNames()),
	})
	return nil, n.fail(CodeInvalidType, idx, raw, reason, causes)
}

func (n *Node) validate(v any, idx int) *AttributeError {
	for _, val := range n.validators {
		ok, panicked := val.run(v)
		if ok {
			continue
		}
		reason := val.Message
		switch {
		case panicked != "":
			reason = panicked
		case reason == "":
			reason = i18n.T(CodeValidator, map[string]string{"value": describe(v)})
		}
		return n.fail(CodeValidator, idx, v, reason, nil)
	}
	return nil
}

func (n *Node) fail(code string, idx int, value any, reason string, cause error) *AttributeError {
	return &AttributeError{
		Attribute: n.name,
		Index:     idx,
		Value:     value,
		Expected:  n.TypeNames(),
		Code:      code,
		Reason:    reason,
		Cause:     cause,
	}
}

// describe renders a raw value for error reasons.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice {
		return fmt.Sprintf("%T", v)
	}
	return fmt.Sprint(v)
}
