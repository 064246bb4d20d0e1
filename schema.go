package nodeskema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Chendemo12/fastapi-tool/logger"

	"github.com/reoring/nodeskema/i18n"
)

// Binding attaches a node to an attribute name.
type Binding struct {
	Name string
	Node *Node
}

// Bind is shorthand for Binding{Name: name, Node: n}.
func Bind(name string, n *Node) Binding { return Binding{Name: name, Node: n} }

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithLogger makes the schema report rejected instantiations at debug level.
func WithLogger(l logger.Iface) SchemaOption { return func(s *Schema) { s.log = l } }

// Schema is a named, ordered set of nodes. It is read-only after Build and
// safe for concurrent use.
type Schema struct {
	name  string
	names []string
	nodes map[string]*Node
	log   logger.Iface
}

// Build validates the bindings and assembles a Schema. Nodes are cloned, so
// the caller's nodes may be reused elsewhere.
func Build(name string, bindings []Binding, opts ...SchemaOption) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: schema name is empty", ErrInvalidDefinition)
	}
	s := &Schema{
		name:  name,
		names: make([]string, 0, len(bindings)),
		nodes: make(map[string]*Node, len(bindings)),
	}
	for i, b := range bindings {
		if b.Node == nil {
			return nil, fmt.Errorf("%w: schema %s binding %d (%q) has no node", ErrInvalidDefinition, name, i, b.Name)
		}
		attr := b.Name
		if attr == "" {
			attr = b.Node.name
		}
		if attr == "" {
			return nil, fmt.Errorf("%w: schema %s binding %d has no name", ErrInvalidDefinition, name, i)
		}
		if b.Node.name != "" && b.Node.name != attr {
			return nil, fmt.Errorf("%w: schema %s binds node %q as %q", ErrInvalidDefinition, name, b.Node.name, attr)
		}
		if _, dup := s.nodes[attr]; dup {
			return nil, fmt.Errorf("%w: schema %s declares %q twice", ErrInvalidDefinition, name, attr)
		}
		n := b.Node.clone()
		n.name = attr
		if err := n.Check(); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		s.names = append(s.names, attr)
		s.nodes[attr] = n
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustBuild is like Build but panics on definition errors.
func MustBuild(name string, bindings []Binding, opts ...SchemaOption) *Schema {
	s, err := Build(name, bindings, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// With returns a copy of s with opts applied. Nodes are shared.
func (s *Schema) With(opts ...SchemaOption) *Schema {
	c := *s
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

func (s *Schema) Name() string { return s.name }

// Names returns the attribute names in declaration order.
func (s *Schema) Names() []string { return append([]string(nil), s.names...) }

// Node returns the node bound to name.
func (s *Schema) Node(name string) (*Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

func (s *Schema) Len() int { return len(s.names) }

func (s *Schema) String() string {
	return fmt.Sprintf("<%s schema, attributes:[%s]>", s.name, strings.Join(s.names, " "))
}

// Instantiate validates and coerces raw into an Instance. On failure the
// returned error is a *ValidationError holding every missing, invalid and
// unknown attribute found.
func (s *Schema) Instantiate(ctx context.Context, raw map[string]any) (*Instance, error) {
	verr := newValidationError(s.name)

	extras := make([]string, 0)
	for k := range raw {
		if _, ok := s.nodes[k]; !ok {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		verr.add(&AttributeError{Attribute: k, Index: -1, Value: raw[k], Code: CodeUnknownKey, Reason: i18n.T(CodeUnknownKey, nil)})
	}

	values := make(map[string]any, len(s.names))
	for _, name := range s.names {
		v, present := raw[name]
		out, err := s.nodes[name].Coerce(ctx, v, present)
		if err != nil {
			ae, ok := err.(*AttributeError)
			if !ok {
				ae = &AttributeError{Attribute: name, Index: -1, Value: v, Code: CodeInvalidType, Reason: err.Error(), Cause: err}
			}
			verr.add(ae)
			continue
		}
		values[name] = out
	}

	if !verr.empty() {
		verr.seal()
		if s.log != nil {
			s.log.Debug("nodeskema: rejected", s.name, "instance:", verr.Error())
		}
		return nil, verr
	}
	return &Instance{schema: s, values: values}, nil
}
