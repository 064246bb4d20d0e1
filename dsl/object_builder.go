package dsl

import "github.com/reoring/nodeskema"

type objectBuilder struct {
	name     string
	bindings []nodeskema.Binding
	opts     []nodeskema.SchemaOption
}

type fieldStep struct {
	b   *objectBuilder
	idx int
}

// Object creates a schema builder. Fields keep the order they are added in.
func Object(name string) *objectBuilder { return &objectBuilder{name: name} }

// Field registers a field with its node.
func (b *objectBuilder) Field(name string, n *nodeskema.Node) *fieldStep {
	b.bindings = append(b.bindings, nodeskema.Bind(name, n))
	return &fieldStep{b: b, idx: len(b.bindings) - 1}
}

// Options appends schema options applied at Build.
func (b *objectBuilder) Options(opts ...nodeskema.SchemaOption) *objectBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build assembles the schema; definition errors surface here.
func (b *objectBuilder) Build(opts ...nodeskema.SchemaOption) (*nodeskema.Schema, error) {
	return nodeskema.Build(b.name, b.bindings, append(append([]nodeskema.SchemaOption(nil), b.opts...), opts...)...)
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild(opts ...nodeskema.SchemaOption) *nodeskema.Schema {
	s, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (f *fieldStep) with(opts ...nodeskema.NodeOption) *objectBuilder {
	bd := &f.b.bindings[f.idx]
	if bd.Node != nil {
		bd.Node = bd.Node.With(opts...)
	}
	return f.b
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder { return f.with(nodeskema.Required()) }

// Default sets the field default and returns the builder.
func (f *fieldStep) Default(v any) *objectBuilder { return f.with(nodeskema.Default(v)) }

// Array turns the field into an array and returns the builder.
func (f *fieldStep) Array() *objectBuilder { return f.with(nodeskema.Array()) }

// Validate appends validators to the field and returns the builder.
func (f *fieldStep) Validate(v ...nodeskema.Validator) *objectBuilder {
	return f.with(nodeskema.Validators(v...))
}

func (f *fieldStep) Field(name string, n *nodeskema.Node) *fieldStep { return f.b.Field(name, n) }
func (f *fieldStep) Options(opts ...nodeskema.SchemaOption) *objectBuilder {
	return f.b.Options(opts...)
}
func (f *fieldStep) Build(opts ...nodeskema.SchemaOption) (*nodeskema.Schema, error) {
	return f.b.Build(opts...)
}
func (f *fieldStep) MustBuild(opts ...nodeskema.SchemaOption) *nodeskema.Schema {
	return f.b.MustBuild(opts...)
}

// F is shorthand for a binding, for use with Schema.
func F(name string, n *nodeskema.Node) nodeskema.Binding { return nodeskema.Bind(name, n) }

// Schema builds a schema from bindings in one call and panics on definition
// errors. It suits package-level schema variables.
func Schema(name string, fields ...nodeskema.Binding) *nodeskema.Schema {
	return nodeskema.MustBuild(name, fields)
}
