package dsl

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/reoring/nodeskema"
)

var nodeType = reflect.TypeOf((*nodeskema.Node)(nil))

// Declare builds a schema from the exported *nodeskema.Node fields of decl, a
// struct or pointer to struct, in field order. An empty name falls back to
// the struct type name.
//
//	var Point = dsl.MustDeclare("", struct {
//		Lat *nodeskema.Node
//		Lng *nodeskema.Node `json:"lng"`
//	}{nodeskema.FloatNode(nodeskema.Required()), nodeskema.FloatNode(nodeskema.Required())})
func Declare(name string, decl any, opts ...nodeskema.SchemaOption) (*nodeskema.Schema, error) {
	rv := reflect.ValueOf(decl)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil declaration", nodeskema.ErrInvalidDefinition)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: declaration must be a struct, got %T", nodeskema.ErrInvalidDefinition, decl)
	}
	rt := rv.Type()
	if name == "" {
		name = rt.Name()
	}

	var bindings []nodeskema.Binding
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Type != nodeType {
			continue
		}
		key := ResolveKey(sf)
		if key == "-" {
			continue
		}
		n, _ := rv.Field(i).Interface().(*nodeskema.Node)
		if n == nil {
			return nil, fmt.Errorf("%w: %s.%s has no node", nodeskema.ErrInvalidDefinition, name, sf.Name)
		}
		bindings = append(bindings, nodeskema.Bind(key, n))
	}
	return nodeskema.Build(name, bindings, opts...)
}

// MustDeclare is like Declare but panics on error.
func MustDeclare(name string, decl any, opts ...nodeskema.SchemaOption) *nodeskema.Schema {
	s, err := Declare(name, decl, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// ResolveKey determines the attribute name of a declaration field.
// Priority: nodeskema:"name=..." > json tag > snake_case field name.
// "-" means the field is skipped.
func ResolveKey(sf reflect.StructField) string {
	if nt := sf.Tag.Get("nodeskema"); nt != "" {
		for _, p := range strings.Split(nt, ",") {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt
		}
	}
	return snakeCase(sf.Name)
}

// snakeCase converts a Go identifier: CountryCode -> country_code,
// ImageURL -> image_url.
func snakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
