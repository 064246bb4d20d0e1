package nodeskema

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/blang/semver/v4"
	json "github.com/goccy/go-json"
)

// Type is the coercion capability of a node's expected type. Coercion is an
// explicit, typed outcome: Coerce either returns a value of the canonical Go
// type or an error describing why the conversion is impossible.
type Type interface {
	// Name is used in error reasons ("float", "Point").
	Name() string
	// Is reports whether v already has the canonical Go type.
	Is(v any) bool
	// Coerce converts v into the canonical Go type.
	Coerce(ctx context.Context, v any) (any, error)
}

var errNotConvertible = errors.New("no conversion rule applies")

// NewType builds a Type from functions. is may be nil when no value is
// accepted as-is.
func NewType(name string, is func(any) bool, coerce func(context.Context, any) (any, error)) Type {
	return funcType{name: name, is: is, coerce: coerce}
}

type funcType struct {
	name   string
	is     func(any) bool
	coerce func(context.Context, any) (any, error)
}

func (t funcType) Name() string { return t.name }

func (t funcType) Is(v any) bool { return t.is != nil && t.is(v) }

func (t funcType) Coerce(ctx context.Context, v any) (any, error) {
	if t.coerce == nil {
		return nil, errNotConvertible
	}
	return t.coerce(ctx, v)
}

// Integer accepts int; other integer kinds, json.Number, integral floats and
// decimal strings are converted.
func Integer() Type { return integerType{} }

type integerType struct{}

func (integerType) Name() string { return "integer" }

func (integerType) Is(v any) bool {
	_, ok := v.(int)
	return ok
}

func (integerType) Coerce(_ context.Context, v any) (any, error) {
	if n, ok := v.(json.Number); ok {
		if i, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return integral(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if int64(int(n)) != n {
			return nil, fmt.Errorf("%d overflows int", n)
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return nil, fmt.Errorf("%d overflows int", u)
		}
		return int(u), nil
	case reflect.Float32, reflect.Float64:
		return integral(rv.Float())
	case reflect.String:
		n, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, strconv.IntSize)
		if err != nil {
			return nil, err
		}
		return int(n), nil
	}
	return nil, errNotConvertible
}

func integral(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not integral", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v overflows int", f)
	}
	return int(f), nil
}

// Float accepts float64; integers, float32 and numeric strings ("29.01",
// "inf") are converted.
func Float() Type { return floatType{} }

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Is(v any) bool {
	_, ok := v.(float64)
	return ok
}

func (floatType) Coerce(_ context.Context, v any) (any, error) {
	if n, ok := v.(json.Number); ok {
		return n.Float64()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
	}
	return nil, errNotConvertible
}

// String accepts string; numbers, bools, byte slices and fmt.Stringer values
// are rendered.
func String() Type { return stringType{} }

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Is(v any) bool {
	_, ok := v.(string)
	return ok
}

func (stringType) Coerce(_ context.Context, v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		return t.String(), nil
	case []byte:
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float()), nil
	}
	return nil, errNotConvertible
}

func formatFloat(f float64) string {
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Boolean accepts bool; strings are lower-cased and decoded as a JSON
// boolean ("TrUe" -> true).
func Boolean() Type { return booleanType{} }

type booleanType struct{}

func (booleanType) Name() string { return "boolean" }

func (booleanType) Is(v any) bool {
	_, ok := v.(bool)
	return ok
}

func (booleanType) Coerce(_ context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if _, num := v.(json.Number); num || rv.Kind() != reflect.String {
		return nil, errNotConvertible
	}
	var b bool
	if err := json.Unmarshal([]byte(strings.ToLower(strings.TrimSpace(rv.String()))), &b); err != nil {
		return nil, err
	}
	return b, nil
}

// TimestampLayout is the legacy layout accepted by Timestamp; anything after
// the first '.' (fractional seconds, zone) is dropped before parsing.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp accepts time.Time; strings in RFC 3339 or TimestampLayout are
// parsed.
func Timestamp() Type { return timestampType{} }

type timestampType struct{}

func (timestampType) Name() string { return "timestamp" }

func (timestampType) Is(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func (timestampType) Coerce(_ context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return nil, errNotConvertible
	}
	s := strings.TrimSpace(rv.String())
	// RFC3339Nano also accepts timestamps without fractional seconds
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	head, _, _ := strings.Cut(s, ".")
	return time.Parse(TimestampLayout, head)
}

// Mapping accepts map[string]any; ordered maps, other string-keyed maps and
// JSON object strings are converted.
func Mapping() Type { return mappingType{} }

type mappingType struct{}

func (mappingType) Name() string { return "mapping" }

func (mappingType) Is(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func (mappingType) Coerce(_ context.Context, v any) (any, error) {
	if m, ok := toStringMap(v); ok {
		return m, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return nil, errNotConvertible
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(rv.String()), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("null is not a mapping")
	}
	return m, nil
}

// toStringMap converts string-keyed maps (and ordered maps) into a fresh
// map[string]any.
func toStringMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return t, true
	case *OrderedMap:
		if t == nil {
			return nil, false
		}
		return t.Map(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Version accepts semver.Version; strings are parsed tolerantly ("v1.2" ->
// 1.2.0).
func Version() Type { return versionType{} }

type versionType struct{}

func (versionType) Name() string { return "version" }

func (versionType) Is(v any) bool {
	_, ok := v.(semver.Version)
	return ok
}

func (versionType) Coerce(_ context.Context, v any) (any, error) {
	switch t := v.(type) {
	case *semver.Version:
		if t == nil {
			return nil, errNotConvertible
		}
		return *t, nil
	case json.Number:
		return nil, errNotConvertible
	case fmt.Stringer:
		return semver.ParseTolerant(t.String())
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return nil, errNotConvertible
	}
	return semver.ParseTolerant(rv.String())
}

// SchemaOf makes s usable as a node type. Values are always re-dispatched
// through s.Instantiate, including instances built earlier; the coerced value
// is an *Instance.
func SchemaOf(s *Schema) Type { return schemaType{schema: s} }

type schemaType struct{ schema *Schema }

func (t schemaType) Name() string { return t.schema.Name() }

func (schemaType) Is(any) bool { return false }

func (t schemaType) Coerce(ctx context.Context, v any) (any, error) {
	var raw map[string]any
	if inst, ok := v.(*Instance); ok && inst != nil {
		raw = inst.ToDict().Map()
	} else if m, ok := toStringMap(v); ok {
		raw = m
	} else {
		return nil, fmt.Errorf("%T is not a mapping", v)
	}
	inst, err := t.schema.Instantiate(ctx, raw)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func isSchemaType(t Type) (*Schema, bool) {
	st, ok := t.(schemaType)
	if !ok {
		return nil, false
	}
	return st.schema, true
}
