package nodeskema

import "reflect"

// deepCopy copies maps and slices recursively so that defaults handed out by
// a node never alias the declared value. Other values are returned as is.
func deepCopy(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case *OrderedMap:
		return t.clone()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyValue(iter.Value(), rv.Type().Elem()))
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(copyValue(rv.Index(i), rv.Type().Elem()))
		}
		return out.Interface()
	}
	return v
}

func copyValue(v reflect.Value, typ reflect.Type) reflect.Value {
	c := reflect.ValueOf(deepCopy(v.Interface()))
	if !c.IsValid() {
		return reflect.Zero(typ)
	}
	return c
}

// toSlice converts a slice or array into a fresh []any. Strings are not
// sequences.
func toSlice(v any) ([]any, bool) {
	if t, ok := v.([]any); ok {
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
