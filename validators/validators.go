// Package validators provides reusable predicates for nodeskema nodes.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/nodeskema"
)

var defaultValidator = validator.New()

// Tag checks the value against a go-playground/validator tag such as
// "email", "uuid4" or "hexcolor|rgb". An invalid tag rejects every value.
func Tag(tag string) nodeskema.Validator {
	return nodeskema.CheckMsg(fmt.Sprintf("failed %q validation", tag), func(v any) bool {
		return defaultValidator.Var(v, tag) == nil
	})
}

// length measures strings (in runes), slices, arrays and maps.
func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// Len requires a length of exactly n.
func Len(n int) nodeskema.Validator {
	return nodeskema.CheckMsg(fmt.Sprintf("length must be %d", n), func(v any) bool {
		l, ok := length(v)
		return ok && l == n
	})
}

// MinLen requires a length of at least n.
func MinLen(n int) nodeskema.Validator {
	return nodeskema.CheckMsg(fmt.Sprintf("length must be at least %d", n), func(v any) bool {
		l, ok := length(v)
		return ok && l >= n
	})
}

// MaxLen requires a length of at most n.
func MaxLen(n int) nodeskema.Validator {
	return nodeskema.CheckMsg(fmt.Sprintf("length must be at most %d", n), func(v any) bool {
		l, ok := length(v)
		return ok && l <= n
	})
}

// NonEmpty rejects empty strings, slices and maps.
func NonEmpty() nodeskema.Validator {
	return nodeskema.CheckMsg("must not be empty", func(v any) bool {
		l, ok := length(v)
		return ok && l > 0
	})
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Range requires a number within [lo, hi].
func Range(lo, hi float64) nodeskema.Validator {
	return nodeskema.CheckMsg(fmt.Sprintf("must be between %v and %v", lo, hi), func(v any) bool {
		f, ok := number(v)
		return ok && f >= lo && f <= hi
	})
}

// OneOf requires the value to equal one of values.
func OneOf(values ...any) nodeskema.Validator {
	names := make([]string, len(values))
	for i, w := range values {
		names[i] = fmt.Sprint(w)
	}
	msg := "must be one of {" + strings.Join(names, ", ") + "}"
	return nodeskema.CheckMsg(msg, func(v any) bool {
		for _, w := range values {
			if reflect.DeepEqual(v, w) {
				return true
			}
		}
		return false
	})
}

// Pattern requires a string matching expr. It panics if expr does not
// compile.
func Pattern(expr string) nodeskema.Validator {
	re := regexp.MustCompile(expr)
	return nodeskema.CheckMsg(fmt.Sprintf("must match %s", expr), func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	})
}
