// Package decode turns serialized documents into the raw mappings consumed by
// Schema.Instantiate.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Error codes, kept in sync with the root package.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
)

// Error describes a document that could not be decoded into a mapping.
type Error struct {
	Path string // JSON Pointer, "/" for the whole document.
	Code string
	Err  error
}

func (e *Error) Error() string { return e.Code + " at " + e.Path + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func parseError(err error) *Error { return &Error{Path: "/", Code: CodeParseError, Err: err} }

// JSON decodes a JSON object. Duplicate keys at any depth are rejected and
// numbers are kept as json.Number so large integers survive.
func JSON(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, parseError(errors.New("empty document"))
	}
	if err := checkDuplicates(data); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, parseError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, parseError(errors.New("unexpected data after the document"))
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, parseError(fmt.Errorf("document root is %s, not an object", kindOf(v)))
	}
	return m, nil
}

// YAML decodes a YAML mapping. Nested mappings are normalised to
// map[string]any; non-string keys are rendered with fmt.
func YAML(data []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, parseError(err)
	}
	if v == nil {
		return nil, parseError(errors.New("empty document"))
	}
	m, ok := normalize(v).(map[string]any)
	if !ok {
		return nil, parseError(fmt.Errorf("document root is %s, not a mapping", kindOf(v)))
	}
	return m, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number, float64, int, int64, uint64:
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// checkDuplicates walks the token stream and reports the first object key
// that appears twice within the same object.
func checkDuplicates(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []frame

	consumed := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return parseError(err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, frame{})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				consumed()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, dup := top.keys[v]; dup {
					return &Error{
						Path: pointer(stack[:n-1]) + "/" + escape(v),
						Code: CodeDuplicateKey,
						Err:  fmt.Errorf("key %q duplicated", v),
					}
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			consumed()
		default:
			consumed()
		}
	}
}

func pointer(frames []frame) string {
	var b strings.Builder
	for _, f := range frames {
		b.WriteByte('/')
		if f.object {
			b.WriteString(escape(f.key))
		} else {
			b.WriteString(strconv.Itoa(f.index))
		}
	}
	return b.String()
}

var escaper = strings.NewReplacer("~", "~0", "/", "~1")

func escape(s string) string { return escaper.Replace(s) }
