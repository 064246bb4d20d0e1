package nodeskema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/reoring/nodeskema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired     = "required"
	CodeInvalidType  = "invalid_type"
	CodeUnknownKey   = "unknown_key"
	CodeValidator    = "validator"
	CodeNull         = "null"
	CodeNotArray     = "not_array"
	CodeNested       = "nested"
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
)

var (
	// ErrMissingAttribute matches attribute errors for required attributes absent from input.
	ErrMissingAttribute = errors.New("nodeskema: missing required attribute")
	// ErrInvalidAttribute matches attribute errors for values failing coercion or a validator.
	ErrInvalidAttribute = errors.New("nodeskema: invalid attribute")
	// ErrUnknownAttribute matches attribute errors for input keys no node declares.
	ErrUnknownAttribute = errors.New("nodeskema: unknown attribute")

	// ErrInvalidDefinition is wrapped by every schema or node definition error.
	ErrInvalidDefinition = errors.New("nodeskema: invalid definition")
	// ErrRequiredWithDefault is returned for nodes that are required and declare a default.
	ErrRequiredWithDefault = fmt.Errorf("%w: required node declares a default", ErrInvalidDefinition)
)

// Kind names one failure category of a ValidationError.
type Kind int

const (
	KindNone    Kind = iota
	KindUnknown      // UnknownAttributes: input keys with no declared node.
	KindMissing      // MissingRequiredAttributes: required nodes absent from input.
	KindInvalid      // InvalidAttributes: present values failing coercion or validators.
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "UnknownAttributes"
	case KindMissing:
		return "MissingRequiredAttributes"
	case KindInvalid:
		return "InvalidAttributes"
	default:
		return "None"
	}
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /images/2/uri).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"` // Optional: expected types.
	Cause   error  `json:"-"`              // Optional: underlying error.
	// Params carries structured parameters (e.g., {"value": "abc"}) for
	// i18n and observability.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error. A *ValidationError is projected via
// its Issues method.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	if ve, ok := AsValidationError(err); ok {
		return ve.Issues(), true
	}
	return nil, false
}

// AttributeError describes why a single attribute was rejected.
type AttributeError struct {
	Attribute string
	// Index is the offending element of an array node, -1 for scalars.
	Index    int
	Value    any
	Expected []string
	Code     string
	Reason   string
	// Nested is set when a nested schema rejected the value.
	Nested *ValidationError
	Cause  error
}

func (e *AttributeError) label() string {
	if e.Index >= 0 {
		return e.Attribute + "[" + strconv.Itoa(e.Index) + "]"
	}
	return e.Attribute
}

func (e *AttributeError) Error() string { return e.label() + ": " + e.Reason }

// Unwrap exposes the category sentinel together with the underlying cause.
// A nested schema failure is only an invalid attribute of the parent; the
// child report stays reachable through Nested.
func (e *AttributeError) Unwrap() []error {
	var kind error
	switch e.Code {
	case CodeRequired:
		kind = ErrMissingAttribute
	case CodeUnknownKey:
		kind = ErrUnknownAttribute
	default:
		kind = ErrInvalidAttribute
	}
	out := []error{kind}
	if e.Nested == nil && e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

func (e *AttributeError) issuesAt(base string) Issues {
	p := base + "/" + escapePointer(e.Attribute)
	if e.Index >= 0 {
		p += "/" + strconv.Itoa(e.Index)
	}
	if e.Nested != nil {
		return e.Nested.issuesAt(p)
	}
	return Issues{{
		Path:    p,
		Code:    e.Code,
		Message: e.Reason,
		Hint:    formatSet(e.Expected),
		Cause:   e.Cause,
		Params:  map[string]any{"value": e.Value},
	}}
}

// ValidationError is the aggregated failure report for one instantiation
// attempt. Every category found in the attempt is present at once.
type ValidationError struct {
	Schema  string
	Missing []string                   // sorted
	Invalid map[string]*AttributeError // attribute -> reason
	Extra   []string                   // sorted
	errs    error
}

func newValidationError(schema string) *ValidationError {
	return &ValidationError{Schema: schema}
}

func (e *ValidationError) add(ae *AttributeError) {
	switch ae.Code {
	case CodeRequired:
		e.Missing = append(e.Missing, ae.Attribute)
	case CodeUnknownKey:
		e.Extra = append(e.Extra, ae.Attribute)
	default:
		if e.Invalid == nil {
			e.Invalid = make(map[string]*AttributeError)
		}
		e.Invalid[ae.Attribute] = ae
	}
	e.errs = multierr.Append(e.errs, ae)
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0 && len(e.Extra) == 0
}

func (e *ValidationError) seal() {
	sort.Strings(e.Missing)
	sort.Strings(e.Extra)
}

// Has reports whether the error carries failures of kind k.
func (e *ValidationError) Has(k Kind) bool {
	switch k {
	case KindUnknown:
		return len(e.Extra) > 0
	case KindMissing:
		return len(e.Missing) > 0
	case KindInvalid:
		return len(e.Invalid) > 0
	default:
		return false
	}
}

// Kinds lists the categories present, highest precedence first
// (unknown > missing > invalid).
func (e *ValidationError) Kinds() []Kind {
	var out []Kind
	for _, k := range []Kind{KindUnknown, KindMissing, KindInvalid} {
		if e.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Primary returns the highest-precedence category, the one a single-category
// report would show.
func (e *ValidationError) Primary() Kind {
	if ks := e.Kinds(); len(ks) > 0 {
		return ks[0]
	}
	return KindNone
}

// InvalidNames returns the invalid attribute names in sorted order.
func (e *ValidationError) InvalidNames() []string {
	names := make([]string, 0, len(e.Invalid))
	for k := range e.Invalid {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Message renders the category message for kind k, or "" when absent.
func (e *ValidationError) Message(k Kind) string {
	if !e.Has(k) {
		return ""
	}
	switch k {
	case KindUnknown:
		return fmt.Sprintf("Unknown Attributes %s: %s", e.Schema, formatSet(e.Extra))
	case KindMissing:
		return fmt.Sprintf("Missing Required Attributes: %s", formatSet(e.Missing))
	default:
		return fmt.Sprintf("Invalid Attributes %s for %s.", e.Schema, formatSet(e.InvalidNames()))
	}
}

// PrimaryMessage renders only the highest-precedence category.
func (e *ValidationError) PrimaryMessage() string { return e.Message(e.Primary()) }

// Error renders every category followed by the per-attribute reasons.
func (e *ValidationError) Error() string {
	ks := e.Kinds()
	parts := make([]string, 0, len(ks))
	for _, k := range ks {
		parts = append(parts, e.Message(k))
	}
	msg := strings.Join(parts, "; ")
	if len(e.Invalid) == 0 {
		return msg
	}
	details := make([]string, 0, len(e.Invalid))
	for _, name := range e.InvalidNames() {
		details = append(details, e.Invalid[name].Error())
	}
	return msg + " (" + strings.Join(details, "; ") + ")"
}

// Unwrap returns every attribute error of the report.
func (e *ValidationError) Unwrap() []error { return multierr.Errors(e.errs) }

// Issues flattens the report (nested schemas included) into Issues sorted by
// path.
func (e *ValidationError) Issues() Issues { return e.issuesAt("") }

func (e *ValidationError) issuesAt(base string) Issues {
	var out Issues
	for _, k := range e.Extra {
		out = append(out, Issue{Path: base + "/" + escapePointer(k), Code: CodeUnknownKey, Message: i18n.T(CodeUnknownKey, nil)})
	}
	for _, k := range e.Missing {
		out = append(out, Issue{Path: base + "/" + escapePointer(k), Code: CodeRequired, Message: i18n.T(CodeRequired, nil)})
	}
	for _, name := range e.InvalidNames() {
		out = append(out, e.Invalid[name].issuesAt(base)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// AsValidationError extracts a *ValidationError using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// DecodeError reports raw input that could not be decoded into a mapping.
type DecodeError struct {
	Format Format
	Path   string // JSON Pointer of the offending key, "/" for the document.
	Code   string // CodeParseError or CodeDuplicateKey.
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("nodeskema: decode %s at %s: %v", e.Format, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }

func formatSet(names []string) string {
	if len(names) == 0 {
		return "{}"
	}
	return "{" + strings.Join(names, ", ") + "}"
}
