package middleware

import (
	"context"
	"strings"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/i18n"
)

type ctxKeyInstance struct{}

// ContextWithInstance attaches a validated instance to the context.
func ContextWithInstance(ctx context.Context, inst *nodeskema.Instance) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, inst)
}

// InstanceFromContext retrieves the instance stored by ContextWithInstance.
func InstanceFromContext(ctx context.Context) (*nodeskema.Instance, bool) {
	v, ok := ctx.Value(ctxKeyInstance{}).(*nodeskema.Instance)
	return v, ok && v != nil
}

// FormatFor picks the body format from a Content-Type header. Anything that
// does not mention yaml is treated as JSON.
func FormatFor(contentType string) nodeskema.Format {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return nodeskema.FormatYAML
	}
	return nodeskema.FormatJSON
}

// ErrorPayload shapes a failed instantiation for JSON responses.
func ErrorPayload(err error) map[string]any {
	if ve, ok := nodeskema.AsValidationError(err); ok {
		invalid := make(map[string]string, len(ve.Invalid))
		for name, ae := range ve.Invalid {
			invalid[name] = ae.Error()
		}
		return map[string]any{
			"error":   ve.Error(),
			"missing": nonNil(ve.Missing),
			"invalid": invalid,
			"extra":   nonNil(ve.Extra),
			"issues":  ve.Issues(),
		}
	}
	if de, ok := nodeskema.AsDecodeError(err); ok {
		return map[string]any{
			"error": de.Error(),
			"issues": nodeskema.Issues{{
				Path:    de.Path,
				Code:    de.Code,
				Message: i18n.T(de.Code, nil),
				Hint:    de.Err.Error(),
			}},
		}
	}
	return map[string]any{"error": err.Error()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
