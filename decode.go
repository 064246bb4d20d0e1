package nodeskema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reoring/nodeskema/internal/decode"
)

// Format selects the serialization of raw input.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps "json", "yaml" and "yml" (case-insensitive) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("nodeskema: unknown format %q", s)
}

// Decode parses data into a raw mapping without instantiating it.
func Decode(data []byte, f Format) (map[string]any, error) {
	var (
		m   map[string]any
		err error
	)
	switch f {
	case FormatJSON:
		m, err = decode.JSON(data)
	case FormatYAML:
		m, err = decode.YAML(data)
	default:
		return nil, &DecodeError{Format: f, Path: "/", Code: CodeParseError, Err: errors.New("unsupported format")}
	}
	if err != nil {
		var de *decode.Error
		if errors.As(err, &de) {
			return nil, &DecodeError{Format: f, Path: de.Path, Code: de.Code, Err: de.Err}
		}
		return nil, &DecodeError{Format: f, Path: "/", Code: CodeParseError, Err: err}
	}
	return m, nil
}

// InstantiateJSON decodes a JSON object and instantiates s from it.
func InstantiateJSON(ctx context.Context, s *Schema, data []byte) (*Instance, error) {
	return instantiateAs(ctx, s, data, FormatJSON)
}

// InstantiateYAML decodes a YAML mapping and instantiates s from it.
func InstantiateYAML(ctx context.Context, s *Schema, data []byte) (*Instance, error) {
	return instantiateAs(ctx, s, data, FormatYAML)
}

// InstantiateReader reads r fully and instantiates s from its content.
func InstantiateReader(ctx context.Context, s *Schema, r io.Reader, f Format) (*Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Format: f, Path: "/", Code: CodeParseError, Err: err}
	}
	return instantiateAs(ctx, s, data, f)
}

func instantiateAs(ctx context.Context, s *Schema, data []byte, f Format) (*Instance, error) {
	raw, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	return s.Instantiate(ctx, raw)
}

// AsDecodeError extracts a *DecodeError using errors.As.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
