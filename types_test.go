package nodeskema_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/blang/semver/v4"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/nodeskema"
)

type coerceCase struct {
	name string
	in   any
	want any
	fail bool
}

func runCoerce(t *testing.T, typ nodeskema.Type, cases []coerceCase) {
	t.Helper()
	ctx := context.Background()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.fail && typ.Is(tc.in) {
				assert.Equal(t, tc.want, tc.in)
				return
			}
			got, err := typ.Coerce(ctx, tc.in)
			if tc.fail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInteger(t *testing.T) {
	runCoerce(t, nodeskema.Integer(), []coerceCase{
		{"int", 3, 3, false},
		{"string", " 42 ", 42, false},
		{"integral float", 42.0, 42, false},
		{"int64", int64(7), 7, false},
		{"uint8", uint8(3), 3, false},
		{"json number", json.Number("9007199254740993"), 9007199254740993, false},
		{"json integral float", json.Number("42.0"), 42, false},
		{"json fraction", json.Number("4.5"), nil, true},
		{"fraction", 4.5, nil, true},
		{"nan", math.NaN(), nil, true},
		{"bool", true, nil, true},
		{"word", "abc", nil, true},
	})
}

func TestFloat(t *testing.T) {
	runCoerce(t, nodeskema.Float(), []coerceCase{
		{"string", "29.01", 29.01, false},
		{"int", 8, 8.0, false},
		{"float32", float32(0.5), 0.5, false},
		{"json number", json.Number("38.2"), 38.2, false},
		{"inf", "inf", math.Inf(1), false},
		{"bool", true, nil, true},
		{"word", "abc", nil, true},
	})
}

type label struct{}

func (label) String() string { return "lbl" }

func TestString(t *testing.T) {
	runCoerce(t, nodeskema.String(), []coerceCase{
		{"int", 42, "42", false},
		{"float", 29.5, "29.5", false},
		{"whole float", 42.0, "42", false},
		{"bool", false, "false", false},
		{"bytes", []byte("x"), "x", false},
		{"json number", json.Number("9007199254740993"), "9007199254740993", false},
		{"stringer", label{}, "lbl", false},
		{"map", map[string]any{}, nil, true},
		{"slice", []any{"a"}, nil, true},
	})
}

func TestBoolean(t *testing.T) {
	runCoerce(t, nodeskema.Boolean(), []coerceCase{
		{"mixed case", "TrUe", true, false},
		{"false", "false", false, false},
		{"yes", "yes", nil, true},
		{"number", 1, nil, true},
		{"json number", json.Number("1"), nil, true},
	})
}

func TestTimestamp(t *testing.T) {
	runCoerce(t, nodeskema.Timestamp(), []coerceCase{
		{"legacy with fraction", "2016-01-28 15:30:26.979879+01", time.Date(2016, 1, 28, 15, 30, 26, 0, time.UTC), false},
		{"legacy", "2016-01-28 15:30:26", time.Date(2016, 1, 28, 15, 30, 26, 0, time.UTC), false},
		{"rfc3339", "2016-01-28T15:30:26Z", time.Date(2016, 1, 28, 15, 30, 26, 0, time.UTC), false},
		{"rfc3339 nano", "2016-01-28T15:30:26.5Z", time.Date(2016, 1, 28, 15, 30, 26, 500000000, time.UTC), false},
		{"garbage", "yesterday", nil, true},
		{"number", 1453995026, nil, true},
	})
}

func TestMapping(t *testing.T) {
	runCoerce(t, nodeskema.Mapping(), []coerceCase{
		{"json string", `{"b": 2}`, map[string]any{"b": 2.0}, false},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": 1}, false},
		{"null string", "null", nil, true},
		{"array string", "[1]", nil, true},
		{"number", 5, nil, true},
	})
}

func TestVersion(t *testing.T) {
	runCoerce(t, nodeskema.Version(), []coerceCase{
		{"tolerant", "v1.2", semver.MustParse("1.2.0"), false},
		{"full", "2.0.1-rc.1", semver.MustParse("2.0.1-rc.1"), false},
		{"garbage", "x.y", nil, true},
		{"number", 1, nil, true},
		{"json number", json.Number("1"), nil, true},
	})
}

func TestNewType(t *testing.T) {
	upper := nodeskema.NewType("upper", nil, func(_ context.Context, v any) (any, error) {
		s, _ := v.(string)
		return s + "!", nil
	})
	assert.Equal(t, "upper", upper.Name())
	assert.False(t, upper.Is("x"))
	got, err := upper.Coerce(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x!", got)

	_, err = nodeskema.NewType("none", nil, nil).Coerce(context.Background(), 1)
	assert.Error(t, err)
}

func TestSchemaOf_AlwaysRedispatches(t *testing.T) {
	typ := nodeskema.SchemaOf(pointSchema())
	assert.Equal(t, "Point", typ.Name())
	assert.False(t, typ.Is(map[string]any{"lat": 1.0, "lng": 2.0}))

	got, err := typ.Coerce(context.Background(), map[string]any{"lat": "1", "lng": 2})
	require.NoError(t, err)
	inst, ok := got.(*nodeskema.Instance)
	require.True(t, ok)
	assert.False(t, typ.Is(inst))

	again, err := typ.Coerce(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, inst.ToDict(), again.(*nodeskema.Instance).ToDict())

	_, err = typ.Coerce(context.Background(), "not a mapping")
	assert.Error(t, err)
}
