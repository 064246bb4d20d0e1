package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/middleware"
)

var point = nodeskema.MustBuild("Point", []nodeskema.Binding{
	nodeskema.Bind("lat", nodeskema.FloatNode(nodeskema.Required())),
	nodeskema.Bind("lng", nodeskema.FloatNode(nodeskema.Required())),
})

func TestContextRoundTrip(t *testing.T) {
	inst, err := point.Instantiate(context.Background(), map[string]any{"lat": 1, "lng": 2})
	require.NoError(t, err)

	ctx := middleware.ContextWithInstance(context.Background(), inst)
	got, ok := middleware.InstanceFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, inst, got)

	_, ok = middleware.InstanceFromContext(context.Background())
	assert.False(t, ok)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, nodeskema.FormatYAML, middleware.FormatFor("application/x-YAML"))
	assert.Equal(t, nodeskema.FormatJSON, middleware.FormatFor("application/json; charset=utf-8"))
	assert.Equal(t, nodeskema.FormatJSON, middleware.FormatFor(""))
}

func TestErrorPayload(t *testing.T) {
	_, err := point.Instantiate(context.Background(), map[string]any{"lat": "x", "z": 1})
	p := middleware.ErrorPayload(err)
	assert.Equal(t, []string{"lng"}, p["missing"])
	assert.Equal(t, []string{"z"}, p["extra"])
	assert.Equal(t, map[string]string{"lat": `lat: invalid value "x", expected {float}`}, p["invalid"])
	assert.Len(t, p["issues"], 3)

	_, err = nodeskema.InstantiateJSON(context.Background(), point, []byte(`{"lat":1,"lat":2}`))
	p = middleware.ErrorPayload(err)
	iss := p["issues"].(nodeskema.Issues)
	assert.Equal(t, nodeskema.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/lat", iss[0].Path)

	_, err = point.Instantiate(context.Background(), map[string]any{"lat": 1, "lng": 2, "q": 0})
	p = middleware.ErrorPayload(err)
	assert.Equal(t, []string{}, p["missing"])
}
