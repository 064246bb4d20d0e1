package nodeskema_test

import (
	"context"
	"testing"

	"github.com/blang/semver/v4"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/nodeskema"
)

func releaseSchema() *nodeskema.Schema {
	return nodeskema.MustBuild("Release", []nodeskema.Binding{
		nodeskema.Bind("name", nodeskema.StringNode(nodeskema.Required())),
		nodeskema.Bind("version", nodeskema.VersionNode(nodeskema.Required())),
		nodeskema.Bind("at", nodeskema.SchemaNode(pointSchema())),
		nodeskema.Bind("labels", nodeskema.StringNode(nodeskema.Array(), nodeskema.Default([]any{}))),
	})
}

func TestInstance_StringAndNames(t *testing.T) {
	inst, err := releaseSchema().Instantiate(context.Background(), map[string]any{"name": "x", "version": "1.0"})
	require.NoError(t, err)
	assert.Equal(t, "<Release instance, attributes:[at labels name version]>", inst.String())
	assert.Equal(t, []string{"name", "version", "at", "labels"}, inst.Names())
	assert.Equal(t, "Release", inst.Schema().Name())
}

func TestInstance_ToDictExportsNested(t *testing.T) {
	inst, err := releaseSchema().Instantiate(context.Background(), map[string]any{
		"name": "x", "version": "v1.2", "at": map[string]any{"lat": "1", "lng": 2},
	})
	require.NoError(t, err)

	d := inst.ToDict()
	assert.Equal(t, []string{"name", "version", "at", "labels"}, d.Keys())
	assert.Equal(t, 4, d.Len())
	at, ok := d.Get("at")
	require.True(t, ok)
	om, ok := at.(*nodeskema.OrderedMap)
	require.True(t, ok)
	assert.Equal(t, []string{"lat", "lng"}, om.Keys())
	assert.Equal(t, map[string]any{"lat": 1.0, "lng": 2.0}, om.Map())

	// mutating the export leaves the instance untouched
	labels, _ := d.Get("labels")
	require.NotNil(t, labels)
	d.Set("name", "changed")
	name, _ := inst.Get("name")
	assert.Equal(t, "x", name)
}

func TestInstance_MarshalJSONKeepsOrder(t *testing.T) {
	inst, err := releaseSchema().Instantiate(context.Background(), map[string]any{
		"name": "x", "version": "v1.2", "at": map[string]any{"lng": 2, "lat": 1.5}, "labels": []any{"a", 1},
	})
	require.NoError(t, err)
	b, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x","version":"1.2.0","at":{"lat":1.5,"lng":2},"labels":["a","1"]}`, string(b))
}

func TestInstance_MarshalYAML(t *testing.T) {
	inst, err := releaseSchema().Instantiate(context.Background(), map[string]any{
		"name": "x", "version": "2.0.0", "at": map[string]any{"lat": 1.5, "lng": 2.5},
	})
	require.NoError(t, err)
	b, err := yaml.Marshal(inst)
	require.NoError(t, err)
	assert.Equal(t, "name: x\nversion: 2.0.0\nat:\n    lat: 1.5\n    lng: 2.5\nlabels: []\n", string(b))
}

func TestInstance_IntoAndAttr(t *testing.T) {
	inst, err := releaseSchema().Instantiate(context.Background(), map[string]any{
		"name": "x", "version": "1.4.2", "at": map[string]any{"lat": 1.5, "lng": 2},
	})
	require.NoError(t, err)

	var dst struct {
		Name    string         `json:"name"`
		Version semver.Version `json:"version"`
		At      struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"at"`
		Labels []string `json:"labels"`
	}
	require.NoError(t, inst.Into(&dst))
	assert.Equal(t, "x", dst.Name)
	assert.Equal(t, semver.MustParse("1.4.2"), dst.Version)
	assert.Equal(t, 1.5, dst.At.Lat)
	assert.Empty(t, dst.Labels)

	v, err := nodeskema.Attr[semver.Version](inst, "version")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v.Minor)

	at, err := nodeskema.Attr[*nodeskema.Instance](inst, "at")
	require.NoError(t, err)
	lat, err := nodeskema.Attr[float64](at, "lat")
	require.NoError(t, err)
	assert.Equal(t, 1.5, lat)

	_, err = nodeskema.Attr[int](inst, "name")
	assert.Error(t, err)
	_, err = nodeskema.Attr[string](inst, "nope")
	assert.ErrorIs(t, err, nodeskema.ErrUnknownAttribute)
}

func TestOrderedMap(t *testing.T) {
	m := nodeskema.NewOrderedMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":3,"a":2}`, string(b))

	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "b: 3\na: 2\n", string(out))
}

func TestOrderedMap_ZeroValue(t *testing.T) {
	var m nodeskema.OrderedMap
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	b, err := json.Marshal(&m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":3,"a":2}`, string(b))
	assert.Equal(t, `{"b":3,"a":2}`, string(b))
}
