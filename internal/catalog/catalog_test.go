package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/nodeskema"
)

func TestLookupAndAll(t *testing.T) {
	s, ok := Lookup("destination")
	require.True(t, ok)
	assert.Same(t, Destination, s)
	_, ok = Lookup("nope")
	assert.False(t, ok)

	var names []string
	for _, s := range All() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"Bound", "Destination", "Image", "Places", "Point", "Region", "Tag", "Weather"}, names)
}

func TestDestination_Sample(t *testing.T) {
	data, err := os.ReadFile("testdata/destination.json")
	require.NoError(t, err)

	inst, err := nodeskema.InstantiateJSON(context.Background(), Destination, data)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"id", "type", "name", "slug", "breadcrumb", "country_code", "description", "description_url",
		"destination_rel", "point", "bound", "images", "tags", "weather", "image_count", "video_count",
		"places", "user_data",
	}, inst.Names())

	url, _ := inst.Get("description_url")
	assert.Equal(t, "www.tripinview.com", url)
	rel, _ := inst.Get("destination_rel")
	assert.Equal(t, []any{}, rel)
	vc, _ := inst.Get("video_count")
	assert.Equal(t, 0, vc)

	tags, err := nodeskema.Attr[[]any](inst, "tags")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	first := tags[0].(*nodeskema.Instance)
	score, _ := first.Get("score")
	assert.Equal(t, 9, score)
	uri, _ := first.Get("tag_uri")
	assert.Equal(t, "", uri)

	images, _ := inst.Get("images")
	dest, _ := images.([]any)[0].(*nodeskema.Instance).Get("destination_id")
	assert.Equal(t, "50015", dest)

	places, err := nodeskema.Attr[*nodeskema.Instance](inst, "places")
	require.NoError(t, err)
	port, _ := places.Get("port")
	hotel, _ := places.Get("hotel")
	assert.Equal(t, 3, port)
	assert.Equal(t, 0, hotel)

	weather, _ := nodeskema.Attr[*nodeskema.Instance](inst, "weather")
	temp, _ := weather.Get("temperature")
	assert.Equal(t, "24.5", temp)
}

func TestDestination_RejectsBadLayerAndMissingFields(t *testing.T) {
	_, err := Destination.Instantiate(context.Background(), map[string]any{
		"id":     "1",
		"images": []any{map[string]any{"uri": "u", "layer": "thumbnail", "destination_id": "1", "image_id": "1"}},
	})
	ve, ok := nodeskema.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Missing, "country_code")
	assert.Contains(t, ve.Missing, "tags")
	img := ve.Invalid["images"]
	require.NotNil(t, img)
	assert.Equal(t, 0, img.Index)
	assert.Equal(t, "must be one of {overview, detailed}", img.Nested.Invalid["layer"].Reason)
}

func TestRegion_Sample(t *testing.T) {
	data, err := os.ReadFile("testdata/region.yaml")
	require.NoError(t, err)

	inst, err := nodeskema.InstantiateYAML(context.Background(), Region, data)
	require.NoError(t, err)
	pop, _ := inst.Get("population")
	assert.Equal(t, 13140183, pop)
	updated, _ := inst.Get("updated")
	assert.Equal(t, time.Date(2016, 1, 28, 15, 30, 26, 0, time.UTC), updated)
	rev, _ := inst.Get("revision")
	assert.Equal(t, semver.MustParse("1.0.0"), rev)

	_, err = Region.Instantiate(context.Background(), map[string]any{"name": "", "country_code": "de", "contact": "nope"})
	ve, ok := nodeskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"contact", "country_code", "name"}, ve.InvalidNames())
}

func TestPoint_Range(t *testing.T) {
	_, err := Point.Instantiate(context.Background(), map[string]any{"lat": 91, "lng": 0})
	ve, ok := nodeskema.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "must be between -90 and 90", ve.Invalid["lat"].Reason)
}
