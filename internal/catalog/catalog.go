// Package catalog holds the schemas served by the nodeskema CLI.
package catalog

import (
	"sort"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/dsl"
	"github.com/reoring/nodeskema/validators"
)

var (
	Point = dsl.Object("Point").
		Field("lat", nodeskema.FloatNode(nodeskema.Validators(validators.Range(-90, 90)))).Required().
		Field("lng", nodeskema.FloatNode(nodeskema.Validators(validators.Range(-180, 180)))).Required().
		MustBuild()

	Bound = dsl.Schema("Bound",
		dsl.F("southwest", nodeskema.SchemaNode(Point, nodeskema.Required())),
		dsl.F("northeast", nodeskema.SchemaNode(Point, nodeskema.Required())),
	)

	Image = dsl.Object("Image").
		Field("uri", nodeskema.StringNode()).Required().
		Field("layer", nodeskema.StringNode(nodeskema.Validators(validators.OneOf("overview", "detailed")))).Required().
		Field("destination_id", nodeskema.StringNode()).Required().
		Field("image_id", nodeskema.StringNode()).Required().
		MustBuild()

	Tag = dsl.Object("Tag").
		Field("id", nodeskema.IntegerNode()).Required().
		Field("name", nodeskema.StringNode()).Required().
		Field("score", nodeskema.IntegerNode()).Required().
		Field("tag_uri", nodeskema.StringNode()).Default("").
		MustBuild()

	Weather = dsl.MustDeclare("Weather", struct {
		Humidity    *nodeskema.Node
		Sunshine    *nodeskema.Node
		WindSpeed   *nodeskema.Node
		Temperature *nodeskema.Node
		AirportRef  *nodeskema.Node
	}{
		Humidity:    nodeskema.StringNode(nodeskema.Required()),
		Sunshine:    nodeskema.StringNode(nodeskema.Required()),
		WindSpeed:   nodeskema.StringNode(nodeskema.Required()),
		Temperature: nodeskema.StringNode(nodeskema.Required()),
		AirportRef:  nodeskema.StringNode(nodeskema.Required()),
	})

	Places = dsl.Schema("Places",
		dsl.F("beach", count()),
		dsl.F("port", count()),
		dsl.F("hotel", count()),
		dsl.F("marina", count()),
		dsl.F("residential", count()),
		dsl.F("anchorage", count()),
	)

	Destination = dsl.MustDeclare("Destination", &destination{
		ID:             nodeskema.StringNode(nodeskema.Required()),
		Type:           nodeskema.StringNode(nodeskema.Required()),
		Name:           nodeskema.StringNode(nodeskema.Required()),
		Slug:           nodeskema.StringNode(nodeskema.Required()),
		Breadcrumb:     nodeskema.StringNode(nodeskema.Required(), nodeskema.Array()),
		CountryCode:    nodeskema.StringNode(nodeskema.Required()),
		Description:    nodeskema.StringNode(nodeskema.Required()),
		DescriptionURL: nodeskema.StringNode(nodeskema.Default("www.tripinview.com")),
		DestinationRel: nodeskema.StringNode(nodeskema.Array(), nodeskema.Default([]any{})),
		Point:          nodeskema.SchemaNode(Point, nodeskema.Required()),
		Bound:          nodeskema.SchemaNode(Bound, nodeskema.Required()),
		Images:         nodeskema.SchemaNode(Image, nodeskema.Required(), nodeskema.Array()),
		Tags:           nodeskema.SchemaNode(Tag, nodeskema.Required(), nodeskema.Array()),
		Weather:        nodeskema.SchemaNode(Weather, nodeskema.Required()),
		ImageCount:     nodeskema.IntegerNode(nodeskema.Required()),
		VideoCount:     nodeskema.IntegerNode(nodeskema.Required()),
		Places:         nodeskema.SchemaNode(Places, nodeskema.Required()),
		UserData:       nodeskema.MappingNode(nodeskema.Default(map[string]any{})),
	})

	Region = dsl.Object("Region").
		Field("name", nodeskema.StringNode(nodeskema.Validators(validators.NonEmpty()))).Required().
		Field("country_code", nodeskema.StringNode(nodeskema.Validators(validators.Pattern(`^[A-Z]{2}$`)))).Required().
		Field("population", nodeskema.IntegerNode()).
		Field("center", nodeskema.SchemaNode(Point)).
		Field("updated", nodeskema.TimestampNode()).
		Field("revision", nodeskema.VersionNode()).Default(semver.MustParse("1.0.0")).
		Field("contact", nodeskema.StringNode(nodeskema.Validators(validators.Tag("email")))).
		MustBuild()
)

type destination struct {
	ID             *nodeskema.Node
	Type           *nodeskema.Node
	Name           *nodeskema.Node
	Slug           *nodeskema.Node
	Breadcrumb     *nodeskema.Node
	CountryCode    *nodeskema.Node
	Description    *nodeskema.Node
	DescriptionURL *nodeskema.Node `json:"description_url"`
	DestinationRel *nodeskema.Node
	Point          *nodeskema.Node
	Bound          *nodeskema.Node
	Images         *nodeskema.Node
	Tags           *nodeskema.Node
	Weather        *nodeskema.Node
	ImageCount     *nodeskema.Node
	VideoCount     *nodeskema.Node
	Places         *nodeskema.Node
	UserData       *nodeskema.Node
}

func count() *nodeskema.Node {
	return nodeskema.IntegerNode(nodeskema.Default(0), nodeskema.Validators(validators.Range(0, 1<<31)))
}

var registry = map[string]*nodeskema.Schema{}

func init() {
	for _, s := range []*nodeskema.Schema{Point, Bound, Image, Tag, Weather, Places, Destination, Region} {
		registry[strings.ToLower(s.Name())] = s
	}
}

// Lookup finds a schema by name, ignoring case.
func Lookup(name string) (*nodeskema.Schema, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// All returns the catalogue sorted by schema name.
func All() []*nodeskema.Schema {
	out := make([]*nodeskema.Schema, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
