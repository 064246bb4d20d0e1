package nodeskema_test

import (
	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/validators"
)

func pointSchema() *nodeskema.Schema {
	return nodeskema.MustBuild("Point", []nodeskema.Binding{
		nodeskema.Bind("lat", nodeskema.FloatNode(nodeskema.Required())),
		nodeskema.Bind("lng", nodeskema.FloatNode(nodeskema.Required())),
	})
}

func regionSchema() *nodeskema.Schema {
	return nodeskema.MustBuild("Region", []nodeskema.Binding{
		nodeskema.Bind("name", nodeskema.StringNode(nodeskema.Required())),
		nodeskema.Bind("country_code", nodeskema.StringNode(nodeskema.Required())),
		nodeskema.Bind("population", nodeskema.IntegerNode()),
		nodeskema.Bind("center", nodeskema.SchemaNode(pointSchema())),
	})
}

func tagSchema() *nodeskema.Schema {
	return nodeskema.MustBuild("Tag", []nodeskema.Binding{
		nodeskema.Bind("name", nodeskema.StringNode(nodeskema.Required())),
		nodeskema.Bind("weight", nodeskema.FloatNode(nodeskema.Default(1.0))),
	})
}

// placeSchema exercises nested schemas, arrays and mapping defaults together.
func placeSchema() *nodeskema.Schema {
	return nodeskema.MustBuild("Place", []nodeskema.Binding{
		nodeskema.Bind("name", nodeskema.StringNode(nodeskema.Required())),
		nodeskema.Bind("location", nodeskema.SchemaNode(pointSchema(), nodeskema.Required())),
		nodeskema.Bind("tags", nodeskema.SchemaNode(tagSchema(), nodeskema.Array(), nodeskema.Default([]any{}))),
		nodeskema.Bind("keywords", nodeskema.StringNode(nodeskema.Array(), nodeskema.Default([]any{}))),
		nodeskema.Bind("meta", nodeskema.MappingNode(nodeskema.Default(map[string]any{"source": "seed", "labels": []any{"a"}}))),
		nodeskema.Bind("visited", nodeskema.TimestampNode()),
		nodeskema.Bind("open", nodeskema.BooleanNode(nodeskema.Default(false))),
	})
}

// cityRegionSchema is the Region used by the Athens scenarios.
func cityRegionSchema() *nodeskema.Schema {
	return nodeskema.MustBuild("Region", []nodeskema.Binding{
		nodeskema.Bind("name", nodeskema.StringNode()),
		nodeskema.Bind("country_code", nodeskema.StringNode(nodeskema.Required(), nodeskema.Validators(validators.Len(2)))),
		nodeskema.Bind("location", nodeskema.SchemaNode(pointSchema(), nodeskema.Default(nil))),
		nodeskema.Bind("keywords", nodeskema.StringNode(nodeskema.Array(), nodeskema.Default([]any{}))),
	})
}
