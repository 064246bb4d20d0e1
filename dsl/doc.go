// Package dsl provides declarative front-ends for nodeskema schemas.
//
// Builder style chains fields and per-field options:
//
//	point := dsl.Object("Point").
//	    Field("lat", nodeskema.FloatNode()).Required().
//	    Field("lng", nodeskema.FloatNode()).Required().
//	    MustBuild()
//
// Declaration style collects the *nodeskema.Node fields of a struct:
//
//	type Tag struct {
//	    Name   *nodeskema.Node
//	    Weight *nodeskema.Node `json:"w"`
//	}
//	tag := dsl.MustDeclare("", Tag{
//	    Name:   nodeskema.StringNode(nodeskema.Required()),
//	    Weight: nodeskema.FloatNode(nodeskema.Default(1.0)),
//	})
//
// Both reduce to nodeskema.Build, so definition errors are reported the same
// way.
package dsl
