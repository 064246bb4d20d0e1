// Package nodeskema validates and coerces loosely typed mappings into typed,
// ordered attribute sets.
//
// A Schema is a named, ordered set of Nodes. Each Node declares the Types it
// accepts, whether it is required, an optional default, whether it holds an
// array, and Validators run on the coerced value. Instantiate either returns
// an *Instance or a single *ValidationError listing every missing, invalid
// and unknown attribute at once.
//
// Design policy:
// - Keep the engine in the root package; front-ends live under dsl/ and
//   validators/, transports under middleware/, and the CLI under cmd/nodeskema.
// - Schemas are immutable after Build and safe for concurrent use.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	point := nodeskema.MustBuild("Point", []nodeskema.Binding{
//		nodeskema.Bind("lat", nodeskema.FloatNode(nodeskema.Required())),
//		nodeskema.Bind("lng", nodeskema.FloatNode(nodeskema.Required())),
//	})
//	inst, err := point.Instantiate(ctx, map[string]any{"lat": "29.01", "lng": 8})
//	inst, err = nodeskema.InstantiateJSON(ctx, point, body)
package nodeskema
