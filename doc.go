// Package jsonmodels provides:
//
// - Declarative data contracts: shapes declared as ordered field registries
// - Per-field defaults, type checking, wire coercion and pluggable validators
// - Polymorphic embedding with structural disambiguation over dict payloads
// - Lazy dotted-path type references for forward and mutually-recursive shapes
// - JSON Schema export assembled from field and validator contributions
// - Order-preserving JSON/YAML decoding and encoding
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place validators under validators/ and the schema document under jsonschema/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	var Cat = jsonmodels.NewShape("Cat", []jsonmodels.FieldDef{
//		jsonmodels.F("name", jsonmodels.NewString(jsonmodels.Required())),
//		jsonmodels.F("age", jsonmodels.NewInt()),
//	})
//
//	inst, err := Cat.New(map[string]any{"name": "Garfield"})
//	out, err := inst.ToStruct()
//	doc, err := Cat.JSONSchema()
package jsonmodels
