package docs

import _ "embed"

// AsyncAPISpec describes the live transcript feed, which Swagger 2.0
// cannot express. Served at /asyncapi.yaml.
//
//go:embed asyncapi.yaml
var AsyncAPISpec []byte
