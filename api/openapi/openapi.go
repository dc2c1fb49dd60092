// Package openapi embeds the HTTP API contract so the server and the test
// validator read the same document regardless of working directory.
package openapi

import _ "embed"

// Spec is the OpenAPI 3.0 document served at /api/openapi.yaml.
//
//go:embed openapi.yaml
var Spec []byte
