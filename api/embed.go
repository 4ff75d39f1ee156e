// Package api embeds the OpenAPI document served and enforced by the router.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
