// Package assets embeds the static files the services need at runtime.
package assets

import "embed"

//go:embed all:templates
var FS embed.FS
