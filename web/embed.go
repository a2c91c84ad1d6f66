// Package web holds the HTML templates served by the server.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
