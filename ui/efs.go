// Package ui embeds the HTML templates the web server renders.
package ui

import "embed"

//go:embed "html"
var Files embed.FS
