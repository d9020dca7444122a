package web

import "embed"

// Static embeds the browser frontend served at the site root.
//
//go:embed static
var Static embed.FS
