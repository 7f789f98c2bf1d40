// Package web contains the embedded ask-page assets.
package web

import "embed"

// Assets contains the embedded HTML for the built-in ask page.
//
//go:embed *.html
var Assets embed.FS
