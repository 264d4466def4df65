// Package assets embeds the bundled default theme and the reload client.
package assets

import (
	_ "embed"
)

//go:embed theme/default.css
var defaultThemeCSS []byte

//go:embed client/livereload.js
var reloadClientJS []byte

// DefaultThemeCSS returns the bundled default theme stylesheet source.
func DefaultThemeCSS() []byte {
	return defaultThemeCSS
}

// ReloadClientJS returns the browser-side live reload client.
func ReloadClientJS() []byte {
	return reloadClientJS
}
