// Package static serves the embedded web assets.
package static

import (
	"embed"
	"net/http"
)

//go:embed css/*.css js/*.js
var assetsFS embed.FS

// Handler serves the embedded assets. Mount it under /static/ with a
// StripPrefix.
func Handler() http.Handler {
	return http.FileServer(http.FS(assetsFS))
}
