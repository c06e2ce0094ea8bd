// Package web serves the embedded single-page chat front-end.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler returns the front-end as an http.Handler rooted at /.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The static directory is embedded at build time; this cannot
		// fail on a correctly built binary.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
