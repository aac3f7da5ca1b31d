//go:build !dev

// Package static provides the embedded browser client for production builds.
package static

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed index.html app.js
var assetsFS embed.FS

// Handler returns an http.Handler that serves the embedded client.
// Panics if the embedded filesystem is corrupted, which should never happen
// at runtime since assets are embedded at compile time.
func Handler() http.Handler {
	sub, err := fs.Sub(assetsFS, ".")
	if err != nil {
		panic(fmt.Sprintf("static: failed to create sub-filesystem: %v", err))
	}
	return http.FileServer(http.FS(sub))
}
