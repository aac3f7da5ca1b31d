//go:build dev

// Package static provides filesystem-based client assets for development.
package static

import "net/http"

// Handler returns an http.Handler that serves the client from the filesystem,
// allowing edits without rebuilding.
func Handler() http.Handler {
	return http.FileServer(http.Dir("./internal/api/static"))
}
