// Package web bundles the single-page front end into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static returns the front-end file tree rooted at its index.html.
func Static() (fs.FS, error) {
	return fs.Sub(static, "static")
}
