// Package web embeds the browser form served at the site root.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

// Static returns the files served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Templates returns the page templates.
func Templates() fs.FS {
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
