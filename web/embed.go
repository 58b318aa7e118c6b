package web

import (
	"embed"
	"io/fs"
)

// staticFS embeds the page, its stylesheet and, once built, main.wasm and
// wasm_exec.js (see the wasm target in the Makefile).
//
//go:embed static
var staticFS embed.FS

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
