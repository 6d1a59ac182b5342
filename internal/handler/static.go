package handler

import (
	"embed"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded stylesheet and other assets under
// /static/. Embedding keeps the binary self-contained.
func StaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
