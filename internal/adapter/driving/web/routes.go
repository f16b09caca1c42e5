package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the HTML pages and the embedded static assets on
// the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// The embed pattern guarantees the static directory exists.
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /bin/{id}", h.ShowBin)
}
