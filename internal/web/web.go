// Package web serves the browser upload form.
package web

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

// Handler serves the upload form page.
func Handler() http.Handler {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		panic(err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	})
}
