// Package web holds the HTML served at the page route.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

const PageTemplate = "index.html"

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
