// Package web embeds the catalog's HTML views and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the views. A non-empty dir replaces the embedded views
// with the *.html files found there.
func Templates(funcs template.FuncMap, dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(funcs)
	if dir != "" {
		parsed, err := tmpl.ParseGlob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
		}
		return parsed, nil
	}
	parsed, err := tmpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return parsed, nil
}

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
