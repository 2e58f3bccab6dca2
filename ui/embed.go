package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates static
var content embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(content, "templates/*.html")
}

// GetFileSystem returns the embedded static assets (stylesheets)
func GetFileSystem() (http.FileSystem, error) {
	// Serve files relative to static/ without including "static" in file paths
	fsys, err := fs.Sub(content, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(fsys), nil
}
