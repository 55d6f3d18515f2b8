// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"
	"strconv"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
	// seconds renders a millisecond delay as a meta refresh value.
	"seconds": func(ms int) string {
		return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
	},
}

// Templates parses every page template. Names are the file names, e.g.
// "vendor.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
