package templates

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

func Load() *template.Template {
	return template.Must(template.ParseFS(files, "*.tmpl"))
}
