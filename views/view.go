package views

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type AuthPageData struct {
	ErrorMessage string
}

type HomePageData struct {
	Name  string
	Image string
}

func AuthPage(w io.Writer, data AuthPageData) error {
	return templates.ExecuteTemplate(w, "auth.html", data)
}

func HomePage(w io.Writer, data HomePageData) error {
	return templates.ExecuteTemplate(w, "home.html", data)
}
