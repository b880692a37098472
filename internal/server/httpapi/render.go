package httpapi

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/base.html"

// renderer executes one page template inside the shared layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() *renderer {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		key := strings.TrimSuffix(path.Base(name), ".html")
		pages[key] = template.Must(template.ParseFS(templateFS, layoutTemplate, name))
	}
	return &renderer{pages: pages}
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}
