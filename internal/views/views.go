// Package views renders the HTML pages from templates embedded in the binary.
//
// Every page template is parsed together with base.html and the shared
// includes, and defines the "title" and "content" blocks the layout pulls in.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

//go:embed templates
var templateFS embed.FS

const (
	layout   = "templates/base.html"
	includes = "templates/includes/*.html"
)

// MediaURLs resolves stored media names for templates
type MediaURLs interface {
	URL(name string) string
	ThumbnailURL(name string) string
}

// Renderer implements echo.Renderer
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page. Pages are addressed by their path below templates/, e.g. "posts/index.html".
func New(media MediaURLs) (*Renderer, error) {
	base, err := template.New("base.html").Funcs(funcs(media)).ParseFS(templateFS, layout, includes)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := map[string]*template.Template{}
	err = fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") || path == layout || strings.HasPrefix(path, "templates/includes/") {
			return nil
		}
		t, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(templateFS, path); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		pages[strings.TrimPrefix(path, "templates/")] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the layout for page name. data is normally an echo.Map; the
// current user, CSRF token, request path and year are added to it.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	ctx := echo.Map{}
	switch d := data.(type) {
	case echo.Map:
		for k, v := range d {
			ctx[k] = v
		}
	case map[string]interface{}:
		for k, v := range d {
			ctx[k] = v
		}
	case nil:
	default:
		ctx["Data"] = d
	}
	ctx["CurrentUser"] = middleware.CurrentUser(c)
	ctx["CSRF"] = c.Get(echomw.DefaultCSRFConfig.ContextKey)
	ctx["Path"] = c.Request().URL.Path
	ctx["Year"] = time.Now().Year()

	return t.ExecuteTemplate(w, "base.html", ctx)
}

// Has reports whether a page template exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func funcs(media MediaURLs) template.FuncMap {
	return template.FuncMap{
		"media":     media.URL,
		"thumbnail": media.ThumbnailURL,
		"linebreaksbr": func(s string) template.HTML {
			escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		},
		"truncate": func(n int, s string) string {
			runes := []rune(s)
			if len(runes) <= n {
				return s
			}
			return string(runes[:n]) + "…"
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"groupSelected": func(id uint, selected string) bool {
			return selected != "" && fmt.Sprint(id) == selected
		},
	}
}
