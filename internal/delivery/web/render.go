package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
	"choiceNumbers": func() []int {
		n := make([]int, entities.ChoiceCount)
		for i := range n {
			n[i] = i + 1
		}
		return n
	},
}

// page is the data every template receives.
type page struct {
	Title   string
	User    *entities.User
	IsAdmin bool
	Flash   string
	Error   string
	Data    any
}

func parseTemplates() (map[string]*template.Template, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutTemplate {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")

		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return templates, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, p page) {
	h.renderStatus(w, r, http.StatusOK, name, p)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := h.templates[name]
	if !ok {
		h.logger.Error("unknown template", zap.String("template", name))
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	if p.User == nil {
		p.User = currentUser(r.Context())
	}
	if p.User != nil {
		p.IsAdmin = h.userService.IsAdmin(p.User.Email)
	}
	if p.Flash == "" {
		p.Flash = session.FromContext(r.Context()).PopFlash()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		h.logger.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// message renders a plain informational page.
func (h *Handler) message(w http.ResponseWriter, r *http.Request, title, text string) {
	h.render(w, r, "message", page{Title: title, Data: text})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) error {
	h.renderStatus(w, r, http.StatusNotFound, "message", page{Title: titleNotFound, Data: msgNotFound})
	return nil
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusInternalServerError, "message", page{Title: titleError, Data: msgInternalError})
}
