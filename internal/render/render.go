// Package render отрисовывает HTML-страницы из встроенных шаблонов.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/tempizhere/pageanalyzer/internal/flash"
	"github.com/tempizhere/pageanalyzer/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Имена страниц
const (
	PageIndex = "index.html"
	PageURLs  = "urls.html"
	PageURL   = "url.html"
	PageError = "error.html"
)

const layoutName = "layout.html"

// Page общие данные страницы и данные конкретного шаблона
type Page struct {
	Title string
	Flash *flash.Message
	Data  interface{}
}

// IndexData форма добавления адреса
type IndexData struct {
	Value  string
	Errors []string
}

// URLsData список адресов
type URLsData struct {
	Items []models.URLListItem
}

// URLData адрес и история его проверок
type URLData struct {
	URL    models.URL
	Checks []models.URLCheck
}

// ErrorData страница ошибки
type ErrorData struct {
	Status  int
	Message string
}

// Renderer хранит разобранные шаблоны: каждая страница вместе с layout
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
	"formatTimePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"statusCode": func(code *int) string {
		if code == nil {
			return ""
		}
		return fmt.Sprint(*code)
	},
}

// New разбирает все встроенные шаблоны
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageURLs, PageURL, PageError} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, "templates/"+layoutName, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Render выполняет шаблон в буфер и пишет ответ только при успехе
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, page); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
