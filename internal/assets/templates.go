package assets

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/wordlookup/internal/dictionary"
)

//go:embed templates/*.html.tmpl
var embeddedTemplates embed.FS

//go:embed static
var staticFiles embed.FS

// Static returns the embedded stylesheet, script and the translator page.
func Static() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}

// ParseTemplates parses the embedded templates, then lets files in overrideDirectory
// redefine any of them. A broken override directory falls back to the embedded set.
func ParseTemplates(overrideDirectory string) (*template.Template, error) {
	embedded, err := template.New("wordlookup").ParseFS(embeddedTemplates, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}
	if overrideDirectory == "" {
		return embedded, nil
	}

	matches, err := filepath.Glob(filepath.Join(overrideDirectory, "*.html.tmpl"))
	if err != nil || len(matches) == 0 {
		slog.Default().Warn("no templates found in the override directory",
			slog.String("directory", overrideDirectory),
			slog.Any("error", err),
		)
		return embedded, nil
	}

	cloned, err := embedded.Clone()
	if err != nil {
		return nil, fmt.Errorf("embedded.Clone > %w", err)
	}
	overridden, err := cloned.ParseFiles(matches...)
	if err != nil {
		slog.Default().Warn("failed to parse override templates",
			slog.String("directory", overrideDirectory),
			slog.Any("error", err),
		)
		return embedded, nil
	}
	return overridden, nil
}

// Renderer turns dictionary data and page state into HTML fragments.
type Renderer struct {
	templates *template.Template
}

func NewRenderer(overrideDirectory string) (*Renderer, error) {
	templates, err := ParseTemplates(overrideDirectory)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("templates.ExecuteTemplate(%s) > %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Cards renders one card per (entry, meaning) pair, joined by newlines.
func (r *Renderer) Cards(entries []dictionary.Entry) (template.HTML, error) {
	cards := NewCards(entries)
	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		html, err := r.execute("card", card)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, string(html))
	}
	return template.HTML(strings.Join(rendered, "\n")), nil
}

// Error renders the fragment shown when a lookup fails.
func (r *Renderer) Error(err error) (template.HTML, error) {
	return r.execute("error", NewErrorView(err))
}

func (r *Renderer) Loader(id int) (template.HTML, error) {
	return r.execute("loader", id)
}

func (r *Renderer) History(view HistoryView) (template.HTML, error) {
	return r.execute("history", view)
}

func (r *Renderer) WordOfTheDay(view WordOfTheDayView) (template.HTML, error) {
	return r.execute("word_of_the_day", view)
}

// Main writes the result container, the active loaders and the history list.
func (r *Renderer) Main(w io.Writer, view PageView) error {
	if err := r.templates.ExecuteTemplate(w, "main", view); err != nil {
		return fmt.Errorf("templates.ExecuteTemplate(main) > %w", err)
	}
	return nil
}

// Page writes the whole document.
func (r *Renderer) Page(w io.Writer, view PageView) error {
	if err := r.templates.ExecuteTemplate(w, "index", view); err != nil {
		return fmt.Errorf("templates.ExecuteTemplate(index) > %w", err)
	}
	return nil
}
