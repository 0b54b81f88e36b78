// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the server-side pages. Pages are html/template
// files embedded in the binary and exposed as templ components.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
)

//go:embed html
var files embed.FS

var (
	pages    map[string]*template.Template
	partials *template.Template
)

func init() {
	var err error
	if pages, partials, err = parse(files); err != nil {
		panic(fmt.Sprintf("templates: %v", err))
	}
}

// funcs returns the template functions bound to ctx. At parse time ctx is
// Background; every render rebinds them to the request.
func funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"t":       func(id string) string { return i18n.T(ctx, id) },
		"tdata":   func(id string, kv ...any) string { return i18n.TData(ctx, id, pairs(kv)) },
		"tplural": func(id string, n int) string { return i18n.TPlural(ctx, id, n) },
		"csrf":    func() string { return CSRFToken(ctx) },
		"user":    func() *models.User { return GetUser(ctx) },
		"isAdmin": func() bool { return IsAdmin(ctx) },
		"flash":   func() *session.Flash { return GetFlash(ctx) },
		"css":     func() string { return Assets(ctx).CSSPath },
		"js":      func() string { return Assets(ctx).JSPath },
		"date":    func(t time.Time) string { return t.UTC().Format("2006-01-02") },
		"list":    func(v ...any) []any { return v },
		"href":    buttonHref,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// buttonHref trusts mailto: and tel: targets that the URL sanitizer would
// otherwise reject. Link values are validated URLs.
func buttonHref(b models.Button) template.URL {
	href := b.Href()
	if strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "http://") {
		return template.URL(href) //nolint:gosec // scheme checked above
	}
	return "#"
}

func pairs(kv []any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}

func parse(fsys fs.FS) (map[string]*template.Template, *template.Template, error) {
	base, err := template.New("base").Funcs(funcs(context.Background())).
		ParseFS(fsys, "html/layout.html", "html/partials/*.html")
	if err != nil {
		return nil, nil, err
	}

	names, err := fs.Glob(fsys, "html/pages/*.html")
	if err != nil {
		return nil, nil, err
	}
	set := make(map[string]*template.Template, len(names))
	for _, name := range names {
		clone, err := base.Clone()
		if err != nil {
			return nil, nil, err
		}
		if _, err := clone.ParseFS(fsys, name); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		set[strings.TrimSuffix(path.Base(name), ".html")] = clone
	}
	return set, base, nil
}

func bind(ctx context.Context, t *template.Template, name string) (*template.Template, error) {
	clone, err := t.Clone()
	if err != nil {
		return nil, err
	}
	clone.Funcs(funcs(ctx))
	named := clone.Lookup(name)
	if named == nil {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return named, nil
}

// Page renders the named page inside the layout.
func Page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("page %q not found", name)
		}
		layout, err := bind(ctx, t, "layout")
		if err != nil {
			return err
		}
		return templ.FromGoHTML(layout, data).Render(ctx, w)
	})
}

// Partial renders a fragment for htmx swaps.
func Partial(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := bind(ctx, partials, name)
		if err != nil {
			return err
		}
		return templ.FromGoHTML(t, data).Render(ctx, w)
	})
}
