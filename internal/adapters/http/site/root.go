// Package site serves the human-readable calculator catalog.
package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/okian/scorecalc/internal/domain/calculator"
)

// Error constants
var (
	ErrRender = errors.New("catalog page render failed")
)

// Catalog lists the registered calculators.
type Catalog interface {
	List(ctx context.Context, f calculator.Filter) []calculator.Metadata
	Categories(ctx context.Context) []string
}

// Register attaches the catalog page at / to mux.
func Register(_ context.Context, mux *http.ServeMux, catalog Catalog) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler(catalog))
}

// RootHandler renders the catalog page.
type RootHandler struct {
	catalog Catalog
}

// NewRootHandler creates a new root handler
func NewRootHandler(catalog Catalog) *RootHandler {
	return &RootHandler{catalog: catalog}
}

type section struct {
	Category    string
	Calculators []calculator.Metadata
}

// ServeHTTP handles GET / and answers 404 for any other unrouted path.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	var sections []section
	for _, cat := range h.catalog.Categories(ctx) {
		sections = append(sections, section{
			Category:    cat,
			Calculators: h.catalog.List(ctx, calculator.Filter{Category: cat}),
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, sections); err != nil {
		http.Error(w, ErrRender.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

var page = template.Must(template.New("catalog").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>scorecalc</title>
    <style>
      body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#222}
      h2{text-transform:capitalize;border-bottom:1px solid #ddd}
      code{background:#f4f4f4;padding:0 .25rem}
      li{margin:.4rem 0}
    </style>
  </head>
  <body>
    <h1>scorecalc</h1>
    <p>Clinical calculators. See the <a href="/api-docs">API reference</a> or <a href="/openapi.yaml">openapi.yaml</a>.</p>
    {{- range .}}
    <h2>{{.Category}}</h2>
    <ul>
      {{- range .Calculators}}
      <li><a href="/api/scores/{{.ID}}"><strong>{{.Title}}</strong></a> <code>POST /api/{{.ID}}/calculate</code><br>{{.Description}}</li>
      {{- end}}
    </ul>
    {{- end}}
  </body>
</html>
`))
