// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

// Error constants.
var (
	ErrInvalidDocument = errors.New("invalid openapi document")
)

// redocBundle is loaded by the browser; the server never fetches it.
const redocBundle = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Register attaches the documentation routes to r.
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded OpenAPI document
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

// Document is the subset of the OpenAPI document the server checks.
type Document struct {
	OpenAPI string                               `yaml:"openapi"`
	Paths   map[string]map[string]map[string]any `yaml:"paths"`
}

// Parse decodes the embedded document.
func Parse() (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(OpenAPI, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.OpenAPI == "" || len(doc.Paths) == 0 {
		return Document{}, fmt.Errorf("%w: missing version or paths", ErrInvalidDocument)
	}
	return doc, nil
}

// Documents reports whether the document describes method on path, where
// path uses chi's {param} syntax.
func (d Document) Documents(method, path string) bool {
	ops, ok := d.Paths[path]
	if !ok {
		return false
	}
	_, ok = ops[strings.ToLower(method)]
	return ok
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Shootout API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + redocBundle + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
