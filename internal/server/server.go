// Package server classifies inbound requests, routes them through the
// composition pipeline, and owns startup port negotiation and the
// live-reload channel.
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pagefold/mdserve/internal/config"
	"github.com/pagefold/mdserve/internal/render"
)

// Server is the mdserve request handler. Each request is classified once
// (directory / Markdown file / other) and dispatched; all composition state
// is request-local.
type Server struct {
	root     string
	config   *config.Config
	composer *render.Composer
	indexer  *render.Indexer
}

// New creates a request handler serving files under root.
func New(root string, cfg *config.Config, composer *render.Composer, indexer *render.Indexer) *Server {
	return &Server{
		root:     root,
		config:   cfg,
		composer: composer,
		indexer:  indexer,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, ok := s.resolve(r.URL.Path)
	if !ok {
		s.errorPage(w, r.URL.Path, fmt.Errorf("path escapes serve root"))
		return
	}

	info, err := os.Stat(target)
	if err != nil {
		s.errorPage(w, r.URL.Path, &render.NotFoundError{Path: r.URL.Path})
		return
	}

	// Classification is derived once per request and never re-evaluated.
	switch {
	case info.IsDir():
		s.serveDirectory(w, r, target)
	case filepath.Ext(target) == render.MarkdownExt:
		s.serveMarkdown(w, r, target)
	default:
		serveStatic(w, r, target)
	}
}

// resolve maps a URL path onto the serve root, rejecting traversal.
func (s *Server) resolve(urlPath string) (string, bool) {
	rel := path.Clean("/" + urlPath)
	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if target != filepath.Clean(s.root) && !isPathUnderDir(target, s.root) {
		return "", false
	}
	return target, true
}

// serveMarkdown composes and sends the document for a Markdown request.
// Composition errors are caught here at the request boundary so the
// listener keeps serving.
func (s *Server) serveMarkdown(w http.ResponseWriter, r *http.Request, target string) {
	html, err := s.composer.Compose(r.Context(), target)
	if err != nil {
		log.Printf("[Serve] Compose failed for %s: %v", r.URL.Path, err)
		s.errorPage(w, r.URL.Path, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// serveDirectory sends the index listing for a directory request.
func (s *Server) serveDirectory(w http.ResponseWriter, r *http.Request, target string) {
	html, err := s.indexer.Index(target)
	if err != nil {
		log.Printf("[Serve] Index failed for %s: %v", r.URL.Path, err)
		s.errorPage(w, r.URL.Path, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// errorPage sends a best-effort plaintext diagnostic. The status is
// deliberately 200, not an error status, so the page stays reload-friendly
// and a fixed file refreshes in place.
func (s *Server) errorPage(w http.ResponseWriter, urlPath string, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	var b strings.Builder
	fmt.Fprintf(&b, "mdserve: cannot serve %s\n\n%v\n", urlPath, err)
	w.Write([]byte(b.String()))
}
