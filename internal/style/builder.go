// Package style compiles stylesheet sources into the plain CSS embedded in
// composed documents.
package style

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"

	"github.com/pagefold/mdserve/internal/assets"
)

// StyleError indicates a missing stylesheet or one the compiler rejected.
type StyleError struct {
	Path string
	Err  error
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("stylesheet %s: %v", e.Path, e.Err)
}

func (e *StyleError) Unwrap() error { return e.Err }

// highlightTheme is the chroma style compiled into every stylesheet so
// fenced code blocks pick up colors regardless of the page theme.
const highlightTheme = "github"

// entry is one memoized compilation result, keyed by resolved path and
// invalidated when the source file's mtime moves.
type entry struct {
	css     string
	modTime time.Time
}

// Builder loads and compiles stylesheet sources, memoized per resolved path.
// Correctness is the contract; the memo is only an optimization and is
// bypassed whenever the source file changes on disk.
type Builder struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	minifier  *minify.M
	highlight string // chroma class sheet, computed once
}

// NewBuilder creates a Builder with the CSS compiler and the syntax
// highlighting sheet ready.
func NewBuilder() (*Builder, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightTheme)); err != nil {
		return nil, fmt.Errorf("building highlight stylesheet: %w", err)
	}

	return &Builder{
		entries:   make(map[string]*entry),
		minifier:  m,
		highlight: buf.String(),
	}, nil
}

// Build reads the stylesheet at cssPath, compiles it to plain CSS, and
// appends the syntax highlighting sheet. An empty path selects the bundled
// default theme. Missing files and sources the compiler rejects fail with
// StyleError.
func (b *Builder) Build(cssPath string) (string, error) {
	if cssPath == "" {
		return b.buildDefault()
	}

	resolved, err := filepath.Abs(cssPath)
	if err != nil {
		return "", &StyleError{Path: cssPath, Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &StyleError{Path: cssPath, Err: err}
	}

	b.mu.RLock()
	cached, ok := b.entries[resolved]
	b.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.css, nil
	}

	src, err := os.ReadFile(resolved)
	if err != nil {
		return "", &StyleError{Path: cssPath, Err: err}
	}

	compiled, err := b.compile(src)
	if err != nil {
		return "", &StyleError{Path: cssPath, Err: err}
	}

	b.mu.Lock()
	b.entries[resolved] = &entry{css: compiled, modTime: info.ModTime()}
	b.mu.Unlock()

	return compiled, nil
}

// buildDefault compiles the embedded default theme. The source never
// changes at runtime, so the result is memoized under the empty key.
func (b *Builder) buildDefault() (string, error) {
	b.mu.RLock()
	cached, ok := b.entries[""]
	b.mu.RUnlock()
	if ok {
		return cached.css, nil
	}

	compiled, err := b.compile(assets.DefaultThemeCSS())
	if err != nil {
		return "", &StyleError{Path: "(default theme)", Err: err}
	}

	b.mu.Lock()
	b.entries[""] = &entry{css: compiled}
	b.mu.Unlock()

	return compiled, nil
}

// compile runs the source through the CSS compiler and appends the
// highlighting sheet.
func (b *Builder) compile(src []byte) (string, error) {
	out, err := b.minifier.String("text/css", string(src))
	if err != nil {
		return "", err
	}
	return out + "\n" + b.highlight, nil
}
