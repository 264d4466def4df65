// Package render implements the composition pipeline: Markdown conversion,
// link rewriting, and assembly of converted fragments into styled documents.
package render

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pagefold/mdserve/internal/style"
)

// compactTemplate is the single-article shell used with the bundled default
// theme. It has no slots for header, navigation, or footer.
var compactTemplate = template.Must(template.New("compact").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>{{.Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
<article>
{{.Article}}</article>
<script src="http://{{.ReloadHost}}:{{.ReloadPort}}/livereload.js"></script>
</body>
</html>
`))

// fullTemplate is the themed shell with header, navigation, article, and
// footer regions. Regions whose slot is absent are omitted entirely.
var fullTemplate = template.Must(template.New("full").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>{{.Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
{{with .Header}}<header>
{{.}}</header>
{{end}}{{with .Navigation}}<nav>
{{.}}</nav>
{{end}}<article>
{{.Article}}</article>
{{with .Footer}}<footer>
{{.}}</footer>
{{end}}<script src="http://{{.ReloadHost}}:{{.ReloadPort}}/livereload.js"></script>
</body>
</html>
`))

// document carries the resolved fragment slots into the page templates.
type document struct {
	Title      string
	Stylesheet template.CSS
	Article    template.HTML
	Header     template.HTML
	Footer     template.HTML
	Navigation template.HTML
	ReloadHost string
	ReloadPort int
}

// Composer assembles full HTML pages for Markdown requests. The stylesheet
// build and all configured fragment conversions are issued concurrently and
// joined before any output is written.
type Composer struct {
	root   string
	conv   *Converter
	styles *style.Builder

	// StylesheetPath selects the theme; empty means the bundled default.
	StylesheetPath string

	// Optional auxiliary fragment sources, resolved against root when
	// relative. An empty path leaves the slot inert: no I/O, no region
	// in the output.
	HeaderPath     string
	FooterPath     string
	NavigationPath string

	ReloadHost string
	ReloadPort int
}

// NewComposer creates a Composer serving files under root.
func NewComposer(root string, conv *Converter, styles *style.Builder) *Composer {
	return &Composer{
		root:       root,
		conv:       conv,
		styles:     styles,
		ReloadHost: "localhost",
	}
}

// usesDefaultTheme reports whether the configured stylesheet is the bundled
// default theme.
func (c *Composer) usesDefaultTheme() bool {
	return c.StylesheetPath == ""
}

// Compose renders the Markdown file at mdPath into a complete HTML document.
// The article fragment is mandatory: a read failure is fatal for the
// request. With the default theme the compact template is emitted and the
// auxiliary slots are ignored entirely, configured or not; no I/O is
// performed on their paths.
func (c *Composer) Compose(ctx context.Context, mdPath string) (string, error) {
	doc := document{
		Title:      strings.TrimSuffix(filepath.Base(mdPath), filepath.Ext(mdPath)),
		ReloadHost: c.ReloadHost,
		ReloadPort: c.ReloadPort,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		css, err := c.styles.Build(c.StylesheetPath)
		if err != nil {
			return err
		}
		doc.Stylesheet = template.CSS(css)
		return nil
	})

	g.Go(func() error {
		html, err := c.renderFragment(ctx, mdPath)
		if err != nil {
			return err
		}
		doc.Article = html
		return nil
	})

	if !c.usesDefaultTheme() {
		type slot struct {
			path string
			out  *template.HTML
		}
		for _, s := range []slot{
			{c.headerSource(), &doc.Header},
			{c.footerSource(), &doc.Footer},
			{c.navigationSource(), &doc.Navigation},
		} {
			if s.path == "" {
				continue // Inert slot: resolves to absent without I/O
			}
			s := s
			g.Go(func() error {
				html, err := c.renderFragment(ctx, s.path)
				if err != nil {
					return err
				}
				*s.out = html
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	tmpl := fullTemplate
	if c.usesDefaultTheme() {
		tmpl = compactTemplate
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderFragment reads one Markdown source, converts it, and rewrites its
// local links relative to the source file's directory.
func (c *Composer) renderFragment(ctx context.Context, path string) (template.HTML, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", err
	}

	converted, err := c.conv.Convert(ctx, string(src))
	if err != nil {
		return "", err
	}

	rewritten, err := RewriteLinks(converted, RewriteContext{
		Root:    c.root,
		BaseDir: filepath.Dir(path),
	})
	if err != nil {
		return "", err
	}

	return template.HTML(rewritten), nil
}

func (c *Composer) headerSource() string     { return c.resolveAux(c.HeaderPath) }
func (c *Composer) footerSource() string     { return c.resolveAux(c.FooterPath) }
func (c *Composer) navigationSource() string { return c.resolveAux(c.NavigationPath) }

// resolveAux resolves a configured auxiliary path against the serve root.
func (c *Composer) resolveAux(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.root, path)
}
