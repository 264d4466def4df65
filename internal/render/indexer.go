package render

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagefold/mdserve/internal/style"
)

// EntryKind classifies one child of a directory listing.
type EntryKind int

const (
	EntryDir EntryKind = iota
	EntryMarkdown
	EntryOther
)

// Entry is one child in a directory listing.
type Entry struct {
	Name string
	Kind EntryKind
}

// class returns the CSS class used to distinguish entries visually.
func (e Entry) class() string {
	switch e.Kind {
	case EntryDir:
		return "dir"
	case EntryMarkdown:
		return "md"
	default:
		return "file"
	}
}

// href returns the browser link for the entry.
func (e Entry) href() string {
	if e.Kind == EntryDir {
		return e.Name + "/"
	}
	return e.Name
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>{{.Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
<ul class="listing">
{{range .Entries}}<li class="{{.Class}}"><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
</article>
<script src="http://{{.ReloadHost}}:{{.ReloadPort}}/livereload.js"></script>
</body>
</html>
`))

// Indexer renders directory requests as an HTML listing wrapped in the same
// stylesheet theme as composed documents.
type Indexer struct {
	root   string
	styles *style.Builder

	StylesheetPath string
	ReloadHost     string
	ReloadPort     int
}

// NewIndexer creates an Indexer serving directories under root.
func NewIndexer(root string, styles *style.Builder) *Indexer {
	return &Indexer{
		root:       root,
		styles:     styles,
		ReloadHost: "localhost",
	}
}

// List enumerates the immediate children of dirPath in filesystem
// enumeration order, classifying each as directory, Markdown file, or other
// file. Fails with NotFoundError if dirPath does not exist or is not a
// directory.
func (ix *Indexer) List(dirPath string) ([]Entry, error) {
	info, err := os.Stat(dirPath)
	if err != nil || !info.IsDir() {
		return nil, &NotFoundError{Path: dirPath}
	}

	children, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, &NotFoundError{Path: dirPath}
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, Entry{Name: child.Name(), Kind: classify(child)})
	}
	return entries, nil
}

// Index renders the listing for dirPath as a styled HTML document. An empty
// directory renders an empty list.
func (ix *Indexer) Index(dirPath string) (string, error) {
	entries, err := ix.List(dirPath)
	if err != nil {
		return "", err
	}

	css, err := ix.styles.Build(ix.StylesheetPath)
	if err != nil {
		return "", err
	}

	type item struct {
		Name  string
		Class string
		Href  string
	}
	items := make([]item, len(entries))
	for i, e := range entries {
		items[i] = item{Name: e.Name, Class: e.class(), Href: e.href()}
	}

	title := filepath.Base(dirPath)
	if title == "." || title == string(filepath.Separator) {
		title = "/"
	}

	var buf strings.Builder
	err = indexTemplate.Execute(&buf, struct {
		Title      string
		Stylesheet template.CSS
		Entries    []item
		ReloadHost string
		ReloadPort int
	}{
		Title:      title,
		Stylesheet: template.CSS(css),
		Entries:    items,
		ReloadHost: ix.ReloadHost,
		ReloadPort: ix.ReloadPort,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// classify tags a directory child for presentation.
func classify(child os.DirEntry) EntryKind {
	if child.IsDir() {
		return EntryDir
	}
	if filepath.Ext(child.Name()) == MarkdownExt {
		return EntryMarkdown
	}
	return EntryOther
}
