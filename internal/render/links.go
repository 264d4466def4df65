package render

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkdownExt is the file extension served as Markdown.
const MarkdownExt = ".md"

// RewriteContext tells the link rewriter where a fragment's relative links
// resolve on disk.
type RewriteContext struct {
	Root    string // Serve root directory (absolute)
	BaseDir string // Directory of the source file (absolute, under Root)
}

// RewriteLinks rewrites anchor hrefs that point at a local Markdown source
// file by its logical name (no extension). If appending the Markdown
// extension to the referenced path yields a file that exists on disk, the
// href gets the extension appended so the browser resolves to the actual
// source. External URLs, anchors, and links without an on-disk Markdown
// counterpart pass through untouched. Only the body inner content is
// returned; scaffolding added by the parse step is discarded.
func RewriteLinks(fragment string, rc RewriteContext) (string, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", &ParseError{Err: err}
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	rewriteNode(container, rc)

	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", &ParseError{Err: err}
		}
	}
	return buf.String(), nil
}

// rewriteNode walks the tree and rewrites anchor hrefs in place.
func rewriteNode(n *html.Node, rc RewriteContext) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		rewriteHref(n, rc)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, rc)
	}
}

// rewriteHref appends the Markdown extension to a bare local href when the
// extended path exists on disk.
func rewriteHref(n *html.Node, rc RewriteContext) {
	for i, attr := range n.Attr {
		if attr.Key != "href" {
			continue
		}
		if !isLocalRef(attr.Val) {
			return
		}

		target := resolveTarget(attr.Val, rc) + MarkdownExt
		info, err := os.Stat(target)
		if err != nil || info.IsDir() {
			return // No Markdown counterpart: identity transform
		}

		path := trimRef(attr.Val)
		n.Attr[i].Val = path + MarkdownExt + attr.Val[len(path):]
		return
	}
}

// isLocalRef reports whether href is a local-filesystem-style reference
// rather than an external URL, anchor, or something already carrying the
// Markdown extension.
func isLocalRef(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "//") {
		return false
	}
	if strings.Contains(href, "://") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "data:") {
		return false
	}
	path := trimRef(href)
	if strings.HasSuffix(path, MarkdownExt) {
		return false
	}
	// A trailing slash names a directory, never a Markdown source.
	if strings.HasSuffix(path, "/") {
		return false
	}
	return true
}

// resolveTarget maps an href to a filesystem path. Root-relative hrefs
// resolve against the serve root, the rest against the source file's
// directory.
func resolveTarget(href string, rc RewriteContext) string {
	href = trimRef(href)
	if strings.HasPrefix(href, "/") {
		return filepath.Join(rc.Root, filepath.FromSlash(href))
	}
	return filepath.Join(rc.BaseDir, filepath.FromSlash(href))
}

// trimRef drops query string and fragment parts from an href.
func trimRef(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		return href[:i]
	}
	return href
}
