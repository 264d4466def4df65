package render

import "fmt"

// ParseError indicates that Markdown conversion or HTML fragment parsing
// failed for a request.
type ParseError struct {
	Path string // Source file path, if known
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError indicates that a requested filesystem path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}
