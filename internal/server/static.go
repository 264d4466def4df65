package server

import (
	"net/http"
	"path/filepath"
	"strings"
)

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// serveStatic delegates non-Markdown file transfer to the standard file
// server, which infers content types from extensions.
func serveStatic(w http.ResponseWriter, r *http.Request, path string) {
	http.ServeFile(w, r, path)
}
