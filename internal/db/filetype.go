package db

import (
	"path"
	"strings"
)

// FileType maps a path's extension to the display type shown by editors.
func FileType(p string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(p), ".")) {
	case "tsx", "ts":
		return "typescript"
	case "jsx", "js":
		return "javascript"
	case "css":
		return "css"
	case "html":
		return "html"
	case "json":
		return "json"
	case "md":
		return "markdown"
	default:
		return "text"
	}
}
