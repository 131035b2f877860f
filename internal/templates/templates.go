package templates

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed *.html *.txt
var files embed.FS

// FS holds the email bodies. Every HTML template has a plain text twin with the .txt extension.
func FS() fs.FS {
	return files
}

// TextName returns the plain text twin of an HTML template name.
func TextName(htmlName string) string {
	return strings.TrimSuffix(htmlName, ".html") + ".txt"
}
