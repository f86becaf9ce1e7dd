package reader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/scenecut/internal/book"
)

// Reader parses raw source bytes into the flat item structure the segmenter
// consumes.
type Reader interface {
	Read(r io.Reader, filename string) (book.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".epub":     true,
	".md":       true,
	".markdown": true,
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".epub":
		return &EPUBReader{}, nil
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle derives a document title fallback from the filename.
func baseTitle(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
