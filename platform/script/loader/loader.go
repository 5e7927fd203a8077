// Package loader provides ways to bring source content into memory before
// compilation: from a string, or from a file on disk.
package loader

import (
	"io"
	"net/url"
)

// Loader is the interface engines use to read source content.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}
