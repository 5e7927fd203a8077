package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/robbyt/go-dyneval/internal/helpers"
)

// FromDisk implements the Loader interface for files on the local
// filesystem.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk creates a new loader for the given absolute file path.
// Relative paths and non-file schemes are rejected.
func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(path, "file://")

	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}

	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: relative paths are not supported", ErrScriptNotAvailable)
	}

	path = filepath.Clean(path)
	if path == "" || path == "." || path == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: path is empty or invalid", ErrScriptNotAvailable)
	}

	u, err := url.Parse("file://" + path)
	if err != nil {
		return nil, fmt.Errorf("unable to parse URL: %w", err)
	}

	return &FromDisk{
		path:      path,
		sourceURL: u,
	}, nil
}

func (l *FromDisk) String() string {
	reader, err := l.GetReader()
	if err != nil {
		return fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)
	}
	defer func() { _ = reader.Close() }()

	chksum, err := helpers.SHA256Reader(reader)
	if err != nil {
		return fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)
	}

	return fmt.Sprintf("loader.FromDisk{Path: %s, SHA256: %s}", l.path, chksum[:8])
}

func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	return os.Open(l.sourceURL.Path)
}

// GetSourceURL returns the source URL of the file.
func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}
