// Package mappack fetches FDF map text from embedded presets, directories
// and HTTP servers.
package mappack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Extension is appended to map names that have none.
const Extension = ".fdf"

// maxMapSize bounds how much a single fetch may read.
const maxMapSize = 64 << 20

// ErrNotFound is returned when no source holds the requested map.
var ErrNotFound = errors.New("map not found")

// FetchError reports a failed fetch. Status is the HTTP status code for
// HTTP sources and 0 otherwise.
type FetchError struct {
	Name   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Name, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Name, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Source retrieves raw map bytes by name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// MapName adds the default extension when name has none.
func MapName(name string) string {
	if path.Ext(name) == "" {
		return name + Extension
	}
	return name
}

// IsFilePath reports whether ref should be read from disk rather than
// looked up by name: it contains a path separator or names an existing file.
func IsFilePath(ref string) bool {
	if strings.ContainsAny(ref, `/\`) {
		return true
	}
	info, err := os.Stat(ref)
	return err == nil && info.Mode().IsRegular()
}

// FSSource reads maps from a file system such as an embed.FS or os.DirFS.
type FSSource struct {
	FS fs.FS
}

// Dir returns a source reading maps below a directory on disk.
func Dir(dir string) FSSource {
	return FSSource{FS: os.DirFS(dir)}
}

// Fetch implements Source.
func (s FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}
	p := MapName(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(p) {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("invalid map path %q", p)}
	}
	data, err := fs.ReadFile(s.FS, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &FetchError{Name: name, Err: ErrNotFound}
	}
	if err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}
	return data, nil
}

// PathSource reads files by their OS path, as picked in a file dialog.
type PathSource struct{}

// Fetch implements Source.
func (PathSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &FetchError{Name: name, Err: ErrNotFound}
	}
	if err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}
	return data, nil
}

// HTTPSource downloads maps relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTP source with a bounded request timeout.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch implements Source. Any non-2xx response is a FetchError carrying the status.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.JoinPath(s.BaseURL, MapName(name))
	if err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := errors.New(http.StatusText(resp.StatusCode))
		if resp.StatusCode == http.StatusNotFound {
			cause = ErrNotFound
		}
		return nil, &FetchError{Name: name, Status: resp.StatusCode, Err: cause}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMapSize))
	if err != nil {
		return nil, &FetchError{Name: name, Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

// DecodeText converts fetched bytes to a string. A UTF-8 or UTF-16 byte
// order mark selects the encoding and is removed; without one the data
// is taken as UTF-8.
func DecodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decoding map text: %w", err)
	}
	return string(out), nil
}
