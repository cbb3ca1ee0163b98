package mappack

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/logger"
)

//go:embed maps/*.fdf
var embedded embed.FS

// Embedded returns the source holding the built-in preset maps.
func Embedded() FSSource {
	sub, err := fs.Sub(embedded, "maps")
	if err != nil {
		panic(err)
	}
	return FSSource{FS: sub}
}

// EmbeddedNames lists the built-in presets without extension, sorted.
func EmbeddedNames() []string {
	entries, err := fs.ReadDir(embedded, "maps")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names
}

// Manager resolves map names against several sources and caches the
// decoded text.
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewManager creates a manager with the given sources.
// Sources are searched in reverse order (last added = highest priority).
func NewManager(sources ...Source) *Manager {
	return &Manager{
		sources: sources,
		cache:   NewCache(),
		log:     logger.Named("mappack"),
	}
}

// Standard returns a manager searching a local directory first, then an
// HTTP map pack, then the built-in presets. Empty dir or baseURL skip that source.
func Standard(dir, baseURL string) *Manager {
	m := NewManager(Embedded())
	if baseURL != "" {
		m.AddSource(NewHTTPSource(baseURL))
	}
	if dir != "" {
		m.AddSource(Dir(dir))
	}
	return m
}

// AddSource adds a source with the highest priority.
func (m *Manager) AddSource(s Source) {
	m.mu.Lock()
	m.sources = append(m.sources, s)
	m.mu.Unlock()
}

// Fetch implements Source by trying every source, newest first.
// A source reporting ErrNotFound passes the lookup on; any other error stops it.
func (m *Manager) Fetch(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	sources := append([]Source(nil), m.sources...)
	m.mu.RUnlock()

	for i := len(sources) - 1; i >= 0; i-- {
		data, err := sources[i].Fetch(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, &FetchError{Name: name, Err: ErrNotFound}
}

// LoadText fetches a map and returns its decoded text, using the cache
// when possible.
func (m *Manager) LoadText(ctx context.Context, name string) (string, error) {
	if text, ok := m.cache.Get(name); ok {
		return text, nil
	}

	data, err := m.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	text, err := DecodeText(data)
	if err != nil {
		return "", &FetchError{Name: name, Err: err}
	}

	m.cache.Set(name, text)
	m.log.Debug("map fetched", zap.String("name", name), zap.Int("bytes", len(data)))
	return text, nil
}

// Cache returns the manager's text cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// LoadText fetches name from any source and decodes it.
func LoadText(ctx context.Context, src Source, name string) (string, error) {
	if tl, ok := src.(interface {
		LoadText(context.Context, string) (string, error)
	}); ok {
		return tl.LoadText(ctx, name)
	}
	data, err := src.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	text, err := DecodeText(data)
	if err != nil {
		return "", &FetchError{Name: name, Err: err}
	}
	return text, nil
}

// Cache is an in-memory cache of decoded map text.
type Cache struct {
	data map[string]string
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]string)}
}

// Get retrieves an item from the cache.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return text, ok
}

// Set stores an item in the cache.
func (c *Cache) Set(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = text
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]string)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
