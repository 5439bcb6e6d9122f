package geo

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const cacheFileVersion = 1

// Cache remembers countries the API resolved. With a path set it is
// persisted as a versioned JSON document; files of any other shape are
// ignored and replaced on the next Put.
type Cache struct {
	// MaxAge expires entries resolved longer ago; zero keeps them forever.
	MaxAge time.Duration

	path     string
	mu       sync.RWMutex
	entries  map[string]cachedCountry
	loadOnce sync.Once
	loadErr  error
	now      func() time.Time
}

type cachedCountry struct {
	Name       string    `json:"name"`
	ISO2       string    `json:"iso2"`
	Region     string    `json:"region,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

type cacheDocument struct {
	Version   int                      `json:"version"`
	Countries map[string]cachedCountry `json:"countries"`
}

// NewCache creates a cache persisted at path, or memory-only when path is empty.
func NewCache(path string) *Cache {
	if path != "" {
		path = filepath.Clean(path)
	}
	return &Cache{
		path:    path,
		entries: map[string]cachedCountry{},
		now:     time.Now,
	}
}

func cacheKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Get returns the entry stored under key unless it has expired.
func (c *Cache) Get(key string) (CountryInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cacheKey(key)]
	if !ok {
		return CountryInfo{}, false
	}
	if c.MaxAge > 0 && c.now().Sub(e.ResolvedAt) > c.MaxAge {
		return CountryInfo{}, false
	}
	return CountryInfo{Name: e.Name, ISO2: e.ISO2, Region: e.Region}, true
}

// Put stores v under key and rewrites the file when one is configured.
func (c *Cache) Put(key string, v CountryInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(key)] = cachedCountry{
		Name:       v.Name,
		ISO2:       strings.ToUpper(v.ISO2),
		Region:     v.Region,
		ResolvedAt: c.now().UTC(),
	}
	if c.path == "" {
		return nil
	}
	return c.writeLocked()
}

// Len reports how many entries are held, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load reads the file once. A missing, corrupt or outdated file leaves the
// cache empty and is not an error.
func (c *Cache) Load() error {
	c.loadOnce.Do(func() {
		c.loadErr = c.load()
	})
	return c.loadErr
}

func (c *Cache) load() error {
	if c.path == "" {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.Version != cacheFileVersion {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range doc.Countries {
		if _, ok := c.entries[cacheKey(k)]; !ok {
			c.entries[cacheKey(k)] = v
		}
	}
	return nil
}

func (c *Cache) writeLocked() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cacheDocument{Version: cacheFileVersion, Countries: c.entries}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
