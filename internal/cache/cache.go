// Package cache persists per-file check results between runs, keyed by
// content digest, so unchanged files are not re-processed. The cache file
// is msgpack-serialized and written atomically; any change to the
// configuration tree invalidates every entry.
package cache

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"sync"

	"github.com/agilira/go-errors"
	"github.com/vmihailenco/msgpack/v5"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// ErrCodeCache marks cache load/store failures.
const ErrCodeCache = "CHECKSTYLE_CACHE_FAILURE"

// Increment when the payload format changes.
const schemaVersion uint16 = 1

type payload struct {
	Schema       uint16
	ConfigDigest []byte
	Entries      map[string]entry
}

type entry struct {
	ContentHash []byte
	Violations  []api.Violation
}

// ResultCache is a thread-safe map of file path to the violations of its
// last processed content. Safe for concurrent Get/Put from worker tasks.
type ResultCache struct {
	mu           sync.RWMutex
	path         string
	configDigest []byte
	entries      map[string]entry
	dirty        bool
}

// Open loads the cache file at path, dropping every stale entry: a
// missing file, a schema mismatch or a changed configuration digest all
// yield an empty cache.
func Open(path string, cfg *config.Config) (*ResultCache, error) {
	c := &ResultCache{
		path:         path,
		configDigest: cfg.Digest(),
		entries:      make(map[string]entry),
	}
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the configuration
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeCache, "unable to read cache file "+path)
	}
	var p payload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		// Повреждённый кеш не считается фатальным: начинаем заново.
		return c, nil
	}
	if p.Schema != schemaVersion || !digestEqual(p.ConfigDigest, c.configDigest) {
		return c, nil
	}
	if p.Entries != nil {
		c.entries = p.Entries
	}
	return c, nil
}

// Get returns the cached violations for the file when its content is
// unchanged since the entry was stored.
func (c *ResultCache) Get(text *api.FileText) ([]api.Violation, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[text.Path]
	if !ok || !digestEqual(e.ContentHash, text.Hash[:]) {
		return nil, false
	}
	return e.Violations, true
}

// Put stores the violations of one processed file.
func (c *ResultCache) Put(text *api.FileText, violations []api.Violation) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[text.Path] = entry{
		ContentHash: append([]byte(nil), text.Hash[:]...),
		Violations:  append([]api.Violation(nil), violations...),
	}
	c.dirty = true
	c.mu.Unlock()
}

// Persist writes the cache to disk via a temp file and atomic rename.
// It is a no-op when nothing changed since Open.
func (c *ResultCache) Persist() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	raw, err := msgpack.Marshal(payload{
		Schema:       schemaVersion,
		ConfigDigest: c.configDigest,
		Entries:      c.entries,
	})
	if err != nil {
		return errors.Wrap(err, ErrCodeCache, "unable to serialize cache")
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, ErrCodeCache, "unable to create cache directory "+dir)
	}
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return errors.Wrap(err, ErrCodeCache, "unable to create cache temp file")
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, ErrCodeCache, "unable to write cache temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, ErrCodeCache, "unable to close cache temp file")
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return errors.Wrap(err, ErrCodeCache, "unable to replace cache file "+c.path)
	}
	c.dirty = false
	return nil
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func digestEqual(a, b []byte) bool {
	if len(a) != sha256.Size || len(b) != sha256.Size {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
