package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"vendas-dashboard/internal/dataset"
)

// sourceCache memoizes parsed tables by source fingerprint. Entries are
// immutable once stored, so sharing them across sessions is safe; the
// fingerprint changes whenever the source does, which is the explicit
// invalidation path.
type sourceCache struct {
	mu      sync.RWMutex
	entries map[string]*dataset.Table
}

func newSourceCache() *sourceCache {
	return &sourceCache{entries: make(map[string]*dataset.Table)}
}

func (c *sourceCache) get(key string) (*dataset.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

func (c *sourceCache) put(key string, t *dataset.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = t
}

func (c *sourceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *sourceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*dataset.Table)
}

// fingerprintFile keys a file source by path and modification time, so
// an edited file re-parses while an untouched one is reused.
func fingerprintFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("file:%s@%d", path, info.ModTime().UnixNano()), nil
}

// fingerprintBytes keys an upload by content hash.
func fingerprintBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return "upload:" + hex.EncodeToString(sum[:])
}
