package dep_checker

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
	"github.com/pydepsync/pydepsync/dep_checker/models"
	"github.com/zeebo/xxh3"
)

// Fingerprint returns the hex xxh3-128 of the given content. It is the only
// change-detection signal the cache trusts; size and mtime are metadata only.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// CacheStats tracks cache performance counters for the stats report.
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	mutex         sync.RWMutex
}

// CacheStore persists a mapping from relative path to {fingerprint, packages}
// in a single JSON file. It is loaded once at construction and written once
// by Persist; in between it is a synchronized in-memory map.
//
// The store is a performance optimization only: reconciliation results must
// be identical whether it is empty, partial, or fully populated.
type CacheStore struct {
	path    string
	enabled bool
	mutex   sync.RWMutex
	entries map[string]models.CacheEntry
	stats   *CacheStats
}

// NewCacheStore loads the cache at path. Corrupt or unreadable cache data is
// treated as an empty cache with a warning, never fatal.
func NewCacheStore(path string, enabled bool) *CacheStore {
	cs := &CacheStore{
		path:    path,
		enabled: enabled,
		entries: make(map[string]models.CacheEntry),
		stats:   &CacheStats{},
	}
	if !enabled {
		return cs
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cs
	}
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: could not read cache file %s: %v", path, err)))
		return cs
	}

	if err := json.Unmarshal(data, &cs.entries); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: cache file %s is corrupt, starting fresh", path)))
		cs.entries = make(map[string]models.CacheEntry)
	}
	return cs
}

// Lookup is a hit only when the stored fingerprint exactly equals the current
// one; any mismatch (including a missing entry) forces re-extraction.
func (cs *CacheStore) Lookup(relPath string, fingerprint string) ([]string, bool) {
	if !cs.enabled {
		return nil, false
	}

	cs.mutex.RLock()
	entry, ok := cs.entries[relPath]
	cs.mutex.RUnlock()

	if !ok || entry.Fingerprint != fingerprint {
		cs.recordCacheMiss()
		return nil, false
	}
	cs.recordCacheHit()
	return entry.Packages, true
}

// Upsert stores the resolved package names for a file. Packages are kept
// sorted so serialization is stable.
func (cs *CacheStore) Upsert(relPath string, fingerprint string, packages []string) {
	if !cs.enabled {
		return
	}

	sorted := append([]string(nil), packages...)
	sort.Strings(sorted)
	if sorted == nil {
		sorted = []string{}
	}

	cs.mutex.Lock()
	cs.entries[relPath] = models.CacheEntry{Fingerprint: fingerprint, Packages: sorted}
	cs.mutex.Unlock()
}

// Persist writes entries for the given paths only, evicting stale entries for
// files no longer present, and keeps serialization deterministic (sorted
// keys, sorted packages) so an unchanged tree round-trips byte-identically.
func (cs *CacheStore) Persist(seenPaths map[string]bool) error {
	if !cs.enabled {
		return nil
	}

	cs.mutex.RLock()
	kept := make(map[string]models.CacheEntry, len(seenPaths))
	for path, entry := range cs.entries {
		if seenPaths[path] {
			kept[path] = entry
		}
	}
	cs.mutex.RUnlock()

	data, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(cs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Clear drops all in-memory entries and removes the cache file.
func (cs *CacheStore) Clear() error {
	cs.mutex.Lock()
	cs.entries = make(map[string]models.CacheEntry)
	cs.mutex.Unlock()

	if err := os.Remove(cs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Len returns the number of in-memory entries.
func (cs *CacheStore) Len() int {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()
	return len(cs.entries)
}

// Stats returns cache statistics for the reset-cache command.
func (cs *CacheStore) Stats() map[string]interface{} {
	stats := make(map[string]interface{})
	stats["cache_enabled"] = cs.enabled
	stats["cache_file"] = cs.path
	stats["cached_files"] = cs.Len()

	if info, err := os.Stat(cs.path); err == nil {
		stats["total_size"] = info.Size()
	} else {
		stats["total_size"] = int64(0)
	}

	cs.stats.mutex.RLock()
	defer cs.stats.mutex.RUnlock()
	stats["total_requests"] = cs.stats.TotalRequests
	stats["cache_hits"] = cs.stats.CacheHits
	stats["cache_misses"] = cs.stats.CacheMisses
	if cs.stats.TotalRequests > 0 {
		stats["hit_rate"] = float64(cs.stats.CacheHits) / float64(cs.stats.TotalRequests) * 100
	} else {
		stats["hit_rate"] = 0.0
	}
	return stats
}

func (cs *CacheStore) recordCacheHit() {
	cs.stats.mutex.Lock()
	defer cs.stats.mutex.Unlock()
	cs.stats.TotalRequests++
	cs.stats.CacheHits++
}

func (cs *CacheStore) recordCacheMiss() {
	cs.stats.mutex.Lock()
	defer cs.stats.mutex.Unlock()
	cs.stats.TotalRequests++
	cs.stats.CacheMisses++
}
