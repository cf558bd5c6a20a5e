package menu

import (
	"strings"
	"sync"

	"tableside/pkg/menubot"
)

// Index holds the menu catalog for one table session and answers substring
// queries over it. The catalog is fetched at most once per session.
type Index struct {
	mu    sync.RWMutex
	items []menubot.MenuItem
}

func NewIndex() *Index {
	return &Index{}
}

// Load replaces the catalog. It is a no-op when a catalog is already held,
// so repeated load requests within a session do not refetch.
func (idx *Index) Load(items []menubot.MenuItem) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(idx.items) > 0 {
		return false
	}
	idx.items = items
	return true
}

func (idx *Index) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.items) > 0
}

// Clear discards the catalog so the next load refetches.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.items = nil
}

// Items returns a copy of the catalog in insertion order.
func (idx *Index) Items() []menubot.MenuItem {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	items := make([]menubot.MenuItem, len(idx.items))
	copy(items, idx.items)
	return items
}

// Search returns the catalog entries whose name, description, or category
// contains the query as a case-insensitive substring, in catalog order.
// An empty or whitespace query matches nothing rather than everything.
func (idx *Index) Search(query string) []menubot.MenuItem {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []menubot.MenuItem{}
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]menubot.MenuItem, 0)
	for _, item := range idx.items {
		if strings.Contains(strings.ToLower(item.NameOfItem), term) ||
			strings.Contains(strings.ToLower(item.Description), term) ||
			strings.Contains(strings.ToLower(item.Category), term) {
			results = append(results, item)
		}
	}
	return results
}
