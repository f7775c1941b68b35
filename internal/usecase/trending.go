package usecase

import (
	"sort"
	"sync"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

// QueryTracker counts searches in memory so trending terms and the
// diagnostics endpoint reflect real usage. Counts reset on restart.
type QueryTracker struct {
	mu     sync.RWMutex
	counts map[string]uint64
	total  uint64
}

func NewQueryTracker() *QueryTracker {
	return &QueryTracker{counts: make(map[string]uint64)}
}

// Record counts one execution of the given query. Queries are normalized
// first so "Café" and "cafe" land on the same bucket.
func (t *QueryTracker) Record(query string) {
	n := textnorm.Normalize(query)
	if n == "" {
		return
	}
	t.mu.Lock()
	t.counts[n]++
	t.total++
	t.mu.Unlock()
}

// Top returns the n most searched queries, most frequent first, with ties
// broken alphabetically so the order is stable.
func (t *QueryTracker) Top(n int) []domain.QueryCount {
	t.mu.RLock()
	all := make([]domain.QueryCount, 0, len(t.counts))
	for q, c := range t.counts {
		all = append(all, domain.QueryCount{Query: q, Count: c})
	}
	t.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Query < all[j].Query
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

func (t *QueryTracker) TotalQueries() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

func (t *QueryTracker) UniqueQueries() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.counts)
}
