// Package memory holds an in-memory keyed-store backend for local dev and
// tests. It mirrors the production backend's semantics: items live under a
// partition key, ordered by sort key, with a recency index over the GSI1
// attributes.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/PabloGalante/verba/internal/adapters/storage/keyed"
)

type Store struct {
	mu sync.RWMutex
	// partition key -> sort key -> item
	items map[string]map[string]keyed.Item
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]map[string]keyed.Item),
	}
}

func (s *Store) Put(ctx context.Context, item keyed.Item) error {
	pk := item[keyed.AttrPK]
	sk := item[keyed.AttrSK]

	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.items[pk]
	if !ok {
		part = make(map[string]keyed.Item)
		s.items[pk] = part
	}
	part[sk] = maps.Clone(item)
	return nil
}

func (s *Store) Get(ctx context.Context, pk, sk string) (keyed.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[pk][sk]
	if !ok {
		return nil, nil
	}
	return maps.Clone(item), nil
}

func (s *Store) Query(ctx context.Context, q keyed.QuerySpec) ([]keyed.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []keyed.Item
	if q.Index != "" {
		// Secondary-index query: collect every item whose GSI1PK matches and
		// order by GSI1SK.
		for _, part := range s.items {
			for _, item := range part {
				if item[keyed.AttrGSI1PK] == q.IndexPK {
					out = append(out, maps.Clone(item))
				}
			}
		}
		sortItems(out, keyed.AttrGSI1SK, q.Descending)
	} else {
		for sk, item := range s.items[q.PK] {
			if q.SKPrefix != "" && !strings.HasPrefix(sk, q.SKPrefix) {
				continue
			}
			out = append(out, maps.Clone(item))
		}
		sortItems(out, keyed.AttrSK, q.Descending)
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) BatchDelete(ctx context.Context, keys []keyed.ItemKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if part, ok := s.items[key.PK]; ok {
			delete(part, key.SK)
			if len(part) == 0 {
				delete(s.items, key.PK)
			}
		}
	}
	return nil
}

func sortItems(items []keyed.Item, attr string, descending bool) {
	sort.Slice(items, func(i, j int) bool {
		if descending {
			return items[i][attr] > items[j][attr]
		}
		return items[i][attr] < items[j][attr]
	})
}
