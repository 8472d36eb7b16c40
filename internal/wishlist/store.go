// Package wishlist keeps a client-only set of product IDs. It never talks
// to the server; the set is mirrored into local storage on every change.
package wishlist

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"storefront_client/internal/storage"
)

type Store struct {
	store *storage.FileStore
	log   *logrus.Logger

	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewStore(store *storage.FileStore, logger *logrus.Logger) *Store {
	s := &Store{
		store: store,
		log:   logger,
		ids:   make(map[string]struct{}),
	}

	var cached []string
	if store.GetJSON(storage.KeyWishlist, &cached) {
		for _, id := range cached {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

func (s *Store) Add(productID string) {
	if productID == "" {
		return
	}
	s.mu.Lock()
	s.ids[productID] = struct{}{}
	s.mu.Unlock()
	s.persist()
}

func (s *Store) Remove(productID string) {
	s.mu.Lock()
	delete(s.ids, productID)
	s.mu.Unlock()
	s.persist()
}

func (s *Store) Has(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[productID]
	return ok
}

// IDs returns the wishlist in stable sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (s *Store) persist() {
	if err := s.store.SetJSON(storage.KeyWishlist, s.IDs()); err != nil {
		s.log.Warnf("Wishlist: failed to persist: %v", err)
	}
}
