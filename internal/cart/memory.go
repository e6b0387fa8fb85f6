package cart

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	cart      Cart
	expiresAt time.Time
}

// MemoryStore keeps carts in process memory with per-session TTL. Expired
// entries are evicted on access and reclaimed in bulk by a write-triggered
// sweep, so carts of visitors who never return do not stay resident forever.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return Cart{}, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return Cart{}, nil
	}
	return cloneCart(entry.cart), nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, cart Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[sessionID] = memoryEntry{
		cart:      cloneCart(cart),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	s.sweepLocked()
	return nil
}

// sweepLocked drops every expired entry. It runs at most once per TTL window,
// keeping writes O(1) between sweeps. Callers must hold s.mu.
func (s *MemoryStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	if now.Before(s.nextSweep) {
		return
	}
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}

func cloneCart(cart Cart) Cart {
	if cart.Lines == nil {
		return Cart{}
	}
	lines := make([]LineItem, len(cart.Lines))
	copy(lines, cart.Lines)
	return Cart{Lines: lines}
}
