// Package cache provides in-memory LRU caching for decoded raster resources.
//
// The cache is the in-process store behind the texture manager: decoded and
// processed paper textures are expensive to rebuild (network fetch + decode +
// resample), so they are kept in memory up to a byte budget and evicted in
// least-recently-used order when the budget is exceeded.
//
// # Pinning
//
// Entries can be pinned while a render is using them. Pinned entries are
// never evicted, neither by budget pressure on Put nor by an explicit
// Reclaim pass. Pins are counted, so concurrent renders of the same
// template each take and release their own pin.
//
// # Sizing
//
// The store does not inspect values; the size function supplied at
// construction reports each value's approximate footprint. For raster
// images this is width*height*4 bytes, which tracks real usage closely
// enough for budget decisions.
package cache

import (
	"container/list"
	"strings"
	"sync"
)

// Store is an in-memory LRU store with byte accounting and pin counting.
// All methods are safe for concurrent use.
type Store[V any] struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	sizeOf     func(V) int64
	maxBytes   int64
	maxEntries int

	bytes     int64
	hits      uint64
	misses    uint64
	evictions uint64
}

type entry[V any] struct {
	key   string
	value V
	size  int64
	pins  int
}

// Stats is a point-in-time snapshot of store counters.
type Stats struct {
	Entries   int
	Bytes     int64
	MaxBytes  int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of lookups served from the store, in [0, 1].
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewStore creates a Store bounded by maxBytes and maxEntries.
// A limit of 0 disables that bound. sizeOf reports the approximate byte
// footprint of a value and must not be nil when maxBytes > 0.
func NewStore[V any](maxBytes int64, maxEntries int, sizeOf func(V) int64) *Store[V] {
	if sizeOf == nil {
		sizeOf = func(V) int64 { return 0 }
	}
	return &Store[V]{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		sizeOf:     sizeOf,
		maxBytes:   maxBytes,
		maxEntries: maxEntries,
	}
}

// Get retrieves a value by key, marking it most recently used.
// The second return reports whether the key was present.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		s.misses++
		var zero V
		return zero, false
	}
	s.hits++
	s.order.MoveToFront(el)
	return el.Value.(*entry[V]).value, true
}

// Peek retrieves a value without touching recency or hit counters.
func (s *Store[V]) Peek(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return el.Value.(*entry[V]).value, true
}

// Put stores a value under key, replacing any existing entry, then evicts
// least-recently-used unpinned entries until the store is within budget.
// A replaced entry keeps its pin count.
func (s *Store[V]) Put(key string, value V) {
	size := s.sizeOf(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if ok {
		e := el.Value.(*entry[V])
		s.bytes += size - e.size
		e.value = value
		e.size = size
		s.order.MoveToFront(el)
	} else {
		el = s.order.PushFront(&entry[V]{key: key, value: value, size: size})
		s.entries[key] = el
		s.bytes += size
	}

	s.evictForBudget(el)
}

// Remove deletes the entry for key, reporting whether it existed.
// Removal ignores pins: an explicit Remove expresses that the entry's
// backing template is gone, so holding renders keep their reference but
// the store forgets it.
func (s *Store[V]) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		return false
	}
	s.removeElement(el)
	return true
}

// RemovePrefix deletes all entries whose key starts with prefix and
// returns how many were removed. Used to drop every processed variant
// of one template in a single call.
func (s *Store[V]) RemovePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for el := s.order.Front(); el != nil; {
		next := el.Next()
		if strings.HasPrefix(el.Value.(*entry[V]).key, prefix) {
			s.removeElement(el)
			removed++
		}
		el = next
	}
	return removed
}

// Clear removes all entries, pinned or not, and resets byte accounting.
// Hit and miss counters are preserved.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order.Init()
	s.bytes = 0
}

// Pin increments the pin count for key, protecting it from eviction.
// Reports whether the key was present.
func (s *Store[V]) Pin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		return false
	}
	el.Value.(*entry[V]).pins++
	return true
}

// Unpin decrements the pin count for key. Unpinning below zero is a
// caller bug and is clamped. Reports whether the key was present.
func (s *Store[V]) Unpin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		return false
	}
	e := el.Value.(*entry[V])
	if e.pins > 0 {
		e.pins--
	}
	return true
}

// Reclaim evicts least-recently-used unpinned entries until at least
// target bytes are freed or no evictable entries remain. It returns the
// number of bytes actually freed.
func (s *Store[V]) Reclaim(target int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var freed int64
	el := s.order.Back()
	for el != nil && freed < target {
		prev := el.Prev()
		e := el.Value.(*entry[V])
		if e.pins == 0 {
			freed += e.size
			s.removeElement(el)
			s.evictions++
		}
		el = prev
	}
	return freed
}

// EstimatedBytes returns the current accounted footprint of all entries.
func (s *Store[V]) EstimatedBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Len returns the number of entries currently stored.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns a snapshot of the store's counters.
func (s *Store[V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Entries:   len(s.entries),
		Bytes:     s.bytes,
		MaxBytes:  s.maxBytes,
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
	}
}

// evictForBudget evicts unpinned LRU entries while either bound is
// exceeded. The just-stored element keep is never evicted: its caller
// pins only after Put returns, and evicting the value being handed out
// would hollow out that window. When everything left is pinned or kept
// the store runs over budget; pins always win. Caller must hold s.mu.
func (s *Store[V]) evictForBudget(keep *list.Element) {
	over := func() bool {
		if s.maxBytes > 0 && s.bytes > s.maxBytes {
			return true
		}
		if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
			return true
		}
		return false
	}

	el := s.order.Back()
	for el != nil && over() {
		prev := el.Prev()
		if el != keep && el.Value.(*entry[V]).pins == 0 {
			s.removeElement(el)
			s.evictions++
		}
		el = prev
	}
}

// removeElement unlinks an entry. Caller must hold s.mu.
func (s *Store[V]) removeElement(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(s.entries, e.key)
	s.order.Remove(el)
	s.bytes -= e.size
}
