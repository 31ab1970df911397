package canvas

import (
	"sync"
	"time"

	"github.com/th3400l/scrawl/pkg/errors"
)

// DefaultMaxSurfaces bounds how many surfaces may be live at once
// (acquired plus idle) when the caller does not configure a limit.
const DefaultMaxSurfaces = 12

// sizeKey identifies a bucket of identically sized surfaces.
type sizeKey struct {
	width  int
	height int
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Live        int
	Idle        int
	InUse       int
	Bytes       int64
	MaxSurfaces int
	Acquires    uint64
	Reuses      uint64
	Trims       uint64
}

// Pool recycles raster surfaces grouped by exact dimensions.
// All methods are safe for concurrent use.
type Pool struct {
	mu          sync.Mutex
	buckets     map[sizeKey][]*Surface // idle surfaces only
	maxSurfaces int

	live     int
	bytes    int64 // idle + in-use
	acquires uint64
	reuses   uint64
	trims    uint64
}

// NewPool creates a pool bounded to maxSurfaces live surfaces.
// Zero or negative means DefaultMaxSurfaces.
func NewPool(maxSurfaces int) *Pool {
	if maxSurfaces <= 0 {
		maxSurfaces = DefaultMaxSurfaces
	}
	return &Pool{
		buckets:     make(map[sizeKey][]*Surface),
		maxSurfaces: maxSurfaces,
	}
}

// Acquire returns a surface of exactly width x height pixels, reusing an
// idle one when available. At the live limit the least recently used idle
// surface of another size is dropped to make room; if every surface is
// acquired, a CapacityError reports how much an eviction pass could free.
func (p *Pool) Acquire(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "surface size %dx%d", width, height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.acquires++
	key := sizeKey{width: width, height: height}

	if bucket := p.buckets[key]; len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		s.inUse = true
		p.reuses++
		return s, nil
	}

	if p.live >= p.maxSurfaces {
		if !p.dropOldestIdleLocked() {
			return nil, &errors.CapacityError{
				Resource:         "canvas pool",
				RequestedBytes:   int64(width) * int64(height) * 4,
				ReclaimableBytes: p.idleBytesLocked(),
			}
		}
	}

	s := newSurface(width, height)
	p.live++
	p.bytes += s.SizeBytes()
	return s, nil
}

// Release wipes a surface and returns it to its size bucket. Releasing
// nil or a surface that is not acquired is a no-op.
func (p *Pool) Release(s *Surface) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !s.inUse {
		return
	}
	s.wipe()
	s.inUse = false
	s.lastUsed = time.Now()

	key := sizeKey{width: s.width, height: s.height}
	p.buckets[key] = append(p.buckets[key], s)
}

// TrimIdle destroys idle surfaces that have been unused for at least
// maxIdle and returns the bytes freed. TrimIdle(0) drops every idle
// surface. Acquired surfaces are never touched.
func (p *Pool) TrimIdle(maxIdle time.Duration) int64 {
	cutoff := time.Now().Add(-maxIdle)

	p.mu.Lock()
	defer p.mu.Unlock()

	var freed int64
	for key, bucket := range p.buckets {
		kept := bucket[:0]
		for _, s := range bucket {
			if s.lastUsed.After(cutoff) {
				kept = append(kept, s)
				continue
			}
			freed += s.SizeBytes()
			p.live--
			p.bytes -= s.SizeBytes()
			p.trims++
		}
		if len(kept) == 0 {
			delete(p.buckets, key)
		} else {
			p.buckets[key] = kept
		}
	}
	return freed
}

// Reclaim drops idle surfaces, oldest first, until at least target bytes
// are freed or no idle surfaces remain. It returns the bytes freed.
// This is the pool's half of a memory-pressure cleanup pass.
func (p *Pool) Reclaim(target int64) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	var freed int64
	for freed < target {
		key, idx, ok := p.oldestIdleLocked()
		if !ok {
			break
		}
		s := p.buckets[key][idx]
		p.removeIdleLocked(key, idx)
		freed += s.SizeBytes()
		p.trims++
	}
	return freed
}

// Clear destroys all idle surfaces. Acquired surfaces stay live and
// rejoin the pool when released.
func (p *Pool) Clear() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	var freed int64
	for key, bucket := range p.buckets {
		for _, s := range bucket {
			freed += s.SizeBytes()
			p.live--
			p.bytes -= s.SizeBytes()
		}
		delete(p.buckets, key)
	}
	return freed
}

// EstimatedBytes returns the footprint of all live surfaces, acquired
// and idle. Estimation is pixel count times four; exact enough for
// budget decisions.
func (p *Pool) EstimatedBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytes
}

// ReclaimableBytes returns how much an eviction pass could free right
// now, which is the footprint of idle surfaces only.
func (p *Pool) ReclaimableBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleBytesLocked()
}

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	idle := 0
	for _, bucket := range p.buckets {
		idle += len(bucket)
	}
	return Stats{
		Live:        p.live,
		Idle:        idle,
		InUse:       p.live - idle,
		Bytes:       p.bytes,
		MaxSurfaces: p.maxSurfaces,
		Acquires:    p.acquires,
		Reuses:      p.reuses,
		Trims:       p.trims,
	}
}

func (p *Pool) idleBytesLocked() int64 {
	var n int64
	for _, bucket := range p.buckets {
		for _, s := range bucket {
			n += s.SizeBytes()
		}
	}
	return n
}

// dropOldestIdleLocked evicts the least recently used idle surface to
// make room for a new size. Reports whether anything was dropped.
func (p *Pool) dropOldestIdleLocked() bool {
	key, idx, ok := p.oldestIdleLocked()
	if !ok {
		return false
	}
	p.removeIdleLocked(key, idx)
	p.trims++
	return true
}

func (p *Pool) oldestIdleLocked() (sizeKey, int, bool) {
	var (
		oldestKey sizeKey
		oldestIdx int
		oldest    time.Time
		found     bool
	)
	for key, bucket := range p.buckets {
		for i, s := range bucket {
			if !found || s.lastUsed.Before(oldest) {
				oldestKey, oldestIdx, oldest = key, i, s.lastUsed
				found = true
			}
		}
	}
	return oldestKey, oldestIdx, found
}

func (p *Pool) removeIdleLocked(key sizeKey, idx int) {
	bucket := p.buckets[key]
	s := bucket[idx]
	p.buckets[key] = append(bucket[:idx], bucket[idx+1:]...)
	if len(p.buckets[key]) == 0 {
		delete(p.buckets, key)
	}
	p.live--
	p.bytes -= s.SizeBytes()
}
