package memtree

import "sync"

// Pool accounts for live node handles. A bounded pool refuses new handles
// once Max handles are outstanding, like the platform-side node cache.
type Pool struct {
	mu       sync.Mutex
	max      int
	live     int
	acquired int
	released int
}

// NewPool returns a pool allowing max live handles. Zero means unbounded.
func NewPool(max int) *Pool {
	return &Pool{max: max}
}

func (p *Pool) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.max > 0 && p.live >= p.max {
		return false
	}
	p.live++
	p.acquired++
	return true
}

func (p *Pool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live--
	p.released++
}

// Live returns the number of handles acquired and not yet released.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Acquired returns the total number of handles handed out.
func (p *Pool) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}
