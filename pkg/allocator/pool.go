package allocator

import "github.com/user/vidrender/pkg/ports"

// Pool hands out surfaces in round-robin order. The first call to Next
// returns the surface at index 0. A Pool is not safe for concurrent use;
// the renderer guards it with its stream lock.
type Pool struct {
	surfaces []ports.Surface
	cursor   int
}

// NewPool creates a pool over a fixed set of surfaces.
func NewPool(surfaces []ports.Surface) *Pool {
	return &Pool{surfaces: surfaces}
}

// Len returns the number of surfaces in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.surfaces)
}

// Next returns the surface at the cursor and advances it.
func (p *Pool) Next() ports.Surface {
	if p.Len() == 0 {
		return nil
	}
	s := p.surfaces[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.surfaces)
	return s
}

// Cursor returns the index the next call to Next will use.
func (p *Pool) Cursor() int {
	return p.cursor
}

// Surfaces returns the pooled surfaces in index order.
func (p *Pool) Surfaces() []ports.Surface {
	if p == nil {
		return nil
	}
	return p.surfaces
}
