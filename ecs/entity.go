package ecs

import "fmt"

// Entity encodes a 32-bit index in the lower bits and a 32-bit generation in
// the upper bits. The generation increments when the entity is purged, so
// stale copies of the id stop resolving.
type Entity uint64

// Null is never a valid entity.
const Null Entity = 1<<64 - 1

// NewEntity composes an id from its parts.
func NewEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

func (e Entity) Index() uint32      { return uint32(e) }
func (e Entity) Generation() uint32 { return uint32(e >> 32) }

func (e Entity) String() string {
	if e == Null {
		return "entity(null)"
	}
	return fmt.Sprintf("entity(%d:%d)", e.Index(), e.Generation())
}

// entityPool allocates ids with generational indices and a free list.
// issued holds the highest generation ever handed out per slot. A purge
// moves the slot past it, even after an older id was revived.
type entityPool struct {
	generations []uint32
	issued      []uint32
	alive       []bool
	free        []uint32
	count       int
}

func (p *entityPool) create() Entity {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		p.alive[idx] = true
		p.issued[idx] = max(p.issued[idx], p.generations[idx])
		p.count++
		return NewEntity(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	p.issued = append(p.issued, 0)
	p.alive = append(p.alive, true)
	p.count++
	return NewEntity(idx, 0)
}

// createWithID revives the exact id e. It fails if the slot is alive.
func (p *entityPool) createWithID(e Entity) bool {
	idx := e.Index()
	for uint32(len(p.generations)) <= idx {
		// Intermediate slots become free.
		p.free = append(p.free, uint32(len(p.generations)))
		p.generations = append(p.generations, 0)
		p.issued = append(p.issued, 0)
		p.alive = append(p.alive, false)
	}
	if p.alive[idx] {
		return false
	}
	for i, f := range p.free {
		if f == idx {
			p.free = append(p.free[:i], p.free[i+1:]...)
			break
		}
	}
	p.generations[idx] = e.Generation()
	p.issued[idx] = max(p.issued[idx], e.Generation())
	p.alive[idx] = true
	p.count++
	return true
}

func (p *entityPool) valid(e Entity) bool {
	idx := e.Index()
	return e != Null && int(idx) < len(p.generations) && p.alive[idx] && p.generations[idx] == e.Generation()
}

func (p *entityPool) destroy(e Entity) {
	if !p.valid(e) {
		return
	}
	idx := e.Index()
	p.generations[idx] = max(p.issued[idx], p.generations[idx]) + 1
	p.alive[idx] = false
	p.free = append(p.free, idx)
	p.count--
}
