package collide

import "github.com/go-gl/mathgl/mgl64"

// DefaultCapacity bounds how many obstacles a rope considers per tick.
const DefaultCapacity = 32

// Candidates is a fixed-capacity obstacle buffer reused across ticks.
// Obstacles offered beyond capacity are dropped and counted.
type Candidates struct {
	items   []Obstacle
	dropped int
}

func NewCandidates(capacity int) *Candidates {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Candidates{items: make([]Obstacle, 0, capacity)}
}

func (c *Candidates) Add(o Obstacle) bool {
	if o == nil {
		return false
	}
	if len(c.items) == cap(c.items) {
		c.dropped++
		return false
	}
	c.items = append(c.items, o)
	return true
}

func (c *Candidates) Reset() {
	for i := range c.items {
		c.items[i] = nil
	}
	c.items = c.items[:0]
	c.dropped = 0
}

func (c *Candidates) Items() []Obstacle { return c.items }
func (c *Candidates) Len() int          { return len(c.items) }
func (c *Candidates) Cap() int          { return cap(c.items) }

// Dropped is the number of obstacles refused since the last Reset.
func (c *Candidates) Dropped() int { return c.dropped }

// Source is the broadphase: it offers the obstacles that may touch a sphere
// around the rope.
type Source interface {
	Query(center mgl64.Vec3, radius float64, out *Candidates)
}

// List is a Source that offers every obstacle it holds.
type List []Obstacle

func (l List) Query(_ mgl64.Vec3, _ float64, out *Candidates) {
	for _, o := range l {
		out.Add(o)
	}
}

// Join offers the obstacles of every source in order.
type Join []Source

func (j Join) Query(center mgl64.Vec3, radius float64, out *Candidates) {
	for _, s := range j {
		if s != nil {
			s.Query(center, radius, out)
		}
	}
}
