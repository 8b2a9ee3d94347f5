// Package pin resolves which chain indices are externally driven on a tick.
//
// Every index carries exactly one [Kind]. The set is rebuilt once per tick
// from the anchors and attachment descriptors so the solver and collision
// passes can ask "is i pinned, and where to?" in constant time.
package pin

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/chain"
)

type Kind uint8

const (
	Free Kind = iota
	StartAnchor
	EndAnchor
	Attached
)

func (k Kind) String() string {
	switch k {
	case StartAnchor:
		return "start"
	case EndAnchor:
		return "end"
	case Attached:
		return "attached"
	default:
		return "free"
	}
}

// Body is the rigid-body-like handle an attachment follows.
type Body interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
}

// Fixed is a Body that never moves on its own. A zero Rot means identity.
type Fixed struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

func (f *Fixed) Position() mgl64.Vec3 { return f.Pos }

func (f *Fixed) Rotation() mgl64.Quat {
	if f.Rot.W == 0 && f.Rot.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return f.Rot
}

// Attachment ties a chain index to a point on a Body. When Auto is set the
// index is re-picked every tick as the chain point nearest to the anchor.
type Attachment struct {
	Body   Body
	Offset mgl64.Vec3
	Index  int
	Auto   bool
}

// Target is the world-space point the attachment pins its index to.
func (a Attachment) Target() mgl64.Vec3 {
	return a.Body.Position().Add(a.Body.Rotation().Rotate(a.Offset))
}

type Slot struct {
	Kind   Kind
	Target mgl64.Vec3
	// Source is the attachment index for Attached slots, -1 otherwise.
	Source int
}

// Set is the per-index pin table. A nil *Set pins nothing.
type Set struct {
	slots  []Slot
	active []int
}

func NewSet(n int) *Set {
	s := &Set{}
	s.reset(n)
	return s
}

func (s *Set) reset(n int) {
	if cap(s.slots) < n {
		s.slots = make([]Slot, n)
	}
	s.slots = s.slots[:n]
	for i := range s.slots {
		s.slots[i] = Slot{Kind: Free, Source: -1}
	}
	s.active = s.active[:0]
}

// Resolve rebuilds the set for chain c. Anchors claim the end indices first,
// then attachments claim theirs in order; a later claim on an index replaces
// an earlier one. Attachments with a nil Body are skipped.
func (s *Set) Resolve(c *chain.Chain, start, end *mgl64.Vec3, attachments []Attachment) {
	n := c.Len()
	s.reset(n)
	if n == 0 {
		return
	}

	if start != nil {
		s.slots[0] = Slot{Kind: StartAnchor, Target: *start, Source: -1}
	}
	if end != nil {
		s.slots[n-1] = Slot{Kind: EndAnchor, Target: *end, Source: -1}
	}

	for ai, a := range attachments {
		if a.Body == nil {
			continue
		}
		target := a.Target()
		idx := a.Index
		if a.Auto {
			idx = c.NearestIndex(target)
		}
		idx = clampIndex(idx, n)
		s.slots[idx] = Slot{Kind: Attached, Target: target, Source: ai}
	}

	for i, slot := range s.slots {
		if slot.Kind != Free {
			s.active = append(s.active, i)
		}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (s *Set) Pinned(i int) bool {
	return s != nil && i >= 0 && i < len(s.slots) && s.slots[i].Kind != Free
}

func (s *Set) Kind(i int) Kind {
	if s == nil || i < 0 || i >= len(s.slots) {
		return Free
	}
	return s.slots[i].Kind
}

func (s *Set) Slot(i int) Slot {
	if s == nil || i < 0 || i >= len(s.slots) {
		return Slot{Kind: Free, Source: -1}
	}
	return s.slots[i]
}

// Active lists the pinned indices in ascending order.
func (s *Set) Active() []int {
	if s == nil {
		return nil
	}
	return s.active
}

// Enforce writes every pinned target into the chain's current positions.
func (s *Set) Enforce(c *chain.Chain) {
	if s == nil {
		return
	}
	for _, i := range s.active {
		if i < c.Len() {
			c.Current[i] = s.slots[i].Target
		}
	}
}

// Settle enforces the pins and zeroes their implicit velocity.
func (s *Set) Settle(c *chain.Chain) {
	if s == nil {
		return
	}
	for _, i := range s.active {
		if i < c.Len() {
			c.Current[i] = s.slots[i].Target
			c.Previous[i] = s.slots[i].Target
		}
	}
}
