// Package tear tracks per-edge overstretch and turns sustained strain into
// torn edges.
//
// Each edge moves through Connected -> Overstretched -> Torn. The timer only
// advances while the edge is strictly above the stretch ratio; once relieved
// it decays at RecoverRate per second before the edge counts as Connected
// again. Torn is terminal until Repair.
package tear

import (
	"github.com/san-kum/ropesim/internal/chain"
)

type State uint8

const (
	Connected State = iota
	Overstretched
	Torn
)

func (s State) String() string {
	switch s {
	case Overstretched:
		return "overstretched"
	case Torn:
		return "torn"
	default:
		return "connected"
	}
}

type Params struct {
	Enabled bool
	// Ratio is the length/rest ratio above which an edge is overstretched.
	Ratio float64
	// MinOverstretch is how long, in seconds, an edge must stay
	// overstretched before it tears.
	MinOverstretch float64
	// RecoverRate is the timer decay per second once strain is relieved.
	// Values <= 0 reset the timer immediately.
	RecoverRate float64
}

func DefaultParams() Params {
	return Params{
		Enabled:        true,
		Ratio:          1.5,
		MinOverstretch: 0.25,
		RecoverRate:    1,
	}
}

type Tracker struct {
	params Params
	states []State
	timers []float64
	mask   []bool
	torn   []int
}

func New(edges int, params Params) *Tracker {
	t := &Tracker{params: params}
	t.Reset(edges)
	return t
}

// Reset reinitializes every edge to Connected with a zero timer and drops
// any undrained notifications.
func (t *Tracker) Reset(edges int) {
	if edges < 0 {
		edges = 0
	}
	t.states = make([]State, edges)
	t.timers = make([]float64, edges)
	t.mask = make([]bool, edges)
	for i := range t.mask {
		t.mask[i] = true
	}
	t.torn = t.torn[:0]
}

func (t *Tracker) Params() Params { return t.params }

// Mask is the live connectivity slice: true means intact. Callers must not
// modify it.
func (t *Tracker) Mask() []bool { return t.mask }

func (t *Tracker) Edges() int { return len(t.states) }

func (t *Tracker) State(edge int) State {
	if edge < 0 || edge >= len(t.states) {
		return Connected
	}
	return t.states[edge]
}

func (t *Tracker) Timer(edge int) float64 {
	if edge < 0 || edge >= len(t.timers) {
		return 0
	}
	return t.timers[edge]
}

func (t *Tracker) TornCount() int {
	n := 0
	for _, ok := range t.mask {
		if !ok {
			n++
		}
	}
	return n
}

// Step evaluates strain on the chain as it stands, which is the result of
// the previous sub-step's solve, and advances every edge by dt.
func (t *Tracker) Step(c *chain.Chain, dt float64) {
	if !t.params.Enabled || dt <= 0 {
		return
	}
	edges := len(t.states)
	if c.Edges() < edges {
		edges = c.Edges()
	}

	for i := 0; i < edges; i++ {
		if t.states[i] == Torn {
			continue
		}
		if c.EdgeRatio(i) > t.params.Ratio {
			t.states[i] = Overstretched
			t.timers[i] += dt
			if t.timers[i] >= t.params.MinOverstretch {
				t.commit(i)
			}
			continue
		}
		if t.states[i] != Overstretched {
			continue
		}
		if t.params.RecoverRate <= 0 {
			t.timers[i] = 0
		} else {
			t.timers[i] -= t.params.RecoverRate * dt
			if t.timers[i] < 0 {
				t.timers[i] = 0
			}
		}
		if t.timers[i] == 0 {
			t.states[i] = Connected
		}
	}
}

func (t *Tracker) commit(edge int) {
	t.states[edge] = Torn
	t.timers[edge] = 0
	t.mask[edge] = false
	t.torn = append(t.torn, edge)
}

// TearAt tears an edge immediately. Already torn or out-of-range edges are
// ignored. It reports whether the edge changed state.
func (t *Tracker) TearAt(edge int) bool {
	if edge < 0 || edge >= len(t.states) || t.states[edge] == Torn {
		return false
	}
	t.commit(edge)
	return true
}

// Repair reconnects an edge with a zero timer. It reports whether the edge
// was torn.
func (t *Tracker) Repair(edge int) bool {
	if edge < 0 || edge >= len(t.states) {
		return false
	}
	wasTorn := t.states[edge] == Torn
	t.states[edge] = Connected
	t.timers[edge] = 0
	t.mask[edge] = true
	return wasTorn
}

// Drain returns the edges torn since the last call, in the order they tore,
// and clears the pending list.
func (t *Tracker) Drain() []int {
	if len(t.torn) == 0 {
		return nil
	}
	out := make([]int, len(t.torn))
	copy(out, t.torn)
	t.torn = t.torn[:0]
	return out
}
