package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/tube"
)

// Framer eases the 2D view onto the rope's bounds so the picture does not
// jump when the rope swings or tears.
type Framer struct {
	spring harmonica.Spring
	pos    [3]float64
	vel    [3]float64
	primed bool
}

func NewFramer(fps int, frequency, damping float64) *Framer {
	return &Framer{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Update moves the view towards box and returns the eased centre and half
// extent. The first call snaps straight to the target.
func (f *Framer) Update(box tube.AABB) (mgl64.Vec2, float64) {
	target := [3]float64{0, 0, 1}
	if !box.Empty() {
		c, s := box.Center(), box.Size()
		target = [3]float64{c.X(), c.Y(), math.Max(math.Max(s.X(), s.Y())/2*1.2, 0.5)}
	}
	if !f.primed {
		f.pos, f.primed = target, true
	}
	for i := range f.pos {
		f.pos[i], f.vel[i] = f.spring.Update(f.pos[i], f.vel[i], target[i])
	}
	return mgl64.Vec2{f.pos[0], f.pos[1]}, f.pos[2]
}

func (f *Framer) Reset() { f.primed, f.vel = false, [3]float64{} }

// ToCanvas maps a world point onto a sw by sh sub-pixel canvas for a view
// centred on centre with the given half extent. The half extent spans half
// the canvas height; braille dots are close to square so x uses the same
// scale.
func ToCanvas(p mgl64.Vec3, centre mgl64.Vec2, half float64, sw, sh int) (int, int) {
	scale := float64(sh) / (2 * half)
	x := float64(sw)/2 + (p.X()-centre.X())*scale
	y := float64(sh)/2 - (p.Y()-centre.Y())*scale
	return int(math.Round(x)), int(math.Round(y))
}
