package rope_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/pin"
	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/tear"
)

const frame = 1.0 / 60

func baseConfig(points int, rest float64) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Rope.Segments = points
	cfg.Rope.RestLength = rest
	cfg.Rope.Gravity = config.Point{}
	cfg.Rope.StartAnchor = nil
	cfg.Rope.EndAnchor = nil
	return cfg
}

func edgeRatios(r *rope.Rope) []float64 {
	pts := r.Points()
	out := make([]float64, len(pts)-1)
	for i := range out {
		out[i] = pts[i+1].Sub(pts[i]).Len() / r.RestLength()
	}
	return out
}

func tickN(r *rope.Rope, n int) []int {
	var torn []int
	for i := 0; i < n; i++ {
		r.Tick(frame)
		torn = append(torn, r.DrainTorn()...)
	}
	return torn
}

var _ = Describe("Rope", func() {
	Describe("a chain already at rest", func() {
		It("keeps a free two point chain unchanged", func() {
			cfg := baseConfig(2, 1)
			cfg.Rope.Iterations = 0
			r := rope.New(cfg)
			before := r.Points()

			r.Tick(frame)

			after := r.Points()
			for i := range before {
				Expect(after[i].Sub(before[i]).Len()).To(BeNumerically("<", 1e-12))
			}
		})

		It("keeps a pinned two point chain exactly in place", func() {
			cfg := baseConfig(2, 1)
			r := rope.New(cfg,
				rope.WithStartAnchor(mgl64.Vec3{0, 0, 0}),
				rope.WithEndAnchor(mgl64.Vec3{1, 0, 0}))

			r.Tick(frame)

			Expect(r.Points()).To(Equal([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}))
			Expect(r.RestLength()).To(BeNumerically("~", 1, 1e-12))
		})
	})

	Describe("a dropped chain pinned at one end", func() {
		It("settles into a hanging shape with edges near rest length", func() {
			cfg := baseConfig(5, 0.2)
			cfg.Rope.Gravity = config.Point{Y: -9.81}
			cfg.Rope.Damping = 0.98
			cfg.Tear.Enabled = false
			r := rope.New(cfg,
				rope.WithStartAnchor(mgl64.Vec3{}),
				rope.WithEndAnchor(mgl64.Vec3{0.8, 0, 0}))
			r.SetEndAnchor(nil)

			tickN(r, 600)

			for i, ratio := range edgeRatios(r) {
				Expect(math.Abs(ratio-1)).To(BeNumerically("<", 0.01), "edge %d", i)
			}
			tip := r.Points()[4]
			Expect(tip.Y()).To(BeNumerically("<", -0.7))
			Expect(math.Abs(tip.X())).To(BeNumerically("<", 0.05))
			Expect(r.Points()[0]).To(Equal(mgl64.Vec3{}))
		})
	})

	Describe("tearing", func() {
		var r *rope.Rope

		BeforeEach(func() {
			cfg := baseConfig(2, 1)
			cfg.Tear.StretchRatio = 1.5
			cfg.Tear.MinOverstretch = 0.25
			r = rope.New(cfg,
				rope.WithStartAnchor(mgl64.Vec3{}),
				rope.WithEndAnchor(mgl64.Vec3{1, 0, 0}))
		})

		It("tears a held overstretched edge exactly once", func() {
			r.SetEndAnchor(&mgl64.Vec3{2, 0, 0})

			torn := tickN(r, 30)

			Expect(torn).To(Equal([]int{0}))
			Expect(r.Mask()).To(Equal([]bool{false}))
			Expect(r.EdgeState(0)).To(Equal(tear.Torn))
			Expect(tickN(r, 30)).To(BeEmpty())
		})

		It("does not tear when overstretch is relieved in time", func() {
			r.SetEndAnchor(&mgl64.Vec3{1.6, 0, 0})
			torn := tickN(r, 12)
			r.SetEndAnchor(&mgl64.Vec3{1, 0, 0})
			torn = append(torn, tickN(r, 60)...)

			Expect(torn).To(BeEmpty())
			Expect(r.Mask()).To(Equal([]bool{true}))
			Expect(r.EdgeState(0)).To(Equal(tear.Connected))
		})

		It("stays torn after the strain is gone until repaired", func() {
			r.SetEndAnchor(&mgl64.Vec3{2, 0, 0})
			tickN(r, 30)
			r.SetEndAnchor(&mgl64.Vec3{1, 0, 0})
			tickN(r, 120)
			Expect(r.Mask()).To(Equal([]bool{false}))

			Expect(r.Repair(0)).To(BeTrue())
			Expect(r.Mask()).To(Equal([]bool{true}))
			Expect(r.Repair(0)).To(BeFalse())
		})

		It("reports manual tears through the same list", func() {
			Expect(r.TearAt(0)).To(BeTrue())
			Expect(r.TearAt(0)).To(BeFalse())
			Expect(r.TearAt(7)).To(BeFalse())
			Expect(r.DrainTorn()).To(Equal([]int{0}))
			Expect(r.DrainTorn()).To(BeNil())
		})
	})

	Describe("pin authority", func() {
		It("holds anchors and attachments exactly under collision", func() {
			cfg := baseConfig(10, 0.1)
			cfg.Rope.Gravity = config.Point{Y: -9.81}
			start, end := mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.9, 1, 0}
			body := &pin.Fixed{Pos: mgl64.Vec3{0.45, 1.3, 0}}
			ball := collide.Sphere{Center: mgl64.Vec3{0.45, 0.9, 0}, Radius: 0.2}
			r := rope.New(cfg,
				rope.WithStartAnchor(start),
				rope.WithEndAnchor(end),
				rope.WithAttachments(pin.Attachment{Body: body, Index: 5}),
				rope.WithObstacles(collide.List{ball}))

			for i := 0; i < 30; i++ {
				r.Tick(frame)
				pts := r.Points()
				Expect(pts[0]).To(Equal(start))
				Expect(pts[9]).To(Equal(end))
				Expect(pts[5]).To(Equal(body.Pos))
			}
			Expect(r.PinKind(5)).To(Equal(pin.Attached))
			Expect(r.Stats().Candidates).To(Equal(1))
		})

		It("lets the later of two attachments win a shared index", func() {
			cfg := baseConfig(4, 0.5)
			a := &pin.Fixed{Pos: mgl64.Vec3{5, 0, 0}}
			b := &pin.Fixed{Pos: mgl64.Vec3{-5, 0, 0}}
			r := rope.New(cfg, rope.WithAttachments(
				pin.Attachment{Body: a, Index: 2},
				pin.Attachment{Body: b, Index: 2}))

			r.Tick(frame)

			Expect(r.Points()[2]).To(Equal(b.Pos))
		})

		It("accepts anchors, attachments and obstacles set after construction", func() {
			r := rope.New(baseConfig(4, 0.5))
			start := mgl64.Vec3{1, 2, 0}
			body := &pin.Fixed{Pos: mgl64.Vec3{2, 2, 0}}
			r.SetStartAnchor(&start)
			r.SetAttachments([]pin.Attachment{{Body: body, Index: 3}})
			r.SetObstacles(collide.List{collide.Sphere{Radius: 10}})

			r.Tick(frame)

			Expect(r.Points()[0]).To(Equal(start))
			Expect(r.Points()[3]).To(Equal(body.Pos))
			Expect(r.PinKind(0)).To(Equal(pin.StartAnchor))
			Expect(r.Stats().Candidates).To(Equal(1))

			r.SetStartAnchor(nil)
			r.Tick(frame)
			Expect(r.PinKind(0)).To(Equal(pin.Free))
		})

		It("ignores impulses on pinned points", func() {
			r := rope.New(baseConfig(3, 1), rope.WithStartAnchor(mgl64.Vec3{}))
			Expect(r.ApplyImpulse(0, mgl64.Vec3{1, 0, 0})).To(BeFalse())
			Expect(r.ApplyImpulse(9, mgl64.Vec3{1, 0, 0})).To(BeFalse())
			Expect(r.ApplyImpulse(2, mgl64.Vec3{1, 0, 0})).To(BeTrue())
		})
	})

	Describe("collision", func() {
		It("keeps the chain above the floor", func() {
			cfg := baseConfig(11, 0.1)
			cfg.Rope.Gravity = config.Point{Y: -9.81}
			cfg.Rope.Damping = 0.99
			floor := collide.NewPlane(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{0, 1, 0})
			r := rope.New(cfg,
				rope.WithStartAnchor(mgl64.Vec3{}),
				rope.WithObstacles(collide.List{floor}))

			for i := 0; i < 120; i++ {
				r.Tick(frame)
				for _, p := range r.Points() {
					Expect(p.Y()).To(BeNumerically(">=", -0.5+cfg.Collision.Radius-1e-9))
				}
			}
		})

		It("skips obstacles when collision is disabled", func() {
			cfg := baseConfig(3, 1)
			cfg.Collision.Enabled = false
			r := rope.New(cfg, rope.WithObstacles(collide.List{collide.Sphere{Radius: 10}}))
			r.Tick(frame)
			Expect(r.Stats().Candidates).To(BeZero())
		})
	})

	Describe("mesh", func() {
		It("rebuilds with one ring per point", func() {
			cfg := baseConfig(6, 0.2)
			cfg.Tube.RadialSegments = 8
			r := rope.New(cfg, rope.WithStartAnchor(mgl64.Vec3{}))
			r.Tick(frame)

			m := r.Mesh()
			Expect(m.Rings).To(Equal(6))
			Expect(m.TriangleCount()).To(Equal(5*8*2 + 2*8))
			Expect(r.Bounds().Empty()).To(BeFalse())
		})

		It("honours the rebuild interval", func() {
			cfg := baseConfig(4, 0.2)
			cfg.Tube.RadialSegments = 4
			cfg.Tube.CapBreaks = false
			cfg.Tube.RebuildEvery = 3
			r := rope.New(cfg)
			full := r.Stats().Triangles

			r.TearAt(1)
			r.Tick(frame)
			r.Tick(frame)
			Expect(r.Stats().Triangles).To(Equal(full))
			r.Tick(frame)
			Expect(r.Stats().Triangles).To(Equal(full - 4*2))
		})
	})

	Describe("degenerate input", func() {
		It("ignores non-positive frame times", func() {
			r := rope.New(baseConfig(3, 1))
			r.Tick(0)
			r.Tick(-1)
			r.Tick(math.NaN())
			Expect(r.Stats().Tick).To(BeZero())
		})

		It("lays the chain out again when it goes non-finite", func() {
			r := rope.New(baseConfig(3, 1), rope.WithStartAnchor(mgl64.Vec3{}))
			r.SetGravity(mgl64.Vec3{math.NaN(), 0, 0})
			r.Tick(frame)

			Expect(r.Stats().Resets).To(Equal(1))
			Expect(r.Points()).To(Equal([]mgl64.Vec3{{0, 0, 0}, {0, -1, 0}, {0, -2, 0}}))
		})

		It("clamps an invalid configuration instead of failing", func() {
			cfg := baseConfig(1, -3)
			cfg.Collision.Mode = "bogus"
			Expect(rope.Validate(cfg)).To(MatchError(rope.ErrSegments))
			Expect(rope.Validate(cfg)).To(MatchError(rope.ErrCollisionMode))

			r := rope.New(cfg)
			Expect(r.Len()).To(Equal(2))
			Expect(r.RestLength()).To(BeNumerically(">", 0))
			r.Tick(frame)
		})

		It("resizes and resets tear state", func() {
			r := rope.New(baseConfig(4, 0.5), rope.WithStartAnchor(mgl64.Vec3{}))
			r.TearAt(1)
			r.Resize(8)

			Expect(r.Len()).To(Equal(8))
			Expect(r.Mask()).To(HaveLen(7))
			Expect(r.Mask()).NotTo(ContainElement(false))
			Expect(r.DrainTorn()).To(BeNil())
		})
	})
})
