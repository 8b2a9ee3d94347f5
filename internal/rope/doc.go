// Package rope ties the chain, pins, tearing, collision, governor and tube
// builder into a single simulated rope driven one host frame at a time.
//
// A Rope is owned by one goroutine. Tick never fails: invalid settings are
// clamped when the rope is built, and a chain that goes non-finite is laid
// out again instead of propagating NaNs to the host.
//
//	r := rope.New(cfg, rope.WithObstacles(collide.List{ground}))
//	for {
//		r.Tick(1.0 / 60)
//		for _, edge := range r.DrainTorn() {
//			// react to the break
//		}
//		draw(r.Mesh())
//	}
package rope
