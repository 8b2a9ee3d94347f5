// Package tube sweeps a circular cross-section along a rope centerline and
// triangulates the result.
//
// Frames are carried from ring to ring either by parallel transport, which
// rotates the previous frame by the bend between consecutive tangents, or by
// re-projecting the previous normal onto each new ring plane. Rings are
// bridged only across intact edges; torn edges and the rope ends can be
// closed with flat fan caps.
//
// A [Builder] owns its vertex and index storage and reuses it on every
// call, so the [Mesh] it returns is only valid until the next Build on the
// same builder. Builders are not safe for concurrent use.
package tube
