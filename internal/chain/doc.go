// Package chain holds the point-mass data model of a rope.
//
// A [Chain] is two equally sized position slices (current and previous) and
// a single rest length shared by every edge. Velocity is never stored; it is
// the difference between the two slices, as position Verlet expects.
//
// Edge i joins point i and point i+1, so a chain of N points has N-1 edges.
package chain
