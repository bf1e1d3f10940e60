// Package cloud provides the core data primitives shared by the particle
// cloud packages.
//
// The package defines the dense, index-aligned buffers the rest of the
// module works on:
//
//   - [Buffer]: flattened X,Y,Z (or R,G,B) float32 triples, one per particle
//   - [Vec3]: value type used by generators and consumers
//   - [Mode]: the external discrete signal selecting the kinematics
//
// # Buffers
//
// A [Buffer] of N particles always holds 3N floats. Target, color and live
// buffers built for the same session share the same N and index i always
// refers to the same particle.
//
//	live := target.Clone()
//	p := live.At(42)
//	live.Set(42, p.Add(cloud.Vec3{Y: 0.1}))
//
// # Thread Safety
//
// Buffers are plain slices. Immutable buffers (targets, colors) may be read
// concurrently; the live buffer is owned by its engine.
package cloud
