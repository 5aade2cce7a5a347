// Package meshkernel is a pure Go geometry-kernel collaborator backed by
// triangle meshes.
//
// It implements the solidcore.Kernel contract with faceted solids: models
// load from binary STL, ASCII STL or OBJ bytes (tried in that order), the
// primary export format is binary STL, and booleans classify whole triangles
// by centroid containment with ray-parity tests. The numerics are deliberately
// simple; this kernel exists so the boundary above it has a real collaborator,
// not to compete with a B-rep kernel.
//
// Meshes are immutable after construction. Derivations always build a new
// Mesh and may share nothing with their inputs; fillet is a documented stub
// that returns its input unchanged.
package meshkernel
