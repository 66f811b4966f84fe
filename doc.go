// Package hllset provides a HyperLogLog-style set sketch that supports full
// set algebra, not just union.
//
// A sketch is a fixed-size probabilistic summary of a set. It supports
// inserting elements and estimating the number of distinct elements seen,
// using memory that does not grow with the set. Estimates carry a small
// relative error (about 3.25% at the default precision); the sketch never
// stores elements and cannot enumerate or test membership.
//
// # Architecture
//
// Classical HyperLogLog keeps, per register, only the maximum rank ever
// observed. That is enough for union and cardinality but destroys the
// information needed for intersection and difference. This package keeps a
// different register shape:
//
// Rank bitmasks: Each of the 2^p registers is a 64-bit word in which bit r-1
// is set when rank r has been observed for that register's slot. Inserting
// an element hashes it once, routes it to a register by the top p bits of
// the hash, and ORs in one bit. Nothing is ever cleared, so insertion is
// idempotent and order-independent.
//
// Register-wise algebra: Because registers are sets of observed ranks,
// boolean operations on the words are meaningful. OR yields the union
// sketch exactly, bit-for-bit equal to the sketch of the combined stream.
// AND and AND NOT yield intersection and difference approximations whose
// estimates have the same error characteristics as the base estimator.
// Estimation reduces each mask to its highest set bit and applies the
// standard HyperLogLog harmonic mean with the usual small-range (linear
// counting) and large-range corrections.
//
// # Choosing Parameters
//
// Use [New] with a precision in [MinPrecision, MaxPrecision]:
//
//	// 2^10 registers, about 3.25% standard error, 8 KiB
//	s, err := hllset.New(10)
//
// Precision trades memory for accuracy: 2^p registers of 8 bytes each, with
// relative standard error 1.04/sqrt(2^p) (see [StandardError]). Use
// [NewWithSettings] to pick the hash family and seed explicitly. Sketches
// can only be combined when precision, seed and hash family all match;
// every operator enforces this and fails with [ErrConfigMismatch]
// otherwise.
//
// # Set Algebra
//
// [Sketch.Union], [Sketch.Intersect] and [Sketch.Complement] combine two
// sketches into a new one. [Sketch.Diff] compares two snapshots of an
// evolving set and splits the change into deleted, retained and new parts
// in one pass. [Sketch.BSS] reduces a sketch pair to two ratios: tau, the
// share of a base set the sketch covers, and rho, the surplus it carries
// beyond the base. Operands are never modified.
//
// Intersection-derived estimates skew high when the true overlap is small
// relative to the sets, since unrelated elements can collide on the same
// (register, rank) evidence. The skew shrinks as precision grows.
//
// # Identity and Export
//
// [Sketch.ID] digests the register contents into a stable hex name, usable
// as a content-addressed storage key: equal registers mean equal IDs, no
// matter how the state was reached. [Sketch.MarshalBinary] and
// [UnmarshalBinary] round-trip a sketch through a versioned, checksummed
// byte format. [Sketch.BinaryTensor] exports the registers as a dense 0/1
// matrix for ML feature pipelines.
//
// # Thread Safety
//
// [Sketch] is NOT thread-safe for mutation. Use external synchronization
// when goroutines insert into a shared sketch. A sketch that is no longer
// written to may be read (estimated, combined, serialized) from any number
// of goroutines, and operators always allocate fresh results.
//
// # References
//
//   - HyperLogLog: the analysis of a near-optimal cardinality estimation
//     algorithm: https://algo.inria.fr/flajolet/Publications/FlFuGaMe07.pdf
//   - HyperLogLog in Practice (Google):
//     https://research.google.com/pubs/archive/40671.pdf
package hllset
