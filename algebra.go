package hllset

import (
	"fmt"
	"math"
)

// Delta is the three-way split produced by Diff: what only the receiver had,
// what both sides share, and what only the argument had. The three parts
// partition the union: Deleted OR Retained OR New equals the union sketch
// register for register.
type Delta struct {
	// Deleted approximates the elements present in the first sketch but
	// not the second.
	Deleted *Sketch

	// Retained approximates the elements present in both sketches.
	Retained *Sketch

	// New approximates the elements present in the second sketch but not
	// the first.
	New *Sketch
}

// compatible reports whether o can be combined with s. All binary operators
// refuse to mix sketches whose precision, seed or hash family differ.
func (s *Sketch) compatible(o *Sketch) error {
	if s.p != o.p {
		return fmt.Errorf("%w: precision %d vs %d", ErrConfigMismatch, s.p, o.p)
	}
	if s.seed != o.seed {
		return fmt.Errorf("%w: seed %d vs %d", ErrConfigMismatch, s.seed, o.seed)
	}
	if s.family != o.family {
		return fmt.Errorf("%w: hash family %s vs %s", ErrConfigMismatch, s.family, o.family)
	}
	return nil
}

// carryFrom sets the result's carried metrics from the two operands:
// tau takes the minimum, rho the maximum.
func (s *Sketch) carryFrom(a, b *Sketch) {
	s.Tau = math.Min(a.Tau, b.Tau)
	s.Rho = math.Max(a.Rho, b.Rho)
}

// Union returns a new sketch representing the union of the two sets. The
// operands are not modified. Union is lossless: the result is bit-for-bit
// the sketch that inserting both streams into one sketch would have
// produced, so it is commutative, associative and idempotent.
//
// The result carries Tau = min and Rho = max of the operands' metrics.
func (s *Sketch) Union(o *Sketch) (*Sketch, error) {
	if err := s.compatible(o); err != nil {
		return nil, err
	}
	out := s.emptyLike()
	for i, a := range s.regs {
		out.regs[i] = a | o.regs[i]
	}
	out.carryFrom(s, o)
	return out, nil
}

// Intersect returns a new sketch approximating the intersection of the two
// sets. The operands are not modified. Register-wise AND keeps exactly the
// (register, rank) evidence both sides observed; elements outside the true
// intersection can survive when they collide on the same pair, so estimates
// of the result skew slightly high on sets with small overlap.
//
// The result carries Tau = min and Rho = max of the operands' metrics.
func (s *Sketch) Intersect(o *Sketch) (*Sketch, error) {
	if err := s.compatible(o); err != nil {
		return nil, err
	}
	out := s.emptyLike()
	for i, a := range s.regs {
		out.regs[i] = a & o.regs[i]
	}
	out.carryFrom(s, o)
	return out, nil
}

// Diff compares the receiver (the earlier state) against o (the later
// state) and returns the three-way change split in one pass: Deleted holds
// evidence only the receiver had, Retained what both share, New what only o
// has. The operands are not modified.
//
// Each part carries Tau = min and Rho = max of the operands' metrics.
func (s *Sketch) Diff(o *Sketch) (Delta, error) {
	if err := s.compatible(o); err != nil {
		return Delta{}, err
	}
	deleted, retained, added := s.emptyLike(), s.emptyLike(), s.emptyLike()
	for i, a := range s.regs {
		b := o.regs[i]
		deleted.regs[i] = a &^ b
		retained.regs[i] = a & b
		added.regs[i] = b &^ a
	}
	deleted.carryFrom(s, o)
	retained.carryFrom(s, o)
	added.carryFrom(s, o)
	return Delta{Deleted: deleted, Retained: retained, New: added}, nil
}

// Complement returns a new sketch approximating the elements of s that are
// not in o (register-wise AND NOT), together with the BSS metrics of s
// relative to o. Unlike the other operators, the result's carried Tau and
// Rho are set to those computed metrics rather than combined from the
// operands, so a complement records how much of the base it covered at the
// moment it was taken. The operands are not modified.
func (s *Sketch) Complement(o *Sketch) (*Sketch, BSSMetrics, error) {
	if err := s.compatible(o); err != nil {
		return nil, BSSMetrics{}, err
	}
	out := s.emptyLike()
	for i, a := range s.regs {
		out.regs[i] = a &^ o.regs[i]
	}
	m := s.bssAgainst(o)
	out.Tau, out.Rho = m.Tau, m.Rho
	return out, m, nil
}
