package hllset

// BSSMetrics quantifies how a sketch relates to a base sketch. Tau is the
// coverage ratio est(A AND B) / est(B): the share of the base that A also
// contains. Rho is the exclusion ratio est(A AND NOT B) / est(B): how much
// material A carries beyond the base, scaled to the base's size. Both are
// ratios of estimates, so they inherit the estimator's error and are not
// clamped: rho in particular exceeds 1 whenever A's surplus outweighs the
// whole base.
type BSSMetrics struct {
	Tau float64
	Rho float64
}

// BSS computes the receiver's metrics relative to the base sketch o. The
// receiver plays A, the argument plays B. When the base estimates to zero
// both metrics are zero; that is a defined result, not an error. Neither
// operand is modified.
func (s *Sketch) BSS(o *Sketch) (BSSMetrics, error) {
	if err := s.compatible(o); err != nil {
		return BSSMetrics{}, err
	}
	return s.bssAgainst(o), nil
}

// bssAgainst computes the metrics with compatibility already established.
func (s *Sketch) bssAgainst(o *Sketch) BSSMetrics {
	base := o.Estimate()
	if base == 0 {
		return BSSMetrics{}
	}

	inter, excl := s.emptyLike(), s.emptyLike()
	for i, a := range s.regs {
		b := o.regs[i]
		inter.regs[i] = a & b
		excl.regs[i] = a &^ b
	}
	return BSSMetrics{
		Tau: inter.Estimate() / base,
		Rho: excl.Estimate() / base,
	}
}
