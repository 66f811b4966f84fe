package hllset

import (
	"math"
	"math/bits"
)

// two64 is the size of the 64-bit hash space as a float.
const two64 = float64(1 << 63) * 2

// Estimate returns the approximate number of distinct elements represented
// by the sketch. Only the highest flagged rank of each register feeds the
// estimate, so sketches produced by Union estimate exactly as if the
// combined stream had been inserted directly.
//
// The raw harmonic-mean estimate is corrected at both ends per Flajolet et
// al.: linear counting takes over below 2.5*m while empty registers remain,
// and the large-range correction compensates for hash-space saturation above
// 2^64/30. An empty sketch estimates 0.
//
// Estimates are deterministic: the same register contents always produce the
// same value. The expected relative error is given by StandardError.
func (s *Sketch) Estimate() float64 {
	m := float64(len(s.regs))

	var sum float64
	zeros := 0
	for _, reg := range s.regs {
		r := bits.Len64(reg)
		if r == 0 {
			zeros++
		}
		sum += math.Exp2(-float64(r))
	}

	raw := alpha(len(s.regs)) * m * m / sum

	if raw <= 2.5*m && zeros > 0 {
		return m * math.Log(m/float64(zeros))
	}
	if raw > two64/30 {
		if ratio := raw / two64; ratio < 1 {
			return -two64 * math.Log(1 - ratio)
		}
		// Saturated beyond the correctable range.
		return raw
	}
	return raw
}
