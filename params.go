package hllset

import "math"

const (
	// MinPrecision and MaxPrecision bound the precision parameter p. A
	// sketch holds 2^p registers, so p also fixes the memory footprint
	// (2^p * 8 bytes) and the relative standard error of estimates.
	MinPrecision = 4
	MaxPrecision = 18

	// rankBits is the width of one register in bits. A register records
	// every observed rank for its slot as a set bit, and ranks are bounded
	// by the 64-bit hash width, so one word always suffices.
	rankBits = 64
)

// StandardError returns the expected relative standard error of cardinality
// estimates at the given precision, 1.04 / sqrt(2^p). At p=10 this is about
// 3.25%, at p=14 about 0.81%.
func StandardError(precision uint8) float64 {
	return 1.04 / math.Sqrt(float64(uint64(1)<<precision))
}

// alpha returns the bias correction constant for a register count m, per
// Flajolet et al. The first three cases are the empirically derived values
// for small register counts; beyond that the closed form applies.
func alpha(m int) float64 {
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	}
	return 0.7213 / (1 + 1.079/float64(m))
}

func validPrecision(p uint8) bool {
	return p >= MinPrecision && p <= MaxPrecision
}
