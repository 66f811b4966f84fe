package hllset

import (
	"fmt"
	"slices"
)

const (
	// DefaultPrecision is the precision used by DefaultSettings: 1024
	// registers, about 3.25% relative standard error.
	DefaultPrecision = 10

	// DefaultSeed is the hash seed used by DefaultSettings.
	DefaultSeed = 42

	// DefaultTau and DefaultRho are the starting values for the carried
	// similarity metrics in DefaultSettings.
	DefaultTau = 0.7
	DefaultRho = 0.21
)

// Settings configures a new sketch. The zero value is not valid; start from
// DefaultSettings and override what you need.
type Settings struct {
	// Precision is the number of index bits p. The sketch holds 2^p
	// registers. Must be in [MinPrecision, MaxPrecision].
	Precision uint8

	// Seed is the hash seed. Sketches must share a seed to be combined.
	Seed uint64

	// Hash selects the hash family. Sketches must share a family to be
	// combined.
	Hash HashFamily

	// Tau and Rho are the initial values of the carried similarity
	// metrics. They do not affect insertion or estimation.
	Tau float64
	Rho float64
}

// DefaultSettings returns the settings used by New at the given precision:
// XXH3 hashing with seed 42, tau 0.7 and rho 0.21.
func DefaultSettings(precision uint8) Settings {
	return Settings{
		Precision: precision,
		Seed:      DefaultSeed,
		Hash:      HashXXH3,
		Tau:       DefaultTau,
		Rho:       DefaultRho,
	}
}

// Sketch is a fixed-size probabilistic summary of a set. Elements are hashed
// to a (register, rank) pair and each register keeps a bitmask of every rank
// it has observed, rather than only the maximum. Keeping the full rank
// profile makes sketches closed under register-wise boolean algebra: Union
// is exact (the union sketch is identical to the sketch of the combined
// stream), while Intersect and Diff are approximations with the same error
// characteristics as the underlying estimator.
//
// A sketch never stores elements and cannot enumerate them. Its memory is
// fixed at 2^p words regardless of how many elements are inserted.
//
// Tau and Rho are carried metadata describing the sketch's relationship to
// some base set. Operators combine them (see Union) but never read them;
// they exist so derived sketches keep a provenance trail across pipelines.
//
// Methods that read or write register state are not safe for concurrent use
// with writers. Concurrent readers of a sketch that is no longer being
// mutated are fine. Operators allocate fresh result sketches and never
// mutate their operands.
type Sketch struct {
	regs   []uint64
	p      uint8
	seed   uint64
	family HashFamily

	// Tau is the carried inclusion coefficient. See Settings.
	Tau float64

	// Rho is the carried exclusion coefficient. See Settings.
	Rho float64
}

// New creates an empty sketch with 2^precision registers and default
// settings. It fails with an error wrapping ErrConfig when precision is
// outside [MinPrecision, MaxPrecision].
func New(precision uint8) (*Sketch, error) {
	return NewWithSettings(DefaultSettings(precision))
}

// NewWithSettings creates an empty sketch from explicit settings. It fails
// with an error wrapping ErrConfig when the precision is out of range or the
// hash family is unknown.
func NewWithSettings(s Settings) (*Sketch, error) {
	if !validPrecision(s.Precision) {
		return nil, fmt.Errorf("%w: precision %d outside [%d, %d]",
			ErrConfig, s.Precision, MinPrecision, MaxPrecision)
	}
	if !validFamily(s.Hash) {
		return nil, fmt.Errorf("%w: unknown hash family %d", ErrConfig, uint8(s.Hash))
	}
	return &Sketch{
		regs:   make([]uint64, 1<<s.Precision),
		p:      s.Precision,
		seed:   s.Seed,
		family: s.Hash,
		Tau:    s.Tau,
		Rho:    s.Rho,
	}, nil
}

// emptyLike returns a fresh all-zero sketch with the same configuration as
// s. The carried metrics start at zero; callers set them.
func (s *Sketch) emptyLike() *Sketch {
	return &Sketch{
		regs:   make([]uint64, len(s.regs)),
		p:      s.p,
		seed:   s.seed,
		family: s.family,
	}
}

// Settings returns the full configuration of the sketch, including the
// current carried metrics.
func (s *Sketch) Settings() Settings {
	return Settings{
		Precision: s.p,
		Seed:      s.seed,
		Hash:      s.family,
		Tau:       s.Tau,
		Rho:       s.Rho,
	}
}

// Precision returns the number of index bits p.
func (s *Sketch) Precision() uint8 {
	return s.p
}

// NumRegisters returns the number of registers, 2^p.
func (s *Sketch) NumRegisters() int {
	return len(s.regs)
}

// Insert adds one element to the sketch. Strings and byte slices are hashed
// directly; integers, floats and bools are widened to a canonical 8-byte
// form first, so Insert(int32(7)) and Insert(int64(7)) are the same element.
// Other types must implement encoding.BinaryMarshaler,
// encoding.TextMarshaler or fmt.Stringer; anything else fails with an error
// wrapping ErrInput and leaves the sketch unchanged.
//
// Inserting is idempotent: adding an element already represented in the
// sketch never changes any register.
func (s *Sketch) Insert(v any) error {
	switch e := v.(type) {
	case string:
		s.InsertString(e)
		return nil
	case []byte:
		s.InsertBytes(e)
		return nil
	}
	b, err := elementBytes(v)
	if err != nil {
		return err
	}
	s.InsertBytes(b)
	return nil
}

// InsertAll adds every element in order. It stops at the first unsupported
// element and returns its error; elements before it remain inserted.
func (s *Sketch) InsertAll(vs ...any) error {
	for _, v := range vs {
		if err := s.Insert(v); err != nil {
			return err
		}
	}
	return nil
}

// InsertString adds a string element without allocating.
func (s *Sketch) InsertString(e string) {
	idx, rank := splitHash(hashString(s.family, e, s.seed), s.p)
	s.set(idx, rank)
}

// InsertBytes adds a byte-slice element.
func (s *Sketch) InsertBytes(e []byte) {
	idx, rank := splitHash(hashBytes(s.family, e, s.seed), s.p)
	s.set(idx, rank)
}

// set flags the given rank in register index. Both values come from
// splitHash and are always in range; violations are programming errors.
func (s *Sketch) set(index uint64, rank uint8) {
	if rank == 0 || rank > rankBits {
		panic(fmt.Sprintf("hllset: rank %d out of range", rank))
	}
	s.regs[index] |= 1 << (rank - 1)
}

// Register returns the rank bitmask of register i. Bit r-1 is set when rank
// r has been observed for that slot.
func (s *Sketch) Register(i int) uint64 {
	return s.regs[i]
}

// Registers returns a copy of the full register array. The copy is a
// snapshot; mutating it does not affect the sketch.
func (s *Sketch) Registers() []uint64 {
	return slices.Clone(s.regs)
}

// Clone returns a deep copy of the sketch, carried metrics included.
func (s *Sketch) Clone() *Sketch {
	out := s.emptyLike()
	copy(out.regs, s.regs)
	out.Tau = s.Tau
	out.Rho = s.Rho
	return out
}

// Equal reports whether the two sketches have identical configuration and
// identical register contents. Sketches with different precision, seed or
// hash family are never equal. The carried metrics do not participate.
func (s *Sketch) Equal(o *Sketch) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.p != o.p || s.seed != o.seed || s.family != o.family {
		return false
	}
	return slices.Equal(s.regs, o.regs)
}

// String summarizes the sketch for logs and debugging.
func (s *Sketch) String() string {
	return fmt.Sprintf("hllset.Sketch(p=%d hash=%s est=%.0f tau=%.3f rho=%.3f)",
		s.p, s.family, s.Estimate(), s.Tau, s.Rho)
}
