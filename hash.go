package hllset

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// HashFamily selects the 64-bit hash function used to map elements to
// (register, rank) pairs. Two sketches can only be combined or compared when
// they share the same family and seed, since the register contents are a
// function of both.
type HashFamily uint8

const (
	// HashXXH3 hashes elements with seeded XXH3. This is the default.
	HashXXH3 HashFamily = iota

	// HashMurmur3 hashes elements with 64-bit Murmur3. Murmur3 takes a
	// 32-bit seed, so only the low 32 bits of the sketch seed apply.
	HashMurmur3
)

func (f HashFamily) String() string {
	switch f {
	case HashXXH3:
		return "xxh3"
	case HashMurmur3:
		return "murmur3"
	}
	return fmt.Sprintf("HashFamily(%d)", uint8(f))
}

func validFamily(f HashFamily) bool {
	return f == HashXXH3 || f == HashMurmur3
}

// hashBytes computes the seeded 64-bit hash of data under the given family.
func hashBytes(f HashFamily, data []byte, seed uint64) uint64 {
	if f == HashMurmur3 {
		return murmur3.Sum64WithSeed(data, uint32(seed))
	}
	return xxh3.HashSeed(data, seed)
}

// hashString computes the seeded 64-bit hash of s under the given family.
// The xxh3 path avoids the allocation of converting string to []byte.
func hashString(f HashFamily, s string, seed uint64) uint64 {
	if f == HashMurmur3 {
		return murmur3.Sum64WithSeed([]byte(s), uint32(seed))
	}
	return xxh3.HashStringSeed(s, seed)
}

// splitHash derives a register index and a rank from a 64-bit hash. The top
// p bits select the register; the rank is one plus the count of leading
// zeros in the remaining bits. Padding the shifted word with ones caps the
// rank at 64-p+1 when the remaining bits are all zero, so rank always lands
// in [1, 64-p+1] and the flag bit rank-1 fits a single register word.
func splitHash(h uint64, p uint8) (index uint64, rank uint8) {
	index = h >> (64 - p)
	w := h<<p | (1<<p - 1)
	rank = uint8(bits.LeadingZeros64(w)) + 1
	return index, rank
}

// elementBytes reduces an element of a supported kind to the bytes that get
// hashed. Integers are widened to 8 little-endian bytes, floats to their
// IEEE 754 bit pattern, so equal values hash equally regardless of the
// declared width. Types implementing encoding.BinaryMarshaler,
// encoding.TextMarshaler, or fmt.Stringer are reduced through those
// interfaces, in that order.
func elementBytes(v any) ([]byte, error) {
	switch e := v.(type) {
	case []byte:
		return e, nil
	case string:
		return []byte(e), nil
	case int:
		return intBytes(uint64(e)), nil
	case int8:
		return intBytes(uint64(e)), nil
	case int16:
		return intBytes(uint64(e)), nil
	case int32:
		return intBytes(uint64(e)), nil
	case int64:
		return intBytes(uint64(e)), nil
	case uint:
		return intBytes(uint64(e)), nil
	case uint8:
		return intBytes(uint64(e)), nil
	case uint16:
		return intBytes(uint64(e)), nil
	case uint32:
		return intBytes(uint64(e)), nil
	case uint64:
		return intBytes(e), nil
	case uintptr:
		return intBytes(uint64(e)), nil
	case float32:
		return intBytes(math.Float64bits(float64(e))), nil
	case float64:
		return intBytes(math.Float64bits(e)), nil
	case bool:
		if e {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	}

	switch e := v.(type) {
	case encoding.BinaryMarshaler:
		b, err := e.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("%w: MarshalBinary on %T: %v", ErrInput, v, err)
		}
		return b, nil
	case encoding.TextMarshaler:
		b, err := e.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("%w: MarshalText on %T: %v", ErrInput, v, err)
		}
		return b, nil
	case fmt.Stringer:
		return []byte(e.String()), nil
	}

	return nil, fmt.Errorf("%w: unsupported element type %T", ErrInput, v)
}

func intBytes(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
