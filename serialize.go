package hllset

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Serialization layout (all integers little-endian):
//
//	[0]      version
//	[1]      precision
//	[2]      hash family
//	[3:11]   seed
//	[11:19]  tau (IEEE 754 bits)
//	[19:27]  rho (IEEE 754 bits)
//	[27:...] registers, 8 bytes each, 2^precision of them
//	[...:+8] xxhash64 of everything before it
const (
	serializeVersion = 1
	headerSize       = 27
	checksumSize     = 8
)

// MarshalBinary serializes the sketch, configuration and carried metrics
// included, into a self-describing buffer terminated by an integrity
// checksum. It implements encoding.BinaryMarshaler and never fails.
func (s *Sketch) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+len(s.regs)*8+checksumSize)
	buf[0] = serializeVersion
	buf[1] = s.p
	buf[2] = uint8(s.family)
	binary.LittleEndian.PutUint64(buf[3:11], s.seed)
	binary.LittleEndian.PutUint64(buf[11:19], math.Float64bits(s.Tau))
	binary.LittleEndian.PutUint64(buf[19:27], math.Float64bits(s.Rho))
	copy(buf[headerSize:], s.registerBytes())

	body := buf[: len(buf)-checksumSize : len(buf)-checksumSize]
	binary.LittleEndian.PutUint64(buf[len(buf)-checksumSize:], xxhash.Sum64(body))
	return buf, nil
}

// UnmarshalBinary reconstructs a sketch from a buffer produced by
// MarshalBinary. It fails with an error wrapping ErrInvalidData when the
// buffer is malformed, ErrUnsupportedVersion when it was written by an
// unknown version of this library, and ErrChecksumMismatch when the
// contents do not match the stored checksum.
func UnmarshalBinary(data []byte) (*Sketch, error) {
	if len(data) < headerSize+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidData, len(data))
	}
	if data[0] != serializeVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, data[0])
	}

	p := data[1]
	if !validPrecision(p) {
		return nil, fmt.Errorf("%w: precision %d", ErrInvalidData, p)
	}
	family := HashFamily(data[2])
	if !validFamily(family) {
		return nil, fmt.Errorf("%w: hash family %d", ErrInvalidData, data[2])
	}

	m := 1 << p
	if want := headerSize + m*8 + checksumSize; len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes, want %d for precision %d",
			ErrInvalidData, len(data), want, p)
	}

	body := data[: len(data)-checksumSize]
	sum := binary.LittleEndian.Uint64(data[len(data)-checksumSize:])
	if got := xxhash.Sum64(body); got != sum {
		return nil, fmt.Errorf("%w: got %x, want %x", ErrChecksumMismatch, got, sum)
	}

	s := &Sketch{
		regs:   make([]uint64, m),
		p:      p,
		seed:   binary.LittleEndian.Uint64(data[3:11]),
		family: family,
		Tau:    math.Float64frombits(binary.LittleEndian.Uint64(data[11:19])),
		Rho:    math.Float64frombits(binary.LittleEndian.Uint64(data[19:27])),
	}
	for i := range s.regs {
		s.regs[i] = binary.LittleEndian.Uint64(data[headerSize+i*8:])
	}
	return s, nil
}

// UnmarshalBinary replaces the receiver's state with the deserialized
// sketch. It implements encoding.BinaryUnmarshaler; on error the receiver
// is left unchanged.
func (s *Sketch) UnmarshalBinary(data []byte) error {
	out, err := UnmarshalBinary(data)
	if err != nil {
		return err
	}
	*s = *out
	return nil
}
