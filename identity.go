package hllset

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"math/bits"
)

// ID returns a stable hex digest of the register contents. Two sketches
// with identical registers share an ID regardless of how the contents were
// reached (direct insertion, Union, deserialization), which makes the ID
// usable as a content-addressed storage key. Configuration and carried
// metrics do not participate: the ID names the represented set, not the
// sketch object.
func (s *Sketch) ID() string {
	sum := sha1.Sum(s.registerBytes())
	return hex.EncodeToString(sum[:])
}

// registerBytes is the canonical little-endian byte form of the register
// array, shared by ID and the serializer.
func (s *Sketch) registerBytes() []byte {
	buf := make([]byte, len(s.regs)*8)
	for i, reg := range s.regs {
		binary.LittleEndian.PutUint64(buf[i*8:], reg)
	}
	return buf
}

// BinaryTensor is a dense 0/1 matrix view of a sketch's registers: one row
// per register, one column per rank bit. It is a read-only projection for
// handing register state to ML pipelines; mutating the returned data has no
// effect on the sketch it came from.
type BinaryTensor struct {
	rows int
	cols int
	data []uint8
}

// BinaryTensor expands the registers into a 2^p by 64 matrix of 0/1 cells.
// Cell (i, j) is 1 exactly when rank j+1 has been observed in register i.
func (s *Sketch) BinaryTensor() *BinaryTensor {
	t := &BinaryTensor{
		rows: len(s.regs),
		cols: rankBits,
		data: make([]uint8, len(s.regs)*rankBits),
	}
	for i, reg := range s.regs {
		base := i * rankBits
		for reg != 0 {
			j := bits.TrailingZeros64(reg)
			t.data[base+j] = 1
			reg &= reg - 1
		}
	}
	return t
}

// Rows returns the register count of the source sketch.
func (t *BinaryTensor) Rows() int { return t.rows }

// Cols returns the rank width, always 64.
func (t *BinaryTensor) Cols() int { return t.cols }

// At returns cell (i, j).
func (t *BinaryTensor) At(i, j int) uint8 {
	return t.data[i*t.cols+j]
}

// Row returns row i as a slice into the tensor's backing array.
func (t *BinaryTensor) Row(i int) []uint8 {
	return t.data[i*t.cols : (i+1)*t.cols]
}

// Data returns the backing array in row-major order, rows*cols cells long.
func (t *BinaryTensor) Data() []uint8 { return t.data }
