package hllset

import "errors"

var (
	// ErrConfig indicates that a sketch was constructed with invalid
	// parameters, such as a precision outside [MinPrecision, MaxPrecision]
	// or an unknown hash family.
	ErrConfig = errors.New("hllset: invalid configuration")

	// ErrConfigMismatch indicates that a binary operation was attempted on
	// two sketches whose precision, seed, or hash family differ. Register
	// arrays from different configurations are not comparable, so no
	// operator will silently mix them.
	ErrConfigMismatch = errors.New("hllset: sketch configuration mismatch")

	// ErrInput indicates that an element could not be reduced to bytes for
	// hashing. See [Sketch.Insert] for the supported element kinds.
	ErrInput = errors.New("hllset: element not hashable")

	// ErrInvalidData indicates that we attempted to deserialize a buffer
	// that was not created by calling MarshalBinary
	ErrInvalidData = errors.New("hllset: invalid data")

	// ErrUnsupportedVersion indicates that the data passed to
	// UnmarshalBinary was created by an unknown version of this library
	ErrUnsupportedVersion = errors.New("hllset: unsupported serialization version")

	// ErrChecksumMismatch indicates that the serialized sketch failed its
	// integrity check, i.e. the buffer was truncated or corrupted in flight
	ErrChecksumMismatch = errors.New("hllset: checksum mismatch")
)
