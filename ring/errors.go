package ring

import "errors"

// Sentinel errors returned by the arithmetic kernel's checks, discoverable
// before any arithmetic runs. ErrDegreeMismatch, ErrModulusMismatch and
// ErrFormMismatch report incompatible operands (the mis-formed-input kind
// of SPEC_FULL.md §7); ErrNotNTTFriendly and ErrDegreeNotPow2 report a
// (N, modulus) pair NewRing cannot build a ring for.
var (
	ErrDegreeMismatch  = errors.New("ring: polynomial degree mismatch")
	ErrModulusMismatch = errors.New("ring: polynomial modulus mismatch")
	ErrFormMismatch    = errors.New("ring: polynomial form mismatch")
	ErrNotNTTFriendly  = errors.New("ring: modulus admits no primitive 2N-th root of unity")
	ErrDegreeNotPow2   = errors.New("ring: N must be a power of two")
)
