// Package pir is the public library surface (spec.md §6): parameter
// sets, database preprocessing, the query/answer/decode round trip, wire
// encoding, and the error taxonomy a caller integrating this module needs. Every other package in this module (ring, crt, sampling,
// rlwe, rgsw, pack, bsgs) is a collaborator pir composes; nothing here
// does its own cryptographic arithmetic.
//
// Grounded on llllinyl-gulliverpir's pir/pir.go (a single top-level
// Params/PreprocessDB/Answer/Recover API wrapping a lower-level LWE core)
// for the shape of this package's surface, adapted to this module's
// richer component set.
package pir

import "fmt"

// ConfigError reports a rejected configuration: an unknown parameter set,
// an incompatible (N1, r) pair, or an out-of-range query index. A
// malformed database shape or a mis-formed ciphertext surfacing from one
// of the lower packages (wrong form tag, wrong modulus, wrong length) is
// returned as that package's own error, wrapped with %w, not as a
// ConfigError. spec.md §7 separates these from decode-time garbage output, which is
// never an error at all (see DecodeResponse): whatever this module can
// detect about a bad input or a bad internal state, it returns as an
// error rather than panicking.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pir: invalid configuration (%s): %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
