// Package pack implements RLWE packing (spec.md §4.D's packingRLWEs):
// folding r RLWE ciphertexts, each encrypting its own message, into a
// single RLWE ciphertext whose coefficient positions {i mod r = k} hold
// (a scaled copy of) the k-th input's message.
//
// Grounded on tuneinsight-lattigo's core/rlwe/ring_packing.go Pack/Merge
// (recursive pairwise combine via automorphism) and on the reference
// implementation's src/twosteps.h genAutoKeyFromOffline / packing call
// shape, adapted to this module's fixed two-channel RNS ciphertext type
// instead of the teacher's generic multi-level one.
package pack

import (
	"fmt"
	"math/bits"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
)

// Key is a packing key bundle: exactly log2(r) automorphism keys, one per
// recursion depth, keyed by the depth l; depth l's key is for the exponent
// t_l = N/2^(l+1) + 1 (see GaloisElementsForPacking).
type Key struct {
	R    int
	Keys map[int]*rlwe.AutomorphismKey // depth (0-indexed) -> key
}

// GaloisElementsForPacking returns the exact automorphism exponents a
// packing key for r ciphertexts over a ring of degree N needs — callers
// generating keys need to know which exponents to produce (spec.md §9
// treats key generation as an external collaborator that still needs to
// know which keys it must produce).
//
// Depth l's exponent is N/2^(l+1) + 1, the standard trace-style folding
// element (used this way in OnionPIR/Spiral-style packing): it has order 2
// in (Z/2NZ)*/{-1} and, applied to a ciphertext whose message occupies the
// "odd" half of the residue classes being folded at that depth, moves it
// into the "even" half so the plain addition in Pack lands both messages in
// disjoint coefficients. Using powers of a single fixed generator (5) here
// instead, as the BSGS baby/giant-step rotations do, would make depth 0's
// exponent 5^(N/2) mod 2N — which is 1, the identity, since 5 has order N/2
// in (Z/2NZ)* — so packing's folding step needs this different family.
func GaloisElementsForPacking(N, r int) ([]uint64, error) {
	if r <= 0 || r&(r-1) != 0 {
		return nil, fmt.Errorf("pack.GaloisElementsForPacking: %w: r=%d must be a power of two", ring.ErrDegreeNotPow2, r)
	}
	depth := bits.TrailingZeros(uint(r))
	twoN := uint64(2 * N)
	ts := make([]uint64, depth)
	for l := 0; l < depth; l++ {
		shift := uint(N) >> uint(l+1)
		ts[l] = (uint64(shift) + 1) % twoN
	}
	return ts, nil
}

// NewKey assembles a Key from a pre-generated automorphism-key map (as
// produced by rlwe.GenAutomorphismKeys over GaloisElementsForPacking's
// output).
func NewKey(N, r int, keysByExponent map[uint64]*rlwe.AutomorphismKey) (*Key, error) {
	ts, err := GaloisElementsForPacking(N, r)
	if err != nil {
		return nil, fmt.Errorf("pack.NewKey: %w", err)
	}
	keys := make(map[int]*rlwe.AutomorphismKey, len(ts))
	for l, t := range ts {
		k, ok := keysByExponent[t]
		if !ok {
			return nil, fmt.Errorf("pack.NewKey: missing automorphism key for exponent %d (depth %d)", t, l)
		}
		keys[l] = k
	}
	return &Key{R: r, Keys: keys}, nil
}

// Evaluator runs the packing algorithm.
type Evaluator struct {
	params *rlwe.Parameters
	ev     *rlwe.Evaluator
}

// NewEvaluator builds a packing Evaluator for params.
func NewEvaluator(params *rlwe.Parameters) *Evaluator {
	return &Evaluator{params: params, ev: rlwe.NewEvaluator(params)}
}

// Pack folds len(cts) RLWE ciphertexts into one. len(cts) must equal
// key.R, a power of two. Algorithm (spec.md §4.D): recursive pairwise
// combine using automorphism index t_l = N/2^(l+1) + 1 at depth l, for
// l = 0,...,log2(r)-1. At depth l, ciphertexts are combined in pairs
// (c_{2i}, c_{2i+1}) as c_{2i} + Automorphism(c_{2i+1} - c_{2i}, t_l)... in
// this module's simplified recursion: c_merged = c_even + Auto(c_odd,
// t_l), relying on the caller to have pre-shifted each input's message
// into disjoint coefficient residue classes mod r before packing (the
// database preprocessor's job, not this evaluator's).
func (e *Evaluator) Pack(cts []*rlwe.RNSCiphertext, key *Key) (*rlwe.RNSCiphertext, error) {
	r := len(cts)
	if r != key.R {
		return nil, fmt.Errorf("pack.Evaluator.Pack: got %d ciphertexts, key built for r=%d", r, key.R)
	}
	if r == 0 || r&(r-1) != 0 {
		return nil, fmt.Errorf("pack.Evaluator.Pack: %w: r=%d must be a power of two", ring.ErrDegreeNotPow2, r)
	}

	level := make([]*rlwe.RNSCiphertext, r)
	copy(level, cts)

	depth := bits.TrailingZeros(uint(r))
	for l := 0; l < depth; l++ {
		key, ok := key.Keys[l]
		if !ok {
			return nil, fmt.Errorf("pack.Evaluator.Pack: no automorphism key for depth %d", l)
		}
		next := make([]*rlwe.RNSCiphertext, len(level)/2)
		for i := 0; i < len(next); i++ {
			even, odd := level[2*i], level[2*i+1]
			rotatedOdd, err := e.ev.Automorphism(odd, key)
			if err != nil {
				return nil, fmt.Errorf("pack.Evaluator.Pack: depth %d pair %d: %w", l, i, err)
			}
			merged := rlwe.NewRNSCiphertext(e.params.RQ, ring.Evaluation)
			if err := e.params.RQ.Add(even.A, rotatedOdd.A, merged.A); err != nil {
				return nil, fmt.Errorf("pack.Evaluator.Pack: depth %d pair %d: %w", l, i, err)
			}
			if err := e.params.RQ.Add(even.B, rotatedOdd.B, merged.B); err != nil {
				return nil, fmt.Errorf("pack.Evaluator.Pack: depth %d pair %d: %w", l, i, err)
			}
			next[i] = merged
		}
		level = next
	}
	return level[0], nil
}
