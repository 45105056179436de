// Package bsgs implements the BSGS matrix-vector engine (spec.md §4.E,
// component E, the dominant cost of the core) and the database
// preprocessor that feeds it (spec.md §4.C, component C): encoding a
// plaintext matrix into the BSGS-diagonal, NTT-transformed, CRT-interleaved
// layout the engine's hot loop streams.
//
// Grounded primarily on the teacher's he/linear_transformation_evaluator.go
// (MultiplyByDiagMatrixBSGS: baby-step table, GadgetProductHoistedLazy,
// automorphism-indexed giant-step accumulation) and on the reference
// implementation's src/twosteps.h (query_bsgs, matrix_vector_mul_bsgs_*,
// reorientCipher) for the exact operation breakdown and naming.
package bsgs

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
)

// Dims holds the BSGS decomposition of the N/2 diagonal-index space into
// baby-step x giant-step dimensions, and the packing factor r.
type Dims struct {
	N  int
	N1 int
	N2 int // N/(2*N1)
	R  int
}

// NewDims validates and constructs the BSGS dimensions for one parameter
// set. Per spec.md §4.E's edge cases: N/2 must be exactly divisible by
// N1*N2 (checked here at setup, not deferred to runtime), and r must be a
// power of two (packing is rejected at setup otherwise).
func NewDims(N, N1, r int) (*Dims, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, fmt.Errorf("bsgs.NewDims: %w: N=%d", ring.ErrDegreeNotPow2, N)
	}
	half := N / 2
	if N1 <= 0 || half%N1 != 0 {
		return nil, fmt.Errorf("bsgs.NewDims: N/2=%d is not evenly divisible by N1=%d", half, N1)
	}
	N2 := half / N1
	if r <= 0 || r&(r-1) != 0 {
		return nil, fmt.Errorf("bsgs.NewDims: %w: r=%d", ring.ErrDegreeNotPow2, r)
	}
	return &Dims{N: N, N1: N1, N2: N2, R: r}, nil
}

// GaloisElementsForBSGS returns the exact set of automorphism exponents
// the baby-step and giant-step rotations need: {5^i mod 2N : 1<=i<N1} for
// baby steps (i=0 is the identity rotation, the query itself, and needs no
// key) and {5^(N1*j) mod 2N : 1<=j<N2} for giant steps.
func (d *Dims) GaloisElementsForBSGS() []uint64 {
	twoN := uint64(2 * d.N)
	ts := make([]uint64, 0, d.N1+d.N2-2)
	for i := 1; i < d.N1; i++ {
		ts = append(ts, ring.PowMod(5, uint64(i), twoN))
	}
	for j := 1; j < d.N2; j++ {
		ts = append(ts, ring.PowMod(5, uint64(d.N1*j), twoN))
	}
	return ts
}

// DiagonalIndex decomposes a diagonal index i in [0, N/2) into its baby-step
// and giant-step components, i = ib + N1*ig.
func (d *Dims) DiagonalIndex(i int) (ib, ig int) {
	return i % d.N1, i / d.N1
}

// Keys is the BSGS automorphism key bundle spec.md §3 names: the baby-step
// and giant-step automorphism keys, keyed by exponent (a single map
// suffices since the two exponent sets built by GaloisElementsForBSGS are
// used only to look up by exponent, never iterated by role).
type Keys struct {
	ByExponent map[uint64]*rlwe.AutomorphismKey
}

// NewKeys wraps a pre-generated exponent-keyed map (as produced by
// rlwe.GenAutomorphismKeys over Dims.GaloisElementsForBSGS()).
func NewKeys(byExponent map[uint64]*rlwe.AutomorphismKey) *Keys {
	return &Keys{ByExponent: byExponent}
}

func (k *Keys) lookup(t uint64) (*rlwe.AutomorphismKey, error) {
	key, ok := k.ByExponent[t]
	if !ok {
		return nil, fmt.Errorf("bsgs: no automorphism key for exponent %d", t)
	}
	return key, nil
}
