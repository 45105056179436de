// Package rlwe implements the RLWE/RGSW-adjacent homomorphic primitives
// spec.md §4.D names: ciphertexts, gadget decomposition, automorphism
// (Galois) key-switching, and the secret/automorphism-key generation those
// depend on. The RGSW external product itself lives in package rgsw and
// packing in package pack, both built directly on top of this package.
//
// Grounded on Pro7ech-lattigo's rlwe package (ciphertext.go,
// gadgetciphertext.go, evaluator_automorphism.go, digit_decomposition.go,
// keygenerator.go), narrowed from its generic multi-level Q/P machinery
// down to the two fixed channels (Q-RNS, p_bs) spec.md's data model names.
package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/crt"
	"github.com/nrr-labs/ringpir/ring"
)

// Parameters is the frozen configuration record every ciphertext, key and
// evaluator in this module is built against — spec.md §9's "frozen
// configuration record keyed by the parameter-set enum", computed once at
// startup rather than hard-coded per parameter set.
type Parameters struct {
	N int

	RQ   *ring.RNSRing // Q = Q1*Q2 channel ring
	RPBS *ring.Ring     // auxiliary p_bs channel ring
	CRT  *crt.Basis

	PlaintextModulus uint64
	Delta            uint64 // floor(Q/p)
	DeltaBS          uint64 // floor(p_bs/p), scaling used for the p_bs companion ciphertext

	// Gadget decomposition parameters shared by every automorphism key and
	// every RGSW ciphertext in this parameter set.
	GadgetBase  uint64
	GadgetDepth int // ell

	NoiseSigma float64
	NoiseBound float64
}

// NewParameters derives Q/p_bs rings, the CRT basis, Delta and the
// Barrett/NTT machinery for one concrete parameter set. Ell and base
// follow the reference implementation's N=4096 defaults (ell=3) when
// ellOverride/baseOverride are zero.
func NewParameters(N int, q1, q2, pBS, plaintextModulus uint64, ellOverride int, baseOverride uint64) (*Parameters, error) {
	rq, err := ring.NewRNSRing(N, q1, q2)
	if err != nil {
		return nil, fmt.Errorf("rlwe.NewParameters: %w", err)
	}
	rpbs, err := ring.NewRing(N, pBS)
	if err != nil {
		return nil, fmt.Errorf("rlwe.NewParameters: p_bs channel: %w", err)
	}
	basis, err := crt.NewBasis(q1, q2, pBS)
	if err != nil {
		return nil, fmt.Errorf("rlwe.NewParameters: %w", err)
	}

	q := rq.Q1.Modulus * rq.Q2.Modulus
	if plaintextModulus == 0 || plaintextModulus >= q {
		return nil, fmt.Errorf("rlwe.NewParameters: plaintext modulus %d must be nonzero and smaller than Q=%d", plaintextModulus, q)
	}
	delta := q / plaintextModulus
	if pBS <= plaintextModulus {
		return nil, fmt.Errorf("rlwe.NewParameters: p_bs=%d must exceed the plaintext modulus %d", pBS, plaintextModulus)
	}
	deltaBS := pBS / plaintextModulus

	ell := ellOverride
	if ell <= 0 {
		ell = 3
	}
	base := baseOverride
	if base == 0 {
		// A base of roughly Q^(1/ell) keeps the digit count and per-digit
		// magnitude balanced; rounding up to a power of two keeps digit
		// extraction a shift-and-mask instead of a division.
		base = 1
		target := isqrtApprox(q, ell)
		b := uint64(1)
		for b < target {
			b <<= 1
		}
		base = b
	}

	return &Parameters{
		N:                N,
		RQ:               rq,
		RPBS:             rpbs,
		CRT:              basis,
		PlaintextModulus: plaintextModulus,
		Delta:            delta,
		DeltaBS:          deltaBS,
		GadgetBase:       base,
		GadgetDepth:      ell,
		NoiseSigma:       3.2,
		NoiseBound:       6,
	}, nil
}

// isqrtApprox returns an approximate k-th root of n via repeated integer
// sqrt-like halving in log-space; used only to pick a human-reasonable
// default gadget base at parameter-derivation time, never in a hot path.
func isqrtApprox(n uint64, k int) uint64 {
	if k <= 1 || n <= 1 {
		return n
	}
	lo, hi := uint64(1), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		p := mid
		overflow := false
		for i := 1; i < k; i++ {
			if p > n/mid {
				overflow = true
				break
			}
			p *= mid
		}
		if overflow || p > n {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo - 1
}
