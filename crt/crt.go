// Package crt implements the CRT/RNS layer (spec.md §4.B): splitting an
// integer mod Q=q1*q2 into its two residues, recomposing residues back into
// a value mod Q, and rebasing polynomials between the Q-RNS representation
// and the auxiliary p_bs channel used during key-switching.
//
// Grounded on the reference implementation's src/crt.h (crt_compose /
// computeForward / computeInverse); the wide intermediates of composition
// and of the p_bs rebase run over math/big rather than a 128-bit Barrett
// reduction. Every constant here is derived from (q1, q2, p_bs) at
// construction time rather than carried as an opaque literal — resolving
// the reference implementation's undocumented-constants gap noted in
// spec.md's REDESIGN FLAGS.
package crt

import (
	"fmt"
	"math/big"

	"github.com/nrr-labs/ringpir/ring"
)

// Basis holds the precomputed CRT constants for composing/splitting values
// mod Q = Q1*Q2, and the constants needed to rebase a Q-resident value into
// or out of the auxiliary p_bs channel.
type Basis struct {
	Q1, Q2 uint64
	Q      uint64 // Q1 * Q2; callers must ensure this does not overflow uint64 for their parameter set
	PBS    uint64

	q1InvModQ2 uint64 // q1^-1 mod q2
	q2InvModQ1 uint64 // q2^-1 mod q1

	q2Bred ring.BRedConstant
	q1Bred ring.BRedConstant
	qBig   *big.Int

	pbsInvModQ *big.Int // p_bs^-1 mod Q, used by FromBSModulus
	qModPBS    uint64   // Q mod p_bs, used by ToBSModulus
}

// NewBasis derives all CRT constants for (q1, q2, pBS). q1 and q2 must be
// coprime (they are both prime in every parameter set this module ships,
// so this amounts to q1 != q2); pBS must be coprime to Q.
func NewBasis(q1, q2, pBS uint64) (*Basis, error) {
	if q1 == q2 {
		return nil, fmt.Errorf("crt: q1 and q2 must be distinct primes, got %d twice", q1)
	}
	bq1 := big.NewInt(0).SetUint64(q1)
	bq2 := big.NewInt(0).SetUint64(q2)
	bpbs := big.NewInt(0).SetUint64(pBS)
	bQ := new(big.Int).Mul(bq1, bq2)

	if !bQ.IsUint64() {
		return nil, fmt.Errorf("crt: Q = q1*q2 = %s does not fit in a uint64", bQ.String())
	}
	if new(big.Int).GCD(nil, nil, bQ, bpbs).Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("crt: p_bs=%d is not coprime to Q=%s", pBS, bQ.String())
	}

	q2InvModQ1 := new(big.Int).ModInverse(bq2, bq1)
	q1InvModQ2 := new(big.Int).ModInverse(bq1, bq2)
	if q2InvModQ1 == nil || q1InvModQ2 == nil {
		return nil, fmt.Errorf("crt: q1=%d and q2=%d are not coprime", q1, q2)
	}

	pbsInvModQ := new(big.Int).ModInverse(bpbs, bQ)
	if pbsInvModQ == nil {
		return nil, fmt.Errorf("crt: p_bs=%d has no inverse mod Q=%s", pBS, bQ.String())
	}

	return &Basis{
		Q1:         q1,
		Q2:         q2,
		Q:          bQ.Uint64(),
		PBS:        pBS,
		q1InvModQ2: q1InvModQ2.Uint64(),
		q2InvModQ1: q2InvModQ1.Uint64(),
		q1Bred:     ring.GetBRedConstant(q1),
		q2Bred:     ring.GetBRedConstant(q2),
		qBig:       bQ,
		pbsInvModQ: pbsInvModQ,
		qModPBS:    new(big.Int).Mod(bQ, bpbs).Uint64(),
	}, nil
}

// Split reduces a (an integer in [0, Q)) into its two CRT residues.
func (b *Basis) Split(a uint64) (x, y uint64) {
	return a % b.Q1, a % b.Q2
}

// Compose recovers a mod Q from its residues x = a mod q1, y = a mod q2
// using the textbook two-term CRT reconstruction (spec.md §3):
//
//	a = (x * q2 * (q2^-1 mod q1) + y * q1 * (q1^-1 mod q2)) mod Q
//
// The intermediate terms can exceed 64 bits (q2 * (q2^-1 mod q1) is itself
// up to ~56 bits, multiplied by x up to ~28 bits), so composition runs over
// big.Int; this is a setup/decryption-path operation, not a hot-loop one,
// so the cost of exact big-integer arithmetic here is immaterial next to
// the BSGS engine's per-coefficient Barrett reductions.
func (b *Basis) Compose(x, y uint64) uint64 {
	t1 := new(big.Int).Mul(big.NewInt(0).SetUint64(x), big.NewInt(0).SetUint64(b.Q2))
	t1.Mul(t1, big.NewInt(0).SetUint64(b.q2InvModQ1))

	t2 := new(big.Int).Mul(big.NewInt(0).SetUint64(y), big.NewInt(0).SetUint64(b.Q1))
	t2.Mul(t2, big.NewInt(0).SetUint64(b.q1InvModQ2))

	sum := new(big.Int).Add(t1, t2)
	sum.Mod(sum, b.qBig)
	return sum.Uint64()
}

// SplitPolynomial splits every coefficient of a Q-resident logical
// polynomial (given as plain residues already reduced mod Q) into its two
// RNS channels, writing into the two destination slices in place.
func (b *Basis) SplitPolynomial(a []uint64, outQ1, outQ2 []uint64) error {
	if len(a) != len(outQ1) || len(a) != len(outQ2) {
		return fmt.Errorf("crt: SplitPolynomial length mismatch: a=%d outQ1=%d outQ2=%d", len(a), len(outQ1), len(outQ2))
	}
	for i, v := range a {
		outQ1[i], outQ2[i] = b.Split(v)
	}
	return nil
}

// ComposePolynomial recomposes a Q-resident polynomial from its two RNS
// channels.
func (b *Basis) ComposePolynomial(q1, q2 []uint64, out []uint64) error {
	if len(q1) != len(q2) || len(q1) != len(out) {
		return fmt.Errorf("crt: ComposePolynomial length mismatch: q1=%d q2=%d out=%d", len(q1), len(q2), len(out))
	}
	for i := range q1 {
		out[i] = b.Compose(q1[i], q2[i])
	}
	return nil
}

// ToBSModulus rebases a value a mod Q into a representative mod p_bs,
// a mod p_bs = a - Q*floor(a/Q) ... taken directly as a % p_bs since a is
// already the canonical representative in [0, Q). This is the forward half
// of the key-switching rebase (spec.md §4.B): "to_bs_modulus(poly_mod_Q)".
func (b *Basis) ToBSModulus(a uint64) uint64 {
	return a % b.PBS
}

// FromBSModulus folds a p_bs-resident correction term back into Q, using
// the precomputed p_bs^-1 mod Q constant, per spec.md §4.B's
// "switching back folds p_bs residues into Q using precomputed constants
// p_bs^-1 mod Q". aBS is the raw residue mod p_bs.
func (b *Basis) FromBSModulus(aBS uint64) uint64 {
	t := new(big.Int).Mul(big.NewInt(0).SetUint64(aBS), b.pbsInvModQ)
	t.Mod(t, b.qBig)
	return t.Uint64()
}

// QModPBS returns Q mod p_bs, the constant the RNS automorphism path needs
// when folding a Q-channel accumulator into the p_bs channel without a full
// rebase.
func (b *Basis) QModPBS() uint64 {
	return b.qModPBS
}
