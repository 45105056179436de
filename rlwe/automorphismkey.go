package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/sampling"
)

// AutomorphismKey is the key-switching material realizing x -> x^T under a
// fixed secret: a gadget ciphertext encrypting Base^i * s(x^T) under s in
// the Q channel, and its p_bs-channel twin for the "RNS automorphism" path
// (spec.md §4.D). The permutation table that performs the x -> x^T index
// shuffle is cached here too, since it depends only on (N, T) and is
// reused on every application (spec.md §9: "precompute the N-element
// permutation table per t used in the BSGS bundle and avoid recomputing
// during answer").
type AutomorphismKey struct {
	T    uint64
	Perm *ring.PermutationTable

	Q   *GadgetCiphertext
	PBS *GadgetCiphertextSingle
}

// GenAutomorphismKey produces the key-switching key for exponent t under
// sk. Grounded on the teacher's keygenerator.go automorphism-key path: the
// rotated secret s(x^t) is obtained by applying the permutation table to
// sk directly (free, since sk is already in evaluation form), then each
// gadget row encrypts Base^i * s(x^t) under the UNROTATED secret sk so
// that applying the key to a(x^t) re-encrypts under sk.
func GenAutomorphismKey(params *Parameters, sk *SecretKey, t uint64, source sampling.Source) (*AutomorphismKey, error) {
	perm, err := ring.NewPermutationTable(t, params.N)
	if err != nil {
		return nil, fmt.Errorf("rlwe.GenAutomorphismKey: %w", err)
	}

	rotQ := params.RQ.NewRNSPoly(ring.Evaluation)
	if err := params.RQ.ApplyAutomorphism(perm, sk.Q, rotQ); err != nil {
		return nil, fmt.Errorf("rlwe.GenAutomorphismKey: %w", err)
	}
	rotPBS := params.RPBS.NewPolynomial(ring.Evaluation)
	if err := perm.Apply(sk.PBS, rotPBS); err != nil {
		return nil, fmt.Errorf("rlwe.GenAutomorphismKey: %w", err)
	}

	enc := NewEncryptor(params, source)

	gctQ, err := fillGadgetRows(params, enc, sk, rotQ)
	if err != nil {
		return nil, fmt.Errorf("rlwe.GenAutomorphismKey: %w", err)
	}
	gctPBS, err := fillGadgetRowsSingle(params, enc, sk, rotPBS)
	if err != nil {
		return nil, fmt.Errorf("rlwe.GenAutomorphismKey: %w", err)
	}

	return &AutomorphismKey{T: t, Perm: perm, Q: gctQ, PBS: gctPBS}, nil
}

// fillGadgetRows builds the Q-channel gadget ciphertext encrypting
// Base^(ell-1-i) * target under sk in row i, for a target already in
// evaluation form. The per-row scalar multiple is taken channel-by-channel
// (raw.Q1 = targetCoeff.Q1 * power mod q1, same for Q2) — no CRT
// composition needed, since multiplying a ring element by a known small
// scalar is exact in each RNS channel independently.
func fillGadgetRows(params *Parameters, enc *Encryptor, sk *SecretKey, target *ring.RNSPoly) (*GadgetCiphertext, error) {
	rq := params.RQ
	ell := params.GadgetDepth

	targetCoeff := target.Clone()
	if err := rq.Backward(targetCoeff); err != nil {
		return nil, fmt.Errorf("backward transform: %w", err)
	}

	gct := NewGadgetCiphertext(rq, ell)
	bred1 := rq.Q1.BRedConstant
	bred2 := rq.Q2.BRedConstant

	power := uint64(1)
	for i := ell - 1; i >= 0; i-- {
		raw := rq.NewRNSPoly(ring.Coefficient)
		p1 := power % rq.Q1.Modulus
		p2 := power % rq.Q2.Modulus
		for j := 0; j < params.N; j++ {
			raw.Q1.Coeffs[j] = ring.BRed(targetCoeff.Q1.Coeffs[j], p1, rq.Q1.Modulus, bred1)
			raw.Q2.Coeffs[j] = ring.BRed(targetCoeff.Q2.Coeffs[j], p2, rq.Q2.Modulus, bred2)
		}

		a := rq.NewRNSPoly(ring.Evaluation)
		if err := enc.uniform.SampleRNS(a); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		errTerm := rq.NewRNSPoly(ring.Coefficient)
		if err := enc.noise.SampleRNS(errTerm); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Forward(raw); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Forward(errTerm); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		b := rq.NewRNSPoly(ring.Evaluation)
		if err := rq.MulCoeffwise(a, sk.Q, b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Add(b, raw, b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Add(b, errTerm, b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		gct.Rows[i] = &RNSCiphertext{A: a, B: b}
		power *= params.GadgetBase
	}
	return gct, nil
}

// fillGadgetRowsSingle is fillGadgetRows's p_bs-channel twin.
func fillGadgetRowsSingle(params *Parameters, enc *Encryptor, sk *SecretKey, target *ring.Polynomial) (*GadgetCiphertextSingle, error) {
	r := params.RPBS
	ell := params.GadgetDepth

	targetCoeff := target.Clone()
	if err := r.Backward(targetCoeff); err != nil {
		return nil, fmt.Errorf("backward transform: %w", err)
	}

	gct := NewGadgetCiphertextSingle(r, ell)
	bred := r.BRedConstant

	power := uint64(1)
	for i := ell - 1; i >= 0; i-- {
		p := power % r.Modulus
		raw := r.NewPolynomial(ring.Coefficient)
		for j, c := range targetCoeff.Coeffs {
			raw.Coeffs[j] = ring.BRed(c, p, r.Modulus, bred)
		}

		a := r.NewPolynomial(ring.Evaluation)
		if err := enc.uniform.Sample(a); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		errTerm := r.NewPolynomial(ring.Coefficient)
		if err := enc.noise.Sample(errTerm); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := r.Forward(raw); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := r.Forward(errTerm); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		b := r.NewPolynomial(ring.Evaluation)
		if err := r.MulCoeffwise(a, sk.PBS, b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := r.Add(b, raw, b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := r.Add(b, errTerm, b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		gct.Rows[i] = &Ciphertext{A: a, B: b}
		power *= params.GadgetBase
	}
	return gct, nil
}
