package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
)

// Evaluator runs the homomorphic primitives that consume an
// AutomorphismKey: automorphism/key-switching here, the RGSW external
// product in package rgsw, and RLWE packing in package pack (both built on
// Evaluator's Automorphism).
type Evaluator struct {
	params *Parameters
}

// NewEvaluator builds an Evaluator for params.
func NewEvaluator(params *Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// Automorphism applies x -> x^(key.T) to ct (evaluation form over Q) using
// key, and returns a ciphertext again encrypting under the original
// secret. Grounded on spec.md §4.D's eval_auto algorithm: apply the
// permutation table (free — no arithmetic), then gadget-decompose and
// contract with the key.
func (ev *Evaluator) Automorphism(ct *RNSCiphertext, key *AutomorphismKey) (*RNSCiphertext, error) {
	rq := ev.params.RQ
	if ct.A.Q1.Form != ring.Evaluation {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w: ciphertext must be in evaluation form", ring.ErrFormMismatch)
	}

	rotatedA := rq.NewRNSPoly(ring.Evaluation)
	rotatedB := rq.NewRNSPoly(ring.Evaluation)
	if err := rq.ApplyAutomorphism(key.Perm, ct.A, rotatedA); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}
	if err := rq.ApplyAutomorphism(key.Perm, ct.B, rotatedB); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}

	rotatedACoeff := rotatedA.Clone()
	if err := rq.Backward(rotatedACoeff); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}

	digits, err := DecomposeToDigits(ev.params, rotatedACoeff)
	if err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}
	if err := ForwardDigits(rq, digits); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}

	out := NewRNSCiphertext(rq, ring.Evaluation)
	if err := GadgetDot(rq, digits, key.Q, out); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}
	// The key rows encrypt +Base^i * s(x^t), so the contraction decrypts to
	// a(x^t)*s(x^t). Subtracting it from (0, b(x^t)) leaves a ciphertext
	// decrypting to b(x^t) - a(x^t)*s(x^t), i.e. mu(x^t) plus noise.
	if err := rq.Sub(rq.NewRNSPoly(ring.Evaluation), out.A, out.A); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}
	if err := rq.Sub(rotatedB, out.B, out.B); err != nil {
		return nil, fmt.Errorf("rlwe.Evaluator.Automorphism: %w", err)
	}
	return out, nil
}

// RNSAutomorphism runs Automorphism in the Q channel and, in parallel, a
// matching key-switch in the auxiliary p_bs channel, then folds the p_bs
// result back into Q as a correction term (spec.md §4.D's "RNS
// automorphism... carried out with (Q-RNS, p_bs) channels in parallel...
// the final result is rebased to Q by the CRT/RNS layer"). The BSGS
// engine's baby-step rotations use this path; its giant-step rotations use
// the Q-only Automorphism.
func (ev *Evaluator) RNSAutomorphism(ctQ *RNSCiphertext, ctBS *Ciphertext, key *AutomorphismKey) (*RNSCiphertext, *Ciphertext, error) {
	outQ, err := ev.Automorphism(ctQ, key)
	if err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}

	r := ev.params.RPBS
	if ctBS.A.Form != ring.Evaluation {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w: p_bs ciphertext must be in evaluation form", ring.ErrFormMismatch)
	}

	rotatedA := r.NewPolynomial(ring.Evaluation)
	rotatedB := r.NewPolynomial(ring.Evaluation)
	if err := key.Perm.Apply(ctBS.A, rotatedA); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}
	if err := key.Perm.Apply(ctBS.B, rotatedB); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}

	rotatedACoeff := rotatedA.Clone()
	if err := r.Backward(rotatedACoeff); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}
	digits, err := DecomposeToDigitsSingle(r, ev.params.GadgetBase, ev.params.GadgetDepth, rotatedACoeff)
	if err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}
	if err := ForwardDigitsSingle(r, digits); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}

	outBS := NewCiphertext(r, ring.Evaluation)
	if err := GadgetDotSingle(r, digits, key.PBS, outBS); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}
	if err := r.Neg(outBS.A, outBS.A); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}
	if err := r.Sub(rotatedB, outBS.B, outBS.B); err != nil {
		return nil, nil, fmt.Errorf("rlwe.Evaluator.RNSAutomorphism: %w", err)
	}

	return outQ, outBS, nil
}

// FoldBSCorrection rebases the p_bs channel result back into the Q result
// as a correction, applied when the caller needs a single Q-resident
// ciphertext again (the BSGS engine's baby-step table, after each
// RNSAutomorphism). It operates per coefficient in coefficient form.
func (ev *Evaluator) FoldBSCorrection(ctQCoeff *RNSCiphertext, ctBSCoeff *Ciphertext) error {
	basis := ev.params.CRT
	for j := 0; j < ev.params.N; j++ {
		aCorr := basis.FromBSModulus(ctBSCoeff.A.Coeffs[j])
		bCorr := basis.FromBSModulus(ctBSCoeff.B.Coeffs[j])
		q1, q2 := basis.Split(aCorr)
		ctQCoeff.A.Q1.Coeffs[j] = ring.AddMod(ctQCoeff.A.Q1.Coeffs[j], q1, ctQCoeff.A.Q1.Modulus)
		ctQCoeff.A.Q2.Coeffs[j] = ring.AddMod(ctQCoeff.A.Q2.Coeffs[j], q2, ctQCoeff.A.Q2.Modulus)
		q1, q2 = basis.Split(bCorr)
		ctQCoeff.B.Q1.Coeffs[j] = ring.AddMod(ctQCoeff.B.Q1.Coeffs[j], q1, ctQCoeff.B.Q1.Modulus)
		ctQCoeff.B.Q2.Coeffs[j] = ring.AddMod(ctQCoeff.B.Q2.Coeffs[j], q2, ctQCoeff.B.Q2.Modulus)
	}
	return nil
}
