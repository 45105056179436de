package rlwe

import (
	"fmt"
	"math/bits"

	"github.com/nrr-labs/ringpir/ring"
)

// GadgetCiphertext is a base-B, depth-ell gadget-encrypted ring element: a
// stack of RNSCiphertexts, row i encrypting Base^(ell-1-i) * target under
// the receiving secret, in evaluation form. Both automorphism keys and
// RGSW rows are a GadgetCiphertext with a different choice of "target"
// (the rotated secret for key-switching, the scalar X^-w for RGSW).
//
// Grounded on the teacher's rlwe/gadgetciphertext.go (GadgetCiphertext
// struct, CompressionInfos/DigitDecomposition), stripped of its generic
// multi-level Q/P compression machinery since this parameter set always
// uses exactly the two Q channels and a fixed (Base, ell).
type GadgetCiphertext struct {
	Rows []*RNSCiphertext
}

// NewGadgetCiphertext allocates ell zero rows over rq in evaluation form.
func NewGadgetCiphertext(rq *ring.RNSRing, ell int) *GadgetCiphertext {
	rows := make([]*RNSCiphertext, ell)
	for i := range rows {
		rows[i] = NewRNSCiphertext(rq, ring.Evaluation)
	}
	return &GadgetCiphertext{Rows: rows}
}

// DecomposeToDigits splits every coefficient of a (a coefficient-form RNS
// polynomial, residues already reduced per-channel) into its ell base-B
// gadget digits and returns ell fresh coefficient-form RNS polynomials,
// each holding one digit plane. Digit i holds the coefficient of
// Base^(ell-1-i) in the value's radix-B expansion; base must be a power of
// two (Parameters.GadgetBase always is), so extraction is a shift and mask.
//
// This recomposes each coefficient to its integer value mod Q via the CRT
// basis before decomposing, rather than decomposing directly in RNS — a
// simpler, still-correct construction at the cost of one CRT composition
// per coefficient per decomposition call. The BSGS engine's inner-product
// loop never calls this; only automorphism key-switching and the external
// product do, once per ciphertext part.
func DecomposeToDigits(params *Parameters, a *ring.RNSPoly) ([]*ring.RNSPoly, error) {
	if a.Q1.Form != ring.Coefficient {
		return nil, fmt.Errorf("rlwe.DecomposeToDigits: %w: requires coefficient form", ring.ErrFormMismatch)
	}
	ell := params.GadgetDepth
	base := params.GadgetBase
	logB := bits.TrailingZeros64(base)
	mask := base - 1

	digits := make([]*ring.RNSPoly, ell)
	for i := range digits {
		digits[i] = ring.NewRNSPoly(a.Q1.N, a.Q1.Modulus, a.Q2.Modulus, ring.Coefficient)
	}

	for j := 0; j < a.Q1.N; j++ {
		v := params.CRT.Compose(a.Q1.Coeffs[j], a.Q2.Coeffs[j])
		for i := 0; i < ell; i++ {
			shift := uint(ell-1-i) * uint(logB)
			d := (v >> shift) & mask
			digits[i].Q1.Coeffs[j] = d % digits[i].Q1.Modulus
			digits[i].Q2.Coeffs[j] = d % digits[i].Q2.Modulus
		}
	}
	return digits, nil
}

// GadgetDot contracts digit-decomposed polynomials (one per gadget row,
// evaluation form) against a GadgetCiphertext's rows and accumulates into
// out: out += sum_i digits[i] * Rows[i]. This is the shared inner step of
// both automorphism key-switching and the RGSW external product.
func GadgetDot(rq *ring.RNSRing, digits []*ring.RNSPoly, gct *GadgetCiphertext, out *RNSCiphertext) error {
	if len(digits) != len(gct.Rows) {
		return fmt.Errorf("rlwe.GadgetDot: digit count %d does not match gadget depth %d", len(digits), len(gct.Rows))
	}
	for i, d := range digits {
		row := gct.Rows[i]
		if err := rq.MulAddCoeffwise(d, row.A, out.A); err != nil {
			return fmt.Errorf("rlwe.GadgetDot: row %d A part: %w", i, err)
		}
		if err := rq.MulAddCoeffwise(d, row.B, out.B); err != nil {
			return fmt.Errorf("rlwe.GadgetDot: row %d B part: %w", i, err)
		}
	}
	return nil
}

// ForwardDigits transforms every digit polynomial into evaluation form in
// place, the step between DecomposeToDigits and GadgetDot.
func ForwardDigits(rq *ring.RNSRing, digits []*ring.RNSPoly) error {
	for i, d := range digits {
		if err := rq.Forward(d); err != nil {
			return fmt.Errorf("rlwe.ForwardDigits: digit %d: %w", i, err)
		}
	}
	return nil
}

// GadgetCiphertextSingle is a GadgetCiphertext's single-modulus twin, used
// for the auxiliary p_bs channel's parallel key-switching path.
type GadgetCiphertextSingle struct {
	Rows []*Ciphertext
}

// NewGadgetCiphertextSingle allocates ell zero rows over r in evaluation form.
func NewGadgetCiphertextSingle(r *ring.Ring, ell int) *GadgetCiphertextSingle {
	rows := make([]*Ciphertext, ell)
	for i := range rows {
		rows[i] = NewCiphertext(r, ring.Evaluation)
	}
	return &GadgetCiphertextSingle{Rows: rows}
}

// DecomposeToDigitsSingle splits a's coefficients into their ell base-B
// gadget digits directly (no CRT composition needed: a already holds the
// exact integer value mod r.Modulus in a single channel).
func DecomposeToDigitsSingle(r *ring.Ring, base uint64, ell int, a *ring.Polynomial) ([]*ring.Polynomial, error) {
	if a.Form != ring.Coefficient {
		return nil, fmt.Errorf("rlwe.DecomposeToDigitsSingle: %w: requires coefficient form", ring.ErrFormMismatch)
	}
	logB := bits.TrailingZeros64(base)
	mask := base - 1

	digits := make([]*ring.Polynomial, ell)
	for i := range digits {
		digits[i] = ring.NewPolynomial(a.N, a.Modulus, ring.Coefficient)
	}
	for j := 0; j < a.N; j++ {
		v := a.Coeffs[j]
		for i := 0; i < ell; i++ {
			shift := uint(ell-1-i) * uint(logB)
			digits[i].Coeffs[j] = (v >> shift) & mask
		}
	}
	return digits, nil
}

// GadgetDotSingle is GadgetDot's single-modulus twin.
func GadgetDotSingle(r *ring.Ring, digits []*ring.Polynomial, gct *GadgetCiphertextSingle, out *Ciphertext) error {
	if len(digits) != len(gct.Rows) {
		return fmt.Errorf("rlwe.GadgetDotSingle: digit count %d does not match gadget depth %d", len(digits), len(gct.Rows))
	}
	for i, d := range digits {
		row := gct.Rows[i]
		if err := r.MulAddCoeffwise(d, row.A, out.A); err != nil {
			return fmt.Errorf("rlwe.GadgetDotSingle: row %d A part: %w", i, err)
		}
		if err := r.MulAddCoeffwise(d, row.B, out.B); err != nil {
			return fmt.Errorf("rlwe.GadgetDotSingle: row %d B part: %w", i, err)
		}
	}
	return nil
}

// ForwardDigitsSingle transforms every digit polynomial into evaluation
// form in place.
func ForwardDigitsSingle(r *ring.Ring, digits []*ring.Polynomial) error {
	for i, d := range digits {
		if err := r.Forward(d); err != nil {
			return fmt.Errorf("rlwe.ForwardDigitsSingle: digit %d: %w", i, err)
		}
	}
	return nil
}
