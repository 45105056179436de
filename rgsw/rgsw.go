// Package rgsw implements the RGSW ciphertext type and the RGSW x RLWE
// external product (spec.md §4.D). An RGSW ciphertext is a gadget
// decomposition of the scalar X^{-w} under a fixed secret — contracting it
// against an RLWE ciphertext's own gadget decomposition homomorphically
// multiplies the RLWE plaintext by X^{-w}.
//
// Grounded on Pro7ech-lattigo's rgsw package (rgsw.go's Ciphertext /
// NewCiphertext / FromGadgetCiphertext, evaluator.go's external product),
// narrowed to this module's fixed two-channel RNS gadget instead of the
// teacher's generic multi-level one.
package rgsw

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
	"github.com/nrr-labs/ringpir/sampling"
)

// Ciphertext is an RGSW encryption of a scalar ring element m' (in this
// module, always X^{-w} for some column selector w): 2*ell RLWE
// ciphertexts, ell encrypting m'*s (the "key-switch" rows, the same
// gadget shape rlwe.GadgetCiphertext already has) and ell encrypting m'
// alone under the secret (the "message" rows). This mirrors the standard
// GSW layout spec.md §3 describes as "a gadget-decomposed matrix of 2*ell
// RLWE ciphertexts encoding X^{-w}".
type Ciphertext struct {
	KeySwitch *rlwe.GadgetCiphertext // ell rows, row i encrypts Base^(ell-1-i)*m'*s
	Message   *rlwe.GadgetCiphertext // ell rows, row i encrypts Base^(ell-1-i)*m'
}

// NewCiphertext allocates a zero RGSW ciphertext for the given parameters.
func NewCiphertext(params *rlwe.Parameters) *Ciphertext {
	return &Ciphertext{
		KeySwitch: rlwe.NewGadgetCiphertext(params.RQ, params.GadgetDepth),
		Message:   rlwe.NewGadgetCiphertext(params.RQ, params.GadgetDepth),
	}
}

// Encryptor produces RGSW ciphertexts under a secret key.
type Encryptor struct {
	params *rlwe.Parameters
	enc    *rlwe.Encryptor
}

// NewEncryptor builds an RGSW Encryptor drawing randomness from source.
func NewEncryptor(params *rlwe.Parameters, source sampling.Source) *Encryptor {
	return &Encryptor{params: params, enc: rlwe.NewEncryptor(params, source)}
}

// EncryptMonomial encrypts the scalar X^{-w} (w in [0, N)) under sk,
// producing the RGSW ciphertext spec.md §4.D's external product consumes
// as its RGSW operand. X^{-w} is represented, in coefficient form, as the
// monomial with a single nonzero coefficient at position (N-w) mod N
// (negacyclic: X^N = -1, so X^{-w} = -X^{N-w} when w != 0; the sign is
// folded into the coefficient value mod Q).
func (e *Encryptor) EncryptMonomial(sk *rlwe.SecretKey, w int) (*Ciphertext, error) {
	if w < 0 || w >= e.params.N {
		return nil, fmt.Errorf("rgsw.Encryptor.EncryptMonomial: column selector %d out of range [0, %d)", w, e.params.N)
	}
	rq := e.params.RQ
	monomial := rq.NewRNSPoly(ring.Coefficient)
	if w == 0 {
		monomial.Q1.Coeffs[0] = 1
		monomial.Q2.Coeffs[0] = 1
	} else {
		pos := e.params.N - w
		monomial.Q1.Coeffs[pos] = rq.Q1.Modulus - 1
		monomial.Q2.Coeffs[pos] = rq.Q2.Modulus - 1
	}
	if err := rq.Forward(monomial); err != nil {
		return nil, fmt.Errorf("rgsw.Encryptor.EncryptMonomial: %w", err)
	}

	ct := NewCiphertext(e.params)
	if err := e.fillRows(sk, monomial, true, ct.KeySwitch); err != nil {
		return nil, fmt.Errorf("rgsw.Encryptor.EncryptMonomial: key-switch rows: %w", err)
	}
	if err := e.fillRows(sk, monomial, false, ct.Message); err != nil {
		return nil, fmt.Errorf("rgsw.Encryptor.EncryptMonomial: message rows: %w", err)
	}
	return ct, nil
}

// fillRows encrypts Base^(ell-1-i) * m' * (s if withSecret else 1) into
// row i of gct, for every row.
func (e *Encryptor) fillRows(sk *rlwe.SecretKey, m *ring.RNSPoly, withSecret bool, gct *rlwe.GadgetCiphertext) error {
	rq := e.params.RQ
	ell := e.params.GadgetDepth

	base := m.Clone()
	if withSecret {
		if err := rq.MulCoeffwise(base, sk.Q, base); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	baseCoeff := base.Clone()
	if err := rq.Backward(baseCoeff); err != nil {
		return fmt.Errorf("%w", err)
	}

	bred1 := rq.Q1.BRedConstant
	bred2 := rq.Q2.BRedConstant
	power := uint64(1)
	for i := ell - 1; i >= 0; i-- {
		p1 := power % rq.Q1.Modulus
		p2 := power % rq.Q2.Modulus
		raw := rq.NewRNSPoly(ring.Coefficient)
		for j := 0; j < e.params.N; j++ {
			raw.Q1.Coeffs[j] = ring.BRed(baseCoeff.Q1.Coeffs[j], p1, rq.Q1.Modulus, bred1)
			raw.Q2.Coeffs[j] = ring.BRed(baseCoeff.Q2.Coeffs[j], p2, rq.Q2.Modulus, bred2)
		}

		a := rq.NewRNSPoly(ring.Evaluation)
		if err := e.enc.UniformSample(a); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		errTerm := rq.NewRNSPoly(ring.Coefficient)
		if err := e.enc.NoiseSample(errTerm); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Forward(raw); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Forward(errTerm); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}

		b := rq.NewRNSPoly(ring.Evaluation)
		if err := rq.MulCoeffwise(a, sk.Q, b); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Add(b, raw, b); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := rq.Add(b, errTerm, b); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}

		gct.Rows[i] = &rlwe.RNSCiphertext{A: a, B: b}
		power *= e.params.GadgetBase
	}
	return nil
}
