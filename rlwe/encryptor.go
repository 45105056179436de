package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/sampling"
)

// Encryptor produces fresh RLWE ciphertexts under a SecretKey. A is sampled
// directly in evaluation form (uniform over a field is preserved by the
// NTT's linear bijection), while the error term is sampled in coefficient
// form, where the discrete Gaussian distribution is actually defined, and
// transformed afterward.
type Encryptor struct {
	params  *Parameters
	uniform *sampling.UniformSampler
	noise   *sampling.DiscreteGaussianSampler
}

// NewEncryptor builds an Encryptor drawing randomness from source.
func NewEncryptor(params *Parameters, source sampling.Source) *Encryptor {
	return &Encryptor{
		params:  params,
		uniform: sampling.NewUniformSampler(source),
		noise:   sampling.NewDiscreteGaussianSampler(source, params.NoiseSigma, params.NoiseBound),
	}
}

// UniformSample fills out with a fresh uniform draw, exposed so sibling
// packages (rgsw's RGSW-row encryption) can reuse this Encryptor's PRNG
// source instead of opening a second one.
func (e *Encryptor) UniformSample(out *ring.RNSPoly) error {
	return e.uniform.SampleRNS(out)
}

// NoiseSample fills out with a fresh noise draw, exposed for the same
// reason as UniformSample.
func (e *Encryptor) NoiseSample(out *ring.RNSPoly) error {
	return e.noise.SampleRNS(out)
}

// EncryptRNS encrypts plaintext (N coefficients, each in [0, PlaintextModulus))
// under sk into the Q channel, scaled by Delta. Returns the ciphertext in
// evaluation form, the representation every downstream homomorphic
// primitive expects.
func (e *Encryptor) EncryptRNS(sk *SecretKey, plaintext []uint64) (*RNSCiphertext, error) {
	if len(plaintext) != e.params.N {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: plaintext length %d != N %d", len(plaintext), e.params.N)
	}
	rq := e.params.RQ

	a := rq.NewRNSPoly(ring.Evaluation)
	if err := e.uniform.SampleRNS(a); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}

	scaled := rq.NewRNSPoly(ring.Coefficient)
	for i, m := range plaintext {
		v := (m % e.params.PlaintextModulus) * e.params.Delta
		scaled.Q1.Coeffs[i] = v % scaled.Q1.Modulus
		scaled.Q2.Coeffs[i] = v % scaled.Q2.Modulus
	}

	errTerm := rq.NewRNSPoly(ring.Coefficient)
	if err := e.noise.SampleRNS(errTerm); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}
	if err := rq.Forward(scaled); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}
	if err := rq.Forward(errTerm); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}

	b := rq.NewRNSPoly(ring.Evaluation)
	if err := rq.MulCoeffwise(a, sk.Q, b); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}
	if err := rq.Add(b, scaled, b); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}
	if err := rq.Add(b, errTerm, b); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptRNS: %w", err)
	}

	return &RNSCiphertext{A: a, B: b}, nil
}

// EncryptPBS encrypts plaintext into the auxiliary p_bs channel, scaled by
// DeltaBS, mirroring EncryptRNS but for the single-modulus companion
// ciphertext spec.md §4.E's query pair carries alongside the Q ciphertext.
func (e *Encryptor) EncryptPBS(sk *SecretKey, plaintext []uint64) (*Ciphertext, error) {
	if len(plaintext) != e.params.N {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: plaintext length %d != N %d", len(plaintext), e.params.N)
	}
	r := e.params.RPBS

	a := r.NewPolynomial(ring.Evaluation)
	if err := e.uniform.Sample(a); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}

	scaled := r.NewPolynomial(ring.Coefficient)
	for i, m := range plaintext {
		scaled.Coeffs[i] = ((m % e.params.PlaintextModulus) * e.params.DeltaBS) % r.Modulus
	}
	errTerm := r.NewPolynomial(ring.Coefficient)
	if err := e.noise.Sample(errTerm); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}
	if err := r.Forward(scaled); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}
	if err := r.Forward(errTerm); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}

	b := r.NewPolynomial(ring.Evaluation)
	if err := r.MulCoeffwise(a, sk.PBS, b); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}
	if err := r.Add(b, scaled, b); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}
	if err := r.Add(b, errTerm, b); err != nil {
		return nil, fmt.Errorf("rlwe.Encryptor.EncryptPBS: %w", err)
	}

	return &Ciphertext{A: a, B: b}, nil
}
