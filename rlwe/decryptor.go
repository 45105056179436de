package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
)

// Decryptor recovers plaintext coefficients from ciphertexts under a
// SecretKey: compute b - a*s, transform back to coefficient form, CRT
// recompose, round by Delta and reduce mod p. This is the
// "decode_response" operation of spec.md §6, minus the caller-side
// domain checks spec.md §7 says belong to the client, not the core.
type Decryptor struct {
	params *Parameters
}

// NewDecryptor builds a Decryptor for params.
func NewDecryptor(params *Parameters) *Decryptor {
	return &Decryptor{params: params}
}

// DecryptRNS decrypts an RNS ciphertext (evaluation form) under sk and
// returns N rounded, plaintext-modulus-reduced coefficients.
func (d *Decryptor) DecryptRNS(sk *SecretKey, ct *RNSCiphertext) ([]uint64, error) {
	rq := d.params.RQ
	if ct.A.Q1.Form != ring.Evaluation {
		return nil, fmt.Errorf("rlwe.Decryptor.DecryptRNS: %w: ciphertext must be in evaluation form", ring.ErrFormMismatch)
	}

	as := rq.NewRNSPoly(ring.Evaluation)
	if err := rq.MulCoeffwise(ct.A, sk.Q, as); err != nil {
		return nil, fmt.Errorf("rlwe.Decryptor.DecryptRNS: %w", err)
	}
	noisy := rq.NewRNSPoly(ring.Evaluation)
	if err := rq.Sub(ct.B, as, noisy); err != nil {
		return nil, fmt.Errorf("rlwe.Decryptor.DecryptRNS: %w", err)
	}
	if err := rq.Backward(noisy); err != nil {
		return nil, fmt.Errorf("rlwe.Decryptor.DecryptRNS: %w", err)
	}

	out := make([]uint64, d.params.N)
	q := rq.Q1.Modulus * rq.Q2.Modulus
	delta := d.params.Delta
	p := d.params.PlaintextModulus
	for i := 0; i < d.params.N; i++ {
		v := d.params.CRT.Compose(noisy.Q1.Coeffs[i], noisy.Q2.Coeffs[i])
		out[i] = roundDiv(v, delta, q, p)
	}
	return out, nil
}

// roundDiv computes round(v/delta) mod p, treating v as the balanced
// representative of [0, q) nearest zero before rounding — this is the
// "round by Delta" step spec.md §6's decode_response performs.
func roundDiv(v, delta, q, p uint64) uint64 {
	half := q / 2
	signed := int64(v)
	if v > half {
		signed = int64(v) - int64(q)
	}
	var rounded int64
	if signed >= 0 {
		rounded = (signed + int64(delta)/2) / int64(delta)
	} else {
		rounded = (signed - int64(delta)/2) / int64(delta)
	}
	r := rounded % int64(p)
	if r < 0 {
		r += int64(p)
	}
	return uint64(r)
}
