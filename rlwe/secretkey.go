package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/sampling"
)

// SecretKey holds the same logical ternary secret reduced into every
// channel this parameter set's ciphertexts are carried in: the two Q
// channels and the auxiliary p_bs channel, each kept in evaluation form
// since every arithmetic primitive that consumes the secret (encrypt,
// decrypt, key-switch) works in the NTT domain.
type SecretKey struct {
	Q   *ring.RNSPoly  // evaluation form over (Q1, Q2)
	PBS *ring.Polynomial // evaluation form over p_bs
}

// NewSecretKey draws a single fresh ternary secret from source and reduces
// it into every channel this parameter set uses. The secret is the SAME
// ring element under Q1, Q2 and p_bs — drawn once as a signed vector and
// reduced three ways — because the RNS automorphism path (spec.md §4.D)
// folds results between the Q and p_bs channels and that is only sound if
// both channels are key-switching under the same underlying secret.
func NewSecretKey(params *Parameters, source sampling.Source) (*SecretKey, error) {
	ternary := sampling.NewTernarySampler(source)

	signed, err := ternary.SampleSigned(params.N)
	if err != nil {
		return nil, fmt.Errorf("rlwe.NewSecretKey: %w", err)
	}

	sQ := params.RQ.NewRNSPoly(ring.Coefficient)
	sBS := params.RPBS.NewPolynomial(ring.Coefficient)
	for i, v := range signed {
		if v < 0 {
			sQ.Q1.Coeffs[i] = sQ.Q1.Modulus - 1
			sQ.Q2.Coeffs[i] = sQ.Q2.Modulus - 1
			sBS.Coeffs[i] = sBS.Modulus - 1
		} else {
			sQ.Q1.Coeffs[i] = uint64(v)
			sQ.Q2.Coeffs[i] = uint64(v)
			sBS.Coeffs[i] = uint64(v)
		}
	}

	if err := params.RQ.Forward(sQ); err != nil {
		return nil, fmt.Errorf("rlwe.NewSecretKey: %w", err)
	}
	if err := params.RPBS.Forward(sBS); err != nil {
		return nil, fmt.Errorf("rlwe.NewSecretKey: %w", err)
	}

	return &SecretKey{Q: sQ, PBS: sBS}, nil
}
