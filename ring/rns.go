package ring

import "fmt"

// RNSRing pairs the two per-channel Rings that together represent
// Z_Q[x]/(x^N+1) under CRT, Q = Q1.Modulus * Q2.Modulus. Every RLWE/RGSW
// operation in this module runs its arithmetic once per channel and lets
// the crt package recombine results only where an actual integer (not a
// residue pair) is needed — rounding, decryption, gadget digit extraction.
type RNSRing struct {
	Q1, Q2 *Ring
}

// NewRNSRing builds the two NTT-ready channel rings for (q1, q2) at degree N.
func NewRNSRing(N int, q1, q2 uint64) (*RNSRing, error) {
	r1, err := NewRing(N, q1)
	if err != nil {
		return nil, fmt.Errorf("ring.NewRNSRing: channel Q1: %w", err)
	}
	r2, err := NewRing(N, q2)
	if err != nil {
		return nil, fmt.Errorf("ring.NewRNSRing: channel Q2: %w", err)
	}
	return &RNSRing{Q1: r1, Q2: r2}, nil
}

// NewRNSPoly allocates a zero RNSPoly compatible with this ring in the
// given form.
func (rr *RNSRing) NewRNSPoly(form Form) *RNSPoly {
	return NewRNSPoly(rr.Q1.N, rr.Q1.Modulus, rr.Q2.Modulus, form)
}

// Forward transforms both channels of p in place into evaluation form.
func (rr *RNSRing) Forward(p *RNSPoly) error {
	if err := rr.Q1.Forward(p.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.Forward: Q1 channel: %w", err)
	}
	if err := rr.Q2.Forward(p.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.Forward: Q2 channel: %w", err)
	}
	return nil
}

// Backward transforms both channels of p in place back into coefficient form.
func (rr *RNSRing) Backward(p *RNSPoly) error {
	if err := rr.Q1.Backward(p.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.Backward: Q1 channel: %w", err)
	}
	if err := rr.Q2.Backward(p.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.Backward: Q2 channel: %w", err)
	}
	return nil
}

// Add sets out = p + q across both channels.
func (rr *RNSRing) Add(p, q, out *RNSPoly) error {
	if err := rr.Q1.Add(p.Q1, q.Q1, out.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.Add: Q1 channel: %w", err)
	}
	if err := rr.Q2.Add(p.Q2, q.Q2, out.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.Add: Q2 channel: %w", err)
	}
	return nil
}

// Sub sets out = p - q across both channels.
func (rr *RNSRing) Sub(p, q, out *RNSPoly) error {
	if err := rr.Q1.Sub(p.Q1, q.Q1, out.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.Sub: Q1 channel: %w", err)
	}
	if err := rr.Q2.Sub(p.Q2, q.Q2, out.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.Sub: Q2 channel: %w", err)
	}
	return nil
}

// MulCoeffwise sets out = p * q pointwise across both channels (both
// operands must already be in evaluation form).
func (rr *RNSRing) MulCoeffwise(p, q, out *RNSPoly) error {
	if err := rr.Q1.MulCoeffwise(p.Q1, q.Q1, out.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.MulCoeffwise: Q1 channel: %w", err)
	}
	if err := rr.Q2.MulCoeffwise(p.Q2, q.Q2, out.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.MulCoeffwise: Q2 channel: %w", err)
	}
	return nil
}

// MulAddCoeffwise sets out += p * q pointwise across both channels.
func (rr *RNSRing) MulAddCoeffwise(p, q, out *RNSPoly) error {
	if err := rr.Q1.MulAddCoeffwise(p.Q1, q.Q1, out.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.MulAddCoeffwise: Q1 channel: %w", err)
	}
	if err := rr.Q2.MulAddCoeffwise(p.Q2, q.Q2, out.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.MulAddCoeffwise: Q2 channel: %w", err)
	}
	return nil
}

// ApplyAutomorphism applies the same permutation table to both channels of
// an evaluation-form RNSPoly — per-channel automorphism tables share the
// same index permutation since it depends only on N and t, not the modulus.
func (rr *RNSRing) ApplyAutomorphism(pt *PermutationTable, in, out *RNSPoly) error {
	if err := pt.Apply(in.Q1, out.Q1); err != nil {
		return fmt.Errorf("ring.RNSRing.ApplyAutomorphism: Q1 channel: %w", err)
	}
	if err := pt.Apply(in.Q2, out.Q2); err != nil {
		return fmt.Errorf("ring.RNSRing.ApplyAutomorphism: Q2 channel: %w", err)
	}
	return nil
}
