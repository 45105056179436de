package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
)

// Ciphertext is a single-modulus RLWE ciphertext (a, b), used for the
// auxiliary p_bs channel. b - a*s ~= mu (no explicit Delta scaling at this
// layer; callers scale before encrypting).
type Ciphertext struct {
	A, B *ring.Polynomial
}

// NewCiphertext allocates a zero ciphertext over r in the given form.
func NewCiphertext(r *ring.Ring, form ring.Form) *Ciphertext {
	return &Ciphertext{A: r.NewPolynomial(form), B: r.NewPolynomial(form)}
}

// Clone returns a deep copy.
func (c *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{A: c.A.Clone(), B: c.B.Clone()}
}

// CheckCompatible verifies c and other share degree, modulus and form on
// both parts.
func (c *Ciphertext) CheckCompatible(other *Ciphertext) error {
	if err := c.A.CheckCompatible(other.A); err != nil {
		return fmt.Errorf("A part: %w", err)
	}
	if err := c.B.CheckCompatible(other.B); err != nil {
		return fmt.Errorf("B part: %w", err)
	}
	return nil
}

// RNSCiphertext is a two-channel (Q1, Q2) RLWE ciphertext — the
// representation every ciphertext takes while resident over Q.
type RNSCiphertext struct {
	A, B *ring.RNSPoly
}

// NewRNSCiphertext allocates a zero RNS ciphertext over rq in the given form.
func NewRNSCiphertext(rq *ring.RNSRing, form ring.Form) *RNSCiphertext {
	return &RNSCiphertext{A: rq.NewRNSPoly(form), B: rq.NewRNSPoly(form)}
}

// Clone returns a deep copy.
func (c *RNSCiphertext) Clone() *RNSCiphertext {
	return &RNSCiphertext{A: c.A.Clone(), B: c.B.Clone()}
}

// CheckCompatible verifies c and other share degree, moduli and form on
// both parts and both channels.
func (c *RNSCiphertext) CheckCompatible(other *RNSCiphertext) error {
	if err := c.A.CheckCompatible(other.A); err != nil {
		return fmt.Errorf("A part: %w", err)
	}
	if err := c.B.CheckCompatible(other.B); err != nil {
		return fmt.Errorf("B part: %w", err)
	}
	return nil
}

// Query is the client's request: an RLWE ciphertext resident in Q paired
// with its companion ciphertext resident in p_bs, jointly encrypting the
// same one-hot row-selector (spec.md §4.E's input). The kernel rejects a
// Query whose two companions disagree on form at entry (spec.md §4.E edge
// cases).
type Query struct {
	Q   *RNSCiphertext
	BS  *Ciphertext
}

// CheckConsistent verifies the Q and BS companions agree on form — the
// only cross-channel shape invariant the kernel can check without
// decrypting.
func (q *Query) CheckConsistent() error {
	if q.Q.A.Q1.Form != q.BS.A.Form {
		return fmt.Errorf("rlwe.Query: Q channel form %s disagrees with p_bs channel form %s", q.Q.A.Q1.Form, q.BS.A.Form)
	}
	return nil
}
