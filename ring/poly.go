// Package ring implements the modular arithmetic and NTT kernel that the
// rest of ringpir is built on: Barrett-reduced modular arithmetic, forward
// and inverse negacyclic NTTs over Z_m[x]/(x^N+1), and the index-permutation
// tables that realize ring automorphisms x -> x^t on NTT-form polynomials.
//
// Grounded on github.com/Pro7ech/lattigo's ring package (NewRing / GenNTTTable
// structure, bit-reversed root tables), adapted to the Barrett-only arithmetic
// and explicit modulus/form tagging that spec.md §4.A and §9 call for, in
// place of the teacher's generic Montgomery multi-level RNS ring.
package ring

import "fmt"

// Form tags whether a Polynomial's coefficients are in coefficient
// representation or NTT (evaluation) representation. Primitives refuse
// mixed-form inputs.
type Form int

const (
	Coefficient Form = iota
	Evaluation
)

func (f Form) String() string {
	if f == Evaluation {
		return "evaluation"
	}
	return "coefficient"
}

// Polynomial is an ordered sequence of N residues in [0, Modulus), tagged
// with its Form. It is the single concrete type every other package in
// ringpir builds on.
type Polynomial struct {
	Modulus uint64
	N       int
	Form    Form
	Coeffs  []uint64
}

// NewPolynomial allocates a zero Polynomial of degree N modulo modulus in
// the given form.
func NewPolynomial(N int, modulus uint64, form Form) *Polynomial {
	return &Polynomial{
		Modulus: modulus,
		N:       N,
		Form:    form,
		Coeffs:  make([]uint64, N),
	}
}

// CheckCompatible returns an error if p and q do not share the same degree,
// modulus and form. Every binary arithmetic primitive calls this first.
func (p *Polynomial) CheckCompatible(q *Polynomial) error {
	if p.N != q.N {
		return fmt.Errorf("%w: %d != %d", ErrDegreeMismatch, p.N, q.N)
	}
	if p.Modulus != q.Modulus {
		return fmt.Errorf("%w: %d != %d", ErrModulusMismatch, p.Modulus, q.Modulus)
	}
	if p.Form != q.Form {
		return fmt.Errorf("%w: %s != %s", ErrFormMismatch, p.Form, q.Form)
	}
	return nil
}

// Clone returns a deep copy of p.
func (p *Polynomial) Clone() *Polynomial {
	q := &Polynomial{Modulus: p.Modulus, N: p.N, Form: p.Form, Coeffs: make([]uint64, p.N)}
	copy(q.Coeffs, p.Coeffs)
	return q
}

// CopyFrom overwrites the receiver's coefficients from q. Panics (contract
// violation) if the two are not compatible.
func (p *Polynomial) CopyFrom(q *Polynomial) {
	if err := p.CheckCompatible(q); err != nil {
		panic(fmt.Errorf("Polynomial.CopyFrom: %w", err))
	}
	copy(p.Coeffs, q.Coeffs)
}

// Zero clears the polynomial's coefficients in place.
func (p *Polynomial) Zero() {
	for i := range p.Coeffs {
		p.Coeffs[i] = 0
	}
}

// RNSPoly is a residue-number-system polynomial: the same logical
// coefficient vector reduced in parallel modulo q1 and modulo q2, the two
// CRT channels that compose Q = q1*q2 (spec.md §3, §4.B). Every RLWE
// ciphertext part is carried as an RNSPoly while resident over Q.
type RNSPoly struct {
	Q1, Q2 *Polynomial
}

// NewRNSPoly allocates a zero RNSPoly of degree N over (q1, q2) in the given
// form.
func NewRNSPoly(N int, q1, q2 uint64, form Form) *RNSPoly {
	return &RNSPoly{Q1: NewPolynomial(N, q1, form), Q2: NewPolynomial(N, q2, form)}
}

// Clone returns a deep copy.
func (r *RNSPoly) Clone() *RNSPoly {
	return &RNSPoly{Q1: r.Q1.Clone(), Q2: r.Q2.Clone()}
}

// CheckCompatible verifies both channels are pairwise compatible with other.
func (r *RNSPoly) CheckCompatible(other *RNSPoly) error {
	if err := r.Q1.CheckCompatible(other.Q1); err != nil {
		return fmt.Errorf("Q1 channel: %w", err)
	}
	if err := r.Q2.CheckCompatible(other.Q2); err != nil {
		return fmt.Errorf("Q2 channel: %w", err)
	}
	return nil
}
