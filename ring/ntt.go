package ring

import "fmt"

// Forward applies the negacyclic NTT to p in place, turning it from
// coefficient form into evaluation form. p.Modulus must match r.Modulus.
//
// Grounded on the standard iterative Cooley-Tukey butterfly used across the
// retrieval pack's lattice libraries (e.g. the teacher's ring.NTT, and the
// same level-by-level structure as the reference implementation's
// src/ntt.cpp): because every modulus NewRing accepts has a primitive 2N-th
// root of unity, x^N+1 splits completely into N linear factors and the
// transform needs no incomplete-NTT pairing trick.
func (r *Ring) Forward(p *Polynomial) error {
	if p.Modulus != r.Modulus || p.N != r.N {
		return fmt.Errorf("%w: ring modulus=%d N=%d, poly modulus=%d N=%d", ErrModulusMismatch, r.Modulus, r.N, p.Modulus, p.N)
	}
	if p.Form != Coefficient {
		return fmt.Errorf("%w: expected coefficient form", ErrFormMismatch)
	}

	a := p.Coeffs
	N := r.N
	modulus := r.Modulus
	bred := r.BRedConstant
	zetas := r.NTT.Forward

	k := 1
	for length := N / 2; length >= 1; length >>= 1 {
		for start := 0; start < N; start += 2 * length {
			zeta := zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := BRed(zeta, a[j+length], modulus, bred)
				a[j+length] = SubMod(a[j], t, modulus)
				a[j] = AddMod(a[j], t, modulus)
			}
		}
	}

	p.Form = Evaluation
	return nil
}

// Backward applies the inverse negacyclic NTT to p in place, turning it
// from evaluation form back into coefficient form.
func (r *Ring) Backward(p *Polynomial) error {
	if p.Modulus != r.Modulus || p.N != r.N {
		return fmt.Errorf("%w: ring modulus=%d N=%d, poly modulus=%d N=%d", ErrModulusMismatch, r.Modulus, r.N, p.Modulus, p.N)
	}
	if p.Form != Evaluation {
		return fmt.Errorf("%w: expected evaluation form", ErrFormMismatch)
	}

	a := p.Coeffs
	N := r.N
	modulus := r.Modulus
	bred := r.BRedConstant
	zetas := r.NTT.Backward

	for length := 1; length < N; length <<= 1 {
		// The level with butterfly span length has N/(2*length) blocks;
		// block b undoes the forward block that used Forward[N/(2*length)+b].
		h := N / (2 * length)
		for start, b := 0, 0; start < N; start, b = start+2*length, b+1 {
			zeta := zetas[h+b]
			for j := start; j < start+length; j++ {
				t := a[j]
				a[j] = AddMod(t, a[j+length], modulus)
				a[j+length] = BRed(SubMod(t, a[j+length], modulus), zeta, modulus, bred)
			}
		}
	}
	for i := range a {
		a[i] = BRed(a[i], r.NTT.NInv, modulus, bred)
	}

	p.Form = Coefficient
	return nil
}
