package ring

import "fmt"

// Add sets out = p + q (coefficient-wise, mod Modulus). p, q and out must
// share degree, modulus and form.
func (r *Ring) Add(p, q, out *Polynomial) error {
	if err := p.CheckCompatible(q); err != nil {
		return fmt.Errorf("ring.Add: %w", err)
	}
	if err := p.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.Add: %w", err)
	}
	modulus := r.Modulus
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = AddMod(p.Coeffs[i], q.Coeffs[i], modulus)
	}
	return nil
}

// Sub sets out = p - q.
func (r *Ring) Sub(p, q, out *Polynomial) error {
	if err := p.CheckCompatible(q); err != nil {
		return fmt.Errorf("ring.Sub: %w", err)
	}
	if err := p.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.Sub: %w", err)
	}
	modulus := r.Modulus
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = SubMod(p.Coeffs[i], q.Coeffs[i], modulus)
	}
	return nil
}

// Neg sets out = -p.
func (r *Ring) Neg(p, out *Polynomial) error {
	if err := p.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.Neg: %w", err)
	}
	modulus := r.Modulus
	for i := 0; i < r.N; i++ {
		if p.Coeffs[i] == 0 {
			out.Coeffs[i] = 0
		} else {
			out.Coeffs[i] = modulus - p.Coeffs[i]
		}
	}
	return nil
}

// MulCoeffwise sets out = p * q coefficient-wise. This is only a valid ring
// multiplication when p and q are in evaluation form (pointwise product in
// the NTT domain); callers wanting polynomial multiplication must NTT both
// operands first. Kept as a thin, checked primitive rather than folding the
// transform in, mirroring the teacher's separation of MulCoeffs from the NTT
// calls that bracket it.
func (r *Ring) MulCoeffwise(p, q, out *Polynomial) error {
	if err := p.CheckCompatible(q); err != nil {
		return fmt.Errorf("ring.MulCoeffwise: %w", err)
	}
	if err := p.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.MulCoeffwise: %w", err)
	}
	if p.Form != Evaluation {
		return fmt.Errorf("ring.MulCoeffwise: %w: pointwise product requires evaluation form", ErrFormMismatch)
	}
	modulus := r.Modulus
	bred := r.BRedConstant
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = BRed(p.Coeffs[i], q.Coeffs[i], modulus, bred)
	}
	return nil
}

// MulAddCoeffwise sets out += p * q coefficient-wise (evaluation form), the
// accumulate-in-place step the baby-step/giant-step diagonal matvec runs in
// its innermost loop.
func (r *Ring) MulAddCoeffwise(p, q, out *Polynomial) error {
	if err := p.CheckCompatible(q); err != nil {
		return fmt.Errorf("ring.MulAddCoeffwise: %w", err)
	}
	if err := p.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.MulAddCoeffwise: %w", err)
	}
	if p.Form != Evaluation {
		return fmt.Errorf("ring.MulAddCoeffwise: %w: pointwise product requires evaluation form", ErrFormMismatch)
	}
	modulus := r.Modulus
	bred := r.BRedConstant
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = AddMod(out.Coeffs[i], BRed(p.Coeffs[i], q.Coeffs[i], modulus, bred), modulus)
	}
	return nil
}

// ScalarMul sets out = p * scalar, scalar already reduced mod Modulus.
func (r *Ring) ScalarMul(p *Polynomial, scalar uint64, out *Polynomial) error {
	if err := p.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.ScalarMul: %w", err)
	}
	modulus := r.Modulus
	bred := r.BRedConstant
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = BRed(p.Coeffs[i], scalar, modulus, bred)
	}
	return nil
}

// EqualCoeffs reports whether p and q hold the same coefficients (ignoring
// form).
func (p *Polynomial) EqualCoeffs(q *Polynomial) bool {
	if p.N != q.N || p.Modulus != q.Modulus {
		return false
	}
	for i := range p.Coeffs {
		if p.Coeffs[i] != q.Coeffs[i] {
			return false
		}
	}
	return true
}
