package sampling

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nrr-labs/ringpir/ring"
)

// TernarySampler draws coefficients uniformly from {-1, 0, 1} (as residues
// {m-1, 0, 1} mod m), the secret distribution used throughout the pack
// (grounded on the teacher's ring/rns_sampler_ternary.go TernarySampler).
// Each byte drawn from the source supplies four 2-bit fields; a field maps
// 0 -> 0, 1 -> 1, 2 -> -1, and a field equal to 3 is discarded, so the three
// values are equally likely and large-N secrets don't each need a full byte.
type TernarySampler struct {
	source Source
}

// NewTernarySampler builds a ternary sampler reading from source.
func NewTernarySampler(source Source) *TernarySampler {
	return &TernarySampler{source: source}
}

// Sample fills out (a coefficient-form polynomial) with a fresh ternary
// vector reduced mod out.Modulus.
func (t *TernarySampler) Sample(out *ring.Polynomial) error {
	if out.Form != ring.Coefficient {
		return fmt.Errorf("sampling: TernarySampler.Sample requires coefficient form")
	}
	signed, err := t.SampleSigned(out.N)
	if err != nil {
		return fmt.Errorf("sampling: TernarySampler.Sample: %w", err)
	}
	for i, v := range signed {
		out.Coeffs[i] = reduceSigned(v, out.Modulus)
	}
	return nil
}

// SampleRNS fills both channels of an RNSPoly with the SAME ternary vector
// reduced into each channel's modulus — the secret key and any small
// ring element shared across CRT channels must agree on sign, not just
// residue, so this draws once and reduces twice rather than drawing twice
// independently.
func (t *TernarySampler) SampleRNS(out *ring.RNSPoly) error {
	signed, err := t.SampleSigned(out.Q1.N)
	if err != nil {
		return fmt.Errorf("sampling: TernarySampler.SampleRNS: %w", err)
	}
	for i, v := range signed {
		out.Q1.Coeffs[i] = reduceSigned(v, out.Q1.Modulus)
		out.Q2.Coeffs[i] = reduceSigned(v, out.Q2.Modulus)
	}
	return nil
}

// SampleSigned draws n ternary values in {-1, 0, 1} as a plain signed
// slice, letting a caller that needs the SAME secret reduced across three
// or more independent moduli (Q1, Q2, and p_bs) do so without redrawing —
// a correctness requirement for the secret key, which must be the same
// ring element under every channel the ciphertexts it decrypts are carried
// in.
func (t *TernarySampler) SampleSigned(n int) ([]int8, error) {
	buf := make([]byte, (n+3)/4)
	out := make([]int8, n)
	for i := 0; i < n; {
		if _, err := t.source.Read(buf); err != nil {
			return nil, fmt.Errorf("sampling: TernarySampler.SampleSigned: %w", err)
		}
		for _, b := range buf {
			for shift := uint(0); shift < 8 && i < n; shift += 2 {
				switch (b >> shift) & 0x3 {
				case 0:
					out[i] = 0
				case 1:
					out[i] = 1
				case 2:
					out[i] = -1
				default:
					continue
				}
				i++
			}
		}
	}
	return out, nil
}

func reduceSigned(v int8, modulus uint64) uint64 {
	if v < 0 {
		return modulus - 1
	}
	return uint64(v)
}

// DiscreteGaussianSampler draws error-term coefficients from a discrete
// Gaussian of standard deviation Sigma, truncated at Bound standard
// deviations (values drawn beyond the tail are rejected and redrawn).
// Grounded on the ring.DiscreteGaussian distribution parameter the
// teacher's sampler interfaces dispatch on, reimplemented directly here
// since the teacher's own sampler lives behind the missing utils/sampling
// subpackage noted in DESIGN.md.
type DiscreteGaussianSampler struct {
	source Source
	sigma  float64
	bound  float64
}

// NewDiscreteGaussianSampler builds a noise sampler with the given standard
// deviation, rejecting samples beyond bound*sigma.
func NewDiscreteGaussianSampler(source Source, sigma, bound float64) *DiscreteGaussianSampler {
	return &DiscreteGaussianSampler{source: source, sigma: sigma, bound: bound}
}

// Sample fills out with fresh discrete Gaussian noise, centered at zero and
// reduced into [0, out.Modulus) (negative draws wrap around the modulus).
func (g *DiscreteGaussianSampler) Sample(out *ring.Polynomial) error {
	if out.Form != ring.Coefficient {
		return fmt.Errorf("sampling: DiscreteGaussianSampler.Sample requires coefficient form")
	}
	modulus := out.Modulus
	for i := 0; i < out.N; i++ {
		v, err := g.drawOne()
		if err != nil {
			return fmt.Errorf("sampling: DiscreteGaussianSampler.Sample: %w", err)
		}
		if v < 0 {
			out.Coeffs[i] = modulus - uint64(-v)%modulus
		} else {
			out.Coeffs[i] = uint64(v) % modulus
		}
	}
	return nil
}

// SampleRNS draws one noise vector and reduces it independently into each
// CRT channel of out; unlike the secret, noise does not need to carry the
// same representative across channels, only the same real integer.
func (g *DiscreteGaussianSampler) SampleRNS(out *ring.RNSPoly) error {
	vals := make([]int64, out.Q1.N)
	for i := range vals {
		v, err := g.drawOne()
		if err != nil {
			return fmt.Errorf("sampling: DiscreteGaussianSampler.SampleRNS: %w", err)
		}
		vals[i] = v
	}
	reduce := func(v int64, modulus uint64) uint64 {
		if v < 0 {
			return modulus - uint64(-v)%modulus
		}
		return uint64(v) % modulus
	}
	for i, v := range vals {
		out.Q1.Coeffs[i] = reduce(v, out.Q1.Modulus)
		out.Q2.Coeffs[i] = reduce(v, out.Q2.Modulus)
	}
	return nil
}

// drawOne draws a single bounded discrete Gaussian sample via Box-Muller
// on two uniform 32-bit draws, rounded to the nearest integer and rejected
// if it falls outside [-bound*sigma, bound*sigma].
func (g *DiscreteGaussianSampler) drawOne() (int64, error) {
	for {
		buf := make([]byte, 8)
		if _, err := g.source.Read(buf); err != nil {
			return 0, err
		}
		u1 := (float64(binary.LittleEndian.Uint32(buf[0:4])) + 1) / (float64(math.MaxUint32) + 2)
		u2 := float64(binary.LittleEndian.Uint32(buf[4:8])) / float64(math.MaxUint32)
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		v := z * g.sigma
		if math.Abs(v) <= g.bound*g.sigma {
			return int64(math.Round(v)), nil
		}
	}
}

// UniformSampler draws coefficients uniformly from [0, modulus), used to
// fill public ciphertext masks. Grounded on the same rejection-sampling
// pattern the teacher's uniform sampler uses to avoid modulo bias near the
// top of the range.
type UniformSampler struct {
	source Source
}

// NewUniformSampler builds a uniform sampler reading from source.
func NewUniformSampler(source Source) *UniformSampler {
	return &UniformSampler{source: source}
}

// Sample fills out with fresh uniform residues mod out.Modulus.
func (u *UniformSampler) Sample(out *ring.Polynomial) error {
	if out.Form != ring.Coefficient && out.Form != ring.Evaluation {
		return fmt.Errorf("sampling: UniformSampler.Sample: unrecognized form")
	}
	modulus := out.Modulus
	mask := uint64(1)
	for mask < modulus {
		mask <<= 1
	}
	mask--
	buf := make([]byte, 8)
	for i := 0; i < out.N; i++ {
		for {
			if _, err := u.source.Read(buf); err != nil {
				return fmt.Errorf("sampling: UniformSampler.Sample: %w", err)
			}
			v := binary.LittleEndian.Uint64(buf) & mask
			if v < modulus {
				out.Coeffs[i] = v
				break
			}
		}
	}
	return nil
}

// SampleRNS fills an RNSPoly with independent uniform vectors in each
// channel (a mask, unlike a secret, need not agree in sign across
// channels).
func (u *UniformSampler) SampleRNS(out *ring.RNSPoly) error {
	if err := u.Sample(out.Q1); err != nil {
		return fmt.Errorf("sampling: UniformSampler.SampleRNS: Q1 channel: %w", err)
	}
	if err := u.Sample(out.Q2); err != nil {
		return fmt.Errorf("sampling: UniformSampler.SampleRNS: Q2 channel: %w", err)
	}
	return nil
}
