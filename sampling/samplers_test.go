package sampling

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/nrr-labs/ringpir/ring"
	"github.com/stretchr/testify/require"
)

func keyedSource(t *testing.T) Source {
	t.Helper()
	src, err := NewKeyedPRNG([]byte("sampling-test-seed"))
	require.NoError(t, err)
	return src
}

func TestTernarySamplerSignedRange(t *testing.T) {
	sampler := NewTernarySampler(keyedSource(t))
	signed, err := sampler.SampleSigned(256)
	require.NoError(t, err)
	require.Len(t, signed, 256)
	for _, v := range signed {
		require.Contains(t, []int8{-1, 0, 1}, v)
	}
}

func TestTernarySamplerRNSReducesConsistently(t *testing.T) {
	sampler := NewTernarySampler(keyedSource(t))
	out := ring.NewRNSPoly(8, 97, 89, ring.Coefficient)
	require.NoError(t, sampler.SampleRNS(out))
	for i := range out.Q1.Coeffs {
		v1, v2 := out.Q1.Coeffs[i], out.Q2.Coeffs[i]
		// a ternary value reduced into two different moduli must agree on
		// whether it was 0, or be modulus-1 (representing -1) in both.
		if v1 == 0 || v2 == 0 {
			require.True(t, v1 == 0 && v2 == 0)
		}
	}
}

func TestUniformSamplerWithinModulus(t *testing.T) {
	sampler := NewUniformSampler(keyedSource(t))
	p := ring.NewPolynomial(64, 97, ring.Evaluation)
	require.NoError(t, sampler.Sample(p))
	for _, c := range p.Coeffs {
		require.Less(t, c, uint64(97))
	}
}

func TestDiscreteGaussianSamplerStandardDeviation(t *testing.T) {
	sampler := NewDiscreteGaussianSampler(keyedSource(t), 3.2, 6)
	modulus := uint64(65537)
	half := modulus / 2

	var samples stats.Float64Data
	for draw := 0; draw < 8; draw++ {
		p := ring.NewPolynomial(256, modulus, ring.Coefficient)
		require.NoError(t, sampler.Sample(p))
		for _, c := range p.Coeffs {
			v := float64(c)
			if c > half {
				v = float64(c) - float64(modulus)
			}
			samples = append(samples, v)
		}
	}

	sd, err := stats.StandardDeviation(samples)
	require.NoError(t, err)
	// sigma=3.2 truncated at 6 standard deviations barely narrows the
	// distribution; the empirical standard deviation over a few thousand
	// draws should land within a generous band around 3.2.
	require.InDelta(t, 3.2, sd, 1.5)
}

func TestDiscreteGaussianSamplerBounded(t *testing.T) {
	sampler := NewDiscreteGaussianSampler(keyedSource(t), 3.2, 6)
	p := ring.NewPolynomial(64, 97, ring.Coefficient)
	require.NoError(t, sampler.Sample(p))
	sigma, tau := 3.2, 6.0
	bound := uint64(sigma * tau)
	for _, c := range p.Coeffs {
		// a coefficient mod 97 representing a small noise value should be
		// either small or close to 97 (the negative representative).
		if c > bound {
			require.Greater(t, c, uint64(97)-bound-1)
		}
	}
}
