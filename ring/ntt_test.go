package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNTTRoundTrip(t *testing.T) {
	r, err := NewRing(8, 97)
	require.NoError(t, err)

	p := r.NewPolynomial(Coefficient)
	for i := range p.Coeffs {
		p.Coeffs[i] = uint64(i * 3 % 97)
	}
	want := append([]uint64{}, p.Coeffs...)

	require.NoError(t, r.Forward(p))
	require.Equal(t, Evaluation, p.Form)
	require.NoError(t, r.Backward(p))
	require.Equal(t, Coefficient, p.Form)
	require.Equal(t, want, p.Coeffs)
}

func TestForwardRejectsEvaluationForm(t *testing.T) {
	r, err := NewRing(8, 97)
	require.NoError(t, err)
	p := r.NewPolynomial(Evaluation)
	require.Error(t, r.Forward(p))
}

func TestNewRingRejectsNonPow2Degree(t *testing.T) {
	_, err := NewRing(9, 97)
	require.ErrorIs(t, err, ErrDegreeNotPow2)
}

func TestNewRingRejectsNonNTTFriendlyModulus(t *testing.T) {
	// 97 is NTT-friendly for N=8 (97-1=96=16*6) but not for N=64 (128 does
	// not divide 96).
	_, err := NewRing(64, 97)
	require.ErrorIs(t, err, ErrNotNTTFriendly)
}
