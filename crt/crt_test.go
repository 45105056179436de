package crt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRTRoundTrip(t *testing.T) {
	basis, err := NewBasis(97, 89, 17)
	require.NoError(t, err)

	for _, a := range []uint64{0, 1, 42, 96 * 89 / 2, basis.Q - 1} {
		x, y := basis.Split(a)
		got := basis.Compose(x, y)
		require.Equal(t, a%basis.Q, got)
	}
}

func TestToFromBSModulusRoundTrip(t *testing.T) {
	basis, err := NewBasis(97, 89, 17)
	require.NoError(t, err)

	for _, a := range []uint64{0, 1, 5000, basis.Q - 1} {
		bs := basis.ToBSModulus(a)
		// FromBSModulus multiplies by p_bs^-1 mod Q, so multiplying the
		// folded value back by PBS mod Q recovers the p_bs residue.
		folded := basis.FromBSModulus(bs)
		require.Equal(t, bs, (folded*basis.PBS)%basis.Q)
	}
}

func TestNewBasisRejectsEqualPrimes(t *testing.T) {
	_, err := NewBasis(97, 97, 17)
	require.Error(t, err)
}

func TestSplitComposePolynomial(t *testing.T) {
	basis, err := NewBasis(97, 89, 17)
	require.NoError(t, err)

	a := []uint64{0, 1, 1000, 8000, basis.Q - 1}
	q1 := make([]uint64, len(a))
	q2 := make([]uint64, len(a))
	require.NoError(t, basis.SplitPolynomial(a, q1, q2))

	out := make([]uint64, len(a))
	require.NoError(t, basis.ComposePolynomial(q1, q2, out))
	require.Equal(t, a, out)
}
