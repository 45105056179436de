package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutationTableIdentity(t *testing.T) {
	pt, err := NewPermutationTable(1, 8)
	require.NoError(t, err)
	for j, p := range pt.Perm {
		require.Equal(t, j, p, "identity exponent must fix every evaluation slot")
	}
}

func TestPermutationTableIsBijection(t *testing.T) {
	pt, err := NewPermutationTable(5, 16)
	require.NoError(t, err)
	seen := make(map[int]bool, len(pt.Perm))
	for _, p := range pt.Perm {
		require.False(t, seen[p], "permutation must not repeat an index")
		seen[p] = true
	}
	require.Len(t, seen, 16)
}

func TestPermutationTableRejectsEvenExponent(t *testing.T) {
	_, err := NewPermutationTable(4, 8)
	require.Error(t, err)
}

func TestApplyRequiresEvaluationForm(t *testing.T) {
	r, err := NewRing(8, 97)
	require.NoError(t, err)
	pt, err := NewPermutationTable(5, 8)
	require.NoError(t, err)

	in := r.NewPolynomial(Coefficient)
	out := r.NewPolynomial(Evaluation)
	require.Error(t, pt.Apply(in, out))
}
