package ring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPolynomialCloneIsDeepAndEqual(t *testing.T) {
	p := NewPolynomial(8, 97, Coefficient)
	for i := range p.Coeffs {
		p.Coeffs[i] = uint64(i)
	}
	q := p.Clone()

	if diff := cmp.Diff(p, q); diff != "" {
		t.Fatalf("clone differs from original:\n%s", diff)
	}

	q.Coeffs[0] = 55
	require.NotEqual(t, p.Coeffs[0], q.Coeffs[0], "mutating the clone must not affect the original")
}

func TestRNSPolyCloneIsDeepAndEqual(t *testing.T) {
	r := NewRNSPoly(8, 97, 89, Coefficient)
	for i := range r.Q1.Coeffs {
		r.Q1.Coeffs[i] = uint64(i)
		r.Q2.Coeffs[i] = uint64(i * 2)
	}
	clone := r.Clone()

	if diff := cmp.Diff(r, clone); diff != "" {
		t.Fatalf("clone differs from original:\n%s", diff)
	}

	clone.Q1.Coeffs[0] = 55
	require.NotEqual(t, r.Q1.Coeffs[0], clone.Q1.Coeffs[0])
}
