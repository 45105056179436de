package ring

import "fmt"

// PermutationTable is the index-shuffle that realizes the ring automorphism
// sigma_t: x -> x^t on a polynomial already in evaluation (NTT) form. t must
// be odd (any odd residue mod 2N is a valid automorphism of
// Z[x]/(x^N+1); even t is not invertible and is a contract violation).
//
// Because every Ring built by NewRing uses a modulus with a primitive 2N-th
// root of unity, the N-slot evaluation-form array represents the polynomial
// evaluated at the N odd powers of psi: slot j holds p(psi^(2*brv(j)+1)).
// Substituting x -> x^t moves the evaluation point psi^e to psi^(t*e mod 2N),
// so the whole automorphism collapses to a pure permutation of array slots
// with no arithmetic at all — the trick this package is named for.
type PermutationTable struct {
	T    uint64
	Perm []int
}

// NewPermutationTable builds the shuffle table for sigma_t over a ring of
// degree N.
func NewPermutationTable(t uint64, N int) (*PermutationTable, error) {
	logN := 0
	for 1<<logN < N {
		logN++
	}
	twoN := uint64(2 * N)
	if t%2 == 0 {
		return nil, fmt.Errorf("ring: automorphism exponent %d must be odd", t)
	}
	t %= twoN

	perm := make([]int, N)
	for j := 0; j < N; j++ {
		e := 2*bitReverse(uint64(j), logN) + 1
		ePrime := (t * e) % twoN
		idx := (ePrime - 1) / 2 % uint64(N)
		perm[j] = int(bitReverse(idx, logN))
	}
	return &PermutationTable{T: t, Perm: perm}, nil
}

// Apply sets out[j] = in[perm[j]] for every slot, realizing sigma_t on an
// evaluation-form polynomial. in and out must be distinct backing arrays;
// passing the same polynomial for both is a contract violation since the
// permutation is not done in place.
func (pt *PermutationTable) Apply(in, out *Polynomial) error {
	if err := in.CheckCompatible(out); err != nil {
		return fmt.Errorf("ring.PermutationTable.Apply: %w", err)
	}
	if in.Form != Evaluation {
		return fmt.Errorf("ring.PermutationTable.Apply: %w: automorphism permutation requires evaluation form", ErrFormMismatch)
	}
	if len(pt.Perm) != in.N {
		return fmt.Errorf("ring.PermutationTable.Apply: table built for degree %d, polynomial has degree %d", len(pt.Perm), in.N)
	}
	for j, src := range pt.Perm {
		out.Coeffs[j] = in.Coeffs[src]
	}
	return nil
}

// GaloisElementForColumnRotation returns the odd automorphism exponent
// t = 2k+1 mod 2N for ring degree N (k is first reduced into [0, 2N)).
// Packing and the BSGS engine do not call it: they take their exponents
// from pack.GaloisElementsForPacking and bsgs.Dims.GaloisElementsForBSGS.
func GaloisElementForColumnRotation(k, N int) uint64 {
	twoN := uint64(2 * N)
	kk := int64(k) % int64(twoN)
	if kk < 0 {
		kk += int64(twoN)
	}
	return (2*uint64(kk) + 1) % twoN
}
