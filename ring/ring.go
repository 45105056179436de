package ring

import "fmt"

// NTTTable holds the precomputed, bit-reversed roots of unity a Ring needs
// to run the forward and inverse negacyclic NTT over Z_modulus[x]/(x^N+1).
//
// Grounded on github.com/Pro7ech/lattigo's ring.GenNTTTable: a primitive
// 2N-th root of unity psi is found via primitiveRoot(modulus)^((modulus-1)/2N),
// then Forward[i] = psi^(bitReverse(i, logN)) and Backward[i] =
// psi^-(bitReverse(i, logN)), so the butterflies in ntt.go index each level's
// roots as a contiguous run of the table.
type NTTTable struct {
	Psi        uint64 // primitive 2N-th root of unity
	PsiInv     uint64
	NInv       uint64       // N^-1 mod modulus, applied at the end of the inverse transform
	Forward    []uint64     // bit-reversed powers of psi
	Backward   []uint64     // bit-reversed powers of psi^-1
}

// Ring carries everything needed to do modular arithmetic and NTTs over
// Z_modulus[x]/(x^N+1) for one specific (N, modulus) pair. SPEC_FULL.md §4.A:
// one Ring per CRT channel (q1, q2) plus one for the auxiliary p_bs modulus.
type Ring struct {
	N            int
	LogN         int
	Modulus      uint64
	BRedConstant BRedConstant
	NTT          *NTTTable
}

// NewRing derives the Barrett constant and NTT tables for (N, modulus) and
// returns a ready-to-use Ring. N must be a power of two and modulus must be
// prime and admit a primitive 2N-th root of unity (an "NTT-friendly" prime);
// otherwise NewRing returns an error wrapping ErrDegreeNotPow2 or
// ErrNotNTTFriendly rather than panicking, since callers may be deriving
// parameters from user-supplied moduli at startup.
func NewRing(N int, modulus uint64) (*Ring, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrDegreeNotPow2, N)
	}
	if !isPrime(modulus) || (modulus-1)%uint64(2*N) != 0 {
		return nil, fmt.Errorf("%w: modulus=%d N=%d", ErrNotNTTFriendly, modulus, N)
	}

	logN := 0
	for 1<<logN < N {
		logN++
	}

	g := primitiveRoot(modulus)
	psi := PowMod(g, (modulus-1)/uint64(2*N), modulus)
	if PowMod(psi, uint64(N), modulus) != modulus-1 {
		return nil, fmt.Errorf("%w: modulus=%d N=%d", ErrNotNTTFriendly, modulus, N)
	}
	psiInv := PowMod(psi, modulus-2, modulus)
	nInv := PowMod(uint64(N), modulus-2, modulus)

	table := &NTTTable{
		Psi:      psi,
		PsiInv:   psiInv,
		NInv:     nInv,
		Forward:  make([]uint64, N),
		Backward: make([]uint64, N),
	}
	for i := 0; i < N; i++ {
		br := bitReverse(uint64(i), logN)
		table.Forward[i] = PowMod(psi, br, modulus)
		table.Backward[i] = PowMod(psiInv, br, modulus)
	}

	return &Ring{
		N:            N,
		LogN:         logN,
		Modulus:      modulus,
		BRedConstant: GetBRedConstant(modulus),
		NTT:          table,
	}, nil
}

// NewPolynomial allocates a zero polynomial over this ring in the given form.
func (r *Ring) NewPolynomial(form Form) *Polynomial {
	return NewPolynomial(r.N, r.Modulus, form)
}

// bitReverse reverses the low bitLen bits of x.
func bitReverse(x uint64, bitLen int) uint64 {
	var r uint64
	for i := 0; i < bitLen; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}
