package ring

import "math/big"

// factorize returns the distinct prime factors of n via trial division. n is
// always modulus-1 for a modulus that fits comfortably in 30 bits here, so
// trial division is fast enough; this runs only at parameter-derivation
// time, never in any hot path.
func factorize(n uint64) []uint64 {
	factors := make([]uint64, 0, 8)
	m := n
	for p := uint64(2); p*p <= m; p++ {
		if m%p == 0 {
			factors = append(factors, p)
			for m%p == 0 {
				m /= p
			}
		}
	}
	if m > 1 {
		factors = append(factors, m)
	}
	return factors
}

// isPrime is a Miller-Rabin primality test, used only to sanity-check the
// NTT-friendly moduli supplied to NewRing.
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	return new(big.Int).SetUint64(n).ProbablyPrime(32)
}

// primitiveRoot finds a generator of the multiplicative group (Z/modulusZ)*,
// given modulus is prime and the factorization of modulus-1.
func primitiveRoot(modulus uint64) uint64 {
	factors := factorize(modulus - 1)
	for g := uint64(2); g < modulus; g++ {
		isGenerator := true
		for _, f := range factors {
			if PowMod(g, (modulus-1)/f, modulus) == 1 {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return g
		}
	}
	panic("ring: no primitive root found; modulus is not prime")
}

// Default N=4096 moduli, carried over from the reference implementation's
// parameter set: crtq1 and crtq2 are the two NTT-friendly primes composing
// Q = crtq1*crtq2 for the main RLWE/RGSW ciphertext channel, and BSModulus
// is the small auxiliary modulus used for the baby-step/giant-step
// key-switch target (spec.md §3's p_bs). All three admit a primitive
// 2*4096-th root of unity. Every other derived constant (Delta, gadget
// base/depth, Barrett constants) is recomputed at startup from these three
// primes rather than carried as an opaque literal.
const (
	DefaultN         = 4096
	DefaultQ1        = 268369921 // 2^28 - 2^16 + 1
	DefaultQ2        = 249561089 // 2^28 - 2^24 - 2^21 + 1
	DefaultBSModulus = 16760833  // 2^24 - 2^14 + 1
)
