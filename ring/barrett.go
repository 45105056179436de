package ring

import (
	"math/big"
	"math/bits"
)

// BRedConstant holds the precomputed Barrett reduction constant for a given
// modulus: the two 64-bit words of floor(2^128 / modulus). It is computed
// once, at Ring construction time, never in the hot path.
type BRedConstant [2]uint64

// GetBRedConstant returns the Barrett reduction constant for modulus.
// modulus must fit in 62 bits; the caller is responsible for checking this
// (contract violation otherwise, per the arithmetic kernel's pure-function
// contract).
func GetBRedConstant(modulus uint64) BRedConstant {
	numerator := new(big.Int).Lsh(big.NewInt(1), 128)
	quotient := new(big.Int).Quo(numerator, new(big.Int).SetUint64(modulus))
	lo := new(big.Int).And(quotient, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(quotient, 64)
	return BRedConstant{hi.Uint64(), lo.Uint64()}
}

// BRedAdd reduces x modulo modulus using the Barrett constant. x may be up
// to 2x the modulus (as produced by a single addition); the loop corrects
// for the small imprecision introduced by truncating to the top word of mu.
func BRedAdd(x, modulus uint64, bred BRedConstant) uint64 {
	hi, _ := bits.Mul64(x, bred[0])
	r := x - hi*modulus
	for r >= modulus {
		r -= modulus
	}
	return r
}

// BRed reduces the 64x64->128 bit product x*y modulo modulus using Barrett
// reduction over the 128-bit intermediate. This is the `mul_mod` primitive
// of the arithmetic kernel (64x64->64 via Barrett).
func BRed(x, y, modulus uint64, bred BRedConstant) uint64 {
	hi, lo := bits.Mul64(x, y)
	return reduce128(hi, lo, modulus, bred)
}

// BRed128 reduces an explicit 128-bit dividend (hi, lo) modulo modulus. This
// is `mul_mod_128`, for values wider than a single 64x64 product; nothing
// else in this module calls it (CRT composition in package crt runs over
// math/big).
func BRed128(hi, lo, modulus uint64, bred BRedConstant) uint64 {
	return reduce128(hi, lo, modulus, bred)
}

// reduce128 implements the textbook two-word Barrett reduction of a 128-bit
// value (hi<<64 | lo) modulo modulus, given mu = floor(2^128/modulus) split
// into bred = [muHi, muLo]. The estimated quotient can undershoot by a small
// amount; the trailing loop performs the (at most two or three) corrective
// subtractions this can require.
func reduce128(hi, lo uint64, modulus uint64, bred BRedConstant) uint64 {
	qHi := hi * bred[0]

	t1Hi, t1Lo := bits.Mul64(hi, bred[1])
	t2Hi, t2Lo := bits.Mul64(lo, bred[0])

	_, carry := bits.Add64(t1Lo, t2Lo, 0)
	qHi += t1Hi + t2Hi + carry

	r := lo - qHi*modulus
	for r >= modulus {
		r -= modulus
	}
	return r
}

// PowMod computes base^exp mod modulus via square-and-multiply, using Barrett
// reduction throughout. Used only at parameter-derivation time (root of
// unity search, Delta computation) — never inside the NTT or the BSGS hot
// loop.
func PowMod(base, exp, modulus uint64) uint64 {
	bred := GetBRedConstant(modulus)
	result := uint64(1) % modulus
	base %= modulus
	for exp > 0 {
		if exp&1 == 1 {
			result = BRed(result, base, modulus, bred)
		}
		base = BRed(base, base, modulus, bred)
		exp >>= 1
	}
	return result
}

// AddMod returns (x+y) mod modulus for x, y already reduced into [0, modulus).
func AddMod(x, y, modulus uint64) uint64 {
	z := x + y
	if z >= modulus {
		z -= modulus
	}
	return z
}

// SubMod returns (x-y) mod modulus for x, y already reduced into [0, modulus).
func SubMod(x, y, modulus uint64) uint64 {
	if x >= y {
		return x - y
	}
	return modulus - y + x
}

// MulMod returns (x*y) mod modulus via Barrett reduction. x and y must
// already be reduced into [0, modulus); out-of-range inputs are a contract
// violation and are not checked here (hot path).
func MulMod(x, y, modulus uint64, bred BRedConstant) uint64 {
	return BRed(x, y, modulus, bred)
}
