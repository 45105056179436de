package pack

import (
	"testing"

	"github.com/nrr-labs/ringpir/rlwe"
	"github.com/nrr-labs/ringpir/sampling"
	"github.com/stretchr/testify/require"
)

func smallParams(t *testing.T) *rlwe.Parameters {
	t.Helper()
	params, err := rlwe.NewParameters(8, 97, 113, 241, 5, 2, 4)
	require.NoError(t, err)
	return params
}

func smallSource(t *testing.T, seed string) sampling.Source {
	t.Helper()
	src, err := sampling.NewKeyedPRNG([]byte(seed))
	require.NoError(t, err)
	return src
}

func TestGaloisElementsForPackingDepthZeroIsNotIdentity(t *testing.T) {
	ts, err := GaloisElementsForPacking(8, 2)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	require.NotEqual(t, uint64(1), ts[0], "depth-0 packing exponent must not be the identity automorphism")
	require.Equal(t, uint64(5), ts[0])
}

func TestGaloisElementsForPackingRejectsNonPow2(t *testing.T) {
	_, err := GaloisElementsForPacking(8, 3)
	require.Error(t, err)
}

func TestPackTwoCiphertexts(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "pack-two")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	ts, err := GaloisElementsForPacking(params.N, 2)
	require.NoError(t, err)
	keysByExponent, err := rlwe.GenAutomorphismKeys(params, sk, ts, source)
	require.NoError(t, err)
	key, err := NewKey(params.N, 2, keysByExponent)
	require.NoError(t, err)

	// c0 carries a value at coefficient 0, c1 at coefficient 1; depth 0's
	// automorphism (t=5) moves position 1's monomial to position 5 (1*5=5,
	// still short of N=8, so no sign flip), landing the two inputs' messages
	// in disjoint coefficients of the packed result.
	even := make([]uint64, params.N)
	even[0] = 1
	odd := make([]uint64, params.N)
	odd[1] = 2

	enc := rlwe.NewEncryptor(params, source)
	ctEven, err := enc.EncryptRNS(sk, even)
	require.NoError(t, err)
	ctOdd, err := enc.EncryptRNS(sk, odd)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	packed, err := ev.Pack([]*rlwe.RNSCiphertext{ctEven, ctOdd}, key)
	require.NoError(t, err)

	dec := rlwe.NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, packed)
	require.NoError(t, err)

	want := make([]uint64, params.N)
	want[0] = 1
	want[5] = 2
	require.Equal(t, want, got)
}

// TestPackingKeyCorruption exercises spec.md §8 scenario 3's "changing one
// packing key must corrupt all but one slot": for r=2 there is a single
// depth-0 key, and Pack's even branch never undergoes an automorphism, so
// swapping in a key generated for a different exponent must still leave
// slot 0 (the even input) decoding correctly while slot 1 (the odd input,
// folded in via the substituted automorphism) decodes to the wrong value.
func TestPackingKeyCorruption(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "pack-key-corruption")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	ts, err := GaloisElementsForPacking(params.N, 2)
	require.NoError(t, err)
	keysByExponent, err := rlwe.GenAutomorphismKeys(params, sk, ts, source)
	require.NoError(t, err)
	goodKey, err := NewKey(params.N, 2, keysByExponent)
	require.NoError(t, err)

	even := make([]uint64, params.N)
	even[0] = 1
	odd := make([]uint64, params.N)
	odd[1] = 2

	enc := rlwe.NewEncryptor(params, source)
	ctEven, err := enc.EncryptRNS(sk, even)
	require.NoError(t, err)
	ctOdd, err := enc.EncryptRNS(sk, odd)
	require.NoError(t, err)

	ev := NewEvaluator(params)

	// a different, unrelated automorphism key (exponent 3, not the correct
	// depth-0 exponent 5) substituted for the depth-0 slot: the wrong
	// Galois element gets applied to the odd ciphertext instead of t=5.
	wrongExponentKey, err := rlwe.GenAutomorphismKey(params, sk, 3, source)
	require.NoError(t, err)
	corruptKey := &Key{R: 2, Keys: map[int]*rlwe.AutomorphismKey{0: wrongExponentKey}}

	packedGood, err := ev.Pack([]*rlwe.RNSCiphertext{ctEven, ctOdd}, goodKey)
	require.NoError(t, err)
	packedCorrupt, err := ev.Pack([]*rlwe.RNSCiphertext{ctEven, ctOdd}, corruptKey)
	require.NoError(t, err)

	dec := rlwe.NewDecryptor(params)
	gotGood, err := dec.DecryptRNS(sk, packedGood)
	require.NoError(t, err)
	gotCorrupt, err := dec.DecryptRNS(sk, packedCorrupt)
	require.NoError(t, err)

	require.Equal(t, uint64(1), gotGood[0])
	require.Equal(t, uint64(1), gotCorrupt[0], "the even slot bypasses the automorphism entirely and must survive the key swap")

	require.Equal(t, uint64(2), gotGood[5], "correct key: odd input lands at position 1*5=5")
	require.NotEqual(t, gotGood, gotCorrupt, "the odd slot's contribution must be corrupted by the wrong key")
}

func TestPackRejectsWrongCount(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "pack-wrong-count")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	ts, err := GaloisElementsForPacking(params.N, 2)
	require.NoError(t, err)
	keysByExponent, err := rlwe.GenAutomorphismKeys(params, sk, ts, source)
	require.NoError(t, err)
	key, err := NewKey(params.N, 2, keysByExponent)
	require.NoError(t, err)

	enc := rlwe.NewEncryptor(params, source)
	ct, err := enc.EncryptRNS(sk, make([]uint64, params.N))
	require.NoError(t, err)

	ev := NewEvaluator(params)
	_, err = ev.Pack([]*rlwe.RNSCiphertext{ct}, key)
	require.Error(t, err)
}

func TestNewKeyRejectsMissingExponent(t *testing.T) {
	_, err := NewKey(8, 2, map[uint64]*rlwe.AutomorphismKey{})
	require.Error(t, err)
}
