package rlwe

import (
	"testing"

	"github.com/nrr-labs/ringpir/sampling"
	"github.com/stretchr/testify/require"
)

// smallParams builds a toy parameter set (N=8) small enough to reason about
// by hand: q1=97, q2=113 are both NTT-friendly for N=8 (96=16*6, 112=16*7),
// and p_bs=241 (240=16*15) comfortably exceeds the plaintext modulus.
func smallParams(t *testing.T) *Parameters {
	t.Helper()
	params, err := NewParameters(8, 97, 113, 241, 5, 2, 4)
	require.NoError(t, err)
	return params
}

func smallSource(t *testing.T, seed string) sampling.Source {
	t.Helper()
	src, err := sampling.NewKeyedPRNG([]byte(seed))
	require.NoError(t, err)
	return src
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rlwe-roundtrip")

	sk, err := NewSecretKey(params, source)
	require.NoError(t, err)

	plaintext := []uint64{0, 1, 2, 3, 4, 0, 1, 2}
	enc := NewEncryptor(params, source)
	ct, err := enc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)

	dec := NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, ct)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestEncryptDecryptPBSRoundTrip(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rlwe-pbs-roundtrip")

	sk, err := NewSecretKey(params, source)
	require.NoError(t, err)

	plaintext := []uint64{4, 3, 2, 1, 0, 1, 2, 3}
	enc := NewEncryptor(params, source)
	ct, err := enc.EncryptPBS(sk, plaintext)
	require.NoError(t, err)
	require.Equal(t, params.RPBS.N, len(ct.A.Coeffs))
}

func TestAutomorphismIdentity(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rlwe-automorphism-identity")

	sk, err := NewSecretKey(params, source)
	require.NoError(t, err)

	plaintext := []uint64{0, 1, 2, 3, 4, 0, 1, 2}
	enc := NewEncryptor(params, source)
	ct, err := enc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)

	key, err := GenAutomorphismKey(params, sk, 1, source)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	rotated, err := ev.Automorphism(ct, key)
	require.NoError(t, err)

	dec := NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, rotated)
	require.NoError(t, err)
	require.Equal(t, plaintext, got, "the identity automorphism must leave the plaintext unchanged")
}

func TestAutomorphismMonomialShift(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rlwe-automorphism-shift")

	sk, err := NewSecretKey(params, source)
	require.NoError(t, err)

	// a monomial 2*x at position k=1, shifted by t=3 lands at k*t=3, well
	// short of the ring degree 8, so no negacyclic wraparound sign flip
	// needs to be accounted for in the expected output.
	plaintext := make([]uint64, params.N)
	plaintext[1] = 2

	enc := NewEncryptor(params, source)
	ct, err := enc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)

	key, err := GenAutomorphismKey(params, sk, 3, source)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	rotated, err := ev.Automorphism(ct, key)
	require.NoError(t, err)

	dec := NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, rotated)
	require.NoError(t, err)

	want := make([]uint64, params.N)
	want[3] = 2
	require.Equal(t, want, got)
}

func TestRNSAutomorphismQChannelIsCorrect(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rlwe-rns-automorphism")

	sk, err := NewSecretKey(params, source)
	require.NoError(t, err)

	plaintext := make([]uint64, params.N)
	plaintext[2] = 1

	enc := NewEncryptor(params, source)
	ctQ, err := enc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)
	ctBS, err := enc.EncryptPBS(sk, plaintext)
	require.NoError(t, err)

	key, err := GenAutomorphismKey(params, sk, 3, source)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	outQ, outBS, err := ev.RNSAutomorphism(ctQ, ctBS, key)
	require.NoError(t, err)
	require.NotNil(t, outBS)

	dec := NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, outQ)
	require.NoError(t, err)

	want := make([]uint64, params.N)
	want[6] = 1
	require.Equal(t, want, got)
}
