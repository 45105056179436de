package rgsw

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

func TestExternalProductIdentity(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rgsw-external-product-identity")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	plaintext := []uint64{0, 1, 2, 3, 4, 0, 1, 2}
	rlweEnc := rlwe.NewEncryptor(params, source)
	ct, err := rlweEnc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)

	rgswEnc := NewEncryptor(params, source)
	c, err := rgswEnc.EncryptMonomial(sk, 0)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	out, err := ev.ExternalProduct(c, ct)
	require.NoError(t, err)

	dec := rlwe.NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, out)
	require.NoError(t, err)
	require.Equal(t, plaintext, got, "multiplying by X^0 must leave the plaintext unchanged")
}

func TestExternalProductMonomialShift(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rgsw-external-product-shift")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	// mu = 2*x^3; multiplying by X^-1 gives 2*x^2, with no negacyclic
	// wraparound since the shifted exponent stays non-negative.
	plaintext := make([]uint64, params.N)
	plaintext[3] = 2

	rlweEnc := rlwe.NewEncryptor(params, source)
	ct, err := rlweEnc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)

	rgswEnc := NewEncryptor(params, source)
	c, err := rgswEnc.EncryptMonomial(sk, 1)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	out, err := ev.ExternalProduct(c, ct)
	require.NoError(t, err)

	dec := rlwe.NewDecryptor(params)
	got, err := dec.DecryptRNS(sk, out)
	require.NoError(t, err)

	want := make([]uint64, params.N)
	want[2] = 2
	require.Equal(t, want, got)
}

func TestExternalProductRejectsCoefficientForm(t *testing.T) {
	params := smallParams(t)
	source := smallSource(t, "rgsw-external-product-reject")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	plaintext := make([]uint64, params.N)
	rlweEnc := rlwe.NewEncryptor(params, source)
	ct, err := rlweEnc.EncryptRNS(sk, plaintext)
	require.NoError(t, err)
	require.NoError(t, params.RQ.Backward(ct.A))
	require.NoError(t, params.RQ.Backward(ct.B))

	rgswEnc := NewEncryptor(params, source)
	c, err := rgswEnc.EncryptMonomial(sk, 0)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	_, err = ev.ExternalProduct(c, ct)
	require.Error(t, err)
}
