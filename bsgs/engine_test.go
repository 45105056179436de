package bsgs

import (
	"testing"

	"github.com/nrr-labs/ringpir/rlwe"
	"github.com/nrr-labs/ringpir/sampling"
	"github.com/stretchr/testify/require"
)

// smallEngineParams builds a toy parameter set (N=16) small enough to run
// both the BSGS and naive (N1=N/2) decompositions side by side: q1=97,
// q2=193 and p_bs=257 are all NTT-friendly for N=16 (96, 192 and 256 are
// each divisible by 32).
func smallEngineParams(t *testing.T) *rlwe.Parameters {
	t.Helper()
	params, err := rlwe.NewParameters(16, 97, 193, 257, 5, 2, 4)
	require.NoError(t, err)
	return params
}

func smallEngineSource(t *testing.T, seed string) sampling.Source {
	t.Helper()
	src, err := sampling.NewKeyedPRNG([]byte(seed))
	require.NoError(t, err)
	return src
}

func TestBSGSVsNaive(t *testing.T) {
	params := smallEngineParams(t)
	source := smallEngineSource(t, "bsgs-vs-naive")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	bsgsDims, err := NewDims(params.N, 4, 1)
	require.NoError(t, err)
	naiveDims, err := NewDims(params.N, params.N/2, 1)
	require.NoError(t, err)

	ts := append(bsgsDims.GaloisElementsForBSGS(), naiveDims.GaloisElementsForBSGS()...)
	byExponent, err := rlwe.GenAutomorphismKeys(params, sk, ts, source)
	require.NoError(t, err)
	keys := NewKeys(byExponent)

	half := params.N / 2
	db := make([][][]uint64, 1)
	db[0] = make([][]uint64, params.N)
	for row := 0; row < params.N; row++ {
		db[0][row] = make([]uint64, half)
		for col := 0; col < half; col++ {
			db[0][row][col] = uint64(row*3+col*7) % params.PlaintextModulus
		}
	}
	blob, err := PreprocessDatabase(params, bsgsDims, db)
	require.NoError(t, err)

	queryPlaintext := make([]uint64, params.N)
	queryPlaintext[3] = 1

	enc := rlwe.NewEncryptor(params, source)
	ctQ, err := enc.EncryptRNS(sk, queryPlaintext)
	require.NoError(t, err)
	ctBS, err := enc.EncryptPBS(sk, queryPlaintext)
	require.NoError(t, err)
	query := &rlwe.Query{Q: ctQ, BS: ctBS}

	bsgsEngine := NewEngine(params, bsgsDims)
	bsgsResult, err := bsgsEngine.Answer(query, keys, blob)
	require.NoError(t, err)
	require.Len(t, bsgsResult, 1)

	naiveResult, err := bsgsEngine.AnswerNaive(query, keys, blob)
	require.NoError(t, err)
	require.Len(t, naiveResult, 1)

	dec := rlwe.NewDecryptor(params)
	gotBSGS, err := dec.DecryptRNS(sk, bsgsResult[0])
	require.NoError(t, err)
	gotNaive, err := dec.DecryptRNS(sk, naiveResult[0])
	require.NoError(t, err)

	require.Equal(t, gotNaive, gotBSGS, "BSGS and naive diagonal evaluation must agree on the same query and database")
}

func TestAnswerRejectsMismatchedBlobDims(t *testing.T) {
	params := smallEngineParams(t)
	source := smallEngineSource(t, "bsgs-mismatched-dims")

	sk, err := rlwe.NewSecretKey(params, source)
	require.NoError(t, err)

	dims, err := NewDims(params.N, 4, 1)
	require.NoError(t, err)
	otherDims, err := NewDims(params.N, 4, 2)
	require.NoError(t, err)

	half := params.N / 2
	db := make([][][]uint64, 2)
	for k := range db {
		db[k] = make([][]uint64, params.N)
		for row := range db[k] {
			db[k][row] = make([]uint64, half)
		}
	}
	blob, err := PreprocessDatabase(params, otherDims, db)
	require.NoError(t, err)

	queryPlaintext := make([]uint64, params.N)
	enc := rlwe.NewEncryptor(params, source)
	ctQ, err := enc.EncryptRNS(sk, queryPlaintext)
	require.NoError(t, err)
	ctBS, err := enc.EncryptPBS(sk, queryPlaintext)
	require.NoError(t, err)
	query := &rlwe.Query{Q: ctQ, BS: ctBS}

	engine := NewEngine(params, dims)
	_, err = engine.Answer(query, NewKeys(nil), blob)
	require.Error(t, err)
}
