package pir

import (
	"context"
	"testing"

	"github.com/nrr-labs/ringpir/bsgs"
	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rgsw"
	"github.com/nrr-labs/ringpir/rlwe"
	"github.com/nrr-labs/ringpir/sampling"
	"github.com/stretchr/testify/require"
)

// smallPirParams builds a toy Params directly (bypassing the fixed N256/
// N2048/N4096 catalog in paramsets.go) so end-to-end tests run against a
// ring small enough to construct and reason about by hand: N=16, with
// q1=97, q2=193, p_bs=257 all NTT-friendly for N=16.
func smallPirParams(t *testing.T, r, N1 int) *Params {
	t.Helper()
	rlweParams, err := rlwe.NewParameters(16, 97, 193, 257, 5, 2, 4)
	require.NoError(t, err)
	dims, err := bsgs.NewDims(rlweParams.N, N1, r)
	require.NoError(t, err)
	return &Params{Set: N256, RLWE: rlweParams, Dims: dims}
}

func pirSource(t *testing.T, seed string) sampling.Source {
	t.Helper()
	src, err := sampling.NewKeyedPRNG([]byte(seed))
	require.NoError(t, err)
	return src
}

func smallDatabase(params *Params) [][][]uint64 {
	half := params.RLWE.N / 2
	db := make([][][]uint64, params.Dims.R)
	for k := range db {
		db[k] = make([][]uint64, params.RLWE.N)
		for row := range db[k] {
			db[k][row] = make([]uint64, half)
			for col := range db[k][row] {
				db[k][row][col] = uint64(k*5+row*3+col*7) % params.RLWE.PlaintextModulus
			}
		}
	}
	return db
}

// plantedEntry places a single nonzero value at (matrix, row, col), zero
// everywhere else, in an r x N x N/2 database — the spec.md §8 scenario 1
// style of database used to pin down an exact expected decoded value.
type plantedEntry struct {
	Matrix, Row, Col int
	Val              uint64
}

func plantedDatabase(params *Params, entries ...plantedEntry) [][][]uint64 {
	half := params.RLWE.N / 2
	db := make([][][]uint64, params.Dims.R)
	for k := range db {
		db[k] = make([][]uint64, params.RLWE.N)
		for row := range db[k] {
			db[k][row] = make([]uint64, half)
		}
	}
	for _, e := range entries {
		db[e.Matrix][e.Row][e.Col] = e.Val
	}
	return db
}

// TestEndToEndTiny exercises spec.md §8's End-to-end PIR property
// (decode(answer(encode(row,col),DB)) == DB[row][col] mod p) on a planted
// single-entry database (r=1, so Answer skips packing entirely). Only
// column 0 of the database is populated, so only diagonal 0 of the BSGS
// engine contributes; with idx=0 the query leaves that diagonal
// unrotated, so the BSGS engine's output is exactly D[0][0][0] at
// coefficient 0 and zero everywhere else. The RGSW query uses column
// selector w=0, the identity monomial, so the external product leaves the
// BSGS output unchanged (TestExternalProductIdentity covers that
// separately).
func TestEndToEndTiny(t *testing.T) {
	params := smallPirParams(t, 1, 4)
	source := pirSource(t, "pir-end-to-end-tiny")

	sk, keys, err := GenerateKeys(params, source)
	require.NoError(t, err)

	db := plantedDatabase(params, plantedEntry{Matrix: 0, Row: 0, Col: 0, Val: 3})
	blob, err := PreprocessDatabase(params, db)
	require.NoError(t, err)

	query, err := EncodeQuery(params, sk, source, 0)
	require.NoError(t, err)
	rgswQuery, err := EncodeRGSWQuery(params, sk, source, 0)
	require.NoError(t, err)

	resp, err := Answer(context.Background(), params, query, rgswQuery, keys, blob)
	require.NoError(t, err)

	got, err := DecodeResponse(params, sk, resp)
	require.NoError(t, err)

	want := make([]uint64, params.RLWE.N)
	want[0] = 3
	require.Equal(t, want, got)
}

// TestEndToEndWithPacking extends TestEndToEndTiny to r=2 so the Pack step
// runs. Matrix 0 plants its value at row 0 (landing, via the same
// zero-rotation argument, at coefficient 0 of the first BSGS output);
// matrix 1 plants its value at row 1 (landing at coefficient 1 of the
// second BSGS output). Packing's depth-0 automorphism (t=N/2+1=9 for
// N=16) leaves the even (matrix 0) ciphertext untouched and rotates the
// odd (matrix 1) ciphertext's coefficient 1 to coefficient 1*9=9 (no
// negacyclic wraparound since 9<16), so the two planted values land at
// disjoint, independently recoverable positions in the packed result.
func TestEndToEndWithPacking(t *testing.T) {
	params := smallPirParams(t, 2, 4)
	source := pirSource(t, "pir-end-to-end-packing")

	sk, keys, err := GenerateKeys(params, source)
	require.NoError(t, err)

	db := plantedDatabase(params,
		plantedEntry{Matrix: 0, Row: 0, Col: 0, Val: 3},
		plantedEntry{Matrix: 1, Row: 1, Col: 0, Val: 2},
	)
	blob, err := PreprocessDatabase(params, db)
	require.NoError(t, err)

	query, err := EncodeQuery(params, sk, source, 0)
	require.NoError(t, err)
	rgswQuery, err := EncodeRGSWQuery(params, sk, source, 0)
	require.NoError(t, err)

	resp, err := Answer(context.Background(), params, query, rgswQuery, keys, blob)
	require.NoError(t, err)

	got, err := DecodeResponse(params, sk, resp)
	require.NoError(t, err)

	want := make([]uint64, params.RLWE.N)
	want[0] = 3
	want[9] = 2
	require.Equal(t, want, got)
}

func TestCiphertextWireRoundTrip(t *testing.T) {
	params := smallPirParams(t, 1, 4)
	source := pirSource(t, "pir-wire-roundtrip")

	sk, keys, err := GenerateKeys(params, source)
	require.NoError(t, err)
	blob, err := PreprocessDatabase(params, smallDatabase(params))
	require.NoError(t, err)
	query, err := EncodeQuery(params, sk, source, 0)
	require.NoError(t, err)
	rgswQuery, err := EncodeRGSWQuery(params, sk, source, 0)
	require.NoError(t, err)
	resp, err := Answer(context.Background(), params, query, rgswQuery, keys, blob)
	require.NoError(t, err)

	wantBefore, err := DecodeResponse(params, sk, resp)
	require.NoError(t, err)

	data := MarshalCiphertext(resp)
	restored, err := UnmarshalCiphertext(params.RLWE.RQ, ring.Evaluation, data)
	require.NoError(t, err)

	gotAfter, err := DecodeResponse(params, sk, restored)
	require.NoError(t, err)
	require.Equal(t, wantBefore, gotAfter)
}

func TestUnmarshalCiphertextRejectsWrongLength(t *testing.T) {
	params := smallPirParams(t, 1, 4)
	_, err := UnmarshalCiphertext(params.RLWE.RQ, ring.Evaluation, []byte{1, 2, 3})
	require.Error(t, err)
}

func TestRGSWWireRoundTrip(t *testing.T) {
	params := smallPirParams(t, 1, 4)
	source := pirSource(t, "pir-rgsw-wire-roundtrip")

	sk, err := rlwe.NewSecretKey(params.RLWE, source)
	require.NoError(t, err)
	ct, err := EncodeRGSWQuery(params, sk, source, 3)
	require.NoError(t, err)

	data := MarshalRGSW(ct)
	restored, err := UnmarshalRGSW(params.RLWE.RQ, params.RLWE.GadgetDepth, data)
	require.NoError(t, err)

	require.Equal(t, MarshalRGSW(ct), MarshalRGSW(restored))
	require.IsType(t, &rgsw.Ciphertext{}, restored)
}

func TestEncodeQueryRejectsOutOfRangeIndex(t *testing.T) {
	params := smallPirParams(t, 1, 4)
	source := pirSource(t, "pir-encode-out-of-range")

	sk, err := rlwe.NewSecretKey(params.RLWE, source)
	require.NoError(t, err)

	_, err = EncodeQuery(params, sk, source, params.RLWE.N)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewParamsRejectsNonPowerOfTwoR(t *testing.T) {
	_, err := NewParams(N256, 3, 16)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewParamsRejectsIncompatibleN1(t *testing.T) {
	_, err := NewParams(N256, 1, 3)
	require.Error(t, err)
}

func TestGaloisElementsCoverBothBSGSAndPacking(t *testing.T) {
	params := smallPirParams(t, 2, 4)
	bsgsTs := params.GaloisElementsForBSGS()
	packTs, err := params.GaloisElementsForPacking()
	require.NoError(t, err)
	require.NotEmpty(t, bsgsTs)
	require.NotEmpty(t, packTs)
}
