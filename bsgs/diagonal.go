package bsgs

import (
	"fmt"

	"github.com/nrr-labs/ringpir/internal/pool"
	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
)

// PreprocessDatabase runs the Component C pipeline (spec.md §4.C) over r
// plaintext matrices, each of shape N x (N/2), producing a single CRT
// blob. D[k][row][col] holds the plaintext entry (already a signed or
// unsigned residue mod params.PlaintextModulus; this function lifts it to
// its balanced representative mod Q before scaling).
//
// Steps, matching spec.md §4.C exactly:
//  1. Signed reduction: lift each entry to its balanced representative mod Q.
//  2. Scaling: multiply by Delta (the BSGS scaling factor).
//  3. BSGS-diagonal reorientation: D'[i][j] = D[(j - i) mod N][i] for
//     diagonal i in [0, N/2) — a plain cyclic shift by the diagonal index,
//     the simplest reading of spec.md's "(j - i*step) mod N" with step=1;
//     see DESIGN.md for why step=1 was chosen where the spec leaves it a
//     free parameter.
//  4. NTT: forward-transform each diagonal row under Q.
//  5. RNS split: split each coefficient into its q1/q2 residues.
//  6. CRT-interleaved layout: write into the Blob's (k, i, j, channel) grid.
//
// The r matrices are processed in parallel across diagonals using the
// fixed-degree worker pool (spec.md §5).
func PreprocessDatabase(params *rlwe.Parameters, dims *Dims, D [][][]uint64) (*Blob, error) {
	if len(D) != dims.R {
		return nil, fmt.Errorf("bsgs.PreprocessDatabase: got %d matrices, dims.R=%d", len(D), dims.R)
	}
	half := dims.N / 2
	for k, mat := range D {
		if len(mat) != dims.N {
			return nil, fmt.Errorf("bsgs.PreprocessDatabase: matrix %d has %d rows, want N=%d", k, len(mat), dims.N)
		}
		for row, cols := range mat {
			if len(cols) != half {
				return nil, fmt.Errorf("bsgs.PreprocessDatabase: matrix %d row %d has %d columns, want N/2=%d", k, row, len(cols), half)
			}
		}
	}

	blob := NewBlob(dims)
	rq := params.RQ
	p := params.PlaintextModulus
	delta := params.Delta
	q1, q2 := rq.Q1.Modulus, rq.Q2.Modulus

	wp := pool.New(0)
	var firstErr error
	for k := 0; k < dims.R; k++ {
		mat := D[k]
		kk := k
		wp.RunIndexed(half, func(i int) {
			row := rq.NewRNSPoly(ring.Coefficient)
			for j := 0; j < dims.N; j++ {
				srcRow := ((j - i) % dims.N + dims.N) % dims.N
				entry := mat[srcRow][i] % p
				scaled := entry * delta
				if entry > p/2 {
					// Balanced representative entry-p is negative: scale
					// its magnitude and take it mod Q.
					scaled = q1*q2 - (p-entry)*delta
				}
				row.Q1.Coeffs[j] = scaled % q1
				row.Q2.Coeffs[j] = scaled % q2
			}
			if err := rq.Forward(row); err != nil {
				firstErr = fmt.Errorf("bsgs.PreprocessDatabase: k=%d i=%d: %w", kk, i, err)
				return
			}
			for j := 0; j < dims.N; j++ {
				_ = blob.Set(kk, i, j, 0, row.Q1.Coeffs[j])
				_ = blob.Set(kk, i, j, 1, row.Q2.Coeffs[j])
			}
		})
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return blob, nil
}
