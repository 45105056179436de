package bsgs

import (
	"fmt"

	"github.com/nrr-labs/ringpir/internal/pool"
	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
)

// Engine runs the BSGS matrix-vector kernel (spec.md §4.E) against a
// preprocessed database.
type Engine struct {
	params *rlwe.Parameters
	dims   *Dims
	ev     *rlwe.Evaluator
	pool   *pool.Pool
}

// NewEngine builds an Engine for params/dims, using the default
// fixed-degree worker pool (spec.md §5; pool.Degree() picks 16, capped by
// the detected core count).
func NewEngine(params *rlwe.Parameters, dims *Dims) *Engine {
	return &Engine{params: params, dims: dims, ev: rlwe.NewEvaluator(params), pool: pool.New(0)}
}

// Answer runs the full kernel: baby-step rotations, the dim-1 inner
// product against the database, and giant-step automorphism accumulation,
// emitting one RLWE ciphertext per packed database slot.
func (e *Engine) Answer(query *rlwe.Query, keys *Keys, blob *Blob) ([]*rlwe.RNSCiphertext, error) {
	if err := query.CheckConsistent(); err != nil {
		return nil, fmt.Errorf("bsgs.Engine.Answer: %w", err)
	}
	if blob.Dims.N != e.dims.N || blob.Dims.R != e.dims.R {
		return nil, fmt.Errorf("bsgs.Engine.Answer: blob dims (N=%d,R=%d) do not match engine dims (N=%d,R=%d)", blob.Dims.N, blob.Dims.R, e.dims.N, e.dims.R)
	}

	babySteps, err := e.babyStepRotations(query, keys)
	if err != nil {
		return nil, fmt.Errorf("bsgs.Engine.Answer: %w", err)
	}

	results := make([]*rlwe.RNSCiphertext, e.dims.R)
	var firstErr error
	for k := 0; k < e.dims.R; k++ {
		kk := k
		acc, err := e.innerProduct(babySteps, blob, kk)
		if err != nil {
			firstErr = fmt.Errorf("bsgs.Engine.Answer: k=%d: %w", kk, err)
			break
		}
		result, err := e.giantStepAccumulate(acc, keys)
		if err != nil {
			firstErr = fmt.Errorf("bsgs.Engine.Answer: k=%d: %w", kk, err)
			break
		}
		results[kk] = result
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// babyStepRotations produces the table R of N1 ciphertexts, R[0] the
// query unchanged, R[ib] = Auto_{5^ib}(query) for ib=1..N1-1, each folded
// back to a single Q-resident ciphertext using the RNS (Q, p_bs)
// key-switching path for precision (spec.md §4.E step 1).
func (e *Engine) babyStepRotations(query *rlwe.Query, keys *Keys) ([]*rlwe.RNSCiphertext, error) {
	n1 := e.dims.N1
	table := make([]*rlwe.RNSCiphertext, n1)
	table[0] = query.Q

	twoN := uint64(2 * e.dims.N)
	type job struct {
		ib int
		t  uint64
	}
	jobs := make([]job, 0, n1-1)
	for ib := 1; ib < n1; ib++ {
		jobs = append(jobs, job{ib: ib, t: ring.PowMod(5, uint64(ib), twoN)})
	}

	var firstErr error
	e.pool.RunIndexed(len(jobs), func(idx int) {
		j := jobs[idx]
		key, err := keys.lookup(j.t)
		if err != nil {
			firstErr = err
			return
		}
		rotQ, rotBS, err := e.ev.RNSAutomorphism(query.Q, query.BS, key)
		if err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		rotQCoeff := rotQ.Clone()
		if err := e.params.RQ.Backward(rotQCoeff.A); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		if err := e.params.RQ.Backward(rotQCoeff.B); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		rotBSCoeff := rotBS.Clone()
		if err := e.params.RPBS.Backward(rotBSCoeff.A); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		if err := e.params.RPBS.Backward(rotBSCoeff.B); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		if err := e.ev.FoldBSCorrection(rotQCoeff, rotBSCoeff); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		if err := e.params.RQ.Forward(rotQCoeff.A); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		if err := e.params.RQ.Forward(rotQCoeff.B); err != nil {
			firstErr = fmt.Errorf("baby step %d: %w", j.ib, err)
			return
		}
		table[j.ib] = rotQCoeff
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return table, nil
}

// innerProduct runs the dim-1 hot loop for packed database k: for every
// giant-step index ig, Acc_ig = sum_ib R[ib] * D^(k)[ib + N1*ig],
// multiplication coefficient-wise in NTT form, modular under q1 and q2 in
// parallel (spec.md §4.E step 3).
func (e *Engine) innerProduct(babySteps []*rlwe.RNSCiphertext, blob *Blob, k int) ([]*rlwe.RNSCiphertext, error) {
	n1, n2, N := e.dims.N1, e.dims.N2, e.dims.N
	rq := e.params.RQ
	bred1, bred2 := rq.Q1.BRedConstant, rq.Q2.BRedConstant
	q1, q2 := rq.Q1.Modulus, rq.Q2.Modulus

	acc := make([]*rlwe.RNSCiphertext, n2)
	var firstErr error
	e.pool.RunIndexed(n2, func(ig int) {
		accA := rq.NewRNSPoly(ring.Evaluation)
		accB := rq.NewRNSPoly(ring.Evaluation)
		for ib := 0; ib < n1; ib++ {
			diag := ib + n1*ig
			row, err := blob.Row(k, diag)
			if err != nil {
				firstErr = err
				return
			}
			rct := babySteps[ib]
			for j := 0; j < N; j++ {
				d1 := row[2*j]
				d2 := row[2*j+1]
				accA.Q1.Coeffs[j] = ring.AddMod(accA.Q1.Coeffs[j], ring.BRed(rct.A.Q1.Coeffs[j], d1, q1, bred1), q1)
				accA.Q2.Coeffs[j] = ring.AddMod(accA.Q2.Coeffs[j], ring.BRed(rct.A.Q2.Coeffs[j], d2, q2, bred2), q2)
				accB.Q1.Coeffs[j] = ring.AddMod(accB.Q1.Coeffs[j], ring.BRed(rct.B.Q1.Coeffs[j], d1, q1, bred1), q1)
				accB.Q2.Coeffs[j] = ring.AddMod(accB.Q2.Coeffs[j], ring.BRed(rct.B.Q2.Coeffs[j], d2, q2, bred2), q2)
			}
		}
		acc[ig] = &rlwe.RNSCiphertext{A: accA, B: accB}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return acc, nil
}

// giantStepAccumulate folds the N2 giant-step accumulators into a single
// ciphertext: Result = sum_ig Auto_{5^(N1*ig)}(Acc_ig) (spec.md §4.E step
// 4). This uses the Q-only automorphism rather than RNSAutomorphism's
// p_bs-extended path: by this point each Acc_ig has already summed N1
// plaintext-scaled terms, so its noise margin is governed by the
// matrix-vector product's own bound rather than the tighter per-rotation
// bound the baby-step table needs the auxiliary channel to meet. See
// DESIGN.md.
func (e *Engine) giantStepAccumulate(acc []*rlwe.RNSCiphertext, keys *Keys) (*rlwe.RNSCiphertext, error) {
	n1, n2, N := e.dims.N1, e.dims.N2, e.dims.N
	twoN := uint64(2 * N)
	rq := e.params.RQ

	result := acc[0]
	for ig := 1; ig < n2; ig++ {
		t := ring.PowMod(5, uint64(n1*ig), twoN)
		key, err := keys.lookup(t)
		if err != nil {
			return nil, fmt.Errorf("giant step %d: %w", ig, err)
		}
		rotated, err := e.ev.Automorphism(acc[ig], key)
		if err != nil {
			return nil, fmt.Errorf("giant step %d: %w", ig, err)
		}
		if err := rq.Add(result.A, rotated.A, result.A); err != nil {
			return nil, fmt.Errorf("giant step %d: %w", ig, err)
		}
		if err := rq.Add(result.B, rotated.B, result.B); err != nil {
			return nil, fmt.Errorf("giant step %d: %w", ig, err)
		}
	}
	return result, nil
}

// AnswerNaive implements the N/2-automorphism non-BSGS diagonal
// matrix-vector product, used only to cross-check Answer (spec.md §8
// scenario 6, "BSGS vs. naive") and never on the serving path. It treats
// every diagonal as its own baby step (N1 = N/2, N2 = 1), reusing the same
// inner-product and rotation primitives.
func (e *Engine) AnswerNaive(query *rlwe.Query, keys *Keys, blob *Blob) ([]*rlwe.RNSCiphertext, error) {
	naiveDims, err := NewDims(e.dims.N, e.dims.N/2, e.dims.R)
	if err != nil {
		return nil, fmt.Errorf("bsgs.Engine.AnswerNaive: %w", err)
	}
	naive := NewEngine(e.params, naiveDims)
	return naive.Answer(query, keys, blob)
}
