package rgsw

import (
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
)

// Evaluator runs the RGSW x RLWE external product: given an RGSW
// ciphertext encrypting m' and an RLWE ciphertext encrypting mu, produces
// an RLWE ciphertext encrypting mu*m' (spec.md §4.D).
type Evaluator struct {
	params *rlwe.Parameters
}

// NewEvaluator builds an Evaluator for params.
func NewEvaluator(params *rlwe.Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// ExternalProduct decomposes ct's A part in the RGSW gadget and contracts
// it against c's KeySwitch rows, decomposes ct's B part and contracts it
// against c's Message rows, and subtracts the first contribution from the
// second: the two decrypt to a*m'*s and b*m', so the result decrypts to
// m'*(b - a*s). This is the standard GSW external product
// decrypt(RGSW(m') boxtimes RLWE(mu)) = mu*m' (spec.md §8's External
// product property).
func (ev *Evaluator) ExternalProduct(c *Ciphertext, ct *rlwe.RNSCiphertext) (*rlwe.RNSCiphertext, error) {
	rq := ev.params.RQ
	if ct.A.Q1.Form != ring.Evaluation {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w: ciphertext must be in evaluation form", ring.ErrFormMismatch)
	}

	aCoeff := ct.A.Clone()
	if err := rq.Backward(aCoeff); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}
	bCoeff := ct.B.Clone()
	if err := rq.Backward(bCoeff); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}

	aDigits, err := rlwe.DecomposeToDigits(ev.params, aCoeff)
	if err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}
	bDigits, err := rlwe.DecomposeToDigits(ev.params, bCoeff)
	if err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}
	if err := rlwe.ForwardDigits(rq, aDigits); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}
	if err := rlwe.ForwardDigits(rq, bDigits); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}

	out := rlwe.NewRNSCiphertext(rq, ring.Evaluation)
	if err := rlwe.GadgetDot(rq, aDigits, c.KeySwitch, out); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: key-switch contribution: %w", err)
	}
	msgOut := rlwe.NewRNSCiphertext(rq, ring.Evaluation)
	if err := rlwe.GadgetDot(rq, bDigits, c.Message, msgOut); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: message contribution: %w", err)
	}

	if err := rq.Sub(msgOut.A, out.A, out.A); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}
	if err := rq.Sub(msgOut.B, out.B, out.B); err != nil {
		return nil, fmt.Errorf("rgsw.Evaluator.ExternalProduct: %w", err)
	}
	return out, nil
}
