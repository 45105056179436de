package pir

import (
	"context"
	"fmt"
	"time"

	"github.com/nrr-labs/ringpir/bsgs"
	"github.com/nrr-labs/ringpir/internal/xlog"
	"github.com/nrr-labs/ringpir/pack"
	"github.com/nrr-labs/ringpir/rgsw"
	"github.com/nrr-labs/ringpir/rlwe"
	"github.com/nrr-labs/ringpir/sampling"
)

// PreprocessDatabase runs the Component C pipeline over an r-packed
// plaintext database (spec.md §4.C), producing the CRT blob the BSGS
// engine streams at answer time. db must have shape r x N x N/2.
func PreprocessDatabase(params *Params, db [][][]uint64) (*bsgs.Blob, error) {
	blob, err := bsgs.PreprocessDatabase(params.RLWE, params.Dims, db)
	if err != nil {
		return nil, fmt.Errorf("pir.PreprocessDatabase: %w", err)
	}
	return blob, nil
}

// EncodeQuery builds the client's one-hot row-selector query for index
// idx (spec.md §6's encode_query): a plaintext vector with a single
// nonzero coefficient at position idx, encrypted in both the Q and p_bs
// channels under sk so the BSGS engine can run its RNS key-switching path.
func EncodeQuery(params *Params, sk *rlwe.SecretKey, source sampling.Source, idx int) (*rlwe.Query, error) {
	if idx < 0 || idx >= params.RLWE.N {
		return nil, &ConfigError{Field: "idx", Err: fmt.Errorf("index %d out of range [0, %d)", idx, params.RLWE.N)}
	}
	plaintext := make([]uint64, params.RLWE.N)
	plaintext[idx] = 1

	enc := rlwe.NewEncryptor(params.RLWE, source)
	ctQ, err := enc.EncryptRNS(sk, plaintext)
	if err != nil {
		return nil, fmt.Errorf("pir.EncodeQuery: %w", err)
	}
	ctBS, err := enc.EncryptPBS(sk, plaintext)
	if err != nil {
		return nil, fmt.Errorf("pir.EncodeQuery: %w", err)
	}
	return &rlwe.Query{Q: ctQ, BS: ctBS}, nil
}

// EncodeRGSWQuery builds an RGSW encryption of the column selector X^{-w}
// (spec.md §6's encode_rgsw_query), the monomial-selection query format
// rgsw.Evaluator.ExternalProduct consumes directly instead of the BSGS
// baby-step/giant-step RLWE path.
func EncodeRGSWQuery(params *Params, sk *rlwe.SecretKey, source sampling.Source, w int) (*rgsw.Ciphertext, error) {
	enc := rgsw.NewEncryptor(params.RLWE, source)
	ct, err := enc.EncryptMonomial(sk, w)
	if err != nil {
		return nil, fmt.Errorf("pir.EncodeRGSWQuery: %w", err)
	}
	return ct, nil
}

// Answer runs the BSGS matrix-vector engine against query and blob,
// applies the external product with rgswQuery to each of the resulting r
// ciphertexts, then packs them into one using keys.Packing (spec.md §6 op
// 3: "runs §4.E then §4.D external product and packing"; §2's data flow:
// "D applies the external product with the RGSW query to each [BSGS
// output]; D packs the resulting ciphertexts into one RLWE response").
// Skips packing entirely when r == 1. Logs per-stage timings through the
// *xlog.Logger attached to ctx (xlog.FromContext; defaults to a discard
// logger when ctx carries none), the way cmd/ringpir-bench logs around its
// own call to Answer, but from inside the library call itself rather than
// only the CLI wrapper.
func Answer(ctx context.Context, params *Params, query *rlwe.Query, rgswQuery *rgsw.Ciphertext, keys *KeyBundle, blob *bsgs.Blob) (*rlwe.RNSCiphertext, error) {
	log := xlog.FromContext(ctx)

	start := time.Now()
	engine := bsgs.NewEngine(params.RLWE, params.Dims)
	results, err := engine.Answer(query, keys.BSGS, blob)
	if err != nil {
		return nil, fmt.Errorf("pir.Answer: %w", err)
	}
	log.Info("bsgs answer complete", "elapsed", time.Since(start), "r", len(results))

	start = time.Now()
	ev := rgsw.NewEvaluator(params.RLWE)
	selected := make([]*rlwe.RNSCiphertext, len(results))
	for k, ct := range results {
		out, err := ev.ExternalProduct(rgswQuery, ct)
		if err != nil {
			return nil, fmt.Errorf("pir.Answer: external product k=%d: %w", k, err)
		}
		selected[k] = out
	}
	log.Info("external product complete", "elapsed", time.Since(start), "count", len(selected))

	if params.Dims.R == 1 {
		return selected[0], nil
	}

	start = time.Now()
	packer := pack.NewEvaluator(params.RLWE)
	packed, err := packer.Pack(selected, keys.Packing)
	if err != nil {
		return nil, fmt.Errorf("pir.Answer: %w", err)
	}
	log.Info("packing complete", "elapsed", time.Since(start), "response_bytes", len(MarshalCiphertext(packed)))
	return packed, nil
}

// DecodeResponse decrypts and rounds a response ciphertext under sk
// (spec.md §6's decode_response). Per spec.md §7, a garbage or truncated
// ciphertext produces garbage output, not an error: validating that the
// recovered values are sane is the caller's responsibility.
func DecodeResponse(params *Params, sk *rlwe.SecretKey, ct *rlwe.RNSCiphertext) ([]uint64, error) {
	dec := rlwe.NewDecryptor(params.RLWE)
	out, err := dec.DecryptRNS(sk, ct)
	if err != nil {
		return nil, fmt.Errorf("pir.DecodeResponse: %w", err)
	}
	return out, nil
}
