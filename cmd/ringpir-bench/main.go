// ringpir-bench wires sampling, pir and internal/xlog together to run an
// end-to-end query against a synthetic database and report timing and
// response size, in the spirit of gulliverpir-main's pir package timing
// helpers (printTime/printRate/calculateCommunicationSize).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/nrr-labs/ringpir/internal/xlog"
	"github.com/nrr-labs/ringpir/pir"
	"github.com/nrr-labs/ringpir/sampling"
)

func main() {
	var (
		setName = flag.String("set", "N4096", "parameter set: N256, N2048 or N4096")
		r       = flag.Int("r", 1, "packing factor")
		n1      = flag.Int("n1", 64, "BSGS baby-step dimension")
		idx     = flag.Int("idx", 0, "row index to query")
		col     = flag.Int("col", 0, "packing-row selector for the RGSW query")
		seed    = flag.String("seed", "ringpir-bench", "PRNG seed for reproducible runs")
	)
	flag.Parse()

	logger := xlog.New(slog.LevelInfo)
	ctx := xlog.NewContext(context.Background(), logger)

	set, err := parseSet(*setName)
	if err != nil {
		logger.Error("invalid parameter set", "err", err)
		os.Exit(1)
	}

	if err := run(ctx, logger, set, *r, *n1, *idx, *col, *seed); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func parseSet(name string) (pir.ParameterSet, error) {
	switch name {
	case "N256":
		return pir.N256, nil
	case "N2048":
		return pir.N2048, nil
	case "N4096":
		return pir.N4096, nil
	default:
		return 0, fmt.Errorf("unknown parameter set %q", name)
	}
}

func run(ctx context.Context, logger *xlog.Logger, set pir.ParameterSet, r, n1, idx, col int, seed string) error {
	params, err := pir.NewParams(set, r, n1)
	if err != nil {
		return fmt.Errorf("NewParams: %w", err)
	}
	logger.Info("parameters derived", "set", set.String(), "N", params.RLWE.N, "N1", n1, "r", r)

	source, err := sampling.NewKeyedPRNG([]byte(seed))
	if err != nil {
		return fmt.Errorf("NewKeyedPRNG: %w", err)
	}

	start := time.Now()
	sk, keys, err := pir.GenerateKeys(params, source)
	if err != nil {
		return fmt.Errorf("GenerateKeys: %w", err)
	}
	logger.Info("key generation complete", "elapsed", time.Since(start))

	db := syntheticDatabase(params, source)
	start = time.Now()
	blob, err := pir.PreprocessDatabase(params, db)
	if err != nil {
		return fmt.Errorf("PreprocessDatabase: %w", err)
	}
	logger.Info("database preprocessed", "elapsed", time.Since(start))

	start = time.Now()
	query, err := pir.EncodeQuery(params, sk, source, idx)
	if err != nil {
		return fmt.Errorf("EncodeQuery: %w", err)
	}
	logger.Info("query encoded", "elapsed", time.Since(start), "index", idx)

	rgswQuery, err := pir.EncodeRGSWQuery(params, sk, source, col)
	if err != nil {
		return fmt.Errorf("EncodeRGSWQuery: %w", err)
	}

	start = time.Now()
	response, err := pir.Answer(ctx, params, query, rgswQuery, keys, blob)
	if err != nil {
		return fmt.Errorf("Answer: %w", err)
	}
	elapsed := time.Since(start)
	logger.Info("answer computed", "elapsed", elapsed)

	wire := pir.MarshalCiphertext(response)
	logger.Info("response size", "kb", float64(len(wire))/1024.0)

	out, err := pir.DecodeResponse(params, sk, response)
	if err != nil {
		return fmt.Errorf("DecodeResponse: %w", err)
	}
	logger.Info("decoded", "value_at_index", out[idx])

	rateMBps := float64(params.RLWE.N) * math.Log2(float64(params.RLWE.PlaintextModulus)) /
		(8 * 1024 * 1024 * elapsed.Seconds())
	logger.Info("throughput", "mb_per_s", rateMBps)
	return nil
}

// syntheticDatabase builds an r x N x N/2 plaintext matrix of small
// pseudo-random values, deterministic under source, standing in for a
// real database in this demo.
func syntheticDatabase(params *pir.Params, source sampling.Source) [][][]uint64 {
	N := params.RLWE.N
	half := N / 2
	db := make([][][]uint64, params.Dims.R)
	buf := make([]byte, 8)
	for k := range db {
		mat := make([][]uint64, N)
		for row := range mat {
			mat[row] = make([]uint64, half)
			for col := range mat[row] {
				source.Read(buf)
				v := uint64(0)
				for _, b := range buf {
					v = v<<8 | uint64(b)
				}
				mat[row][col] = v % params.RLWE.PlaintextModulus
			}
		}
		db[k] = mat
	}
	return db
}
