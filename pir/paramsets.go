package pir

import (
	"fmt"
	"sync"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rlwe"
)

// ParameterSet enumerates the frozen configurations this module ships
// (spec.md §6 "Configuration"): N256 for fast tests, N2048 for a
// realistic small database, N4096 matching the reference implementation's
// own parameter choice. All three share the same (q1, q2, p_bs) triple —
// 268369921, 249561089 and 16760833 each admit a primitive 2N-th root of
// unity for every N in this range, and all three use plaintext modulus 256,
// so the only thing that varies per set is N itself.
type ParameterSet int

const (
	N256 ParameterSet = iota
	N2048
	N4096
)

func (s ParameterSet) String() string {
	switch s {
	case N256:
		return "N256"
	case N2048:
		return "N2048"
	case N4096:
		return "N4096"
	default:
		return fmt.Sprintf("ParameterSet(%d)", int(s))
	}
}

type frozenConstants struct {
	N                int
	Q1, Q2, PBS      uint64
	PlaintextModulus uint64
}

var constantsFor = map[ParameterSet]frozenConstants{
	N256:  {N: 256, Q1: ring.DefaultQ1, Q2: ring.DefaultQ2, PBS: ring.DefaultBSModulus, PlaintextModulus: 256},
	N2048: {N: 2048, Q1: ring.DefaultQ1, Q2: ring.DefaultQ2, PBS: ring.DefaultBSModulus, PlaintextModulus: 256},
	N4096: {N: ring.DefaultN, Q1: ring.DefaultQ1, Q2: ring.DefaultQ2, PBS: ring.DefaultBSModulus, PlaintextModulus: 256},
}

// paramsOnce lazily derives and caches the rlwe.Parameters for each
// ParameterSet exactly once (spec.md §9's "computed once at startup, not
// hard-coded"), built from the frozen constants table above rather than
// from a precomputed table of Barrett constants and NTT roots.
var paramsOnce = buildParamsOnce()

func buildParamsOnce() map[ParameterSet]func() (*rlwe.Parameters, error) {
	m := make(map[ParameterSet]func() (*rlwe.Parameters, error), len(constantsFor))
	for set, fc := range constantsFor {
		fc := fc
		m[set] = sync.OnceValues(func() (*rlwe.Parameters, error) {
			p, err := rlwe.NewParameters(fc.N, fc.Q1, fc.Q2, fc.PBS, fc.PlaintextModulus, 0, 0)
			if err != nil {
				return nil, &ConfigError{Field: "ParameterSet", Err: err}
			}
			return p, nil
		})
	}
	return m
}
