package rlwe

import (
	"fmt"

	"github.com/nrr-labs/ringpir/sampling"
)

// GenAutomorphismKeys builds one AutomorphismKey per distinct exponent in
// ts, keyed by exponent. Callers (bsgs.GaloisElementsForBSGS,
// pack.GaloisElementsForPacking) compute the exact exponent set a given
// algorithm needs; this just runs key generation over that set, grounded
// on the teacher's keygenerator.go "GenRotationKeys over a GaloisElements
// slice" pattern.
func GenAutomorphismKeys(params *Parameters, sk *SecretKey, ts []uint64, source sampling.Source) (map[uint64]*AutomorphismKey, error) {
	out := make(map[uint64]*AutomorphismKey, len(ts))
	for _, t := range ts {
		if _, ok := out[t]; ok {
			continue
		}
		key, err := GenAutomorphismKey(params, sk, t, source)
		if err != nil {
			return nil, fmt.Errorf("rlwe.GenAutomorphismKeys: exponent %d: %w", t, err)
		}
		out[t] = key
	}
	return out, nil
}
