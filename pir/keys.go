package pir

import (
	"fmt"

	"github.com/nrr-labs/ringpir/bsgs"
	"github.com/nrr-labs/ringpir/pack"
	"github.com/nrr-labs/ringpir/rlwe"
	"github.com/nrr-labs/ringpir/sampling"
)

// KeyBundle holds every piece of key material a server-side Answer call
// needs beyond the frozen Params: the BSGS baby-step/giant-step
// automorphism keys and the packing key, both derived from one secret.
type KeyBundle struct {
	BSGS    *bsgs.Keys
	Packing *pack.Key
}

// GenerateKeys draws a fresh secret from source and derives every
// automorphism key this parameter set's BSGS engine and packing evaluator
// need. The secret is kept client-side; the returned bundle is what gets
// shipped to the server.
func GenerateKeys(params *Params, source sampling.Source) (*rlwe.SecretKey, *KeyBundle, error) {
	sk, err := rlwe.NewSecretKey(params.RLWE, source)
	if err != nil {
		return nil, nil, fmt.Errorf("pir.GenerateKeys: %w", err)
	}

	bsgsExponents := params.Dims.GaloisElementsForBSGS()
	packExponents, err := pack.GaloisElementsForPacking(params.RLWE.N, params.Dims.R)
	if err != nil {
		return nil, nil, fmt.Errorf("pir.GenerateKeys: %w", err)
	}

	all := append(append([]uint64{}, bsgsExponents...), packExponents...)
	byExponent, err := rlwe.GenAutomorphismKeys(params.RLWE, sk, all, source)
	if err != nil {
		return nil, nil, fmt.Errorf("pir.GenerateKeys: %w", err)
	}

	packKey, err := pack.NewKey(params.RLWE.N, params.Dims.R, byExponent)
	if err != nil {
		return nil, nil, fmt.Errorf("pir.GenerateKeys: %w", err)
	}

	return sk, &KeyBundle{BSGS: bsgs.NewKeys(byExponent), Packing: packKey}, nil
}
