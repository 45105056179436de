package pir

import (
	"fmt"

	"github.com/nrr-labs/ringpir/bsgs"
	"github.com/nrr-labs/ringpir/pack"
	"github.com/nrr-labs/ringpir/rlwe"
)

// Params is the single configuration record every other pir operation
// takes: the frozen RLWE/RGSW parameter set plus the BSGS dimensioning
// (N1, N2, r) a particular deployment chooses.
type Params struct {
	Set  ParameterSet
	RLWE *rlwe.Parameters
	Dims *bsgs.Dims
}

// NewParams is the single configuration entry point (spec.md §6):
// resolve set to its frozen RLWE parameters, validate (N1, r) against N
// at setup time rather than deferring to Answer, and return the combined
// record every preprocess/encode/answer/decode call is built against.
func NewParams(set ParameterSet, r, N1 int) (*Params, error) {
	build, ok := paramsOnce[set]
	if !ok {
		return nil, &ConfigError{Field: "ParameterSet", Err: fmt.Errorf("unknown parameter set %v", set)}
	}
	rlweParams, err := build()
	if err != nil {
		return nil, err
	}
	dims, err := bsgs.NewDims(rlweParams.N, N1, r)
	if err != nil {
		return nil, &ConfigError{Field: "N1,r", Err: err}
	}
	return &Params{Set: set, RLWE: rlweParams, Dims: dims}, nil
}

// GaloisElementsForBSGS returns the automorphism exponents a
// key-generation caller must produce for the BSGS engine (spec.md §9's
// "external collaborator" key-generation wrapper).
func (p *Params) GaloisElementsForBSGS() []uint64 {
	return p.Dims.GaloisElementsForBSGS()
}

// GaloisElementsForPacking returns the automorphism exponents a
// key-generation caller must produce to pack p.Dims.R ciphertexts into
// one.
func (p *Params) GaloisElementsForPacking() ([]uint64, error) {
	return pack.GaloisElementsForPacking(p.RLWE.N, p.Dims.R)
}
