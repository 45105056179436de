package pir

import (
	"encoding/binary"
	"fmt"

	"github.com/nrr-labs/ringpir/ring"
	"github.com/nrr-labs/ringpir/rgsw"
	"github.com/nrr-labs/ringpir/rlwe"
)

// MarshalCiphertext serializes an RNSCiphertext as four little-endian
// uint64 arrays in sequence: A.Q1, A.Q2, B.Q1, B.Q2 (spec.md §6's
// "ciphertext byte layout: a then b, each little-endian u64[N]", extended
// here to carry both CRT channels since every at-rest ciphertext in this
// module is RNS-resident).
func MarshalCiphertext(ct *rlwe.RNSCiphertext) []byte {
	n := ct.A.Q1.N
	buf := make([]byte, 4*n*8)
	writePoly(buf[0*n*8:], ct.A.Q1.Coeffs)
	writePoly(buf[1*n*8:], ct.A.Q2.Coeffs)
	writePoly(buf[2*n*8:], ct.B.Q1.Coeffs)
	writePoly(buf[3*n*8:], ct.B.Q2.Coeffs)
	return buf
}

// UnmarshalCiphertext parses the layout MarshalCiphertext writes. rq
// supplies N and the two channel moduli; form tags the result (callers
// marshal ciphertexts only in evaluation form, but a test exercising the
// wire format directly may want coefficient form).
func UnmarshalCiphertext(rq *ring.RNSRing, form ring.Form, data []byte) (*rlwe.RNSCiphertext, error) {
	n := rq.Q1.N
	want := 4 * n * 8
	if len(data) != want {
		return nil, fmt.Errorf("pir.UnmarshalCiphertext: got %d bytes, want %d", len(data), want)
	}
	ct := rlwe.NewRNSCiphertext(rq, form)
	readPoly(data[0*n*8:], ct.A.Q1.Coeffs)
	readPoly(data[1*n*8:], ct.A.Q2.Coeffs)
	readPoly(data[2*n*8:], ct.B.Q1.Coeffs)
	readPoly(data[3*n*8:], ct.B.Q2.Coeffs)
	return ct, nil
}

// MarshalRGSW serializes an RGSW ciphertext as 2*ell RLWE ciphertexts in
// lexicographic order: KeySwitch rows 0..ell-1, then Message rows
// 0..ell-1 (spec.md §6).
func MarshalRGSW(c *rgsw.Ciphertext) []byte {
	var out []byte
	for _, row := range c.KeySwitch.Rows {
		out = append(out, MarshalCiphertext(row)...)
	}
	for _, row := range c.Message.Rows {
		out = append(out, MarshalCiphertext(row)...)
	}
	return out
}

// UnmarshalRGSW parses the layout MarshalRGSW writes. ell must match the
// parameter set's gadget depth.
func UnmarshalRGSW(rq *ring.RNSRing, ell int, data []byte) (*rgsw.Ciphertext, error) {
	perCt := 4 * rq.Q1.N * 8
	want := 2 * ell * perCt
	if len(data) != want {
		return nil, fmt.Errorf("pir.UnmarshalRGSW: got %d bytes, want %d", len(data), want)
	}
	c := &rgsw.Ciphertext{
		KeySwitch: &rlwe.GadgetCiphertext{Rows: make([]*rlwe.RNSCiphertext, ell)},
		Message:   &rlwe.GadgetCiphertext{Rows: make([]*rlwe.RNSCiphertext, ell)},
	}
	off := 0
	for i := 0; i < ell; i++ {
		ct, err := UnmarshalCiphertext(rq, ring.Evaluation, data[off:off+perCt])
		if err != nil {
			return nil, fmt.Errorf("pir.UnmarshalRGSW: key-switch row %d: %w", i, err)
		}
		c.KeySwitch.Rows[i] = ct
		off += perCt
	}
	for i := 0; i < ell; i++ {
		ct, err := UnmarshalCiphertext(rq, ring.Evaluation, data[off:off+perCt])
		if err != nil {
			return nil, fmt.Errorf("pir.UnmarshalRGSW: message row %d: %w", i, err)
		}
		c.Message.Rows[i] = ct
		off += perCt
	}
	return c, nil
}

func writePoly(buf []byte, coeffs []uint64) {
	for i, c := range coeffs {
		binary.LittleEndian.PutUint64(buf[i*8:], c)
	}
}

func readPoly(buf []byte, coeffs []uint64) {
	for i := range coeffs {
		coeffs[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
}
