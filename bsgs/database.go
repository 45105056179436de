package bsgs

import "fmt"

// Blob is the CRT-interleaved database handle spec.md §4.C produces and
// §4.E's engine consumes. Per spec.md's REDESIGN FLAGS ("a port should
// expose an opaque handle wrapping an aligned buffer with length and
// layout metadata" instead of the reference implementation's bare aligned
// u64*), this wraps a flat []uint64 with explicit layout metadata; the
// BSGS inner loop still indexes into Data directly as a flat slice for
// cache-friendly streaming, exactly as the reference implementation's raw
// pointer did — only the ownership/bounds story changes.
type Blob struct {
	Dims *Dims
	// Data holds r matrices of N/2 diagonals x N NTT coefficients x 2 CRT
	// channels, in that nesting order (outermost to innermost): k (packed
	// database index), diagonal index i in [0, N/2), coefficient index j
	// in [0, N), channel in {0=q1, 1=q2}.
	Data []uint64
}

// NewBlob allocates a zero Blob sized for dims.
func NewBlob(dims *Dims) *Blob {
	half := dims.N / 2
	size := dims.R * half * dims.N * 2
	return &Blob{Dims: dims, Data: make([]uint64, size)}
}

// offset computes the flat index of (k, diagonal i, coefficient j, channel).
func (b *Blob) offset(k, i, j, channel int) int {
	half := b.Dims.N / 2
	return ((k*half+i)*b.Dims.N+j)*2 + channel
}

// Set writes the NTT coefficient at (k, diagonal i, position j) for the
// given CRT channel (0 or 1).
func (b *Blob) Set(k, i, j, channel int, value uint64) error {
	if err := b.checkBounds(k, i, j, channel); err != nil {
		return err
	}
	b.Data[b.offset(k, i, j, channel)] = value
	return nil
}

// Get reads the NTT coefficient at (k, diagonal i, position j) for the
// given CRT channel.
func (b *Blob) Get(k, i, j, channel int) (uint64, error) {
	if err := b.checkBounds(k, i, j, channel); err != nil {
		return 0, err
	}
	return b.Data[b.offset(k, i, j, channel)], nil
}

func (b *Blob) checkBounds(k, i, j, channel int) error {
	half := b.Dims.N / 2
	if k < 0 || k >= b.Dims.R {
		return fmt.Errorf("bsgs.Blob: packed-database index %d out of range [0, %d)", k, b.Dims.R)
	}
	if i < 0 || i >= half {
		return fmt.Errorf("bsgs.Blob: diagonal index %d out of range [0, %d)", i, half)
	}
	if j < 0 || j >= b.Dims.N {
		return fmt.Errorf("bsgs.Blob: coefficient index %d out of range [0, %d)", j, b.Dims.N)
	}
	if channel != 0 && channel != 1 {
		return fmt.Errorf("bsgs.Blob: channel %d must be 0 or 1", channel)
	}
	return nil
}

// Row returns the 2*N contiguous CRT-interleaved words for diagonal i of
// packed database k — the exact slice the engine's inner loop streams.
func (b *Blob) Row(k, i int) ([]uint64, error) {
	if err := b.checkBounds(k, i, 0, 0); err != nil {
		return nil, err
	}
	start := b.offset(k, i, 0, 0)
	return b.Data[start : start+2*b.Dims.N], nil
}
