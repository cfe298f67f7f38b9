// Package counts provides saturating unsigned counters for the
// engine's accumulator and report: every total, size, and maximum in
// a Report is one of these, so that an enormous repository clamps
// instead of wrapping around.
package counts

import "math"

// Count32 holds a count that never exceeds math.MaxUint32; adding past
// the limit clamps rather than wraps. Used for per-object counts
// (entries, parents) that fit comfortably in 32 bits.
type Count32 uint32

func NewCount32(n uint64) Count32 {
	if n > math.MaxUint32 {
		return Count32(math.MaxUint32)
	}
	return Count32(n)
}

func (n Count32) ToUint64() uint64 {
	return uint64(n)
}

// Plus returns n1+n2, clamped at math.MaxUint32.
func (n1 Count32) Plus(n2 Count32) Count32 {
	n := n1 + n2
	if n < n1 {
		return math.MaxUint32
	}
	return n
}

// Increment adds n2 to *n1 in place, clamped at math.MaxUint32.
func (n1 *Count32) Increment(n2 Count32) {
	*n1 = n1.Plus(n2)
}

// AdjustMaxIfPossible sets *n1 to max(*n1, n2), favoring n2 on a tie,
// and reports whether n2 was stored, which includes a tie where the
// value stays the same. The 32-bit pointwise-maximum fields of
// biggestObjects/biggestCheckouts are folded with this.
func (n1 *Count32) AdjustMaxIfPossible(n2 Count32) bool {
	if n2 >= *n1 {
		*n1 = n2
		return true
	}
	return false
}

// Count64 holds a count that never exceeds math.MaxUint64; adding past
// the limit clamps rather than wraps. Used for byte sizes and sums
// that can outgrow 32 bits (total file size, serialized object size).
type Count64 uint64

func NewCount64(n uint64) Count64 {
	return Count64(n)
}

func (n Count64) ToUint64() uint64 {
	return uint64(n)
}

// Plus returns n1+n2, clamped at math.MaxUint64.
func (n1 Count64) Plus(n2 Count64) Count64 {
	n := n1 + n2
	if n < n1 {
		return math.MaxUint64
	}
	return n
}

// Increment adds n2 to *n1 in place, clamped at math.MaxUint64.
func (n1 *Count64) Increment(n2 Count64) {
	*n1 = n1.Plus(n2)
}

// AdjustMaxIfPossible sets *n1 to max(*n1, n2), favoring n2 on a tie,
// and reports whether n2 was stored, which includes a tie.
func (n1 *Count64) AdjustMaxIfPossible(n2 Count64) bool {
	if n2 >= *n1 {
		*n1 = n2
		return true
	}
	return false
}
