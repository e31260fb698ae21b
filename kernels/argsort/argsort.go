// Package argsort implements the runtime index-sorting kernel: given a
// strided numeric tensor, it computes the permutation of indices that sorts
// the values along the innermost axis, for every combination of the outer
// axes.
//
// The kernel never reorders the input data. It writes only into the
// caller-owned order buffer, so data[order[i]] is non-decreasing (or
// non-increasing) in i for each innermost slice. Ties between equal values
// are broken by the original index, ascending, for both directions: the
// result is deterministic and behaves like a stable sort.
//
// The kernel is stateless and safe for concurrent use, provided concurrent
// calls target disjoint order buffers.
package argsort

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/onnxrt/types/tensors"
)

// MaxSortRank is the maximum input rank the kernel supports.
const MaxSortRank = 6

// Sort computes, for every combination of the outer-axes coordinates of
// input, the permutation of 0..n-1 (n being the innermost axis size) that
// sorts the innermost slice. The permutations are written into order, which
// must be laid out densely row-major with the same dimensions as input, and
// must already hold a permutation of 0..n-1 per slice -- use InitOrder, or
// reuse the output of a previous call. A zero-sized sort axis is a no-op.
//
// Preconditions, violations are bugs in the caller and panic: rank must be
// between 1 and MaxSortRank, axis must be the innermost axis (rank-1), the
// innermost axis must be contiguous (stride 1), and order must have exactly
// one entry per input element.
func Sort(order []int64, input *tensors.Dense, axis int, ascending bool) {
	shape := input.Shape()
	rank := shape.Rank()
	if rank < 1 || rank > MaxSortRank {
		exceptions.Panicf("argsort.Sort: input rank must be between 1 and %d, got %s", MaxSortRank, shape)
	}
	if axis != rank-1 {
		exceptions.Panicf("argsort.Sort: only sorting along the innermost axis (%d) is supported, got axis %d", rank-1, axis)
	}
	if input.Strides()[rank-1] != 1 {
		exceptions.Panicf("argsort.Sort: the innermost axis of %s must be contiguous (stride 1)", input)
	}
	if len(order) != shape.Size() {
		exceptions.Panicf("argsort.Sort: order has %d entries, input %s has %d elements", len(order), shape, shape.Size())
	}

	n := shape.Dim(-1)
	if n == 0 {
		// Nothing to sort; the order buffer is left untouched.
		return
	}

	// Select the comparator once, outside the loops.
	dtype := shape.DType
	if !SupportedDType(dtype) {
		exceptions.Panicf("argsort.Sort: unsupported dtype in %s", input)
	}
	sortSlice := comparatorTable[dtype][directionIndex(ascending)]

	// Normalize to a virtual rank of MaxSortRank by left-padding with
	// unit-length, zero-stride axes, so a single loop nest handles every
	// rank without per-rank code paths.
	var dims, strides [MaxSortRank]int
	for i := range dims {
		dims[i] = 1
	}
	pad := MaxSortRank - rank
	copy(dims[pad:], shape.Dimensions)
	copy(strides[pad:], input.Strides())

	flat := input.Flat()
	orderBase := 0
	for i0 := 0; i0 < dims[0]; i0++ {
		for i1 := 0; i1 < dims[1]; i1++ {
			for i2 := 0; i2 < dims[2]; i2++ {
				for i3 := 0; i3 < dims[3]; i3++ {
					for i4 := 0; i4 < dims[4]; i4++ {
						offset := i0*strides[0] + i1*strides[1] + i2*strides[2] + i3*strides[3] + i4*strides[4]
						sortSlice(flat, offset, order[orderBase:orderBase+n])
						orderBase += n
					}
				}
			}
		}
	}
}

// InitOrder fills order with the identity permutation 0..n-1, repeated for
// every n-sized slice. n must divide len(order) exactly.
func InitOrder(order []int64, n int) {
	if n <= 0 || len(order)%n != 0 {
		exceptions.Panicf("argsort.InitOrder: slice size %d must be positive and divide the order buffer length %d", n, len(order))
	}
	for base := 0; base < len(order); base += n {
		for i := 0; i < n; i++ {
			order[base+i] = int64(i)
		}
	}
}
