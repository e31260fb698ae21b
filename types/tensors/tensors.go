// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements Dense, a minimal strided view over a flat slice
// of numeric data, used as the input of the runtime kernels.
//
// A Dense carries the shape, the per-axis strides (in elements, not bytes)
// and a reference to the flat data slice. It does not own or copy the data:
// the kernels only read through it, and the caller keeps ownership of all
// buffers.
package tensors

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/onnxrt/types/shapes"
)

// Dense is a read-only strided view over a flat data slice.
//
// The flat data is always a slice of the underlying data type (shape.DType).
// Use FromFlat or FromFlatWithStrides to create one.
type Dense struct {
	shape   shapes.Shape
	strides []int

	// flat is always a slice of the underlying data type (shape.DType).
	flat any
}

// FromFlat creates a Dense view over flat with the given dimensions, laid out
// row-major (the last axis is contiguous). The flat slice must have exactly
// one element per addressed position; a mismatch is a bug in the caller and
// panics.
func FromFlat[T dtypes.Supported](flat []T, dimensions ...int) *Dense {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(flat) != shape.Size() {
		exceptions.Panicf("tensors.FromFlat: flat has %d values, but shape %s requires %d", len(flat), shape, shape.Size())
	}
	return &Dense{shape: shape, strides: shape.Strides(), flat: flat}
}

// FromScalar creates a rank-0 Dense holding a single value.
func FromScalar[T dtypes.Supported](value T) *Dense {
	return FromFlat([]T{value})
}

// FromFlatWithStrides creates a Dense view over flat with explicit per-axis
// strides, in elements. It allows non-contiguous and broadcast (zero-stride)
// layouts. The flat slice must cover every addressable position; a too-short
// slice is a bug in the caller and panics.
func FromFlatWithStrides[T dtypes.Supported](flat []T, dimensions, strides []int) *Dense {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(strides) != shape.Rank() {
		exceptions.Panicf("tensors.FromFlatWithStrides: %d strides for shape %s of rank %d", len(strides), shape, shape.Rank())
	}
	// The largest linear index addressed by the view must fit in flat.
	maxIndex := 0
	empty := false
	for axis, dim := range dimensions {
		if dim == 0 {
			empty = true
			break
		}
		if strides[axis] < 0 {
			exceptions.Panicf("tensors.FromFlatWithStrides: negative stride %d for axis %d", strides[axis], axis)
		}
		maxIndex += (dim - 1) * strides[axis]
	}
	if !empty && maxIndex >= len(flat) {
		exceptions.Panicf("tensors.FromFlatWithStrides: flat has %d values, but shape %s with strides %v addresses index %d",
			len(flat), shape, strides, maxIndex)
	}
	return &Dense{shape: shape, strides: slices.Clone(strides), flat: flat}
}

// Shape of the view. It implements the shapes.HasShape interface.
func (d *Dense) Shape() shapes.Shape { return d.shape }

// DType of the elements.
func (d *Dense) DType() dtypes.DType { return d.shape.DType }

// Rank of the view, the number of axes.
func (d *Dense) Rank() int { return d.shape.Rank() }

// Strides per axis, in elements. The returned slice is owned by the Dense,
// don't modify it.
func (d *Dense) Strides() []int { return d.strides }

// Flat returns the underlying flat data slice, a []T of the view's DType.
func (d *Dense) Flat() any { return d.flat }

// Size returns the number of addressed elements, the product of the
// dimensions.
func (d *Dense) Size() int { return d.shape.Size() }

// String implements stringer.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense{%s, strides=%v}", d.shape, d.strides)
}
