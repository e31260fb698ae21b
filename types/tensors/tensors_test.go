// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/onnxrt/types/shapes"
	"github.com/stretchr/testify/require"
)

func TestFromFlat(t *testing.T) {
	dense := FromFlat([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.Equal(t, dtypes.Float32, dense.DType())
	require.Equal(t, 2, dense.Rank())
	require.Equal(t, []int{3, 1}, dense.Strides())
	require.Equal(t, 6, dense.Size())
	require.Equal(t, []float32{1, 2, 3, 4, 5, 6}, dense.Flat().([]float32))

	// Dense satisfies shapes.HasShape, so the assert helpers take it directly.
	require.NoError(t, shapes.CheckDims(dense, 2, 3))
	require.NoError(t, shapes.CheckRank(dense, 2))
	require.NotPanics(t, func() { shapes.Assert(dense, dtypes.Float32, 2, shapes.UncheckedAxis) })
	require.Error(t, shapes.CheckDims(dense, 3, 2))

	scalar := FromScalar(int32(7))
	require.Equal(t, dtypes.Int32, scalar.DType())
	require.True(t, scalar.Shape().IsScalar())

	require.Panics(t, func() { FromFlat([]float32{1, 2, 3}, 2, 3) })
}

func TestFromFlatWithStrides(t *testing.T) {
	// A transposed view over a 2x3 row-major buffer: shape [3 2], strides [1 3].
	dense := FromFlatWithStrides([]int64{1, 2, 3, 4, 5, 6}, []int{3, 2}, []int{1, 3})
	require.Equal(t, []int{1, 3}, dense.Strides())
	require.Equal(t, dtypes.Int64, dense.DType())

	// Zero-stride (broadcast) axes are allowed.
	broadcast := FromFlatWithStrides([]uint8{1, 2}, []int{4, 2}, []int{0, 1})
	require.Equal(t, 8, broadcast.Size())

	// Empty views need no backing data.
	empty := FromFlatWithStrides([]float64{}, []int{3, 0}, []int{0, 1})
	require.Equal(t, 0, empty.Size())

	require.Panics(t, func() {
		FromFlatWithStrides([]int64{1, 2, 3}, []int{2, 2}, []int{2, 1})
	})
	require.Panics(t, func() {
		FromFlatWithStrides([]int64{1, 2, 3, 4}, []int{2, 2}, []int{2})
	})
}
