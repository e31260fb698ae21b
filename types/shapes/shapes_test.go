// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"bytes"
	"encoding/gob"
	"testing"

	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.True(t, shape0.HasRank())
	require.True(t, shape0.IsStatic())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.True(t, shape1.IsStatic())
	require.Equal(t, 3, shape1.Rank())
	require.Len(t, shape1.Dimensions, 3)
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	// Zero-sized axes are valid (empty tensors), negative ones are not.
	require.Equal(t, 0, Make(Float32, 4, 0).Size())
	require.Panics(t, func() { Make(Float32, 4, -1) })
}

func TestDynamicAndUnranked(t *testing.T) {
	dynamic := MakeDynamic(Float32, DimUnknown, 3)
	require.True(t, dynamic.Ok())
	require.True(t, dynamic.HasRank())
	require.False(t, dynamic.IsStatic())
	require.Equal(t, 2, dynamic.Rank())
	require.False(t, dynamic.DimKnown(0))
	require.True(t, dynamic.DimKnown(1))
	require.Equal(t, DimUnknown, dynamic.Dim(0))
	require.Equal(t, "(Float32)[? 3]", dynamic.String())
	require.Panics(t, func() { MakeDynamic(Float32, -2) })
	require.Panics(t, func() { _ = dynamic.Size() })
	require.Panics(t, func() { _ = dynamic.Strides() })

	unranked := MakeUnranked(Int64)
	require.True(t, unranked.Ok())
	require.False(t, unranked.HasRank())
	require.False(t, unranked.IsStatic())
	require.False(t, unranked.IsScalar())
	require.Equal(t, 0, unranked.Rank())
	require.Equal(t, "(Int64)[*]", unranked.String())
}

func TestDim(t *testing.T) {
	shape := Make(Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 3, shape.Dim(-2))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestStrides(t *testing.T) {
	require.Equal(t, []int{6, 2, 1}, Make(Float32, 4, 3, 2).Strides())
	require.Equal(t, []int{1}, Make(Int8, 7).Strides())
	require.Empty(t, Make(Int8).Strides())
}

func TestEqual(t *testing.T) {
	require.True(t, Make(Float32, 2, 3).Equal(Make(Float32, 2, 3)))
	require.False(t, Make(Float32, 2, 3).Equal(Make(Float64, 2, 3)))
	require.False(t, Make(Float32, 2, 3).Equal(Make(Float32, 3, 2)))
	require.False(t, Make(Float32, 2, 3).Equal(MakeUnranked(Float32)))
	require.True(t, MakeUnranked(Float32).Equal(MakeUnranked(Float32)))
	require.True(t, MakeDynamic(Float32, DimUnknown).Equal(MakeDynamic(Float32, DimUnknown)))
	require.False(t, MakeDynamic(Float32, DimUnknown).Equal(Make(Float32, 2)))

	require.True(t, Make(Float32, 2, 3).EqualDimensions(Make(Int32, 2, 3)))
	require.False(t, Make(Float32, 2, 3).EqualDimensions(MakeUnranked(Int32)))
}

func TestClone(t *testing.T) {
	shape := MakeDynamic(Float32, 2, DimUnknown)
	clone := shape.Clone()
	require.True(t, shape.Equal(clone))
	clone.Dimensions[0] = 7
	require.Equal(t, 2, shape.Dimensions[0])
}

func TestGobSerialization(t *testing.T) {
	for _, shape := range []Shape{
		Make(Float64, 2, 3),
		MakeDynamic(Int32, DimUnknown, 5),
		MakeUnranked(Uint8),
		Scalar[float32](),
	} {
		var buf bytes.Buffer
		enc := gob.NewEncoder(&buf)
		require.NoError(t, shape.GobSerialize(enc))
		dec := gob.NewDecoder(&buf)
		recovered, err := GobDeserialize(dec)
		require.NoError(t, err)
		require.True(t, shape.Equal(recovered), "shape %s deserialized to %s", shape, recovered)
	}
}
