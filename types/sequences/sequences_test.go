// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sequences

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/onnxrt/types/shapes"
	"github.com/stretchr/testify/require"
)

func TestSeq(t *testing.T) {
	var zero Seq
	require.False(t, zero.Ok())

	seq := Make(shapes.Make(dtypes.Float32, 2, 3), 4)
	require.True(t, seq.Ok())
	require.True(t, seq.LengthKnown())
	require.Equal(t, 4, seq.Length)
	require.Equal(t, "Seq<(Float32)[2 3], len=4>", seq.String())

	unknown := Make(shapes.MakeUnranked(dtypes.Float32), LengthUnknown)
	require.True(t, unknown.Ok())
	require.False(t, unknown.LengthKnown())
	require.Equal(t, "Seq<(Float32)[*], len=?>", unknown.String())

	require.Panics(t, func() { Make(shapes.Make(dtypes.Float32), -2) })
}

func TestSeqEqualAndClone(t *testing.T) {
	seq := Make(shapes.MakeDynamic(dtypes.Int32, shapes.DimUnknown, 3), 2)
	require.True(t, seq.Equal(seq.Clone()))
	require.False(t, seq.Equal(Make(seq.Element, 3)))
	require.False(t, seq.Equal(Make(shapes.Make(dtypes.Int32, 5, 3), 2)))

	// Clone must not share the dimensions slice.
	clone := seq.Clone()
	clone.Element.Dimensions[1] = 7
	require.Equal(t, 3, seq.Element.Dimensions[1])
}
