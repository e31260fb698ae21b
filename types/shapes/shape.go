// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the compile-time description of a tensor value,
// and associated tools.
//
// A Shape holds the element data type (DType), and -- if the rank is known -- the
// size of each axis. Because values flowing through a graph may only be partially
// known during compilation, a Shape can express three levels of precision:
//
//   - Static: rank and every dimension known. Created with Make.
//   - Dynamic: rank known, but one or more dimensions unknown (DimUnknown).
//     Created with MakeDynamic.
//   - Unranked: nothing known beyond the DType, the weakest shape fact.
//     Created with MakeUnranked.
//
// Shape inference keeps the most precise description it can prove and degrades
// gracefully towards unranked when information is lost.
//
// DTypes are the enumeration defined in github.com/gomlx/gopjrt/dtypes. Go float16
// support uses the github.com/x448/float16 implementation, and bfloat16 the one in
// github.com/gomlx/gopjrt/dtypes/bfloat16.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a Tensor.
//   - Axis: the index of a dimension on a multidimensional Tensor.
//   - Dimension: the size of a Tensor in one of its axes.
//   - DType: the data type of the unit element in a tensor.
//   - Scalar: a shape with no axes (rank 0), a single value of the DType.
package shapes

import (
	"encoding/gob"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// DimUnknown is the sentinel used in Shape.Dimensions for an axis whose size is
// not statically known. It is negative so it can never collide with a real
// dimension.
const DimUnknown = -1

// Shape represents what is known at compile time about a tensor value:
// its element DType, and optionally its rank and per-axis dimensions.
//
// Use Make, MakeDynamic or MakeUnranked to create one. The zero value is
// invalid (Ok() == false).
type Shape struct {
	DType      DType
	Dimensions []int

	// Unranked marks a shape with no rank information at all.
	// When set, Dimensions must be empty.
	Unranked bool
}

// Make returns a fully static Shape with the values given.
// Zero-sized axes are allowed -- empty tensors do occur, e.g. as elements of
// sequences. It panics if any dimension is negative; see MakeDynamic for
// shapes with unknown dimensions.
func Make(dtype DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension < 0", s)
		}
	}
	return s
}

// MakeDynamic returns a ranked Shape that may contain unknown dimensions
// (DimUnknown). Dimensions must be either non-negative or DimUnknown.
func MakeDynamic(dtype DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim < 0 && dim != DimUnknown {
			exceptions.Panicf("shapes.MakeDynamic(%s): dimensions must be non-negative or DimUnknown(-1)", s)
		}
	}
	return s
}

// MakeUnranked returns a Shape with no rank information, only the DType.
// It is the weakest valid shape fact.
func MakeUnranked(dtype DType) Shape {
	return Shape{DType: dtype, Unranked: true}
}

// Scalar returns a scalar Shape for the given type.
func Scalar[T Number]() Shape {
	return Shape{DType: FromGenericsType[T]()}
}

// Invalid returns an invalid shape.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: InvalidDType}
}

// Ok returns whether this is a valid Shape. A "zero" shape, that is just
// instantiating it with Shape{} will be invalid.
func (s Shape) Ok() bool { return s.DType != InvalidDType }

// HasRank returns whether the rank of the shape is known. Unranked shapes only
// carry the DType.
func (s Shape) HasRank() bool { return !s.Unranked }

// Rank of the shape, that is, the number of dimensions. It returns 0 for both
// scalar and unranked shapes -- check HasRank to distinguish.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar: it is ranked and
// there are no dimensions.
func (s Shape) IsScalar() bool { return s.Ok() && s.HasRank() && s.Rank() == 0 }

// IsStatic returns whether the shape is fully defined: ranked and every
// dimension known.
func (s Shape) IsStatic() bool {
	if !s.Ok() || s.Unranked {
		return false
	}
	return !slices.Contains(s.Dimensions, DimUnknown)
}

// Dim returns the dimension of the given axis, or DimUnknown if it is not
// statically known. axis can take negative numbers, in which case it counts
// from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// DimKnown returns whether the dimension of the given axis is statically known.
func (s Shape) DimKnown(axis int) bool {
	return s.Dim(axis) != DimUnknown
}

// Shape returns a shallow copy of itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// String implements stringer, pretty-prints the shape. Unknown dimensions are
// printed as "?".
func (s Shape) String() string {
	if s.Unranked {
		return fmt.Sprintf("(%s)[*]", s.DType)
	}
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	parts := make([]string, 0, s.Rank())
	for _, dim := range s.Dimensions {
		if dim == DimUnknown {
			parts = append(parts, "?")
		} else {
			parts = append(parts, strconv.Itoa(dim))
		}
	}
	return fmt.Sprintf("(%s)[%s]", s.DType, strings.Join(parts, " "))
}

// Size returns the number of elements of DType needed for this shape, the
// product of all dimensions. It panics if the shape is not static -- check
// IsStatic before calling it on inferred shapes.
func (s Shape) Size() (size int) {
	if !s.IsStatic() {
		exceptions.Panicf("Shape.Size() called on non-static shape %s", s)
	}
	size = 1
	for _, d := range s.Dimensions {
		size *= d
	}
	return
}

// Memory returns the memory used to store an array of the given shape, the
// same as the size in bytes.
func (s Shape) Memory() uintptr {
	return s.DType.Memory() * uintptr(s.Size())
}

// Strides returns the row-major strides for the shape, in elements (not
// bytes). The last axis has stride 1. It requires a static shape.
func (s Shape) Strides() []int {
	if !s.IsStatic() {
		exceptions.Panicf("Shape.Strides() called on non-static shape %s", s)
	}
	strides := make([]int, s.Rank())
	stride := 1
	for axis := s.Rank() - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= s.Dimensions[axis]
	}
	return strides
}

// Equal compares two shapes for equality: dtype, ranked-ness and dimensions
// are compared. Unknown dimensions only match unknown dimensions.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType {
		return false
	}
	if s.Unranked || s2.Unranked {
		return s.Unranked == s2.Unranked
	}
	if s.Rank() != s2.Rank() {
		return false
	}
	if s.IsScalar() {
		return true
	}
	// For normal shapes just compare dimensions.
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// EqualDimensions compares two shapes for equality of rank and dimensions.
// DTypes can be different.
func (s Shape) EqualDimensions(s2 Shape) bool {
	if s.Unranked || s2.Unranked {
		return s.Unranked == s2.Unranked
	}
	if s.Rank() != s2.Rank() {
		return false
	}
	if s.IsScalar() {
		return true
	}
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Unranked = s.Unranked
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}

// GobSerialize shape in binary format.
func (s Shape) GobSerialize(encoder *gob.Encoder) (err error) {
	enc := func(e any) {
		if err != nil {
			return
		}
		err = encoder.Encode(e)
		if err != nil {
			err = errors.Wrapf(err, "failed to serialize Shape %s", s)
		}
	}
	enc(s.DType)
	enc(s.Unranked)
	enc(s.Dimensions)
	return
}

// GobDeserialize a Shape. Returns new Shape or an error.
func GobDeserialize(decoder *gob.Decoder) (s Shape, err error) {
	dec := func(data any) {
		if err != nil {
			return
		}
		err = decoder.Decode(data)
		if err != nil {
			err = errors.Wrapf(err, "failed to deserialize Shape")
		}
	}
	dec(&s.DType)
	dec(&s.Unranked)
	dec(&s.Dimensions)
	return
}
