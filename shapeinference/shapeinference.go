// Package shapeinference calculates the descriptors resulting from sequence
// operations and validates their inputs.
//
// A sequence is a dynamically-sized ordered collection of tensors: its length
// and the shape of its elements can change at runtime, so during compilation
// it is tracked by a sequences.Seq descriptor -- one shapes.Shape summarizing
// every tensor that may occur in it, plus a length fact. The rules here keep
// as much static shape knowledge as possible, and degrade gracefully towards
// unranked/unknown rather than erroring when information is insufficient.
//
// It defines MergeShapes, the pure function that reconciles two tensor shapes
// into the most specific common description, and one function per sequence
// operation: ConstructOp, EmptyOp, InsertOp, EraseOp, AtOp and LengthOp.
//
// Errors returned are user/model-level errors: the compilation of the unit
// should be aborted and the error reported. Mismatched element DTypes handed
// to MergeShapes are a defect in the caller (the operation verifiers catch
// them first) and panic instead.
package shapeinference

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/onnxrt/types/sequences"
	"github.com/gomlx/onnxrt/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// MergeShapes reconciles the shape accumulated for the sequence so far with
// the shape of one additional tensor, returning the most specific shape that
// describes both.
//
// Both shapes must have the same DType -- a mismatch is a bug in the caller
// and panics. For each level of precision it picks the weaker fact:
// known dim > unknown dim > unranked.
//
//   - If either side is unranked, the result is unranked (the accumulated
//     side's unranked status wins, else the additional's).
//   - If the ranks differ, the result is unranked: there is no ranked shape
//     describing both.
//   - Otherwise the result has the same rank, and each dimension keeps the
//     common value when both sides agree, or becomes DimUnknown.
//
// It is a pure function: neither operand is modified.
func MergeShapes(accumulated, additional shapes.Shape) shapes.Shape {
	if accumulated.DType != additional.DType {
		exceptions.Panicf("shapeinference.MergeShapes: shapes to merge must have the same DType, got %s and %s",
			accumulated, additional)
	}
	if !accumulated.HasRank() {
		return accumulated.Clone()
	}
	if !additional.HasRank() {
		return additional.Clone()
	}
	rank := accumulated.Rank()
	if rank != additional.Rank() {
		return shapes.MakeUnranked(accumulated.DType)
	}
	dims := make([]int, rank)
	for axis := range dims {
		if accumulated.Dimensions[axis] == additional.Dimensions[axis] {
			dims[axis] = additional.Dimensions[axis]
		} else {
			dims[axis] = shapes.DimUnknown
		}
	}
	return shapes.MakeDynamic(accumulated.DType, dims...)
}

// ConstructOp returns the descriptor of a sequence built from the given
// tensors: the element shape is the merge of all input shapes, and the length
// is exactly the number of inputs.
//
// It requires at least one input. All inputs must share the same DType --
// that is checked by the operation verifier before inference, so a mismatch
// here panics.
func ConstructOp(inputs []shapes.Shape) (output sequences.Seq, err error) {
	if len(inputs) == 0 {
		err = errors.Errorf("ConstructOp requires at least one input tensor")
		return
	}
	element := inputs[0].Clone()
	for _, input := range inputs[1:] {
		element = MergeShapes(element, input)
	}
	output = sequences.Make(element, len(inputs))
	if klog.V(2).Enabled() {
		klog.Infof("ConstructOp(%d inputs) -> %s", len(inputs), output)
	}
	return
}

// EmptyOp returns the descriptor of a newly created empty sequence: the
// element shape declared for the result, with length exactly 0.
//
// declared is the optional element DType attribute of the operation; when
// unset (InvalidDType) it defaults to Float32. result is the currently
// declared output descriptor; if it is set, its element DType must match
// declared, otherwise a user-level error is returned.
func EmptyOp(declared dtypes.DType, result sequences.Seq) (output sequences.Seq, err error) {
	if declared == dtypes.InvalidDType {
		// The dtype attribute is optional, and defaults to Float32.
		declared = dtypes.Float32
	}
	if !result.Ok() {
		output = sequences.Make(shapes.MakeUnranked(declared), 0)
	} else {
		if result.Element.DType != declared {
			err = errors.Errorf("EmptyOp declared element dtype %s does not match the output sequence element dtype %s",
				declared, result.Element.DType)
			return
		}
		output = sequences.Make(result.Element, 0)
	}
	if klog.V(2).Enabled() {
		klog.Infof("EmptyOp(%s) -> %s", declared, output)
	}
	return
}

// InsertOp returns the descriptor of the sequence after inserting a tensor.
//
// The tensor's DType must match the sequence's element DType, otherwise a
// user-level error is returned. A sequence statically known to be empty
// adopts the tensor's shape verbatim; otherwise the element shape widens to
// MergeShapes(seq.Element, tensor) and the length increments (or stays
// unknown).
//
// The insertion position operand does not participate in shape inference.
func InsertOp(seq sequences.Seq, tensor shapes.Shape) (output sequences.Seq, err error) {
	if seq.Element.DType != tensor.DType {
		err = errors.Errorf("InsertOp: element dtype of the tensors in the sequence (%s) and of the inserted tensor (%s) have to be the same",
			seq, tensor)
		return
	}
	if seq.Length == 0 {
		// The sequence is statically known to be empty: the inserted tensor is
		// the only element, so its shape is inherited verbatim.
		output = sequences.Make(tensor, 1)
		return
	}
	newLength := sequences.LengthUnknown
	if seq.LengthKnown() {
		newLength = seq.Length + 1
	}
	output = sequences.Make(MergeShapes(seq.Element, tensor), newLength)
	if klog.V(2).Enabled() {
		klog.Infof("InsertOp(%s, %s) -> %s", seq, tensor, output)
	}
	return
}

// EraseOp returns the descriptor of the sequence after erasing one element:
// the element shape is unchanged and the length decrements (or stays
// unknown).
//
// Erasing from a sequence statically known to be empty is a user-level
// error.
//
// The erase position operand does not participate in shape inference.
func EraseOp(seq sequences.Seq) (output sequences.Seq, err error) {
	if seq.Length == 0 {
		err = errors.Errorf("EraseOp: cannot erase from the statically empty sequence %s", seq)
		return
	}
	newLength := sequences.LengthUnknown
	if seq.LengthKnown() {
		newLength = seq.Length - 1
	}
	output = sequences.Make(seq.Element, newLength)
	if klog.V(2).Enabled() {
		klog.Infof("EraseOp(%s) -> %s", seq, output)
	}
	return
}

// AtOp returns the shape of the tensor extracted from the sequence at a given
// position. current is the currently declared result shape of the operation.
//
// It only ever narrows: when the sequence element shape is ranked and the
// declared result is unranked, the result adopts the element shape. In every
// other case current is returned unchanged -- in particular it never widens a
// ranked result back to unranked.
//
// The position operand does not participate in inference and is not
// range-checked here: out-of-range accesses surface at runtime.
func AtOp(seq sequences.Seq, position, current shapes.Shape) shapes.Shape {
	_ = position
	if seq.Element.HasRank() && !current.HasRank() {
		return seq.Element.Clone()
	}
	return current.Clone()
}

// LengthOp returns the shape of the sequence length value: always a scalar
// (rank-0) Int64, whatever result shape was previously declared.
func LengthOp(seq sequences.Seq, current shapes.Shape) shapes.Shape {
	_ = seq
	if current.Check(dtypes.Int64) == nil {
		return current.Clone()
	}
	return shapes.Make(dtypes.Int64)
}
