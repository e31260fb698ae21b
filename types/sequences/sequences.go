// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sequences defines Seq, the compile-time description of a
// sequence-valued node: a dynamically-sized ordered collection of tensors.
//
// Tensors are added to and removed from a sequence at runtime, so the
// compiler tracks only two facts: one Shape summarizing every tensor that
// may occur in the collection, and the length of the collection when it is
// statically known. The element Shape only ever widens (loses precision) as
// tensors are merged in, it never narrows.
//
// Seq values are immutable by convention: every operation in the
// shapeinference package returns a freshly constructed descriptor rather
// than mutating its operand.
package sequences

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/onnxrt/types/shapes"
)

// LengthUnknown is the sentinel for a sequence whose length is not statically
// known.
const LengthUnknown = -1

// Seq describes a sequence of tensors: the summarizing element Shape and the
// statically-known length, or LengthUnknown.
//
// Use Make to create one. The zero value is invalid (Ok() == false).
type Seq struct {
	// Element summarizes the shape of every tensor that may occur in the
	// sequence.
	Element shapes.Shape

	// Length is the number of tensors in the sequence, or LengthUnknown.
	Length int
}

// Make returns a Seq with the given element shape and length.
// Length must be non-negative or LengthUnknown.
func Make(element shapes.Shape, length int) Seq {
	if length < 0 && length != LengthUnknown {
		exceptions.Panicf("sequences.Make(%s, %d): length must be >= 0 or LengthUnknown(-1)", element, length)
	}
	return Seq{Element: element.Clone(), Length: length}
}

// Ok returns whether this is a valid Seq descriptor.
func (s Seq) Ok() bool { return s.Element.Ok() }

// LengthKnown returns whether the sequence length is statically known.
func (s Seq) LengthKnown() bool { return s.Length != LengthUnknown }

// Equal compares two sequence descriptors: element shape and length.
func (s Seq) Equal(s2 Seq) bool {
	return s.Length == s2.Length && s.Element.Equal(s2.Element)
}

// Clone returns a deep copy of the descriptor.
func (s Seq) Clone() Seq {
	return Seq{Element: s.Element.Clone(), Length: s.Length}
}

// String implements stringer, pretty-prints the sequence descriptor.
// Unknown lengths are printed as "?".
func (s Seq) String() string {
	if !s.LengthKnown() {
		return fmt.Sprintf("Seq<%s, len=?>", s.Element)
	}
	return fmt.Sprintf("Seq<%s, len=%d>", s.Element, s.Length)
}
