package argsort

import (
	"sort"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

const maxDTypes = 32

// Direction indices into the comparator table.
const (
	dirDescending = 0
	dirAscending  = 1
)

func directionIndex(ascending bool) int {
	if ascending {
		return dirAscending
	}
	return dirDescending
}

// sliceSortFunc sorts one slice of the order buffer: order holds indices into
// the run of contiguous elements starting at flat[offset], and is reordered
// in place. The data itself is never moved.
type sliceSortFunc func(flat any, offset int, order []int64)

// comparatorTable maps (dtype, direction) to the specialized sort function.
// It is populated once at package initialization, so that selecting a
// comparator is a single indexed load and no per-comparison type dispatch
// happens inside the sort loops.
var comparatorTable [maxDTypes][2]sliceSortFunc

// podOrderedConstraints are the Go plain-old-data types with a native total
// order. Float16 and BFloat16 are registered separately since their
// comparison goes through a float32 conversion.
type podOrderedConstraints interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func init() {
	registerPOD[int8](dtypes.Int8)
	registerPOD[int16](dtypes.Int16)
	registerPOD[int32](dtypes.Int32)
	registerPOD[int64](dtypes.Int64)
	registerPOD[uint8](dtypes.Uint8)
	registerPOD[uint16](dtypes.Uint16)
	registerPOD[uint32](dtypes.Uint32)
	registerPOD[uint64](dtypes.Uint64)
	registerPOD[float32](dtypes.Float32)
	registerPOD[float64](dtypes.Float64)
	registerBool()
	registerFloat16()
	registerBFloat16()
}

// sortIndices reorders order according to less on the values, breaking ties
// between equal values by the original index, ascending. The tie-break makes
// the unstable underlying sort behave as if stable: equal elements keep their
// original relative order, for both sort directions.
func sortIndices[T any](data []T, order []int64, equal, less func(a, b T) bool) {
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		va, vb := data[a], data[b]
		if equal(va, vb) {
			return a < b
		}
		return less(va, vb)
	})
}

func registerPOD[T podOrderedConstraints](dtype dtypes.DType) {
	comparatorTable[dtype][dirAscending] = func(flat any, offset int, order []int64) {
		data := flat.([]T)[offset:]
		sortIndices(data, order,
			func(a, b T) bool { return a == b },
			func(a, b T) bool { return a < b })
	}
	comparatorTable[dtype][dirDescending] = func(flat any, offset int, order []int64) {
		data := flat.([]T)[offset:]
		sortIndices(data, order,
			func(a, b T) bool { return a == b },
			func(a, b T) bool { return a > b })
	}
}

func registerBool() {
	// false sorts before true.
	comparatorTable[dtypes.Bool][dirAscending] = func(flat any, offset int, order []int64) {
		data := flat.([]bool)[offset:]
		sortIndices(data, order,
			func(a, b bool) bool { return a == b },
			func(a, b bool) bool { return !a && b })
	}
	comparatorTable[dtypes.Bool][dirDescending] = func(flat any, offset int, order []int64) {
		data := flat.([]bool)[offset:]
		sortIndices(data, order,
			func(a, b bool) bool { return a == b },
			func(a, b bool) bool { return a && !b })
	}
}

func registerFloat16() {
	comparatorTable[dtypes.Float16][dirAscending] = func(flat any, offset int, order []int64) {
		data := flat.([]float16.Float16)[offset:]
		sortIndices(data, order,
			func(a, b float16.Float16) bool { return a.Float32() == b.Float32() },
			func(a, b float16.Float16) bool { return a.Float32() < b.Float32() })
	}
	comparatorTable[dtypes.Float16][dirDescending] = func(flat any, offset int, order []int64) {
		data := flat.([]float16.Float16)[offset:]
		sortIndices(data, order,
			func(a, b float16.Float16) bool { return a.Float32() == b.Float32() },
			func(a, b float16.Float16) bool { return a.Float32() > b.Float32() })
	}
}

func registerBFloat16() {
	comparatorTable[dtypes.BFloat16][dirAscending] = func(flat any, offset int, order []int64) {
		data := flat.([]bfloat16.BFloat16)[offset:]
		sortIndices(data, order,
			func(a, b bfloat16.BFloat16) bool { return a.Float32() == b.Float32() },
			func(a, b bfloat16.BFloat16) bool { return a.Float32() < b.Float32() })
	}
	comparatorTable[dtypes.BFloat16][dirDescending] = func(flat any, offset int, order []int64) {
		data := flat.([]bfloat16.BFloat16)[offset:]
		sortIndices(data, order,
			func(a, b bfloat16.BFloat16) bool { return a.Float32() == b.Float32() },
			func(a, b bfloat16.BFloat16) bool { return a.Float32() > b.Float32() })
	}
}

// SupportedDType returns whether the sort engine has comparators for the
// given dtype.
func SupportedDType(dtype dtypes.DType) bool {
	return dtype < maxDTypes && comparatorTable[dtype][dirAscending] != nil
}
