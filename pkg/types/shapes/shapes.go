// Package shapes describes the type of a tensor Value: its element type and dimensions.
//
// Dimensions may be dynamic: a negative dimension (DimUnknown) is only known at run time.
package shapes

import (
	"slices"

	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
)

// DimUnknown marks a dimension whose size is only known at run time.
const DimUnknown = -1

// Shape is the element type and dimensions of a tensor. A shape with no dimensions is a scalar.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape with the given dtype and dimensions.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	return Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s.Dimensions)
}

// IsScalar returns whether s has rank 0.
func (s Shape) IsScalar() bool {
	return len(s.Dimensions) == 0
}

// IsStatic returns whether all dimensions are known.
func (s Shape) IsStatic() bool {
	for _, dim := range s.Dimensions {
		if dim < 0 {
			return false
		}
	}
	return true
}

// Dim returns the size of the given axis. Negative axes count from the end, so Dim(-1) is the last axis.
func (s Shape) Dim(axis int) int {
	if axis < 0 {
		axis += len(s.Dimensions)
	}
	return s.Dimensions[axis]
}

// Size returns the number of elements, or DimUnknown if any dimension is dynamic.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		if dim < 0 {
			return DimUnknown
		}
		size *= dim
	}
	return size
}

// WithDType returns a copy of s with the dtype replaced.
func (s Shape) WithDType(dtype dtypes.DType) Shape {
	return Shape{DType: dtype, Dimensions: slices.Clone(s.Dimensions)}
}

// Equal returns whether both shapes have the same dtype and dimensions.
func (s Shape) Equal(other Shape) bool {
	return s.DType == other.DType && slices.Equal(s.Dimensions, other.Dimensions)
}
