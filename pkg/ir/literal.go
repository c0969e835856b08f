package ir

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
	"github.com/gomlx/onnx-symbolic/pkg/types/shapes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Supported are the Go types that can back a Literal.
type Supported interface {
	bool | uint8 | int8 | int16 | int32 | int64 | float16.Float16 | float32 | float64
}

// Literal is a constant tensor: a dtype, dimensions and a flat, row-major slice of values.
// Literals are immutable once created.
type Literal struct {
	dtype dtypes.DType
	dims  []int
	data  any
}

// dtypeOf returns the DType that backs values of type T.
func dtypeOf[T Supported]() dtypes.DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return dtypes.Bool
	case uint8:
		return dtypes.Uint8
	case int8:
		return dtypes.Int8
	case int16:
		return dtypes.Int16
	case int32:
		return dtypes.Int32
	case int64:
		return dtypes.Int64
	case float16.Float16:
		return dtypes.Float16
	case float32:
		return dtypes.Float32
	case float64:
		return dtypes.Float64
	}
	return dtypes.InvalidDType
}

// Scalar returns a rank-0 literal holding value.
func Scalar[T Supported](value T) *Literal {
	return &Literal{dtype: dtypeOf[T](), data: []T{value}}
}

// FromSlice returns a literal with the given dimensions. The number of values must match the dimensions.
func FromSlice[T Supported](dims []int, values []T) (*Literal, error) {
	size := 1
	for _, dim := range dims {
		if dim < 0 {
			return nil, errors.Errorf("literal dimensions must be static, got %v", dims)
		}
		size *= dim
	}
	if size != len(values) {
		return nil, errors.Errorf("literal with dimensions %v requires %d values, got %d", dims, size, len(values))
	}
	return &Literal{dtype: dtypeOf[T](), dims: slices.Clone(dims), data: slices.Clone(values)}, nil
}

// Vector returns a rank-1 literal with the given values.
func Vector[T Supported](values ...T) *Literal {
	return &Literal{dtype: dtypeOf[T](), dims: []int{len(values)}, data: slices.Clone(values)}
}

// DType returns the element type.
func (l *Literal) DType() dtypes.DType {
	return l.dtype
}

// Dims returns the dimensions of the literal.
func (l *Literal) Dims() []int {
	return slices.Clone(l.dims)
}

// Shape returns the shape of the literal.
func (l *Literal) Shape() shapes.Shape {
	return shapes.Make(l.dtype, l.dims...)
}

// Size returns the number of elements.
func (l *Literal) Size() int {
	size := 1
	for _, dim := range l.dims {
		size *= dim
	}
	return size
}

// IsScalar returns whether the literal has rank 0.
func (l *Literal) IsScalar() bool {
	return len(l.dims) == 0
}

// Data returns a copy of the flat slice of values, e.g. []float32 for a Float32 literal.
func (l *Literal) Data() any {
	switch data := l.data.(type) {
	case []bool:
		return slices.Clone(data)
	case []uint8:
		return slices.Clone(data)
	case []int8:
		return slices.Clone(data)
	case []int16:
		return slices.Clone(data)
	case []int32:
		return slices.Clone(data)
	case []int64:
		return slices.Clone(data)
	case []float16.Float16:
		return slices.Clone(data)
	case []float32:
		return slices.Clone(data)
	case []float64:
		return slices.Clone(data)
	}
	return nil
}

// Ints returns the values converted to int64. Floating point values are truncated toward zero
// and booleans become 0 or 1.
func (l *Literal) Ints() []int64 {
	switch data := l.data.(type) {
	case []bool:
		return convertSlice(data, func(v bool) int64 {
			if v {
				return 1
			}
			return 0
		})
	case []uint8:
		return convertSlice(data, func(v uint8) int64 { return int64(v) })
	case []int8:
		return convertSlice(data, func(v int8) int64 { return int64(v) })
	case []int16:
		return convertSlice(data, func(v int16) int64 { return int64(v) })
	case []int32:
		return convertSlice(data, func(v int32) int64 { return int64(v) })
	case []int64:
		return slices.Clone(data)
	case []float16.Float16:
		return convertSlice(data, func(v float16.Float16) int64 { return int64(v.Float32()) })
	case []float32:
		return convertSlice(data, func(v float32) int64 { return int64(v) })
	case []float64:
		return convertSlice(data, func(v float64) int64 { return int64(v) })
	}
	return nil
}

// Floats returns the values converted to float64. Booleans become 0 or 1.
func (l *Literal) Floats() []float64 {
	switch data := l.data.(type) {
	case []float16.Float16:
		return convertSlice(data, func(v float16.Float16) float64 { return float64(v.Float32()) })
	case []float32:
		return convertSlice(data, func(v float32) float64 { return float64(v) })
	case []float64:
		return slices.Clone(data)
	}
	return convertSlice(l.Ints(), func(v int64) float64 { return float64(v) })
}

// Bools returns the values converted to bool: any non-zero value is true.
func (l *Literal) Bools() []bool {
	if data, ok := l.data.([]bool); ok {
		return slices.Clone(data)
	}
	return convertSlice(l.Floats(), func(v float64) bool { return v != 0 })
}

// checkSingle returns an error if the literal doesn't have exactly one element.
func (l *Literal) checkSingle(target string) error {
	if l.Size() != 1 {
		return errors.Errorf("only one element tensors can be converted to %s, got %s with %d elements",
			target, l.Shape(), l.Size())
	}
	return nil
}

// Int returns the single element of the literal as an int64.
func (l *Literal) Int() (int64, error) {
	if err := l.checkSingle("int"); err != nil {
		return 0, err
	}
	return l.Ints()[0], nil
}

// Float returns the single element of the literal as a float64.
func (l *Literal) Float() (float64, error) {
	if err := l.checkSingle("float"); err != nil {
		return 0, err
	}
	return l.Floats()[0], nil
}

// Bool returns the single element of the literal as a bool.
func (l *Literal) Bool() (bool, error) {
	if err := l.checkSingle("bool"); err != nil {
		return false, err
	}
	return l.Bools()[0], nil
}

// ConvertTo returns a literal with the same dimensions and the values converted to dtype.
// If the literal already has that dtype it is returned as is.
func (l *Literal) ConvertTo(dtype dtypes.DType) (*Literal, error) {
	if dtype == l.dtype {
		return l, nil
	}
	var data any
	switch dtype {
	case dtypes.Bool:
		data = l.Bools()
	case dtypes.Uint8:
		data = convertSlice(l.Ints(), func(v int64) uint8 { return uint8(v) })
	case dtypes.Int8:
		data = convertSlice(l.Ints(), func(v int64) int8 { return int8(v) })
	case dtypes.Int16:
		data = convertSlice(l.Ints(), func(v int64) int16 { return int16(v) })
	case dtypes.Int32:
		data = convertSlice(l.Ints(), func(v int64) int32 { return int32(v) })
	case dtypes.Int64:
		data = l.Ints()
	case dtypes.Float16:
		data = convertSlice(l.Floats(), func(v float64) float16.Float16 { return float16.Fromfloat32(float32(v)) })
	case dtypes.Float32:
		data = convertSlice(l.Floats(), func(v float64) float32 { return float32(v) })
	case dtypes.Float64:
		data = l.Floats()
	default:
		return nil, errors.Errorf("literals of type %s are not supported", dtype)
	}
	return &Literal{dtype: dtype, dims: slices.Clone(l.dims), data: data}, nil
}

// Equal returns whether other has the same dtype, dimensions and values.
func (l *Literal) Equal(other *Literal) bool {
	if l.dtype != other.dtype || !slices.Equal(l.dims, other.dims) {
		return false
	}
	return reflect.DeepEqual(l.data, other.data)
}

// String returns a short description, e.g. "Long(3) [2 3 4]".
func (l *Literal) String() string {
	var sb strings.Builder
	sb.WriteString(l.Shape().String())
	sb.WriteString(" ")
	if data, ok := l.data.([]float16.Float16); ok {
		sb.WriteString(fmt.Sprint(convertSlice(data, func(v float16.Float16) float32 { return v.Float32() })))
	} else {
		sb.WriteString(fmt.Sprint(l.data))
	}
	return sb.String()
}

func convertSlice[From, To any](values []From, fn func(From) To) []To {
	result := make([]To, len(values))
	for i, v := range values {
		result[i] = fn(v)
	}
	return result
}
