// Package dtypes defines the element types of tensors flowing through the IR.
//
// The numeric values of DType are exactly the ONNX TensorProto.DataType values, so a DType
// can be written as the "to" attribute of a Cast node without translation.
package dtypes

import "fmt"

// DType is the element type of a tensor.
type DType int32

const (
	InvalidDType DType = 0
	Float32      DType = 1
	Uint8        DType = 2
	Int8         DType = 3
	Uint16       DType = 4
	Int16        DType = 5
	Int32        DType = 6
	Int64        DType = 7
	String       DType = 8
	Bool         DType = 9
	Float16      DType = 10
	Float64      DType = 11
	Uint32       DType = 12
	Uint64       DType = 13
	Complex64    DType = 14
	Complex128   DType = 15
	BFloat16     DType = 16
)

// Aliases used by the framework side.
const (
	Float  = Float32
	Double = Float64
	Half   = Float16
)

// String implements fmt.Stringer, returning the ONNX name of the type (e.g. "FLOAT", "INT64").
func (dtype DType) String() string {
	switch dtype {
	case Float32:
		return "FLOAT"
	case Uint8:
		return "UINT8"
	case Int8:
		return "INT8"
	case Uint16:
		return "UINT16"
	case Int16:
		return "INT16"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case String:
		return "STRING"
	case Bool:
		return "BOOL"
	case Float16:
		return "FLOAT16"
	case Float64:
		return "DOUBLE"
	case Uint32:
		return "UINT32"
	case Uint64:
		return "UINT64"
	case Complex64:
		return "COMPLEX64"
	case Complex128:
		return "COMPLEX128"
	case BFloat16:
		return "BFLOAT16"
	case InvalidDType:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("DType(%d)", int32(dtype))
	}
}

// IsValid returns whether dtype is one of the enumerated types (excluding InvalidDType).
func (dtype DType) IsValid() bool {
	return dtype > InvalidDType && dtype <= BFloat16
}

// IsFloat returns whether dtype is a floating point type.
func (dtype DType) IsFloat() bool {
	switch dtype {
	case Float16, BFloat16, Float32, Float64:
		return true
	}
	return false
}

// IsInt returns whether dtype is a signed or unsigned integer type. Bool is not an integer.
func (dtype DType) IsInt() bool {
	switch dtype {
	case Uint8, Int8, Uint16, Int16, Int32, Int64, Uint32, Uint64:
		return true
	}
	return false
}

// Size returns the number of bytes used by one element, or 0 for variable sized types (String).
func (dtype DType) Size() int {
	switch dtype {
	case Bool, Uint8, Int8:
		return 1
	case Uint16, Int16, Float16, BFloat16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	}
	return 0
}
