package dtypes

import "github.com/pkg/errors"

// TorchName returns the framework's scalar type name for dtype ("Float", "Long", ...),
// the inverse of FromTorchName. It returns "" for types the framework has no name for.
func (dtype DType) TorchName() string {
	switch dtype {
	case Uint8:
		return "Byte"
	case Int8:
		return "Char"
	case Float64:
		return "Double"
	case Float32:
		return "Float"
	case Float16:
		return "Half"
	case Int32:
		return "Int"
	case Int64:
		return "Long"
	case Int16:
		return "Short"
	case Bool:
		return "Bool"
	default:
		return ""
	}
}

// torchNames lists the framework scalar type names in the order the cast symbolics are generated.
var torchNames = []string{"Byte", "Char", "Double", "Float", "Half", "Int", "Long", "Short", "Bool"}

// TorchNames returns the framework scalar type names that have an ONNX equivalent.
func TorchNames() []string {
	return append([]string(nil), torchNames...)
}

// FromTorchName maps a framework scalar type name ("Byte", "Float", ...) to its DType.
func FromTorchName(name string) (DType, error) {
	for _, dtype := range []DType{Uint8, Int8, Float64, Float32, Float16, Int32, Int64, Int16, Bool} {
		if dtype.TorchName() == name {
			return dtype, nil
		}
	}
	return InvalidDType, errors.Errorf("unknown scalar type name %q", name)
}

// cNameToTorch maps C scalar names, as used in the names of the framework's cast operators
// (e.g. "_cast_uint8_t"), to the framework scalar type names.
var cNameToTorch = map[string]string{
	"uint8_t": "Byte",
	"int8_t":  "Char",
	"double":  "Double",
	"float":   "Float",
	"half":    "Half",
	"int":     "Int",
	"int64_t": "Long",
	"int16_t": "Short",
}

// FromCName maps a C scalar name ("int64_t", "float", ...) to its DType.
func FromCName(name string) (DType, error) {
	torchName, ok := cNameToTorch[name]
	if !ok {
		return InvalidDType, errors.Errorf("unknown C scalar name %q", name)
	}
	return FromTorchName(torchName)
}

// scalarTypeIndex is the framework's integer numbering of its scalar types.
var scalarTypeIndex = map[int]DType{
	0:  Uint8,
	1:  Int8,
	2:  Int16,
	3:  Int32,
	4:  Int64,
	5:  Float16,
	6:  Float32,
	7:  Float64,
	11: Bool,
}

// FromScalarTypeIndex maps the framework's scalar type index (as found in traced graphs for
// arguments like "dtype") to a DType.
func FromScalarTypeIndex(index int) (DType, error) {
	dtype, ok := scalarTypeIndex[index]
	if !ok {
		return InvalidDType, errors.Errorf("scalar type index %d has no ONNX equivalent", index)
	}
	return dtype, nil
}
