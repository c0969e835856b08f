package symbolic

import (
	"fmt"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Scalar returns the only element of lit as a float64. It fails if lit doesn't have exactly one element.
func Scalar(lit *ir.Literal) (float64, error) {
	if lit == nil {
		return 0, errors.New("nil literal is not a scalar")
	}
	return lit.Float()
}

// IfScalarTypeAs converts a resolved scalar self to the element type of tensor, when that type is
// known. Graph values are returned unchanged: only scalars are implicitly converted, so no cast
// node is ever needed here.
//
// self may be an *ir.Literal, int64, float64 or bool. The result is an *ir.Literal when a
// conversion happens, and self otherwise.
func IfScalarTypeAs(self any, tensor *ir.Value) (any, error) {
	if IsValue(self) || tensor == nil {
		return self, nil
	}
	shape, ok := tensor.Shape()
	if !ok || !shape.DType.IsValid() {
		return self, nil
	}
	var lit *ir.Literal
	switch v := self.(type) {
	case *ir.Literal:
		lit = v
	case int64:
		lit = ir.Scalar(v)
	case float64:
		lit = ir.Scalar(v)
	case bool:
		lit = ir.Scalar(v)
	default:
		return self, nil
	}
	converted, err := lit.ConvertTo(shape.DType)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to convert scalar to the type of %s", tensor)
	}
	return converted, nil
}

// TryGetScalarType returns the element type of the first argument that is a graph value with a
// known shape.
func TryGetScalarType(args ...any) (dtypes.DType, bool) {
	for _, arg := range args {
		if !IsValue(arg) {
			continue
		}
		if shape, ok := arg.(*ir.Value).Shape(); ok && shape.DType.IsValid() {
			return shape.DType, true
		}
	}
	return dtypes.InvalidDType, false
}

// Unimplemented reports that op can't be exported because of msg (e.g. "Ascending TopK"), and
// returns the corresponding *UnsupportedError.
func Unimplemented(op, msg string) error {
	err := &UnsupportedError{
		Op:  op,
		msg: fmt.Sprintf("ONNX export failed on %s because %s not supported", op, msg),
	}
	klog.Warning(err.msg)
	return err
}

// blockedError reports a block-listed operator at the given opset.
func blockedError(op string, version int) error {
	err := &UnsupportedError{
		Op:      op,
		Opset:   version,
		Blocked: true,
		msg: fmt.Sprintf("ONNX export failed on %s, which is not yet implemented for opset %d. "+
			"Try exporting with a previous opset version.", op, version),
	}
	klog.Warning(err.msg)
	return err
}

// notFoundError reports an operator without any symbolic.
func notFoundError(op string, version int) error {
	err := &UnsupportedError{
		Op:    op,
		Opset: version,
		msg:   fmt.Sprintf("ONNX export failed: Couldn't export operator %s", op),
	}
	klog.Warning(err.msg)
	return err
}
