// Package symbolic implements the machinery shared by the operator conversion functions
// ("symbolics") that translate IR nodes to ONNX nodes.
//
// The constant resolver (ParseArg, MaybeGetConst, GetConst, UnpackList) decides whether a graph
// value is statically known and extracts it in a typed form. A Signature declares one
// descriptor per positional argument and resolves the arguments before a symbolic runs.
// The Registry maps operator names to symbolics for one target opset, with block-listed
// names resolved to an explicit "unsupported" marker.
package symbolic

import (
	"fmt"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
)

// IsValue returns whether arg is a graph value (as opposed to an already resolved Go value).
func IsValue(arg any) bool {
	v, ok := arg.(*ir.Value)
	return ok && v != nil
}

// ParseArg resolves arg according to desc.
//
// None and Value return arg unchanged, and so does an absent (nil) arg. An already resolved Go
// value is converted to the type of desc, see coerce. Otherwise the producer node of the value
// must be:
//
//   - a literal constant: its payload is converted to int64 (Int), float64 (Float), bool (Bool),
//     []int64 (IntList) or returned as the *ir.Literal (Tensor);
//   - a list construct, only for IntList: every element must be a literal constant, and the
//     result holds one int64 per element, in order.
//
// Anything else fails with a *ResolutionError wrapping ErrUnexpectedKind that names the kind found.
func ParseArg(arg any, desc Desc) (any, error) {
	if !desc.IsValid() {
		return nil, &ResolutionError{Err: ErrUnknownDescriptor, Desc: desc}
	}
	if desc == None || desc == Value || arg == nil {
		return arg, nil
	}
	v, isValue := arg.(*ir.Value)
	if !isValue {
		return coerce(arg, desc)
	}
	if v == nil {
		return arg, nil
	}
	node := v.Node()
	switch node.Kind() {
	case ir.KindConstant:
		return parseConstant(node, desc)
	case ir.KindListConstruct:
		if desc != IntList {
			return nil, &ResolutionError{Err: ErrUnexpectedKind, Desc: desc, Kind: node.Kind(),
				Detail: "only integer lists can be resolved from a list construct"}
		}
		return parseIntList(node)
	}
	return nil, &ResolutionError{Err: ErrUnexpectedKind, Desc: desc, Kind: node.Kind()}
}

// coerce converts an already resolved Go value to the type of desc: int64 (Int), float64 (Float),
// bool (Bool), []int64 (IntList) or *ir.Literal (Tensor). A single integer is accepted as a
// one-element IntList, and integers and floats convert to each other when no precision is lost.
func coerce(arg any, desc Desc) (any, error) {
	fail := func(detail string) (any, error) {
		return nil, &ResolutionError{Err: ErrInvalidConstant, Desc: desc,
			Detail: fmt.Sprintf("can't use %T as %s: %s", arg, desc, detail)}
	}
	if lit, ok := arg.(*ir.Literal); ok {
		if lit == nil {
			return fail("nil literal")
		}
		result, err := convertLiteral(lit, desc)
		if err != nil {
			return fail(err.Error())
		}
		return result, nil
	}

	switch desc {
	case Int:
		switch v := arg.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			if v != float64(int64(v)) {
				return fail("not an integer")
			}
			return int64(v), nil
		}
	case Float:
		switch v := arg.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case Bool:
		if v, ok := arg.(bool); ok {
			return v, nil
		}
	case IntList:
		switch v := arg.(type) {
		case []int64:
			return v, nil
		case []int:
			return convertInts(v), nil
		case int64:
			return []int64{v}, nil
		case int:
			return []int64{int64(v)}, nil
		}
	case Tensor:
		switch v := arg.(type) {
		case int64:
			return ir.Scalar(v), nil
		case int:
			return ir.Scalar(int64(v)), nil
		case float64:
			return ir.Scalar(v), nil
		case bool:
			return ir.Scalar(v), nil
		case []int64:
			return ir.Vector(v...), nil
		case []int:
			return ir.Vector(convertInts(v)...), nil
		}
	}
	return fail("unsupported type")
}

func convertInts(values []int) []int64 {
	result := make([]int64, len(values))
	for i, v := range values {
		result[i] = int64(v)
	}
	return result
}

// parseConstant converts the payload of a constant node according to desc.
func parseConstant(node *ir.Node, desc Desc) (any, error) {
	lit, ok := node.Literal()
	if !ok || lit == nil {
		return nil, &ResolutionError{Err: ErrInvalidConstant, Desc: desc, Kind: node.Kind(),
			Detail: fmt.Sprintf("missing %q attribute", ir.ValueAttr)}
	}
	result, err := convertLiteral(lit, desc)
	if err != nil {
		return nil, &ResolutionError{Err: ErrInvalidConstant, Desc: desc, Kind: node.Kind(), Detail: err.Error()}
	}
	return result, nil
}

// convertLiteral converts the payload lit according to desc.
func convertLiteral(lit *ir.Literal, desc Desc) (any, error) {
	switch desc {
	case Int:
		return lit.Int()
	case Float:
		return lit.Float()
	case Bool:
		return lit.Bool()
	case IntList:
		return lit.Ints(), nil
	}
	return lit, nil
}

// parseIntList collects the integer payloads of the elements of a list construct.
func parseIntList(node *ir.Node) ([]int64, error) {
	result := make([]int64, 0, node.NumInputs())
	for i, element := range node.Inputs() {
		elementNode := element.Node()
		lit, ok := elementNode.Literal()
		if !ok || lit == nil {
			return nil, &ResolutionError{Err: ErrNonConstantElement, Desc: IntList, Kind: elementNode.Kind(),
				Detail: fmt.Sprintf("failed to export an ONNX attribute, since element %d is not constant, "+
					"please try to make things (e.g., kernel size) static if possible", i)}
		}
		value, err := lit.Int()
		if err != nil {
			return nil, &ResolutionError{Err: ErrInvalidConstant, Desc: IntList, Kind: elementNode.Kind(),
				Detail: fmt.Sprintf("element %d: %v", i, err)}
		}
		result = append(result, value)
	}
	return result, nil
}

// MaybeGetConst resolves arg according to desc if it is produced by a literal constant, and
// returns arg unchanged otherwise. It never fails: a constant that can't be converted as
// requested is also returned unchanged.
func MaybeGetConst(arg any, desc Desc) any {
	if !IsValue(arg) || arg.(*ir.Value).Node().Kind() != ir.KindConstant {
		return arg
	}
	result, err := ParseArg(arg, desc)
	if err != nil {
		return arg
	}
	return result
}

// MaybeGetScalar returns the *ir.Literal payload of arg if it is a rank-0 constant,
// and arg unchanged otherwise.
func MaybeGetScalar(arg any) any {
	if lit, ok := MaybeGetConst(arg, Tensor).(*ir.Literal); ok && lit.IsScalar() {
		return lit
	}
	return arg
}

// GetConst resolves arg according to desc, requiring it to be a literal constant if it is a
// graph value. argName is used in the error message.
//
// Use it for arguments that ONNX can only take as a static attribute.
func GetConst(arg any, desc Desc, argName string) (any, error) {
	if IsValue(arg) {
		if kind := arg.(*ir.Value).Node().Kind(); kind != ir.KindConstant {
			return nil, &ResolutionError{Err: ErrExpectedConstant, Desc: desc, Kind: kind, ArgName: argName}
		}
	}
	result, err := ParseArg(arg, desc)
	if err != nil {
		if resErr, ok := err.(*ResolutionError); ok && resErr.ArgName == "" {
			resErr.ArgName = argName
		}
		return nil, err
	}
	return result, nil
}

// UnpackList returns the elements of a list construct, in order, without resolving them.
func UnpackList(list *ir.Value) ([]*ir.Value, error) {
	if list == nil {
		return nil, &ResolutionError{Err: ErrNotAList, Desc: Value}
	}
	node := list.Node()
	if node.Kind() != ir.KindListConstruct {
		return nil, &ResolutionError{Err: ErrNotAList, Desc: Value, Kind: node.Kind()}
	}
	return node.Inputs(), nil
}
