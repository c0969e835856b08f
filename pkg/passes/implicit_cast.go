package passes

import (
	"github.com/gomlx/onnx-symbolic/internal/utils"
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
	"k8s.io/klog/v2"
)

var (
	arithmeticOps = utils.SetWith(ir.ONNX("Add"), ir.ONNX("Sub"), ir.ONNX("Mul"), ir.ONNX("Div"),
		ir.ONNX("Gemm"), ir.ONNX("Pow"))
	comparisonOps = utils.SetWith(ir.ONNX("Greater"), ir.ONNX("Less"), ir.ONNX("Equal"))

	// castableTypes are the types ImplicitCast converts to.
	castableTypes = utils.SetWith(dtypes.Float32, dtypes.Uint8, dtypes.Int8, dtypes.Int16, dtypes.Int32,
		dtypes.Int64, dtypes.Bool, dtypes.Float16, dtypes.Float64)
)

// ImplicitCast resolves the element type mismatches between the inputs of ONNX arithmetic
// (Add, Sub, Mul, Div, Gemm, Pow) and comparison (Greater, Less, Equal) nodes, introduced by the
// framework's implicit conversion of scalars.
//
// The expected type of each node is the promotion of its inputs' types if all of them are scalars
// (constants, or elements gathered from a Shape), otherwise the node's output type if known,
// otherwise the type of its first typed tensor input. Constant inputs of another type are replaced
// by converted constants, other typed inputs get a Cast node. Arithmetic outputs take the
// expected type. Dead nodes are removed at the end.
//
// It returns the number of inputs converted.
func ImplicitCast(g *ir.Graph) (int, error) {
	converted := 0
	for _, node := range g.Nodes() {
		kind := node.Kind()
		if !arithmeticOps.Has(kind) && !comparisonOps.Has(kind) {
			continue
		}
		expected := expectedType(node)
		if !castableTypes.Has(expected) {
			continue
		}
		n, err := castInputs(g, node, expected)
		converted += n
		if err != nil {
			return converted, err
		}
		if arithmeticOps.Has(kind) {
			if output := node.Output(); output != nil {
				if shape, ok := output.Shape(); ok {
					output.SetShape(shape.WithDType(expected))
				}
			}
		}
	}
	removed := g.EliminateDeadCode()
	klog.V(2).Infof("implicit cast: %d inputs converted, %d dead nodes removed", converted, removed)
	return converted, nil
}

// expectedType returns the type every input of node should have, or InvalidDType if unknown.
func expectedType(node *ir.Node) dtypes.DType {
	var fromScalars, fromTensors []dtypes.DType
	for _, input := range node.Inputs() {
		producer := input.Node()
		switch {
		case producer.Kind() == ir.ONNX("Gather") && producer.NumInputs() > 0 &&
			producer.Input(0).Node().Kind() == ir.ONNX("Shape"):
			fromScalars = append(fromScalars, dtypes.Int64)
		case producer.Kind() == ir.KindConstant:
			if lit, ok := producer.Literal(); ok {
				fromScalars = append(fromScalars, lit.DType())
			}
		default:
			if shape, ok := input.Shape(); ok && shape.DType.IsValid() {
				fromTensors = append(fromTensors, shape.DType)
			}
		}
	}

	if len(fromScalars) == node.NumInputs() {
		return dtypes.PromoteAll(fromScalars...)
	}
	if output := node.Output(); output != nil {
		if shape, ok := output.Shape(); ok && shape.DType.IsValid() {
			return shape.DType
		}
	}
	if len(fromTensors) > 0 {
		first := fromTensors[0]
		for _, dtype := range fromTensors[1:] {
			if dtype != first {
				klog.Warningf("ONNX scalar type analysis: scalar types mismatch for tensor inputs of operator %s, "+
					"the scalar type of the first tensor (%s) is chosen", node.Kind(), first)
				break
			}
		}
		return first
	}
	return dtypes.PromoteAll(fromScalars...)
}

// castInputs converts the inputs of node to dtype, inserting the new nodes right before it.
func castInputs(g *ir.Graph, node *ir.Node, dtype dtypes.DType) (int, error) {
	converted := 0
	seen := utils.MakeSet[*ir.Value]()
	for _, input := range node.Inputs() {
		if seen.Has(input) {
			continue
		}
		seen.Insert(input)

		var replacement *ir.Node
		if lit, ok := input.Node().Literal(); ok {
			if lit.DType() == dtype {
				continue
			}
			convertedLit, err := lit.ConvertTo(dtype)
			if err != nil {
				return converted, err
			}
			replacement, err = g.Create(ir.KindConstant, nil, ir.Attributes{ir.ValueAttr: convertedLit}, 1)
			if err != nil {
				return converted, err
			}
			replacement.Output().SetShape(convertedLit.Shape())
		} else {
			shape, ok := input.Shape()
			if !ok || shape.DType == dtype {
				continue
			}
			var err error
			replacement, err = g.Create(ir.ONNX("Cast"), []*ir.Value{input}, ir.Attributes{"to": int64(dtype)}, 1)
			if err != nil {
				return converted, err
			}
			replacement.Output().SetShape(shape.WithDType(dtype))
		}
		if err := replacement.InsertBefore(node); err != nil {
			return converted, err
		}
		node.ReplaceInputWith(input, replacement.Output())
		converted++
	}
	return converted, nil
}
