package symbolic

import (
	"strings"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/opset"
	"github.com/pkg/errors"
)

// Builder is the graph-builder capability used by symbolics. *ir.Graph implements it.
type Builder interface {
	// Op appends a node of the given kind and returns its numOutputs outputs.
	Op(kind ir.Kind, inputs []*ir.Value, attrs ir.Attributes, numOutputs int) ([]*ir.Value, error)

	// Constant appends a literal-constant node and returns its output.
	Constant(lit *ir.Literal) *ir.Value
}

// Context is passed to every symbolic of one lowering pass: it holds the builder where nodes are
// emitted and the pass, which pins the target opset version.
type Context struct {
	builder Builder
	pass    *opset.Pass
}

// NewContext creates a Context emitting into b for the given pass.
func NewContext(b Builder, pass *opset.Pass) *Context {
	return &Context{builder: b, pass: pass}
}

// Builder returns the builder where nodes are emitted.
func (ctx *Context) Builder() Builder {
	return ctx.builder
}

// Pass returns the lowering pass.
func (ctx *Context) Pass() *opset.Pass {
	return ctx.pass
}

// Opset returns the target opset version of the pass, or 0 if the context has no pass.
func (ctx *Context) Opset() int {
	if ctx.pass == nil {
		return 0
	}
	return ctx.pass.Version()
}

// kindFor returns the node kind for op: names without a namespace are ONNX operators.
func kindFor(op string) ir.Kind {
	if strings.Contains(op, "::") {
		return ir.Kind(op)
	}
	return ir.ONNX(op)
}

// Op emits a single-output node. Inputs that are not graph values are materialized first,
// see Materialize.
func (ctx *Context) Op(op string, attrs ir.Attributes, inputs ...any) (*ir.Value, error) {
	outputs, err := ctx.MultiOp(op, 1, attrs, inputs...)
	if err != nil {
		return nil, err
	}
	return outputs[0], nil
}

// MultiOp emits a node with numOutputs outputs.
func (ctx *Context) MultiOp(op string, numOutputs int, attrs ir.Attributes, inputs ...any) ([]*ir.Value, error) {
	values := make([]*ir.Value, len(inputs))
	for i, input := range inputs {
		v, err := ctx.Materialize(input)
		if err != nil {
			return nil, errors.WithMessagef(err, "input #%d of %s", i, op)
		}
		values[i] = v
	}
	outputs, err := ctx.builder.Op(kindFor(op), values, attrs, numOutputs)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to emit %s", op)
	}
	return outputs, nil
}

// Constant emits a literal-constant node.
func (ctx *Context) Constant(lit *ir.Literal) *ir.Value {
	return ctx.builder.Constant(lit)
}

// Materialize returns arg as a graph value, emitting a constant for resolved arguments:
// int64 becomes an Int64 scalar, float64 a Float32 scalar, bool a Bool scalar, []int64 an
// Int64 vector and *ir.Literal a constant holding it.
func (ctx *Context) Materialize(arg any) (*ir.Value, error) {
	switch v := arg.(type) {
	case *ir.Value:
		if v == nil {
			return nil, errors.New("nil graph value")
		}
		return v, nil
	case *ir.Literal:
		if v == nil {
			return nil, errors.New("nil literal")
		}
		return ctx.Constant(v), nil
	case int64:
		return ctx.Constant(ir.Scalar(v)), nil
	case int:
		return ctx.Constant(ir.Scalar(int64(v))), nil
	case float64:
		return ctx.Constant(ir.Scalar(float32(v))), nil
	case bool:
		return ctx.Constant(ir.Scalar(v)), nil
	case []int64:
		return ctx.Constant(ir.Vector(v...)), nil
	case nil:
		return nil, errors.New("absent argument can't be used as a graph value")
	}
	return nil, errors.Errorf("can't convert %T to a graph value", arg)
}
