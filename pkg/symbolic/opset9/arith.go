package opset9

import (
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
)

// binaryOp emits op(self, other), converting a resolved scalar other to the type of self.
func binaryOp(ctx *symbolic.Context, op string, self, other any) (*ir.Value, error) {
	selfValue, _ := self.(*ir.Value)
	other, err := symbolic.IfScalarTypeAs(other, selfValue)
	if err != nil {
		return nil, err
	}
	return ctx.Op(op, nil, self, other)
}

// scaledOther returns other*alpha, or other if alpha is absent or 1. alpha must be a constant scalar.
func scaledOther(ctx *symbolic.Context, op string, other, alpha any) (any, error) {
	var scale float64
	switch v := symbolic.MaybeGetScalar(alpha).(type) {
	case nil:
		return other, nil
	case *ir.Literal:
		var err error
		scale, err = symbolic.Scalar(v)
		if err != nil {
			return nil, err
		}
	case int64:
		scale = float64(v)
	case float64:
		scale = v
	default:
		return nil, symbolic.Unimplemented(op, "a non-constant alpha is")
	}
	if scale == 1 {
		return other, nil
	}
	return Mul(ctx, other, alpha)
}

// Add emits self + other*alpha. alpha may be nil.
func Add(ctx *symbolic.Context, self, other, alpha any) (*ir.Value, error) {
	other, err := scaledOther(ctx, "add", other, alpha)
	if err != nil {
		return nil, err
	}
	return binaryOp(ctx, "Add", self, other)
}

// Sub emits self - other*alpha. alpha may be nil.
func Sub(ctx *symbolic.Context, self, other, alpha any) (*ir.Value, error) {
	other, err := scaledOther(ctx, "sub", other, alpha)
	if err != nil {
		return nil, err
	}
	return binaryOp(ctx, "Sub", self, other)
}

// Mul emits self * other.
func Mul(ctx *symbolic.Context, self, other any) (*ir.Value, error) {
	return binaryOp(ctx, "Mul", self, other)
}

// Div emits self / other.
func Div(ctx *symbolic.Context, self, other any) (*ir.Value, error) {
	return binaryOp(ctx, "Div", self, other)
}

// Unsqueeze inserts a dimension of size 1 at dim. self may be a resolved scalar, which is
// materialized as a constant first.
func Unsqueeze(ctx *symbolic.Context, self any, dim int64) (*ir.Value, error) {
	return ctx.Op("Unsqueeze", ir.Attributes{"axes": []int64{dim}}, self)
}

func add(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	return single(Add(ctx, args.Get(0), args.Get(1), args.Get(2)))
}

func sub(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	return single(Sub(ctx, args.Get(0), args.Get(1), args.Get(2)))
}

func mul(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	return single(Mul(ctx, args.Get(0), args.Get(1)))
}

func div(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	return single(Div(ctx, args.Get(0), args.Get(1)))
}

func unsqueeze(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	return single(Unsqueeze(ctx, args.Get(0), args.Int(1)))
}
