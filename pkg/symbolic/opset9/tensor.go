package opset9

import (
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
	"github.com/gomlx/onnx-symbolic/pkg/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// topk: (self, k, dim, largest, sorted, out). Opset 9 TopK takes k as an attribute.
func topk(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	if args.Has(5) {
		return nil, symbolic.Unimplemented("TopK", "Out parameter is")
	}
	if args.Has(3) && args.Int(3) == 0 {
		return nil, symbolic.Unimplemented("TopK", "Ascending TopK is")
	}
	return ctx.MultiOp("TopK", 2, ir.Attributes{"k": args.Int(1), "axis": args.Int(2)}, args.Get(0))
}

// SliceOp emits an opset 9 Slice, where starts, ends and axes are attributes.
func SliceOp(ctx *symbolic.Context, input any, axes, starts, ends []int64) (*ir.Value, error) {
	return ctx.Op("Slice", ir.Attributes{"axes": axes, "starts": starts, "ends": ends}, input)
}

// slice: (self, dim, start, end, step). Bounds and dim must be constants.
func slice(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	if args.Has(4) && args.Int(4) != 1 {
		return nil, symbolic.Unimplemented("slice", "step!=1 is currently")
	}
	var bounds [3]int64
	for i, argName := range []string{"dim", "start", "end"} {
		v, err := symbolic.GetConst(args.Get(i+1), symbolic.Int, argName)
		if err != nil {
			return nil, errors.WithMessage(err, "ONNX export of Slice with dynamic inputs requires opset 10 or newer")
		}
		bound, ok := v.(int64)
		if !ok {
			return nil, errors.Errorf("slice: missing %s argument", argName)
		}
		bounds[i] = bound
	}
	return single(SliceOp(ctx, args.Get(0), []int64{bounds[0]}, []int64{bounds[1]}, []int64{bounds[2]}))
}

// UpsampleScales returns the scales [1, 1, height, width] of an upsampling of input to outputSize.
// The spatial dimensions of input must be known.
func UpsampleScales(input *ir.Value, outputSize []int64, op string) ([]float32, error) {
	shape, ok := input.Shape()
	if !ok || shape.Rank() < 2 || len(outputSize) < 2 {
		return nil, symbolic.Unimplemented(op, "an input of unknown rank is")
	}
	height, width := shape.Dim(-2), shape.Dim(-1)
	if height == shapes.DimUnknown || width == shapes.DimUnknown || height == 0 || width == 0 {
		return nil, symbolic.Unimplemented(op, "an input with dynamic spatial dimensions is")
	}
	return []float32{
		1, 1,
		float32(outputSize[len(outputSize)-2]) / float32(height),
		float32(outputSize[len(outputSize)-1]) / float32(width),
	}, nil
}

func upsample(ctx *symbolic.Context, op string, input *ir.Value, outputSize []int64, mode string) ([]*ir.Value, error) {
	scales, err := UpsampleScales(input, outputSize, op)
	if err != nil {
		return nil, err
	}
	return single(ctx.Op("Upsample", ir.Attributes{"mode": mode}, input, ir.Vector(scales...)))
}

// upsample_nearest2d: (input, output_size).
func upsampleNearest2d(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	return upsample(ctx, "upsample_nearest2d", args.Value(0), args.Ints(1), "nearest")
}

// upsample_bilinear2d: (input, output_size, align_corners).
func upsampleBilinear2d(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	if args.Int(2) != 0 {
		return nil, symbolic.Unimplemented("upsample_bilinear2d", "align_corners == True is")
	}
	return upsample(ctx, "upsample_bilinear2d", args.Value(0), args.Ints(1), "linear")
}

// dropout: (input, p, train). Outside of training it is the identity and emits nothing.
func dropout(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	input, err := ctx.Materialize(args.Get(0))
	if err != nil {
		return nil, err
	}
	if args.Int(2) == 0 {
		return []*ir.Value{input}, nil
	}
	klog.Warning("Dropout is a training op and should not be exported in inference mode. " +
		"Make sure to call eval() on the model, and to export it with param training=False.")
	outputs, err := ctx.MultiOp("Dropout", 2, ir.Attributes{"ratio": args.Float(1)}, input)
	if err != nil {
		return nil, err
	}
	return outputs[:1], nil
}
