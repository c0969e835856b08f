// Package opset10 holds the symbolics that changed in ONNX opset 10, and the block-list of
// operators whose opset 9 conversion is no longer valid and has not been updated yet.
package opset10

import (
	"fmt"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic/opset9"
	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
	"github.com/pkg/errors"
)

// Version of the opset targeted by this module.
const Version = 10

// BlockList are the operators updated in opset 10 that are not re-implemented here.
// Exporting them with opset 9 symbolics would produce a model mixing operator versions.
//
// slice and upsample_nearest2d are listed, but this module defines them, so they stay available.
var BlockList = []string{
	"flip",
	"slice",
	"upsample_nearest2d", "upsample_bilinear2d",
	"dropout", "feature_dropout", "alpha_dropout", "feature_alpha_dropout",
	"dropout_", "feature_dropout_", "alpha_dropout_", "feature_alpha_dropout_",
}

// Module returns a new symbolic.Module with the opset 10 block-list and symbolics.
func Module() *symbolic.Module {
	m := symbolic.NewModule(Version).Block(BlockList...).
		Register("topk", symbolic.MustParseArgs("v", "v", "i", "i", "i", "none"), topk).
		Register("slice", symbolic.MustParseArgs("v", "v", "v", "v", "v"), slice).
		Register("upsample_nearest2d", symbolic.MustParseArgs("v", "v"), upsampleNearest2d)
	for ndims := 1; ndims <= 3; ndims++ {
		maxName := fmt.Sprintf("max_pool%dd", ndims)
		withIndices := maxName + "_with_indices"
		avgName := fmt.Sprintf("avg_pool%dd", ndims)
		m.Register(maxName, symbolic.MustParseArgs("v", "is", "is", "is", "is", "i"), maxPool(ndims, false))
		m.Register(withIndices, symbolic.MustParseArgs("v", "is", "is", "is", "is", "i"), maxPool(ndims, true))
		m.Register(avgName, symbolic.MustParseArgs("v", "is", "is", "is", "i", "i"), avgPool(ndims))
	}
	return m
}

func single(v *ir.Value, err error) ([]*ir.Value, error) {
	if err != nil {
		return nil, err
	}
	return []*ir.Value{v}, nil
}

// topk: (self, k, dim, largest, sorted, out). Since opset 10 TopK takes k as a 1D input.
func topk(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	if args.Has(5) {
		return nil, symbolic.Unimplemented("TopK", "Out parameter is")
	}
	if args.Has(3) && args.Int(3) == 0 {
		return nil, symbolic.Unimplemented("TopK", "Ascending TopK is")
	}
	k, err := opset9.Unsqueeze(ctx, symbolic.MaybeGetConst(args.Get(1), symbolic.Int), 0)
	if err != nil {
		return nil, err
	}
	return ctx.MultiOp("TopK", 2, ir.Attributes{"axis": args.Int(2)}, args.Get(0), k)
}

// SliceOp emits an opset 10 Slice, where starts, ends and axes are constant inputs.
func SliceOp(ctx *symbolic.Context, input any, axes, starts, ends []int64) (*ir.Value, error) {
	return ctx.Op("Slice", nil, input, starts, ends, axes)
}

// slice: (self, dim, start, end, step). Constant bounds become 1D constants, dynamic ones are unsqueezed.
func slice(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	allConstant := true
	for i := 1; i <= 4; i++ {
		if args.IsValue(i) && args.Value(i).Node().Kind() != ir.KindConstant {
			allConstant = false
		}
	}
	// Inputs of ONNX Slice are (data, starts, ends, axes, steps).
	bounds := make([]any, 4)
	for i, argIdx := range []int{2, 3, 1, 4} {
		if allConstant {
			v, err := symbolic.GetConst(args.Get(argIdx), symbolic.Int, sliceArgNames[argIdx])
			if err != nil {
				return nil, err
			}
			bound, ok := v.(int64)
			if !ok {
				return nil, errors.Errorf("slice: missing %s argument", sliceArgNames[argIdx])
			}
			bounds[i] = []int64{bound}
			continue
		}
		unsqueezed, err := opset9.Unsqueeze(ctx, args.Get(argIdx), 0)
		if err != nil {
			return nil, err
		}
		bounds[i] = unsqueezed
	}
	return single(ctx.Op("Slice", nil, append([]any{args.Get(0)}, bounds...)...))
}

var sliceArgNames = []string{"self", "dim", "start", "end", "step"}

// upsample_nearest2d: (input, output_size). Since opset 10 Upsample is replaced by Resize.
func upsampleNearest2d(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
	input := args.Value(0)
	outputSize := symbolic.MaybeGetConst(args.Get(1), symbolic.IntList)
	var scales any
	if symbolic.IsValue(outputSize) {
		var err error
		scales, err = dynamicScales(ctx, input, outputSize.(*ir.Value))
		if err != nil {
			return nil, err
		}
	} else {
		sizes, ok := outputSize.([]int64)
		if !ok {
			return nil, errors.Errorf("upsample_nearest2d: invalid output_size %v", outputSize)
		}
		static, err := opset9.UpsampleScales(input, sizes, "upsample_nearest2d")
		if err != nil {
			return nil, err
		}
		scales = ir.Vector(static...)
	}
	return single(ctx.Op("Resize", ir.Attributes{"mode": "nearest"}, input, scales))
}

// dynamicScales computes [1, 1, output_size / input spatial dims] in the graph.
func dynamicScales(ctx *symbolic.Context, input, outputSize *ir.Value) (*ir.Value, error) {
	toFloat := ir.Attributes{"to": int64(dtypes.Float32)}
	numerator, err := ctx.Op("Cast", toFloat, outputSize)
	if err != nil {
		return nil, err
	}
	shape, err := ctx.Op("Shape", nil, input)
	if err != nil {
		return nil, err
	}
	spatial, err := ctx.Op("Slice", nil, shape, []int64{2}, []int64{4})
	if err != nil {
		return nil, err
	}
	denominator, err := ctx.Op("Cast", toFloat, spatial)
	if err != nil {
		return nil, err
	}
	ratio, err := ctx.Op("Div", nil, numerator, denominator)
	if err != nil {
		return nil, err
	}
	return ctx.Op("Concat", ir.Attributes{"axis": int64(0)}, ir.Vector[float32](1, 1), ratio)
}
