package opset10

import (
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic/opset9"
)

// maxPool returns the symbolic for max_pool<ndims>d:
// (input, kernel_size, stride, padding, dilation, ceil_mode).
func maxPool(ndims int, returnIndices bool) symbolic.Func {
	return func(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
		kernel, stride := args.Ints(1), args.Ints(2)
		if len(stride) == 0 {
			stride = kernel
		}
		attrs := ir.Attributes{
			"kernel_shape": opset9.Tuple(ndims, kernel...),
			"pads":         opset9.Repeat(opset9.Tuple(ndims, args.Ints(3)...), 2),
			"strides":      opset9.Tuple(ndims, stride...),
			"ceil_mode":    args.Int(5),
		}
		if dilation := opset9.Tuple(ndims, args.Ints(4)...); len(dilation) > 0 && !opset9.AllOnes(dilation) {
			attrs["dilations"] = dilation
		}
		if !returnIndices {
			return single(ctx.Op("MaxPool", attrs, args.Get(0)))
		}
		outputs, err := ctx.MultiOp("MaxPool", 2, attrs, args.Get(0))
		if err != nil {
			return nil, err
		}
		indices, err := opset9.UnflattenIndices(ctx, args.Get(0), outputs[1], ndims, SliceOp)
		if err != nil {
			return nil, err
		}
		return []*ir.Value{outputs[0], indices}, nil
	}
}

// avgPool returns the symbolic for avg_pool<ndims>d:
// (input, kernel_size, stride, padding, ceil_mode, count_include_pad).
func avgPool(ndims int) symbolic.Func {
	return func(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
		input, padding, err := opset9.AvgPoolInput(ctx, args, ndims)
		if err != nil {
			return nil, err
		}
		kernel, stride := args.Ints(1), args.Ints(2)
		if len(stride) == 0 {
			stride = kernel
		}
		return single(ctx.Op("AveragePool", ir.Attributes{
			"kernel_shape": opset9.Tuple(ndims, kernel...),
			"strides":      opset9.Tuple(ndims, stride...),
			"pads":         opset9.Repeat(padding, 2),
			"ceil_mode":    args.Int(4),
		}, input))
	}
}
