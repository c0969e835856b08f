package opset9

import (
	"fmt"
	"slices"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
)

// Tuple returns values expanded to n spatial dimensions: a single value is repeated n times,
// anything else is returned as is.
func Tuple(n int, values ...int64) []int64 {
	if len(values) == 1 && n > 1 {
		result := make([]int64, n)
		for i := range result {
			result[i] = values[0]
		}
		return result
	}
	return slices.Clone(values)
}

// Repeat returns values concatenated times times, e.g. the begin and end pads of ONNX from the
// symmetric framework padding.
func Repeat(values []int64, times int) []int64 {
	result := make([]int64, 0, len(values)*times)
	for range times {
		result = append(result, values...)
	}
	return result
}

// AllOnes returns whether every value is 1.
func AllOnes(values []int64) bool {
	for _, v := range values {
		if v != 1 {
			return false
		}
	}
	return true
}

// Ones returns n ones.
func Ones(n int) []int64 {
	return Tuple(n, 1)
}

// SpatialAxes returns the axes of the n spatial dimensions of an NC... tensor.
func SpatialAxes(n int) []int64 {
	axes := make([]int64, n)
	for i := range axes {
		axes[i] = int64(2 + i)
	}
	return axes
}

func registerPools(m *symbolic.Module) {
	for ndims := 1; ndims <= 3; ndims++ {
		maxName := fmt.Sprintf("max_pool%dd", ndims)
		withIndices := maxName + "_with_indices"
		avgName := fmt.Sprintf("avg_pool%dd", ndims)
		m.Register(maxName, symbolic.MustParseArgs("v", "is", "is", "is", "is", "i"), maxPool(maxName, ndims, false))
		m.Register(withIndices, symbolic.MustParseArgs("v", "is", "is", "is", "is", "i"), maxPool(withIndices, ndims, true))
		m.Register(avgName, symbolic.MustParseArgs("v", "is", "is", "is", "i", "i"), avgPool(avgName, ndims))
	}
}

// maxPool returns the symbolic for max_pool<ndims>d:
// (input, kernel_size, stride, padding, dilation, ceil_mode).
// Opset 9 MaxPool has neither ceil_mode nor dilations.
func maxPool(name string, ndims int, returnIndices bool) symbolic.Func {
	return func(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
		kernel, stride, padding := args.Ints(1), args.Ints(2), args.Ints(3)
		if args.Int(5) != 0 {
			return nil, symbolic.Unimplemented(name, "ceil_mode")
		}
		if dilation := args.Ints(4); len(dilation) > 0 && !AllOnes(Tuple(ndims, dilation...)) {
			return nil, symbolic.Unimplemented(name, "dilation")
		}
		if len(stride) == 0 {
			stride = kernel
		}
		attrs := ir.Attributes{
			"kernel_shape": Tuple(ndims, kernel...),
			"pads":         Repeat(Tuple(ndims, padding...), 2),
			"strides":      Tuple(ndims, stride...),
		}
		if !returnIndices {
			return single(ctx.Op("MaxPool", attrs, args.Get(0)))
		}
		outputs, err := ctx.MultiOp("MaxPool", 2, attrs, args.Get(0))
		if err != nil {
			return nil, err
		}
		indices, err := UnflattenIndices(ctx, args.Get(0), outputs[1], ndims, SliceOp)
		if err != nil {
			return nil, err
		}
		return []*ir.Value{outputs[0], indices}, nil
	}
}

// SliceFunc slices input along axes, from starts to ends (exclusive).
type SliceFunc func(ctx *symbolic.Context, input any, axes, starts, ends []int64) (*ir.Value, error)

// UnflattenIndices converts the indices returned by ONNX MaxPool, flattened over all the dimensions
// of input, to indices within each spatial dimension as the framework returns them.
//
// A MaxPool with kernel and strides of 1 over the same input returns the flattened index of every
// element: the first index of each spatial window is subtracted from indices.
func UnflattenIndices(ctx *symbolic.Context, input any, indices *ir.Value, ndims int, sliceOp SliceFunc) (*ir.Value, error) {
	reference, err := ctx.MultiOp("MaxPool", 2, ir.Attributes{
		"kernel_shape": Ones(ndims),
		"strides":      Ones(ndims),
	}, input)
	if err != nil {
		return nil, err
	}
	first, err := sliceOp(ctx, reference[1], SpatialAxes(ndims), Tuple(ndims, 0), Tuple(ndims, 1))
	if err != nil {
		return nil, err
	}
	return Sub(ctx, indices, first, nil)
}

// avgPool returns the symbolic for avg_pool<ndims>d:
// (input, kernel_size, stride, padding, ceil_mode, count_include_pad).
func avgPool(name string, ndims int) symbolic.Func {
	return func(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
		if args.Int(4) != 0 {
			return nil, symbolic.Unimplemented(name, "ceil_mode")
		}
		input, padded, err := AvgPoolInput(ctx, args, ndims)
		if err != nil {
			return nil, err
		}
		kernel, stride := args.Ints(1), args.Ints(2)
		if len(stride) == 0 {
			stride = kernel
		}
		return single(ctx.Op("AveragePool", ir.Attributes{
			"kernel_shape": Tuple(ndims, kernel...),
			"strides":      Tuple(ndims, stride...),
			"pads":         Repeat(padded, 2),
		}, input))
	}
}

// AvgPoolInput returns the input of the AveragePool node and the symmetric padding it should use.
//
// With count_include_pad set, the padding is applied by an explicit zero Pad node so that the
// padded zeros are counted in the averages, and the returned padding is all zeros.
func AvgPoolInput(ctx *symbolic.Context, args symbolic.Args, ndims int) (input any, padding []int64, err error) {
	input = args.Get(0)
	padding = Tuple(ndims, args.Ints(3)...)
	if args.Int(5) == 0 {
		return input, padding, nil
	}
	input, err = ctx.Op("Pad", ir.Attributes{
		"pads":  Repeat(append([]int64{0, 0}, padding...), 2),
		"mode":  "constant",
		"value": 0.0,
	}, input)
	if err != nil {
		return nil, nil, err
	}
	return input, make([]int64, len(padding)), nil
}
