// Package opset9 holds the base symbolics, targeting ONNX opset 9. Newer opset modules only
// carry what changed, and inherit everything else from here.
package opset9

import (
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
)

// Version of the opset targeted by this module.
const Version = 9

// Module returns a new symbolic.Module with the opset 9 symbolics.
func Module() *symbolic.Module {
	m := symbolic.NewModule(Version).
		Register("add", symbolic.MustParseArgs("v", "v", "v"), add).
		Register("sub", symbolic.MustParseArgs("v", "v", "v"), sub).
		Register("mul", symbolic.MustParseArgs("v", "v"), mul).
		Register("div", symbolic.MustParseArgs("v", "v"), div).
		Register("unsqueeze", symbolic.MustParseArgs("v", "i"), unsqueeze).
		Register("topk", symbolic.MustParseArgs("v", "i", "i", "i", "i", "none"), topk).
		Register("slice", symbolic.MustParseArgs("v", "v", "v", "v", "i"), slice).
		Register("upsample_nearest2d", symbolic.MustParseArgs("v", "is"), upsampleNearest2d).
		Register("upsample_bilinear2d", symbolic.MustParseArgs("v", "is", "i"), upsampleBilinear2d)
	for _, name := range []string{"dropout", "feature_dropout", "alpha_dropout", "feature_alpha_dropout"} {
		m.Register(name, symbolic.MustParseArgs("v", "f", "i"), dropout)
	}
	registerPools(m)
	registerCasts(m)
	return m
}

// single returns one output.
func single(v *ir.Value, err error) ([]*ir.Value, error) {
	if err != nil {
		return nil, err
	}
	return []*ir.Value{v}, nil
}

// registerCasts adds one "_cast_<Type>" symbolic per framework scalar type, emitting a Cast node.
// Their second argument (non_blocking) is ignored.
func registerCasts(m *symbolic.Module) {
	for _, name := range dtypes.TorchNames() {
		dtype, err := dtypes.FromTorchName(name)
		if err != nil {
			panic(err)
		}
		m.Register("_cast_"+name, symbolic.MustParseArgs("v", "i"),
			func(ctx *symbolic.Context, args symbolic.Args) ([]*ir.Value, error) {
				return single(ctx.Op("Cast", ir.Attributes{"to": int64(dtype)}, args.Get(0)))
			})
	}
}
