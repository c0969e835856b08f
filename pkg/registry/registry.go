// Package registry assembles the symbolic modules of every supported opset into the
// symbolic.Registry used by a lowering pass.
package registry

import (
	"github.com/gomlx/onnx-symbolic/pkg/opset"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic/opset10"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic/opset9"
	"github.com/pkg/errors"
)

// Modules returns new instances of all the symbolic modules, oldest first.
func Modules() []*symbolic.Module {
	return []*symbolic.Module{opset9.Module(), opset10.Module()}
}

// New returns the registry for the target opset version, which must be allowed by the default policy.
func New(version int) (*symbolic.Registry, error) {
	if !opset.DefaultPolicy().Allowed(version) {
		return nil, errors.Wrapf(opset.ErrUnsupportedVersion, "version %d", version)
	}
	return symbolic.NewRegistry(version, Modules()...)
}

// Export runs one lowering pass: it opens a pass on gate, builds the registry for its version
// and calls fn with a context emitting into b. The pass is closed when fn returns.
func Export(gate *opset.Gate, b symbolic.Builder, fn func(ctx *symbolic.Context, r *symbolic.Registry) error) error {
	pass := gate.Begin()
	defer pass.End()
	r, err := symbolic.NewRegistry(pass.Version(), Modules()...)
	if err != nil {
		return err
	}
	return fn(symbolic.NewContext(b, pass), r)
}
