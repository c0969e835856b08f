package symbolic

import (
	"testing"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/opset"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// emitter returns a symbolic that emits a single node of the given ONNX operator.
func emitter(op string) Func {
	return func(ctx *Context, args Args) ([]*ir.Value, error) {
		output, err := ctx.Op(op, nil, args.Value(0))
		if err != nil {
			return nil, err
		}
		return []*ir.Value{output}, nil
	}
}

func testModules() []*Module {
	base := NewModule(9).
		Register("relu", MustParseArgs("v"), emitter("Relu")).
		Register("flip", MustParseArgs("v", "is"), emitter("Flip")).
		Register("slice", MustParseArgs("v", "i", "i", "i", "i"), emitter("SliceV9")).
		Register("abs", MustParseArgs("v"), emitter("Abs"))
	next := NewModule(10).
		Block("flip", "slice", "dropout_").
		Register("slice", MustParseArgs("v", "v", "v", "v", "v"), emitter("Slice"))
	return []*Module{next, base}
}

func TestRegistryConstruction(t *testing.T) {
	r9 := must1(NewRegistry(9, testModules()...))
	if diff := cmp.Diff([]string{"abs", "flip", "relu", "slice"}, r9.Names()); diff != "" {
		t.Errorf("opset 9 names mismatch (-want +got):\n%s", diff)
	}
	if len(r9.Blocked()) != 0 {
		t.Errorf("opset 9 blocked = %v, want none", r9.Blocked())
	}

	r10 := must1(NewRegistry(10, testModules()...))
	if diff := cmp.Diff([]string{"dropout_", "flip"}, r10.Blocked()); diff != "" {
		t.Errorf("opset 10 blocked mismatch (-want +got):\n%s", diff)
	}
	// Blocked and redefined in the same module: the definition wins.
	entry, found := r10.Lookup("slice")
	if !found || entry.Unsupported || entry.Version != 10 {
		t.Errorf("opset 10 slice = %+v", entry)
	}
	// Untouched names are inherited.
	entry, found = r10.Lookup("relu")
	if !found || entry.Version != 9 {
		t.Errorf("opset 10 relu = %+v", entry)
	}

	// Newer modules are ignored for older targets, and an opset older than every module fails.
	if _, err := NewRegistry(8, testModules()...); err == nil {
		t.Errorf("NewRegistry(8) should fail without a module for opset <= 8")
	}
	if _, err := NewRegistry(9, NewModule(9), NewModule(9)); err == nil {
		t.Errorf("NewRegistry with two opset 9 modules should fail")
	}
}

func TestRegistryLookupInplace(t *testing.T) {
	r := must1(NewRegistry(10, testModules()...))
	entry, found := r.Lookup("relu_")
	if !found || entry.Name != "relu" {
		t.Errorf("Lookup(relu_) = %+v, %v, want the relu entry", entry, found)
	}
	// An in-place name with its own entry is not redirected.
	entry, found = r.Lookup("dropout_")
	if !found || !entry.Unsupported || entry.Name != "dropout_" {
		t.Errorf("Lookup(dropout_) = %+v, %v", entry, found)
	}
	if _, found := r.Lookup("_"); found {
		t.Errorf("Lookup(\"_\") should not resolve")
	}
	if _, found := r.Lookup("unknown"); found {
		t.Errorf("Lookup(unknown) should not resolve")
	}
}

func TestRegistryRunBlocked(t *testing.T) {
	g := ir.New(t.Name())
	x := g.Input("x", nil)
	r := must1(NewRegistry(10, testModules()...))
	ctx := NewContext(g, opset.Fixed(10))

	for _, name := range []string{"flip", "dropout_"} {
		outputs, err := r.Run(ctx, name, x, []int64{0})
		if !IsWarning(err) {
			t.Fatalf("Run(%s) = %v, want an unsupported warning", name, err)
		}
		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) || !unsupported.Blocked || unsupported.Opset != 10 || unsupported.Op != name {
			t.Errorf("Run(%s) error = %#v", name, err)
		}
		wantMsg := "ONNX export failed on " + name + ", which is not yet implemented for opset 10. " +
			"Try exporting with a previous opset version."
		if err.Error() != wantMsg {
			t.Errorf("Run(%s) message = %q, want %q", name, err, wantMsg)
		}
		if outputs != nil {
			t.Errorf("Run(%s) returned outputs %v", name, outputs)
		}
	}
	if g.NumNodes() != 0 {
		t.Errorf("blocked operators emitted %d nodes:\n%s", g.NumNodes(), g)
	}

	// The same operator is available at opset 9.
	r9 := must1(NewRegistry(9, testModules()...))
	outputs, err := r9.Run(NewContext(g, opset.Fixed(9)), "flip", x, []int64{0})
	requireNoError(t, err)
	if len(outputs) != 1 || outputs[0].Node().Kind() != ir.ONNX("Flip") {
		t.Errorf("opset 9 flip emitted %v", outputs)
	}
}

func TestRegistryRun(t *testing.T) {
	g := ir.New(t.Name())
	x := g.Input("x", nil)
	r := must1(NewRegistry(10, testModules()...))
	ctx := NewContext(g, opset.Fixed(10))

	outputs, err := r.Run(ctx, "relu_", x)
	requireNoError(t, err)
	if len(outputs) != 1 || outputs[0].Node().Kind() != ir.ONNX("Relu") {
		t.Errorf("relu_ emitted %v", outputs)
	}

	_, err = r.Run(ctx, "frobnicate", x)
	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) || unsupported.Blocked {
		t.Errorf("Run(frobnicate) = %v, want a generic unsupported warning", err)
	}

	// Resolution errors are returned as is and are not warnings.
	_, err = r.Run(ctx, "relu", x, x)
	if !errors.Is(err, ErrTooManyArgs) || IsWarning(err) {
		t.Errorf("Run(relu, x, x) = %v, want ErrTooManyArgs", err)
	}

	// A lowering pass is required, and its version must match the registry.
	for _, noPass := range []*Context{nil, NewContext(g, nil)} {
		start := g.NumNodes()
		if _, err := r.Run(noPass, "relu", x); err == nil {
			t.Errorf("Run without a lowering pass should fail")
		}
		if g.NumNodes() != start {
			t.Errorf("Run without a lowering pass emitted nodes")
		}
	}
	if _, err := r.Run(NewContext(g, opset.Fixed(9)), "relu", x); err == nil {
		t.Errorf("Run with a pass for another opset should fail")
	}
}

func TestModuleRegisterTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("registering the same name twice didn't panic")
		}
	}()
	NewModule(9).Register("relu", nil, emitter("Relu")).Register("relu", nil, emitter("Relu"))
}
