package ir

import (
	"strings"
	"testing"

	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
	"github.com/gomlx/onnx-symbolic/pkg/types/shapes"
	"github.com/google/go-cmp/cmp"
)

// must1 panics if err is not nil, otherwise returns v.
func must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestGraphBuild(t *testing.T) {
	g := New(t.Name())
	xShape := shapes.Make(dtypes.Float32, 2, 3)
	x := g.Input("x.1", &xShape)
	if x.Name() != "x_1" {
		t.Errorf("input name = %q, want %q", x.Name(), "x_1")
	}
	if x.Node().Kind() != KindParam {
		t.Errorf("input producer kind = %s, want %s", x.Node().Kind(), KindParam)
	}

	one := g.Constant(Scalar(float32(1)))
	if shape, ok := one.Shape(); !ok || !shape.IsScalar() || shape.DType != dtypes.Float32 {
		t.Errorf("constant shape = %v, %v", shape, ok)
	}
	sum := must1(g.Op(ONNX("Add"), []*Value{x, one}, nil, 1))[0]
	split := must1(g.Op(ONNX("Split"), []*Value{sum}, Attributes{"axis": int64(1)}, 2))
	if len(split) != 2 || split[1].OutputIndex() != 1 || split[1].Node() != split[0].Node() {
		t.Fatalf("unexpected Split outputs %v", split)
	}
	if err := g.Return(split...); err != nil {
		t.Fatalf("Return: %v", err)
	}
	if g.NumNodes() != 3 {
		t.Errorf("NumNodes() = %d, want 3", g.NumNodes())
	}

	text := g.String()
	for _, want := range []string{
		"graph(%x_1 : Float(2, 3)):",
		"%0 : Float() = onnx::Constant[value=Float() [1]]()",
		"%1 = onnx::Add(%x_1, %0)",
		"%2, %3 = onnx::Split[axis=1](%1)",
		"return (%2, %3)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("graph dump missing %q:\n%s", want, text)
		}
	}
}

func TestGraphInputNames(t *testing.T) {
	g := New(t.Name())
	var got []string
	for _, name := range []string{"x.1", "x:1", "x_1", "", "7"} {
		got = append(got, g.Input(name, nil).Name())
	}
	if diff := cmp.Diff([]string{"x_1", "x_1_1", "x_1_2", "0", "_7"}, got); diff != "" {
		t.Errorf("input names mismatch (-want +got):\n%s", diff)
	}
	// Intermediary values keep their numbered names.
	v := g.Constant(Scalar(int64(1)))
	if v.Name() != "1" {
		t.Errorf("constant name = %q, want %q", v.Name(), "1")
	}
}

func TestGraphErrors(t *testing.T) {
	g := New("g")
	other := New("other")
	y := other.Input("y", nil)
	if _, err := g.Op(ONNX("Neg"), []*Value{y}, nil, 1); err == nil {
		t.Error("expected error using a value of another graph")
	}
	if _, err := g.Op(ONNX("Neg"), []*Value{nil}, nil, 1); err == nil {
		t.Error("expected error for nil input")
	}
	if _, err := g.Op(ONNX("Neg"), nil, nil, -1); err == nil {
		t.Error("expected error for negative number of outputs")
	}
	if err := g.Return(y); err == nil {
		t.Error("expected error returning a value of another graph")
	}
}

func TestGraphMutation(t *testing.T) {
	g := New(t.Name())
	x := g.Input("x", nil)
	neg := must1(g.Op(ONNX("Neg"), []*Value{x}, nil, 1))[0]
	abs := must1(g.Op(ONNX("Abs"), []*Value{neg}, nil, 1))[0]
	requireNoError(t, g.Return(abs))

	// Insert an Identity between Neg and Abs.
	identity := must1(g.Create(ONNX("Identity"), []*Value{neg}, nil, 1))
	requireNoError(t, identity.InsertBefore(abs.Node()))
	abs.Node().ReplaceInputWith(neg, identity.Output())
	if got := g.Nodes()[1].Kind(); got != ONNX("Identity") {
		t.Errorf("node 1 kind = %s, want onnx::Identity", got)
	}
	if uses := identity.Output().Uses(); len(uses) != 1 || uses[0] != abs.Node() {
		t.Errorf("Identity output uses = %v", uses)
	}
	if err := identity.InsertBefore(abs.Node()); err == nil {
		t.Error("expected error inserting a node twice")
	}

	// Neg is in use and can't be destroyed.
	if err := neg.Node().Destroy(); err == nil {
		t.Error("expected error destroying a node in use")
	}

	// Replace Abs by a Relu and drop the dangling node.
	relu := must1(g.Create(ONNX("Relu"), []*Value{identity.Output()}, nil, 1))
	requireNoError(t, g.Append(relu))
	requireNoError(t, abs.Node().ReplaceAllUsesWith(relu))
	if g.Outputs[0] != relu.Output() {
		t.Errorf("graph output = %s, want %s", g.Outputs[0], relu.Output())
	}
	if removed := g.EliminateDeadCode(); removed != 1 {
		t.Errorf("EliminateDeadCode() removed %d nodes, want 1", removed)
	}
	var kinds []Kind
	for _, node := range g.Nodes() {
		kinds = append(kinds, node.Kind())
	}
	want := []Kind{ONNX("Neg"), ONNX("Identity"), ONNX("Relu")}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestKind(t *testing.T) {
	if KindConstant.Namespace() != "onnx" || KindConstant.Name() != "Constant" {
		t.Errorf("unexpected split of %s", KindConstant)
	}
	if ATen("add_") != "aten::add_" || Kind("bare").Name() != "bare" || Kind("bare").Namespace() != "" {
		t.Error("unexpected kind helpers behavior")
	}
}

func TestListConstruct(t *testing.T) {
	g := New(t.Name())
	a := g.Constant(Scalar(int64(2)))
	b := g.Constant(Scalar(int64(3)))
	list := must1(g.ListConstruct(a, b))
	node := list.Node()
	if node.Kind() != KindListConstruct || node.NumInputs() != 2 || node.Input(1) != b {
		t.Errorf("unexpected list node %s", node)
	}
	if _, ok := node.Literal(); ok {
		t.Error("list node must not report a literal")
	}
	lit, ok := a.Node().Literal()
	if !ok || !lit.Equal(Scalar(int64(2))) {
		t.Errorf("constant literal = %v, %v", lit, ok)
	}
}

func TestReplaceAllUsesAfterNode(t *testing.T) {
	g := New(t.Name())
	xShape := shapes.Make(dtypes.Int64, 3)
	x := g.Input("x", &xShape)
	before := must1(g.Op(ONNX("Neg"), []*Value{x}, nil, 1))[0]
	pivot := must1(g.Op(ONNX("Identity"), []*Value{x}, nil, 1))[0]
	after := must1(g.Op(ONNX("Abs"), []*Value{x}, nil, 1))[0]
	requireNoError(t, g.Return(x))

	x.ReplaceAllUsesAfterNodeWith(pivot.Node(), pivot.CopyMetadata(x))
	if before.Node().Input(0) != x || pivot.Node().Input(0) != x {
		t.Errorf("uses up to the pivot node should be kept")
	}
	if after.Node().Input(0) != pivot || g.Outputs[0] != pivot {
		t.Errorf("uses after the pivot node should be replaced")
	}
	if shape, ok := pivot.Shape(); !ok || !shape.Equal(xShape) {
		t.Errorf("CopyMetadata: shape = %s, %v", shape, ok)
	}
}

// requireNoError fails the test immediately if err is not nil.
func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}
