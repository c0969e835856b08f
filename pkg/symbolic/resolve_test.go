package symbolic

import (
	"testing"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
	"github.com/gomlx/onnx-symbolic/pkg/types/shapes"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// must1 panics if err is not nil, otherwise returns v.
func must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// requireNoError fails the test immediately if err is not nil.
func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

// computed returns a value produced by an arbitrary ONNX operator.
func computed(g *ir.Graph) *ir.Value {
	xShape := shapes.Make(dtypes.Float32, 2)
	x := g.Input("x", &xShape)
	return must1(g.Op(ir.ONNX("Relu"), []*ir.Value{x}, nil, 1))[0]
}

func TestParseArgConstant(t *testing.T) {
	g := ir.New(t.Name())
	five := g.Constant(ir.Scalar(int64(5)))
	half := g.Constant(ir.Scalar(float32(0.5)))
	yes := g.Constant(ir.Scalar(true))
	vec := g.Constant(ir.Vector[int32](2, 3, 4))

	tests := []struct {
		name string
		arg  any
		desc Desc
		want any
	}{
		{"int", five, Int, int64(5)},
		{"int-to-float", five, Float, float64(5)},
		{"float", half, Float, 0.5},
		{"float-to-int", half, Int, int64(0)},
		{"bool", yes, Bool, true},
		{"int-to-bool", five, Bool, true},
		{"int-list-from-tensor", vec, IntList, []int64{2, 3, 4}},
		{"int-list-from-scalar", five, IntList, []int64{5}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseArg(test.arg, test.desc)
			requireNoError(t, err)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("ParseArg(%s) mismatch (-want +got):\n%s", test.desc, diff)
			}
			// Resolution is pure: a second call yields the same result.
			again, err := ParseArg(test.arg, test.desc)
			requireNoError(t, err)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("second ParseArg(%s) differs (-first +second):\n%s", test.desc, diff)
			}
		})
	}

	t.Run("tensor", func(t *testing.T) {
		got, err := ParseArg(vec, Tensor)
		requireNoError(t, err)
		lit, ok := got.(*ir.Literal)
		if !ok || !lit.Equal(ir.Vector[int32](2, 3, 4)) {
			t.Errorf("ParseArg(t) = %v", got)
		}
	})

	t.Run("scalar-int-5", func(t *testing.T) {
		got, err := ParseArg(five, Int)
		requireNoError(t, err)
		if got != int64(5) {
			t.Errorf("ParseArg(5, i) = %#v, want int64(5)", got)
		}
	})

	t.Run("not-a-single-element", func(t *testing.T) {
		_, err := ParseArg(vec, Int)
		if !errors.Is(err, ErrInvalidConstant) {
			t.Errorf("ParseArg(vector, i) = %v, want ErrInvalidConstant", err)
		}
	})
}

func TestParseArgPassThrough(t *testing.T) {
	g := ir.New(t.Name())
	five := g.Constant(ir.Scalar(int64(5)))
	relu := computed(g)
	for _, desc := range []Desc{None, Value} {
		for _, arg := range []*ir.Value{five, relu} {
			got, err := ParseArg(arg, desc)
			requireNoError(t, err)
			if got != any(arg) {
				t.Errorf("ParseArg(%s, %s) = %v, want the value unchanged", arg, desc, got)
			}
		}
	}
	// Absent arguments stay absent, whatever the descriptor.
	for _, desc := range []Desc{Int, Float, Bool, Tensor, IntList} {
		got, err := ParseArg(nil, desc)
		requireNoError(t, err)
		if got != nil {
			t.Errorf("ParseArg(nil, %s) = %v, want nil", desc, got)
		}
	}
	if _, err := ParseArg(five, Desc(42)); !errors.Is(err, ErrUnknownDescriptor) {
		t.Errorf("ParseArg with an invalid descriptor = %v, want ErrUnknownDescriptor", err)
	}
}

func TestParseArgGoValues(t *testing.T) {
	testCases := []struct {
		name string
		arg  any
		desc Desc
		want any
	}{
		{"int64-as-int", int64(3), Int, int64(3)},
		{"int-as-int", 3, Int, int64(3)},
		{"whole-float-as-int", 2.0, Int, int64(2)},
		{"float-as-float", 1.5, Float, 1.5},
		{"int-as-float", int64(2), Float, 2.0},
		{"bool-as-bool", true, Bool, true},
		{"int64-as-list", int64(3), IntList, []int64{3}},
		{"int-as-list", 3, IntList, []int64{3}},
		{"ints-as-list", []int{1, 2}, IntList, []int64{1, 2}},
		{"list-as-list", []int64{1, 2}, IntList, []int64{1, 2}},
		{"literal-as-int", ir.Scalar(int32(7)), Int, int64(7)},
		{"literal-as-list", ir.Vector[int64](4, 5), IntList, []int64{4, 5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseArg(tc.arg, tc.desc)
			requireNoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseArg(%#v, %s) mismatch (-want +got):\n%s", tc.arg, tc.desc, diff)
			}
		})
	}

	tensor := must1(ParseArg([]int64{1, 2}, Tensor))
	if lit, ok := tensor.(*ir.Literal); !ok || !lit.Equal(ir.Vector[int64](1, 2)) {
		t.Errorf("ParseArg([1 2], t) = %v, want a vector literal", tensor)
	}

	for _, tc := range []struct {
		arg  any
		desc Desc
	}{
		{[]int64{0}, Int},
		{1.5, Int},
		{"3", Int},
		{true, Float},
		{int64(1), Bool},
		{1.5, IntList},
		{[]float64{1}, IntList},
		{ir.Vector[int64](1, 2), Int},
		{struct{}{}, Tensor},
	} {
		_, err := ParseArg(tc.arg, tc.desc)
		var resErr *ResolutionError
		if !errors.Is(err, ErrInvalidConstant) || !errors.As(err, &resErr) || resErr.Desc != tc.desc {
			t.Errorf("ParseArg(%#v, %s) = %v, want a resolution error wrapping ErrInvalidConstant", tc.arg, tc.desc, err)
		}
	}
}

func TestParseArgUnexpectedKind(t *testing.T) {
	g := ir.New(t.Name())
	relu := computed(g)
	for _, desc := range []Desc{Int, Float, Bool, Tensor, IntList} {
		_, err := ParseArg(relu, desc)
		if !errors.Is(err, ErrUnexpectedKind) {
			t.Errorf("ParseArg(Relu, %s) = %v, want ErrUnexpectedKind", desc, err)
			continue
		}
		var resErr *ResolutionError
		if !errors.As(err, &resErr) || resErr.Kind != ir.ONNX("Relu") {
			t.Errorf("ParseArg(Relu, %s) error does not name the node kind: %v", desc, err)
		}
	}

	// A list construct only resolves as an integer list.
	list := must1(g.ListConstruct(g.Constant(ir.Scalar(int64(1)))))
	for _, desc := range []Desc{Int, Float, Bool, Tensor} {
		if _, err := ParseArg(list, desc); !errors.Is(err, ErrUnexpectedKind) {
			t.Errorf("ParseArg(ListConstruct, %s) = %v, want ErrUnexpectedKind", desc, err)
		}
	}

	// Graph inputs are produced by the param node.
	input := g.Input("y", nil)
	if _, err := ParseArg(input, Int); !errors.Is(err, ErrUnexpectedKind) {
		t.Errorf("ParseArg(input, i) = %v, want ErrUnexpectedKind", err)
	}
}

func TestParseArgList(t *testing.T) {
	g := ir.New(t.Name())
	two := g.Constant(ir.Scalar(int64(2)))
	three := g.Constant(ir.Scalar(int32(3)))
	four := g.Constant(ir.Scalar(int64(4)))

	list := must1(g.ListConstruct(two, three, four))
	got, err := ParseArg(list, IntList)
	requireNoError(t, err)
	if diff := cmp.Diff([]int64{2, 3, 4}, got); diff != "" {
		t.Errorf("ParseArg([2, 3, 4], is) mismatch (-want +got):\n%s", diff)
	}

	empty := must1(g.ListConstruct())
	got, err = ParseArg(empty, IntList)
	requireNoError(t, err)
	if diff := cmp.Diff([]int64{}, got); diff != "" {
		t.Errorf("ParseArg([], is) mismatch (-want +got):\n%s", diff)
	}

	// A single non-constant element makes the whole list fail.
	for position := range 3 {
		elements := []*ir.Value{two, three, four}
		elements[position] = computed(g)
		mixed := must1(g.ListConstruct(elements...))
		if _, err := ParseArg(mixed, IntList); !errors.Is(err, ErrNonConstantElement) {
			t.Errorf("ParseArg with non-constant element #%d = %v, want ErrNonConstantElement", position, err)
		}
	}
}

func TestMaybeGetConst(t *testing.T) {
	g := ir.New(t.Name())
	five := g.Constant(ir.Scalar(int64(5)))
	vec := g.Constant(ir.Vector[int64](1, 2, 3))
	relu := computed(g)
	list := must1(g.ListConstruct(five, five))

	if got := MaybeGetConst(five, Int); got != int64(5) {
		t.Errorf("MaybeGetConst(5, i) = %v", got)
	}
	// Never fails: anything that can't be resolved is returned unchanged.
	for _, arg := range []*ir.Value{relu, list} {
		for _, desc := range []Desc{None, Value, Int, Float, Bool, Tensor, IntList, Desc(-1)} {
			if got := MaybeGetConst(arg, desc); got != any(arg) {
				t.Errorf("MaybeGetConst(%s, %s) = %v, want the value unchanged", arg.Node().Kind(), desc, got)
			}
		}
	}
	if got := MaybeGetConst(vec, Int); got != any(vec) {
		t.Errorf("MaybeGetConst(vector, i) = %v, want the value unchanged", got)
	}
	if got := MaybeGetConst(int64(7), Int); got != int64(7) {
		t.Errorf("MaybeGetConst(7, i) = %v", got)
	}
}

func TestMaybeGetScalar(t *testing.T) {
	g := ir.New(t.Name())
	scalar := g.Constant(ir.Scalar(float32(2)))
	vec := g.Constant(ir.Vector[float32](2))
	got, ok := MaybeGetScalar(scalar).(*ir.Literal)
	if !ok || !got.Equal(ir.Scalar(float32(2))) {
		t.Errorf("MaybeGetScalar(scalar) = %v", MaybeGetScalar(scalar))
	}
	if got := MaybeGetScalar(vec); got != any(vec) {
		t.Errorf("MaybeGetScalar(vector) = %v, want the value unchanged", got)
	}
}

func TestGetConst(t *testing.T) {
	g := ir.New(t.Name())
	kernel := g.Constant(ir.Vector[int64](3, 3))
	got, err := GetConst(kernel, IntList, "kernel_size")
	requireNoError(t, err)
	if diff := cmp.Diff([]int64{3, 3}, got); diff != "" {
		t.Errorf("GetConst mismatch (-want +got):\n%s", diff)
	}

	relu := computed(g)
	_, err = GetConst(relu, IntList, "kernel_size")
	if !errors.Is(err, ErrExpectedConstant) {
		t.Fatalf("GetConst(Relu) = %v, want ErrExpectedConstant", err)
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.ArgName != "kernel_size" {
		t.Errorf("GetConst error doesn't name the argument: %v", err)
	}

	// A list construct is not a literal constant either.
	list := must1(g.ListConstruct(g.Constant(ir.Scalar(int64(3)))))
	if _, err := GetConst(list, IntList, "size"); !errors.Is(err, ErrExpectedConstant) {
		t.Errorf("GetConst(ListConstruct) = %v, want ErrExpectedConstant", err)
	}

	got, err = GetConst(int64(4), Int, "dim")
	requireNoError(t, err)
	if got != int64(4) {
		t.Errorf("GetConst(4) = %v", got)
	}
}

func TestUnpackList(t *testing.T) {
	g := ir.New(t.Name())
	relu := computed(g)
	one := g.Constant(ir.Scalar(int64(1)))
	list := must1(g.ListConstruct(relu, one))
	elements, err := UnpackList(list)
	requireNoError(t, err)
	if len(elements) != 2 || elements[0] != relu || elements[1] != one {
		t.Errorf("UnpackList = %v, want [%s %s]", elements, relu, one)
	}
	if _, err := UnpackList(relu); !errors.Is(err, ErrNotAList) {
		t.Errorf("UnpackList(Relu) = %v, want ErrNotAList", err)
	}
	if _, err := UnpackList(nil); !errors.Is(err, ErrNotAList) {
		t.Errorf("UnpackList(nil) = %v, want ErrNotAList", err)
	}
}
