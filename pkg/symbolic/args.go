package symbolic

import (
	"fmt"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
)

// Args are the resolved positional arguments of a symbolic, as produced by Signature.Resolve.
//
// Each element is one of: *ir.Value (deferred), int64, float64, bool, *ir.Literal, []int64,
// or nil for an absent optional argument. Calls past Len() return the zero value.
//
// The typed accessors panic if the argument holds a different type: the declared Signature
// guarantees the type, so a mismatch is a programming error of the symbolic.
type Args []any

// Len returns the number of arguments supplied.
func (a Args) Len() int {
	return len(a)
}

// Has returns whether argument i was supplied and is not nil.
func (a Args) Has(i int) bool {
	return i < len(a) && a[i] != nil
}

// Get returns argument i as is, or nil if it was not supplied.
func (a Args) Get(i int) any {
	if i >= len(a) {
		return nil
	}
	return a[i]
}

// IsValue returns whether argument i is a deferred graph value.
func (a Args) IsValue(i int) bool {
	return IsValue(a.Get(i))
}

// Value returns argument i as a graph value, or nil if it is absent.
func (a Args) Value(i int) *ir.Value {
	if !a.Has(i) {
		return nil
	}
	v, ok := a[i].(*ir.Value)
	if !ok {
		panic(a.mismatch(i, "*ir.Value"))
	}
	return v
}

// Int returns argument i as an int64, or 0 if it is absent.
func (a Args) Int(i int) int64 {
	if !a.Has(i) {
		return 0
	}
	switch v := a[i].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	panic(a.mismatch(i, "int64"))
}

// Ints returns argument i as an []int64, or nil if it is absent.
func (a Args) Ints(i int) []int64 {
	if !a.Has(i) {
		return nil
	}
	v, ok := a[i].([]int64)
	if !ok {
		panic(a.mismatch(i, "[]int64"))
	}
	return v
}

// Float returns argument i as a float64, or 0 if it is absent.
func (a Args) Float(i int) float64 {
	if !a.Has(i) {
		return 0
	}
	switch v := a[i].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	}
	panic(a.mismatch(i, "float64"))
}

// Bool returns argument i as a bool, or false if it is absent.
func (a Args) Bool(i int) bool {
	if !a.Has(i) {
		return false
	}
	v, ok := a[i].(bool)
	if !ok {
		panic(a.mismatch(i, "bool"))
	}
	return v
}

// Tensor returns argument i as a literal, or nil if it is absent.
func (a Args) Tensor(i int) *ir.Literal {
	if !a.Has(i) {
		return nil
	}
	v, ok := a[i].(*ir.Literal)
	if !ok {
		panic(a.mismatch(i, "*ir.Literal"))
	}
	return v
}

func (a Args) mismatch(i int, want string) string {
	return fmt.Sprintf("symbolic argument #%d is %T, not %s", i, a[i], want)
}
