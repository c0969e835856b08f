package symbolic

import "github.com/pkg/errors"

// Desc declares how an argument of a symbolic is interpreted before the symbolic runs.
type Desc int

const (
	// None passes the argument through untouched.
	None Desc = iota

	// Value passes the argument through as a deferred graph reference, even if it is constant.
	Value

	// Int resolves a literal-constant argument to an int64.
	Int

	// Float resolves a literal-constant argument to a float64.
	Float

	// Bool resolves a literal-constant argument to a bool.
	Bool

	// Tensor resolves a literal-constant argument to its *ir.Literal payload.
	Tensor

	// IntList resolves a constant tensor, or a list construct of integer constants, to a []int64.
	IntList
)

var descNames = []string{"none", "v", "i", "f", "b", "t", "is"}

// String returns the short tag of the descriptor: "none", "v", "i", "f", "b", "t" or "is".
func (d Desc) String() string {
	if !d.IsValid() {
		return "Desc(invalid)"
	}
	return descNames[d]
}

// IsValid returns whether d is one of the enumerated descriptors.
func (d Desc) IsValid() bool {
	return d >= None && d <= IntList
}

// ParseDesc converts a short tag ("v", "is", ...) to a Desc.
func ParseDesc(tag string) (Desc, error) {
	for i, name := range descNames {
		if name == tag {
			return Desc(i), nil
		}
	}
	return None, errors.Wrapf(ErrUnknownDescriptor, "%q", tag)
}
