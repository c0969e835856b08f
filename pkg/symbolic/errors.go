package symbolic

import (
	"fmt"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedKind is returned when an argument's producer node kind can't be interpreted
	// with the requested descriptor.
	ErrUnexpectedKind = errors.New("unexpected node kind")

	// ErrNonConstantElement is returned when a list construct resolved as IntList has an element
	// that is not a literal constant.
	ErrNonConstantElement = errors.New("list element is not a constant")

	// ErrExpectedConstant is returned by GetConst when the argument is not a literal constant.
	ErrExpectedConstant = errors.New("expected a constant")

	// ErrInvalidConstant is returned when a constant's payload can't be converted as requested,
	// e.g. a 3-element tensor resolved as Int.
	ErrInvalidConstant = errors.New("invalid constant")

	// ErrNotAList is returned by UnpackList when the value is not produced by a list construct.
	ErrNotAList = errors.New("not a list construct")

	// ErrTooManyArgs is returned when a symbolic is called with more arguments than its signature declares.
	ErrTooManyArgs = errors.New("too many arguments")

	// ErrUnknownDescriptor is returned for descriptors outside the enumerated set.
	ErrUnknownDescriptor = errors.New("unknown argument descriptor")
)

// ResolutionError reports why an argument could not be resolved. It unwraps to one of the
// sentinel errors above.
type ResolutionError struct {
	// Err is the sentinel error describing the class of failure.
	Err error

	// Desc is the descriptor being applied.
	Desc Desc

	// Kind is the kind of the node producing the argument (or the offending list element).
	Kind ir.Kind

	// ArgName is the name of the argument, when known.
	ArgName string

	// Detail holds extra context.
	Detail string
}

// Error implements error.
func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("ONNX symbolic: %v", e.Err)
	if e.ArgName != "" {
		msg += fmt.Sprintf(" for argument %q", e.ArgName)
	}
	if e.Kind != "" {
		msg += fmt.Sprintf(" (descriptor %q, node kind %s)", e.Desc, e.Kind)
	} else {
		msg += fmt.Sprintf(" (descriptor %q)", e.Desc)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UnsupportedError is the non-fatal warning raised when an operator can't be exported:
// it is block-listed at the target opset, has no symbolic at all, or is used with options the
// symbolic doesn't support. It aborts the conversion of that operator only.
type UnsupportedError struct {
	// Op is the name of the operator.
	Op string

	// Opset is the target opset version, or 0 if not relevant to the failure.
	Opset int

	// Blocked is set when the operator is block-listed at Opset.
	Blocked bool

	msg string
}

// Error implements error.
func (e *UnsupportedError) Error() string {
	return e.msg
}

// IsWarning returns whether err is (or wraps) an *UnsupportedError, that is, a failure local to one
// operator that the caller may choose to skip.
func IsWarning(err error) bool {
	var unsupported *UnsupportedError
	return errors.As(err, &unsupported)
}
