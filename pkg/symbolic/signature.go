package symbolic

import (
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/pkg/errors"
)

// Signature declares one descriptor per positional argument of a symbolic.
// Trailing arguments are optional: a call may supply fewer arguments than descriptors.
type Signature []Desc

// ParseArgs returns the Signature with the given descriptors.
func ParseArgs(descs ...Desc) Signature {
	return Signature(descs)
}

// MustParseArgs returns the Signature for the given short tags ("v", "i", "is", ...).
// It panics on an unknown tag, and is meant for package-level declarations.
func MustParseArgs(tags ...string) Signature {
	sig := make(Signature, len(tags))
	for i, tag := range tags {
		desc, err := ParseDesc(tag)
		if err != nil {
			panic(errors.WithMessagef(err, "argument #%d of signature %q", i, tags))
		}
		sig[i] = desc
	}
	return sig
}

// String returns the signature as its short tags, e.g. "(v, is, i)".
func (sig Signature) String() string {
	s := "("
	for i, desc := range sig {
		if i > 0 {
			s += ", "
		}
		s += desc.String()
	}
	return s + ")"
}

// Resolve applies each descriptor to the argument in the same position, left to right.
//
// It fails with ErrTooManyArgs, before resolving anything, if more arguments than descriptors
// are given. Resolution errors are returned unmodified, so they are a *ResolutionError.
func (sig Signature) Resolve(args []any) (Args, error) {
	if len(args) > len(sig) {
		return nil, errors.Wrapf(ErrTooManyArgs, "signature %s takes at most %d arguments, got %d",
			sig, len(sig), len(args))
	}
	resolved := make(Args, len(args))
	for i, arg := range args {
		value, err := ParseArg(arg, sig[i])
		if err != nil {
			return nil, err
		}
		resolved[i] = value
	}
	return resolved, nil
}

// RawFunc is a symbolic that takes its arguments unresolved.
type RawFunc func(ctx *Context, args ...any) ([]*ir.Value, error)

// Bind composes the resolution step with fn: the returned RawFunc resolves its arguments with sig
// and calls fn with the result. The context is passed through untouched.
func (sig Signature) Bind(fn Func) RawFunc {
	return func(ctx *Context, args ...any) ([]*ir.Value, error) {
		resolved, err := sig.Resolve(args)
		if err != nil {
			return nil, err
		}
		return fn(ctx, resolved)
	}
}
