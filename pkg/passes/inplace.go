// Package passes implements graph transformations run around the symbolic conversion:
// RemoveInplaceOps before it, on the framework operators, and ImplicitCast after it, on
// the emitted ONNX operators.
package passes

import (
	"maps"

	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/pkg/errors"
)

// inplaceToOutOfPlace maps the in-place arithmetic operators to their out-of-place versions.
var inplaceToOutOfPlace = map[ir.Kind]ir.Kind{
	ir.ATen("add_"): ir.ATen("add"),
	ir.ATen("sub_"): ir.ATen("sub"),
	ir.ATen("div_"): ir.ATen("div"),
	ir.ATen("mul_"): ir.ATen("mul"),
}

var (
	kindPop     = ir.ATen("pop")
	kindGetItem = ir.ATen("__getitem__")
)

// RemoveInplaceOps replaces in-place arithmetic nodes by their out-of-place equivalents:
//
//	%foo = aten::add_(%foo, %n)
//
// becomes
//
//	%foo.2 = aten::add(%foo, %n)
//
// with every use of the in-place output redirected to the new one. The left-hand side is
// assumed not to be aliased by any other value.
//
// It also splits every aten::pop(%seq, %pos) into an aten::__getitem__ returning the element,
// and a pop whose output is the shortened list, used by the nodes after it instead of %seq.
//
// It returns the number of nodes rewritten.
func RemoveInplaceOps(g *ir.Graph) (int, error) {
	count := 0
	for _, node := range g.Nodes() {
		outOfPlace, found := inplaceToOutOfPlace[node.Kind()]
		if !found {
			continue
		}
		replacement, err := g.Create(outOfPlace, node.Inputs(), maps.Clone(node.Attributes), len(node.Outputs()))
		if err != nil {
			return count, err
		}
		if err := replacement.InsertBefore(node); err != nil {
			return count, err
		}
		for i, output := range node.Outputs() {
			replacement.Outputs()[i].CopyMetadata(output)
		}
		if err := node.ReplaceAllUsesWith(replacement); err != nil {
			return count, err
		}
		if err := node.Destroy(); err != nil {
			return count, errors.WithMessagef(err, "failed to remove in-place %s", node.Kind())
		}
		count++
	}

	for _, node := range g.Nodes() {
		if node.Kind() != kindPop {
			continue
		}
		if node.NumInputs() == 0 || len(node.Outputs()) != 1 {
			return count, errors.Errorf("malformed %s node: %s", kindPop, node)
		}
		getItem, err := g.Create(kindGetItem, node.Inputs(), nil, 1)
		if err != nil {
			return count, err
		}
		getItem.Output().CopyMetadata(node.Output())
		if err := getItem.InsertBefore(node); err != nil {
			return count, err
		}
		node.Output().ReplaceAllUsesWith(getItem.Output())

		seq := node.Input(0)
		node.Output().CopyMetadata(seq)
		seq.ReplaceAllUsesAfterNodeWith(node, node.Output())
		count++
	}
	return count, nil
}
