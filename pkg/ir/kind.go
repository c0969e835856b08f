package ir

import "strings"

// Kind is the tagged operation category of a Node, written as "namespace::name",
// e.g. "onnx::Constant", "prim::ListConstruct" or "aten::max_pool2d".
type Kind string

// Namespaces of node kinds.
const (
	NamespaceONNX = "onnx"
	NamespaceATen = "aten"
	NamespacePrim = "prim"
)

// Kinds with a special meaning for argument resolution.
const (
	// KindConstant is a literal-constant node: its Literal payload is stored in the "value" attribute.
	KindConstant Kind = "onnx::Constant"

	// KindListConstruct builds an ordered list out of its inputs.
	KindListConstruct Kind = "prim::ListConstruct"

	// KindParam produces the graph inputs. It is not part of the graph's node list.
	KindParam Kind = "prim::Param"
)

// ValueAttr is the name of the attribute holding a constant node's payload.
const ValueAttr = "value"

// ONNX returns the kind of the ONNX operator op, e.g. ONNX("Add") == "onnx::Add".
func ONNX(op string) Kind {
	return Kind(NamespaceONNX + "::" + op)
}

// ATen returns the kind of the framework operator op, e.g. ATen("add") == "aten::add".
func ATen(op string) Kind {
	return Kind(NamespaceATen + "::" + op)
}

// Namespace returns the part before "::", or "" if there is none.
func (k Kind) Namespace() string {
	ns, _, found := strings.Cut(string(k), "::")
	if !found {
		return ""
	}
	return ns
}

// Name returns the part after "::", or the whole kind if there is no namespace.
func (k Kind) Name() string {
	_, name, found := strings.Cut(string(k), "::")
	if !found {
		return string(k)
	}
	return name
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
