package ir

import (
	"fmt"
	"io"

	"github.com/gomlx/onnx-symbolic/internal/utils"
	"github.com/gomlx/onnx-symbolic/pkg/types/shapes"
)

// Value is one value flowing through the graph, like `%3` or `%input`.
//
// It is always produced by exactly one Node (graph inputs are produced by the graph's
// prim::Param node) and may carry shape information. A Value with an unknown type
// reports ok=false from Shape.
type Value struct {
	graph *Graph
	name  string
	shape *shapes.Shape

	// node is the node that produced this value.
	node *Node

	// outputIndex is the index of this value in node.outputs.
	outputIndex int
}

// Node returns the producer node of the value.
func (v *Value) Node() *Node {
	return v.node
}

// Graph returns the graph owning the value.
func (v *Value) Graph() *Graph {
	return v.graph
}

// Name returns the unique name of the value within its graph.
func (v *Value) Name() string {
	return v.name
}

// OutputIndex returns the position of v among its producer's outputs.
func (v *Value) OutputIndex() int {
	return v.outputIndex
}

// Shape returns the shape of the value, if known.
func (v *Value) Shape() (shapes.Shape, bool) {
	if v.shape == nil {
		return shapes.Shape{}, false
	}
	return *v.shape, true
}

// SetShape sets the known shape of the value.
func (v *Value) SetShape(shape shapes.Shape) *Value {
	v.shape = &shape
	return v
}

// Uses returns the nodes that take v as input, in graph order.
func (v *Value) Uses() []*Node {
	var uses []*Node
	for _, node := range v.graph.nodes {
		for _, input := range node.inputs {
			if input == v {
				uses = append(uses, node)
				break
			}
		}
	}
	return uses
}

// IsGraphOutput returns whether v is one of the graph outputs.
func (v *Value) IsGraphOutput() bool {
	for _, output := range v.graph.Outputs {
		if output == v {
			return true
		}
	}
	return false
}

// ReplaceAllUsesWith makes every node using v (and the graph outputs) use other instead.
func (v *Value) ReplaceAllUsesWith(other *Value) {
	for _, node := range v.graph.nodes {
		node.ReplaceInputWith(v, other)
	}
	for i, output := range v.graph.Outputs {
		if output == v {
			v.graph.Outputs[i] = other
		}
	}
}

// ReplaceAllUsesAfterNodeWith is like ReplaceAllUsesWith, but only for the nodes placed after node
// in the graph. Graph outputs are always replaced.
func (v *Value) ReplaceAllUsesAfterNodeWith(node *Node, other *Value) {
	after := false
	for _, n := range v.graph.nodes {
		if after {
			n.ReplaceInputWith(v, other)
		} else if n == node {
			after = true
		}
	}
	for i, output := range v.graph.Outputs {
		if output == v {
			v.graph.Outputs[i] = other
		}
	}
}

// CopyMetadata copies the shape of other, if known, to v.
func (v *Value) CopyMetadata(other *Value) *Value {
	if other.shape != nil {
		shape := *other.shape
		v.shape = &shape
	}
	return v
}

// Write writes the value reference, e.g. "%3", to the given writer.
func (v *Value) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%%%s", v.name)
	return err
}

// String implements fmt.Stringer.
func (v *Value) String() string {
	return "%" + v.name
}

// ConvertToValidName replaces any characters not in { "0"-"9", "a"-"z", "A-Z", "_" } with a "_",
// making it a valid name for a graph input.
func ConvertToValidName(name string) string {
	return utils.NormalizeIdentifier(name)
}
