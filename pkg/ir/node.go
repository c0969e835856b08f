package ir

import (
	"slices"

	"github.com/pkg/errors"
)

// Attributes are the named, statically known configuration fields of a node.
// Values are int64, []int64, float64, []float64, string, []string or *Literal.
type Attributes map[string]any

// Node is one operation in the graph. It consumes input Values and produces output Values.
type Node struct {
	graph   *Graph
	kind    Kind
	inputs  []*Value
	outputs []*Value

	// Attributes of the node. For constant nodes the payload is under ValueAttr.
	Attributes Attributes

	// inGraph is true once the node is part of graph.nodes.
	inGraph bool
}

// Kind returns the operation category of the node.
func (n *Node) Kind() Kind {
	return n.kind
}

// Graph returns the graph owning the node.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Inputs returns the ordered input values of the node.
func (n *Node) Inputs() []*Value {
	return slices.Clone(n.inputs)
}

// NumInputs returns the number of inputs.
func (n *Node) NumInputs() int {
	return len(n.inputs)
}

// Input returns the i-th input.
func (n *Node) Input(i int) *Value {
	return n.inputs[i]
}

// Outputs returns the ordered output values of the node.
func (n *Node) Outputs() []*Value {
	return slices.Clone(n.outputs)
}

// Output returns the first output of the node, or nil if it has none.
func (n *Node) Output() *Value {
	if len(n.outputs) == 0 {
		return nil
	}
	return n.outputs[0]
}

// Attr returns the named attribute.
func (n *Node) Attr(name string) (any, bool) {
	value, ok := n.Attributes[name]
	return value, ok
}

// Literal returns the payload of a constant node. It returns ok=false for any other node kind.
func (n *Node) Literal() (lit *Literal, ok bool) {
	if n.kind != KindConstant {
		return nil, false
	}
	lit, ok = n.Attributes[ValueAttr].(*Literal)
	return lit, ok
}

// AddInput appends an input to the node.
func (n *Node) AddInput(v *Value) error {
	if v.graph != n.graph {
		return errors.Errorf("cannot add input %s to %s node: value belongs to another graph", v, n.kind)
	}
	n.inputs = append(n.inputs, v)
	return nil
}

// ReplaceInputWith replaces every occurrence of old among the node inputs with replacement.
func (n *Node) ReplaceInputWith(old, replacement *Value) {
	for i, input := range n.inputs {
		if input == old {
			n.inputs[i] = replacement
		}
	}
}

// ReplaceAllUsesWith redirects every use of n's outputs to the corresponding outputs of other.
// Both nodes must have the same number of outputs.
func (n *Node) ReplaceAllUsesWith(other *Node) error {
	if len(n.outputs) != len(other.outputs) {
		return errors.Errorf("cannot replace uses of %s (%d outputs) with %s (%d outputs)",
			n.kind, len(n.outputs), other.kind, len(other.outputs))
	}
	for i, output := range n.outputs {
		output.ReplaceAllUsesWith(other.outputs[i])
	}
	return nil
}

// InsertBefore places a node that is not yet in the graph right before anchor.
func (n *Node) InsertBefore(anchor *Node) error {
	if n.inGraph {
		return errors.Errorf("%s node is already part of graph %q", n.kind, n.graph.Name)
	}
	idx := slices.Index(n.graph.nodes, anchor)
	if idx < 0 {
		return errors.Errorf("anchor %s node is not part of graph %q", anchor.kind, n.graph.Name)
	}
	n.graph.nodes = slices.Insert(n.graph.nodes, idx, n)
	n.inGraph = true
	return nil
}

// Destroy removes the node from the graph. None of its outputs may still be in use.
func (n *Node) Destroy() error {
	for _, output := range n.outputs {
		if len(output.Uses()) > 0 || output.IsGraphOutput() {
			return errors.Errorf("cannot destroy %s node: output %s is still in use", n.kind, output)
		}
	}
	idx := slices.Index(n.graph.nodes, n)
	if idx >= 0 {
		n.graph.nodes = slices.Delete(n.graph.nodes, idx, idx+1)
	}
	n.inGraph = false
	return nil
}
