// Package ir implements the computation graph that is translated to ONNX.
//
// A Graph is an ordered list of Nodes. Each Node has a Kind, ordered input Values,
// output Values and Attributes. Literal constants are "onnx::Constant" nodes with a
// *Literal under the "value" attribute; lists are built by "prim::ListConstruct" nodes.
//
// The Graph is also the graph-builder used by the operator conversion functions:
// Op appends a new node and returns its outputs.
package ir

import (
	"strconv"

	"github.com/gomlx/onnx-symbolic/internal/utils"
	"github.com/gomlx/onnx-symbolic/pkg/types/shapes"
	"github.com/pkg/errors"
)

// Graph is a computation graph.
type Graph struct {
	Name string

	// Inputs are the graph parameters, produced by the param node.
	Inputs []*Value

	// Outputs are the values returned by the graph. Set by Return.
	Outputs []*Value

	nodes      []*Node
	paramNode  *Node
	nextID     int
	inputNames utils.Set[string]
}

// New creates an empty graph.
func New(name string) *Graph {
	g := &Graph{Name: name, inputNames: utils.MakeSet[string]()}
	g.paramNode = &Node{graph: g, kind: KindParam, Attributes: make(Attributes)}
	return g
}

// Nodes returns the nodes of the graph in order. The param node is not included.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// NumNodes returns the number of nodes in the graph, not counting the param node.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// newValue creates a new value with a unique name, owned by node.
func (g *Graph) newValue(node *Node, outputIndex int) *Value {
	v := &Value{
		graph:       g,
		name:        strconv.Itoa(g.nextID),
		node:        node,
		outputIndex: outputIndex,
	}
	g.nextID++
	return v
}

// Input adds a graph input with the given name. The shape is optional: pass nil if unknown.
//
// The name is made valid with ConvertToValidName, and a "_<n>" suffix is added if another input
// already uses it. An empty name gets a numbered name, like intermediary values.
func (g *Graph) Input(name string, shape *shapes.Shape) *Value {
	v := &Value{
		graph:       g,
		node:        g.paramNode,
		outputIndex: len(g.paramNode.outputs),
	}
	if valid := ConvertToValidName(name); valid != "" {
		v.name = utils.UniqueName(valid, g.inputNames)
	} else {
		v.name = strconv.Itoa(g.nextID)
		g.nextID++
	}
	if shape != nil {
		v.SetShape(*shape)
	}
	g.paramNode.outputs = append(g.paramNode.outputs, v)
	g.Inputs = append(g.Inputs, v)
	return v
}

// Create returns a new node that is not yet part of the graph. Use Node.InsertBefore or Append to place it.
func (g *Graph) Create(kind Kind, inputs []*Value, attrs Attributes, numOutputs int) (*Node, error) {
	if numOutputs < 0 {
		return nil, errors.Errorf("invalid number of outputs %d for %s node", numOutputs, kind)
	}
	for _, input := range inputs {
		if input == nil {
			return nil, errors.Errorf("nil input given to %s node", kind)
		}
		if input.graph != g {
			return nil, errors.Errorf("cannot use %s as input of %s node: value belongs to graph %q, not %q",
				input, kind, input.graph.Name, g.Name)
		}
	}
	if attrs == nil {
		attrs = make(Attributes)
	}
	node := &Node{
		graph:      g,
		kind:       kind,
		inputs:     append([]*Value(nil), inputs...),
		Attributes: attrs,
	}
	node.outputs = make([]*Value, numOutputs)
	for i := range node.outputs {
		node.outputs[i] = g.newValue(node, i)
	}
	return node, nil
}

// Append adds a node created with Create at the end of the graph.
func (g *Graph) Append(node *Node) error {
	if node.graph != g {
		return errors.Errorf("%s node belongs to graph %q, not %q", node.kind, node.graph.Name, g.Name)
	}
	if node.inGraph {
		return errors.Errorf("%s node is already part of graph %q", node.kind, g.Name)
	}
	g.nodes = append(g.nodes, node)
	node.inGraph = true
	return nil
}

// Op appends a new node of the given kind and returns its numOutputs outputs.
// Attributes are attached as given.
func (g *Graph) Op(kind Kind, inputs []*Value, attrs Attributes, numOutputs int) ([]*Value, error) {
	node, err := g.Create(kind, inputs, attrs, numOutputs)
	if err != nil {
		return nil, err
	}
	if err := g.Append(node); err != nil {
		return nil, err
	}
	return node.Outputs(), nil
}

// Constant appends a literal-constant node holding lit, and returns its output.
// The output shape is the shape of the literal.
func (g *Graph) Constant(lit *Literal) *Value {
	node, _ := g.Create(KindConstant, nil, Attributes{ValueAttr: lit}, 1)
	_ = g.Append(node)
	return node.outputs[0].SetShape(lit.Shape())
}

// ListConstruct appends a list-construction node over the given elements and returns the list value.
func (g *Graph) ListConstruct(elements ...*Value) (*Value, error) {
	outputs, err := g.Op(KindListConstruct, elements, nil, 1)
	if err != nil {
		return nil, err
	}
	return outputs[0], nil
}

// Return sets the outputs of the graph.
func (g *Graph) Return(values ...*Value) error {
	for _, v := range values {
		if v.graph != g {
			return errors.Errorf("cannot return %s from graph %q: value belongs to graph %q", v, g.Name, v.graph.Name)
		}
	}
	g.Outputs = append([]*Value(nil), values...)
	return nil
}

// EliminateDeadCode removes nodes whose outputs are not used by any other node nor returned by the graph.
// It returns the number of nodes removed.
func (g *Graph) EliminateDeadCode() int {
	removed := 0
	for {
		changed := false
		for i := len(g.nodes) - 1; i >= 0; i-- {
			node := g.nodes[i]
			if node.isLive() {
				continue
			}
			if err := node.Destroy(); err == nil {
				removed++
				changed = true
			}
		}
		if !changed {
			return removed
		}
	}
}

// isLive returns whether any output of the node is used.
func (n *Node) isLive() bool {
	for _, output := range n.outputs {
		if output.IsGraphOutput() || len(output.Uses()) > 0 {
			return true
		}
	}
	return false
}
