package ir

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// String returns the graph in its text dump format.
func (g *Graph) String() string {
	var sb strings.Builder
	_ = g.Write(&sb)
	return sb.String()
}

// Write writes the graph in text dump format, one node per line, e.g.:
//
//	graph(%x : Float(2, 3)):
//	  %0 : Long() = onnx::Constant[value=Long() [1]]()
//	  %1 = onnx::Add(%x, %0)
//	  return (%1)
func (g *Graph) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("graph(")
	for i, input := range g.Inputs {
		if i > 0 {
			w(", ")
		}
		w("%s", typedValue(input))
	}
	w("):\n")
	for _, node := range g.nodes {
		w("  %s\n", node)
	}
	w("  return (%s)\n", joinValues(g.Outputs))
	return err
}

// String returns the node in the graph dump format.
func (n *Node) String() string {
	var sb strings.Builder
	outputs := make([]string, len(n.outputs))
	for i, output := range n.outputs {
		outputs[i] = typedValue(output)
	}
	if len(outputs) > 0 {
		sb.WriteString(strings.Join(outputs, ", "))
		sb.WriteString(" = ")
	}
	sb.WriteString(string(n.kind))
	if len(n.Attributes) > 0 {
		names := make([]string, 0, len(n.Attributes))
		for name := range n.Attributes {
			names = append(names, name)
		}
		slices.Sort(names)
		sb.WriteString("[")
		for i, name := range names {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", name, n.Attributes[name])
		}
		sb.WriteString("]")
	}
	fmt.Fprintf(&sb, "(%s)", joinValues(n.inputs))
	return sb.String()
}

func typedValue(v *Value) string {
	if shape, ok := v.Shape(); ok {
		return fmt.Sprintf("%s : %s", v, shape)
	}
	return v.String()
}

func joinValues(values []*Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
