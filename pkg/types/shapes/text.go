package shapes

import (
	"fmt"
	"io"
	"strings"
)

// String returns the shape in the graph dump format, e.g. "Float(2, 3)" or "Long()".
func (s Shape) String() string {
	var sb strings.Builder
	_ = s.Write(&sb)
	return sb.String()
}

// Write writes the shape in the graph dump format to the given writer.
// Dynamic dimensions are written as "*".
func (s Shape) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	name := s.DType.TorchName()
	if name == "" {
		name = s.DType.String()
	}
	w("%s(", name)
	for i, dim := range s.Dimensions {
		if i > 0 {
			w(", ")
		}
		if dim < 0 {
			w("*")
		} else {
			w("%d", dim)
		}
	}
	w(")")
	return err
}
