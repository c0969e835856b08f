package shapes

import (
	"testing"

	"github.com/gomlx/onnx-symbolic/pkg/types/dtypes"
)

func TestShape(t *testing.T) {
	s := Make(dtypes.Float32, 2, DimUnknown, 4)
	if s.Rank() != 3 {
		t.Errorf("Rank() = %d, want 3", s.Rank())
	}
	if s.IsStatic() {
		t.Errorf("IsStatic() = true for %s", s)
	}
	if s.Size() != DimUnknown {
		t.Errorf("Size() = %d, want DimUnknown", s.Size())
	}
	if s.Dim(-1) != 4 {
		t.Errorf("Dim(-1) = %d, want 4", s.Dim(-1))
	}
	if got, want := s.String(), "Float(2, *, 4)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	scalar := Make(dtypes.Int64)
	if !scalar.IsScalar() || scalar.Size() != 1 {
		t.Errorf("scalar %s: IsScalar()=%v Size()=%d", scalar, scalar.IsScalar(), scalar.Size())
	}
	if got, want := scalar.String(), "Long()"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	converted := s.WithDType(dtypes.Float16)
	if converted.DType != dtypes.Float16 || s.DType != dtypes.Float32 {
		t.Errorf("WithDType modified the original or failed: %s, %s", s, converted)
	}
	if !converted.Equal(Make(dtypes.Float16, 2, DimUnknown, 4)) {
		t.Errorf("Equal failed for %s", converted)
	}
}
