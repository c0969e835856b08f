package main

import (
	"strings"
	"testing"

	"github.com/gomlx/onnx-symbolic/pkg/registry"
)

func TestRender(t *testing.T) {
	r, err := registry.New(10)
	if err != nil {
		t.Fatalf("registry.New(10): %+v", err)
	}
	changed := render(r, false)
	for _, want := range []string{"flip", "blocked", "topk", "upsample_nearest2d"} {
		if !strings.Contains(changed, want) {
			t.Errorf("opset 10 table is missing %q:\n%s", want, changed)
		}
	}
	if strings.Contains(changed, "_cast_Float") {
		t.Errorf("opset 10 table should only list operators changed at opset 10:\n%s", changed)
	}
	if all := render(r, true); !strings.Contains(all, "_cast_Float") {
		t.Errorf("full opset 10 table is missing inherited operators:\n%s", all)
	}
}
