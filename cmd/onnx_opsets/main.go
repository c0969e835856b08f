// onnx_opsets prints, for each supported ONNX opset version, the operators with a symbolic and
// the block-listed ones.
package main

import (
	"flag"
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/onnx-symbolic/pkg/opset"
	"github.com/gomlx/onnx-symbolic/pkg/registry"
	"github.com/gomlx/onnx-symbolic/pkg/symbolic"
	"k8s.io/klog/v2"
)

var (
	flagOpset = flag.Int("opset", 0, "ONNX opset version to list. If 0, it lists every supported version.")
	flagAll   = flag.Bool("all", false,
		"List every operator available at the opset, including those inherited from older opsets. "+
			"By default only the operators defined or blocked at the opset itself are listed.")

	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	blockedStyle = cellStyle.Foreground(lipgloss.Color("9"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	gate := opset.NewGate(opset.DefaultPolicy())
	versions := gate.Policy().Versions()
	if *flagOpset != 0 {
		if err := gate.SetVersion(*flagOpset); err != nil {
			klog.Fatalf("Failed on error: %+v", err)
		}
		versions = []int{*flagOpset}
	}
	for _, version := range versions {
		r, err := registry.New(version)
		if err != nil {
			klog.Fatalf("Failed on error: %+v", err)
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("ONNX opset %d", version)))
		fmt.Println(render(r, *flagAll))
		fmt.Println()
	}
}

// render returns the table of operators of r.
func render(r *symbolic.Registry, all bool) string {
	names := append(r.Names(), r.Blocked()...)
	slices.Sort(names)
	var rows [][]string
	for _, name := range names {
		entry, _ := r.Lookup(name)
		if !all && entry.Version != r.Version() {
			continue
		}
		status := "implemented " + entry.Signature.String()
		if entry.Unsupported {
			status = "blocked"
		}
		rows = append(rows, []string{name, status, strconv.Itoa(entry.Version)})
	}
	if len(rows) == 0 {
		return "(no changes)"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Operator", "Status", "Opset").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if rows[row][1] == "blocked" {
				return blockedStyle
			}
			return cellStyle
		})
	return t.String()
}
