// Package opset tracks the ONNX operator set version targeted by an export.
//
// The target version has semantic effect: symbolics branch on it to pick the operators they
// emit (e.g. "Upsample" below version 10 and "Resize" from 10 on). A Gate holds the negotiated
// version and only accepts versions from its Policy. Each lowering pass takes a Pass from the
// Gate, which pins the version for the duration of the pass: the Gate refuses to change
// version while any Pass is open.
package opset

import (
	"slices"

	"github.com/pkg/errors"
)

const (
	// DefaultVersion is the version targeted when none is requested.
	DefaultVersion = 9

	// MasterVersion is the newest, not yet stable, version.
	MasterVersion = 10
)

// StableVersions lists the stable versions that can be targeted.
var StableVersions = []int{9, 10}

var (
	// ErrUnsupportedVersion is returned when the requested version is not in the Policy.
	ErrUnsupportedVersion = errors.New("unsupported ONNX opset version")

	// ErrPassInFlight is returned when changing the version while a lowering pass is open.
	ErrPassInFlight = errors.New("cannot change ONNX opset version while a lowering pass is in flight")
)

// Policy is the allow-list of target versions.
type Policy struct {
	Default int
	Stable  []int
	Master  int
}

// DefaultPolicy returns the policy with DefaultVersion, StableVersions and MasterVersion.
func DefaultPolicy() Policy {
	return Policy{
		Default: DefaultVersion,
		Stable:  slices.Clone(StableVersions),
		Master:  MasterVersion,
	}
}

// Allowed returns whether version can be targeted under the policy.
func (p Policy) Allowed(version int) bool {
	return version == p.Default || version == p.Master || slices.Contains(p.Stable, version)
}

// Versions returns all the versions allowed by the policy, sorted and without repetition.
func (p Policy) Versions() []int {
	versions := append([]int{p.Default, p.Master}, p.Stable...)
	slices.Sort(versions)
	return slices.Compact(versions)
}
