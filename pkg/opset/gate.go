package opset

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Gate holds the target opset version. It starts at the policy's default version.
//
// A Gate is safe for concurrent use, but it targets one version at a time: SetVersion fails
// while a Pass is open. Concurrent exports to different versions need one Gate each.
type Gate struct {
	mu       sync.Mutex
	policy   Policy
	version  int
	inFlight int
}

// NewGate creates a Gate for the given policy, set to the policy's default version.
func NewGate(policy Policy) *Gate {
	return &Gate{policy: policy, version: policy.Default}
}

// Policy returns the allow-list of the gate.
func (g *Gate) Policy() Policy {
	return g.policy
}

// Version returns the current target version.
func (g *Gate) Version() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.version
}

// SetVersion changes the target version.
//
// It fails with ErrUnsupportedVersion if the policy doesn't allow version, and with
// ErrPassInFlight if a Pass is open. On failure the current version is left unchanged.
func (g *Gate) SetVersion(version int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.policy.Allowed(version) {
		return errors.Wrapf(ErrUnsupportedVersion, "version %d (allowed: %v)", version, g.policy.Versions())
	}
	if g.inFlight > 0 {
		return errors.Wrapf(ErrPassInFlight, "%d pass(es) open, requested version %d", g.inFlight, version)
	}
	if version != g.version {
		klog.V(1).Infof("ONNX opset version set to %d (was %d)", version, g.version)
	}
	g.version = version
	return nil
}

// Begin opens a lowering pass pinned to the current version. The pass must be closed with Pass.End.
func (g *Gate) Begin() *Pass {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight++
	return &Pass{gate: g, version: g.version}
}

// InFlight returns the number of open passes.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// Pass is one lowering pass. Its version never changes.
type Pass struct {
	gate    *Gate
	version int
	ended   bool
}

// Version returns the version targeted by the pass.
func (p *Pass) Version() int {
	return p.version
}

// AtLeast returns whether the pass targets version or a newer one.
func (p *Pass) AtLeast(version int) bool {
	return p.version >= version
}

// End closes the pass. Calling End more than once has no further effect.
func (p *Pass) End() {
	if p.gate == nil {
		return
	}
	p.gate.mu.Lock()
	defer p.gate.mu.Unlock()
	if p.ended {
		return
	}
	p.ended = true
	p.gate.inFlight--
}

// Fixed returns a Pass pinned to version that is not attached to any Gate.
// It is meant for tests and for callers that manage versions themselves.
func Fixed(version int) *Pass {
	return &Pass{version: version}
}
