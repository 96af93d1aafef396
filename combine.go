package xr

import (
	"math"
)

// CombinedPointer arbitrates between several pointers of one input source,
// e.g. the ray, grab and touch pointers of a single XR hand. In single-pointer
// mode exactly one member, the one with the nearest hit, is enabled per frame.
type CombinedPointer struct {
	scene    *Scene
	members  []combinedMember
	enabled  bool
	active   *Pointer
	pointers []*Pointer

	// MultiplePointers lets every member stay enabled and hit-test the scene
	// even while another member is captured.
	MultiplePointers bool
}

type combinedMember struct {
	pointer   *Pointer
	isDefault bool
}

// NewCombinedPointer creates an enabled combined pointer.
func NewCombinedPointer(scene *Scene) *CombinedPointer {
	if scene == nil {
		panic("xr: combined pointer needs a scene")
	}
	return &CombinedPointer{scene: scene, enabled: true}
}

// Register adds p. A default member wins ties. The returned function
// unregisters p and exits it.
func (c *CombinedPointer) Register(p *Pointer, isDefault bool) (unregister func(NativeEvent)) {
	if p == nil {
		panic("xr: cannot register nil pointer")
	}
	c.members = append(c.members, combinedMember{pointer: p, isDefault: isDefault})
	c.pointers = append(c.pointers, p)
	return func(native NativeEvent) {
		for i, m := range c.members {
			if m.pointer == p {
				c.members = append(c.members[:i], c.members[i+1:]...)
				c.pointers = append(c.pointers[:i], c.pointers[i+1:]...)
				break
			}
		}
		if c.active == p {
			c.active = nil
		}
		p.Exit(native)
	}
}

// Pointers returns the registered pointers. The returned slice MUST NOT be mutated.
func (c *CombinedPointer) Pointers() []*Pointer {
	return c.pointers
}

// ActivePointer returns the member chosen by the last Move, or nil.
func (c *CombinedPointer) ActivePointer() *Pointer {
	return c.active
}

// Move computes intersections for every member, picks the active one and
// commits with pointermove.
func (c *CombinedPointer) Move(native NativeEvent) {
	if !c.enabled {
		return
	}
	computeIntersections(FamilyPointer, c.scene, c.pointers, native, c.MultiplePointers)
	c.active = c.computeActivePointer()
	c.Commit(native, true)
}

// computeActivePointer selects the member with the smallest effective
// distance. Captured members count as -Inf, void hits as +Inf, members
// without an intersection are skipped.
func (c *CombinedPointer) computeActivePointer() *Pointer {
	var best *Pointer
	bestDist := math.NaN()
	bestDefault := false
	for _, m := range c.members {
		p := m.pointer
		if p.intersection == nil {
			continue
		}
		d := p.intersection.Distance
		switch {
		case p.capture != nil:
			d = negInf
		case p.intersection.IsVoid():
			d = posInf
		}
		if best == nil || d < bestDist || (d == bestDist && m.isDefault && !bestDefault) {
			best, bestDist, bestDefault = p, d, m.isDefault
		}
	}
	return best
}

// Commit enables only the active member in single-pointer mode, then lets
// every member commit its own events.
func (c *CombinedPointer) Commit(native NativeEvent, emitMove bool) {
	if !c.enabled {
		return
	}
	if !c.MultiplePointers {
		for _, p := range c.pointers {
			if p != c.active {
				p.SetEnabled(false, native)
			}
		}
		if c.active != nil {
			c.active.SetEnabled(true, native)
		}
	}
	for _, p := range c.pointers {
		p.Commit(native, emitMove)
	}
}

// SetEnabled toggles the whole combined pointer. Disabling disables every
// member, emitting their terminal events.
func (c *CombinedPointer) SetEnabled(enabled bool, native NativeEvent) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	for _, p := range c.pointers {
		p.SetEnabled(enabled, native)
	}
	if !enabled {
		c.active = nil
	}
}

// Enabled reports whether the combined pointer is enabled.
func (c *CombinedPointer) Enabled() bool {
	return c.enabled
}
