package xr

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// propagation is shared by every listener invocation of one dispatched event.
type propagation struct {
	stopped   bool
	immediate bool
}

// PointerEvent is delivered to listeners. Target is the node that was hit;
// CurrentTarget is the node whose listener is running.
type PointerEvent struct {
	Kind          EventKind
	PointerID     int
	PointerType   PointerType
	Target        *Node
	CurrentTarget *Node
	// Intersection is the pointer's intersection when the event fired. It is
	// nil only for events synthesized without a hit (none today).
	Intersection *Intersection
	Button       int
	TimeStamp    time.Time
	Native       NativeEvent
	// Wheel deltas (valid for EventWheel)
	DeltaX, DeltaY, DeltaZ float64

	pointer *Pointer
	flags   *propagation
}

// Pointer returns the pointer that produced the event.
func (e *PointerEvent) Pointer() *Pointer {
	return e.pointer
}

// Point returns the world hit point.
func (e *PointerEvent) Point() mgl64.Vec3 {
	if e.Intersection == nil {
		return mgl64.Vec3{}
	}
	return e.Intersection.Point
}

// LocalPoint returns the hit point in CurrentTarget's local space.
func (e *PointerEvent) LocalPoint() mgl64.Vec3 {
	if e.CurrentTarget == nil {
		return e.Point()
	}
	return e.CurrentTarget.WorldToLocal(e.Point())
}

// StopPropagation prevents the event from reaching ancestors of the current
// node. Remaining listeners on the current node still run.
func (e *PointerEvent) StopPropagation() {
	e.flags.stopped = true
}

// StopImmediatePropagation also skips the remaining listeners on the current node.
func (e *PointerEvent) StopImmediatePropagation() {
	e.flags.stopped = true
	e.flags.immediate = true
}

// PropagationStopped reports whether a listener stopped propagation.
func (e *PointerEvent) PropagationStopped() bool {
	return e.flags.stopped
}

// SetPointerCapture captures the pointer to CurrentTarget. Until it is
// released, the pointer's intersection is recomputed against that node only.
func (e *PointerEvent) SetPointerCapture() {
	if e.pointer == nil || e.CurrentTarget == nil {
		return
	}
	e.pointer.SetPointerCapture(e.CurrentTarget, e.Intersection)
}

// ReleasePointerCapture releases the pointer's capture if CurrentTarget holds it.
func (e *PointerEvent) ReleasePointerCapture() {
	if e.pointer == nil {
		return
	}
	if c := e.pointer.GetPointerCapture(); c != nil && c.Object == e.CurrentTarget {
		e.pointer.ReleasePointerCapture()
	}
}

// HasPointerCapture reports whether CurrentTarget holds the pointer's capture.
func (e *PointerEvent) HasPointerCapture() bool {
	if e.pointer == nil {
		return false
	}
	c := e.pointer.GetPointerCapture()
	return c != nil && c.Object == e.CurrentTarget
}

// dispatch delivers e to its target and, for bubbling kinds, to each ancestor
// until a listener stops propagation. Listener lists are snapshotted per node
// so listeners may add or remove listeners while running.
func dispatch(e *PointerEvent, scene *Scene) {
	if e.Target == nil {
		return
	}
	if e.flags == nil {
		e.flags = &propagation{}
	}
	scene.emit(e)
	var buf [8]listenerEntry
	for node := e.Target; node != nil; node = node.Parent {
		if node.disposed {
			break
		}
		if entries := node.listeners[e.Kind]; len(entries) > 0 {
			snapshot := append(buf[:0], entries...)
			for _, entry := range snapshot {
				ev := *e
				ev.CurrentTarget = node
				entry.fn(&ev)
				if e.flags.immediate {
					return
				}
			}
		}
		if e.flags.stopped || !e.Kind.Bubbles() {
			return
		}
	}
}

// nodePath returns n and its ancestors, leaf first.
func nodePath(n *Node, buf []*Node) []*Node {
	buf = buf[:0]
	for p := n; p != nil; p = p.Parent {
		buf = append(buf, p)
	}
	return buf
}

func containsNode(path []*Node, n *Node) bool {
	for _, p := range path {
		if p == n {
			return true
		}
	}
	return false
}
