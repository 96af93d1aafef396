package xr

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is an axis-aligned screen rectangle. The origin is the top-left corner,
// with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// PointerType identifies the kind of input device behind a Pointer.
type PointerType string

const (
	PointerTypeMouse       PointerType = "mouse"        // desktop mouse, screen-ray intersector
	PointerTypeScreenTouch PointerType = "screen-touch" // touchscreen finger, screen-ray intersector
	PointerTypeRay         PointerType = "ray"          // XR controller or hand ray
	PointerTypeGrab        PointerType = "grab"         // XR grab sphere
	PointerTypeTouch       PointerType = "touch"        // XR fingertip touch sphere
	PointerTypeLines       PointerType = "lines"        // XR curved (teleport) pointer
)

// EventKind identifies a kind of pointer event. Listener lists are indexed by
// EventKind, so the set is closed.
type EventKind uint8

const (
	EventPointerOver   EventKind = iota // bubbles; pointer moved onto a new target
	EventPointerEnter                   // does not bubble; fired on each ancestor entered
	EventPointerMove                    // bubbles
	EventPointerDown                    // bubbles
	EventPointerUp                      // bubbles
	EventPointerCancel                  // bubbles; interaction aborted
	EventPointerLeave                   // does not bubble; fired on each ancestor left
	EventPointerOut                     // bubbles; pointer moved off the previous target
	EventClick                          // bubbles; down and up on the same target
	EventDblClick                       // bubbles; second click within the threshold
	EventContextMenu                    // bubbles; click with the context menu button
	EventWheel                          // bubbles

	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	"pointerover", "pointerenter", "pointermove", "pointerdown", "pointerup",
	"pointercancel", "pointerleave", "pointerout", "click", "dblclick",
	"contextmenu", "wheel",
}

// String returns the DOM name of the event kind.
func (k EventKind) String() string {
	if k < eventKindCount {
		return eventKindNames[k]
	}
	return "unknown"
}

// Bubbles reports whether events of this kind propagate to ancestors.
func (k EventKind) Bubbles() bool {
	return k != EventPointerEnter && k != EventPointerLeave
}

// PointerEventsMode controls whether a node takes part in hit testing.
type PointerEventsMode uint8

const (
	PointerEventsInherit  PointerEventsMode = iota // use the parent's effective mode
	PointerEventsAuto                              // always hit-testable
	PointerEventsNone                              // never hit-testable (children may still be)
	PointerEventsListener                          // hit-testable only when it or an ancestor has listeners
)

// PointerEventsType filters which pointer types may hit a node.
// The zero value allows every type.
type PointerEventsType struct {
	Allow []PointerType
	Deny  []PointerType
}

func (f PointerEventsType) isZero() bool {
	return f.Allow == nil && f.Deny == nil
}

// accepts reports whether pointers of type t pass the filter.
func (f PointerEventsType) accepts(t PointerType) bool {
	for _, d := range f.Deny {
		if d == t {
			return false
		}
	}
	if f.Allow == nil {
		return true
	}
	for _, a := range f.Allow {
		if a == t {
			return true
		}
	}
	return false
}

// Mouse and XR controller buttons, numbered like DOM MouseEvent.button.
const (
	ButtonPrimary   = 0 // left mouse button, trigger, touch contact
	ButtonAuxiliary = 1 // middle mouse button
	ButtonSecondary = 2 // right mouse button, squeeze
)

// NativeEvent is the host event that caused a pointer operation. The core
// only reads the fields below; Data is passed through to listeners untouched.
type NativeEvent struct {
	Button    int
	TimeStamp time.Time
	// ScreenX and ScreenY are normalized device coordinates in [-1, 1] for
	// screen-ray pointers (X right, Y up).
	ScreenX, ScreenY float64
	// Wheel deltas, only meaningful for Pointer.Wheel.
	DeltaX, DeltaY, DeltaZ float64
	Data                   any
}

func (e NativeEvent) timeStamp() time.Time {
	if e.TimeStamp.IsZero() {
		return time.Now()
	}
	return e.TimeStamp
}

// Forward is the direction a pointer with identity orientation points to.
var Forward = mgl64.Vec3{0, 0, -1}

// Up is the world up direction.
var Up = mgl64.Vec3{0, 1, 0}

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)
