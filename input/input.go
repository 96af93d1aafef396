// Package input feeds platform input into screen pointers. A Driver polls a
// Source once per frame and turns the mouse and each touch contact into an
// xr.Pointer backed by a screen-ray intersector. Synthetic events and JSON
// scripts drive the same pointers for automated tests.
package input

import (
	"time"

	xr "github.com/pmndrs/xr-sub001"
)

const (
	maxTouches             = 9
	defaultWheelLineHeight = 100
)

// KeyModifiers is a bit set of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Source reports the raw input state for the current frame. Positions are
// in screen pixels.
type Source interface {
	CursorPosition() (x, y float64)
	IsMouseButtonPressed(button int) bool
	// Wheel returns the scroll since the last frame in lines, positive
	// when scrolling up or right.
	Wheel() (dx, dy float64)
	AppendTouchIDs(ids []int) []int
	TouchPosition(id int) (x, y float64)
	Modifiers() KeyModifiers
}

// DriverConfig configures a Driver. The zero value is usable.
type DriverConfig struct {
	// PointerOptions applies to the mouse and every touch pointer.
	PointerOptions xr.PointerOptions
	// WheelLineHeight converts wheel lines into pixel deltas. Zero means 100.
	WheelLineHeight float64
	// WheelUsesMoveIntersection targets wheel events at the hovered node
	// instead of hit-testing wheel listeners separately.
	WheelUsesMoveIntersection bool
	// MaxTouches caps the number of simultaneous touch pointers. Zero means 9.
	MaxTouches int
	// Now returns the event time stamp. Nil means time.Now.
	Now func() time.Time
}

func (c DriverConfig) withDefaults() DriverConfig {
	if c.WheelLineHeight == 0 {
		c.WheelLineHeight = defaultWheelLineHeight
	}
	if c.MaxTouches <= 0 {
		c.MaxTouches = maxTouches
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

var mouseButtons = [...]int{xr.ButtonPrimary, xr.ButtonAuxiliary, xr.ButtonSecondary}
