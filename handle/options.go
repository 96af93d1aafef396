package handle

import (
	"github.com/go-gl/mathgl/mgl64"

	xr "github.com/pmndrs/xr-sub001"
)

// Axis names one of the three local axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a%3]
}

// Unit returns the unit vector of the axis.
func (a Axis) Unit() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a%3] = 1
	return v
}

// OptionKind selects the shape of a TransformOption.
type OptionKind uint8

const (
	// OptionEnabled frees every axis. It is the zero value.
	OptionEnabled OptionKind = iota
	// OptionDisabled locks every axis.
	OptionDisabled
	// OptionAxis frees a single axis.
	OptionAxis
	// OptionPerAxis configures each axis separately.
	OptionPerAxis
)

// AxisOption configures one axis of an OptionPerAxis option. Range, when
// set, clamps the change relative to the initial value.
type AxisOption struct {
	Enabled bool
	Range   *[2]float64
}

// Free returns an enabled, unclamped axis.
func Free() AxisOption { return AxisOption{Enabled: true} }

// Locked returns a disabled axis.
func Locked() AxisOption { return AxisOption{} }

// Ranged returns an enabled axis whose change is clamped to [min, max].
func Ranged(min, max float64) AxisOption {
	return AxisOption{Enabled: true, Range: &[2]float64{min, max}}
}

// TransformOption constrains one of translate, rotate or scale.
type TransformOption struct {
	Kind OptionKind
	// Axis is the free axis for OptionAxis.
	Axis Axis
	// X, Y, Z configure OptionPerAxis.
	X, Y, Z AxisOption
}

// Enabled frees every axis.
func Enabled() TransformOption { return TransformOption{Kind: OptionEnabled} }

// Disabled locks every axis.
func Disabled() TransformOption { return TransformOption{Kind: OptionDisabled} }

// Only frees a single axis.
func Only(a Axis) TransformOption { return TransformOption{Kind: OptionAxis, Axis: a} }

// PerAxis configures each axis separately.
func PerAxis(x, y, z AxisOption) TransformOption {
	return TransformOption{Kind: OptionPerAxis, X: x, Y: y, Z: z}
}

// AxisConfig returns whether axis i is free and its clamp range.
func (o TransformOption) AxisConfig(i int) (enabled bool, rng *[2]float64) {
	switch o.Kind {
	case OptionEnabled:
		return true, nil
	case OptionDisabled:
		return false, nil
	case OptionAxis:
		return int(o.Axis) == i, nil
	default:
		a := [3]AxisOption{o.X, o.Y, o.Z}[i]
		return a.Enabled, a.Range
	}
}

// EnabledAxes returns the free axes in x, y, z order.
func (o TransformOption) EnabledAxes() []Axis {
	axes := make([]Axis, 0, 3)
	for i := 0; i < 3; i++ {
		if ok, _ := o.AxisConfig(i); ok {
			axes = append(axes, Axis(i))
		}
	}
	return axes
}

// IsDisabled reports whether no axis is free.
func (o TransformOption) IsDisabled() bool {
	return len(o.EnabledAxes()) == 0
}

// TranslateMode reinterprets translate-handle motion.
type TranslateMode uint8

const (
	// TranslateLiteral moves the target with the pointer.
	TranslateLiteral TranslateMode = iota
	// TranslateAsRotate turns drag motion into rotation about the target.
	TranslateAsRotate
	// TranslateAsScale turns drag distance into a scale factor.
	TranslateAsScale
	// TranslateAsRotateAndScale does both.
	TranslateAsRotateAndScale
)

func (m TranslateMode) rotates() bool {
	return m == TranslateAsRotate || m == TranslateAsRotateAndScale
}

func (m TranslateMode) scales() bool {
	return m == TranslateAsScale || m == TranslateAsRotateAndScale
}

// ApplyFunc writes a solved state into the target and returns a memo kept on
// the state.
type ApplyFunc func(state *HandleState, target *xr.Node) any

// HandleOptions configures a HandleStore and the solver. The zero value frees
// translate, rotate and scale, allows one pointer and lets events propagate;
// DefaultHandleOptions enables multitouch and stops propagation.
type HandleOptions struct {
	Translate     TransformOption
	TranslateMode TranslateMode
	Rotate        TransformOption
	Scale         TransformOption

	// Multitouch allows a second pointer to join the session.
	Multitouch bool
	// StopPropagation stops pointer events consumed by the handle.
	StopPropagation bool
	// AlwaysUpdate solves every Update even when no pointer moved.
	AlwaysUpdate bool
	// Apply replaces the default, which writes position, rotation and scale
	// into the target.
	Apply ApplyFunc
}

// DefaultHandleOptions returns options with every transform free, multitouch
// on and propagation stopped.
func DefaultHandleOptions() HandleOptions {
	return HandleOptions{Multitouch: true, StopPropagation: true}
}

// ApplyTransformOptions constrains value against initial: locked axes keep
// the initial component, free axes keep the change clamped to their range.
func ApplyTransformOptions(value, initial mgl64.Vec3, opt TransformOption) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		enabled, rng := opt.AxisConfig(i)
		if !enabled {
			out[i] = initial[i]
			continue
		}
		delta := value[i] - initial[i]
		if rng != nil {
			delta = mgl64.Clamp(delta, rng[0], rng[1])
		}
		out[i] = initial[i] + delta
	}
	return out
}

// ApplyScaleOptions constrains a scale against initial. Ranges clamp the
// factor relative to the initial scale.
func ApplyScaleOptions(value, initial mgl64.Vec3, opt TransformOption) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		enabled, rng := opt.AxisConfig(i)
		if !enabled || initial[i] == 0 {
			out[i] = initial[i]
			continue
		}
		factor := value[i] / initial[i]
		if rng != nil {
			factor = mgl64.Clamp(factor, rng[0], rng[1])
		}
		out[i] = initial[i] * factor
	}
	return out
}

// ApplyRotateOptions constrains rotation q against initial through their
// Euler angles in the given order.
func ApplyRotateOptions(q, initial mgl64.Quat, opt TransformOption, order xr.EulerOrder) (mgl64.Quat, xr.Euler) {
	if opt.IsDisabled() {
		return initial, xr.EulerFromQuat(initial, order)
	}
	e := xr.EulerFromQuat(q, order)
	if opt.Kind == OptionEnabled {
		return q, e
	}
	init := xr.EulerFromQuat(initial, order)
	constrained := ApplyTransformOptions(
		mgl64.Vec3{e.X, e.Y, e.Z},
		mgl64.Vec3{init.X, init.Y, init.Z},
		opt)
	out := xr.Euler{X: constrained[0], Y: constrained[1], Z: constrained[2], Order: order}
	return out.Quat(), out
}

// RotateOrderFromOptions orders the free axes before the locked ones so
// locked axes decompose last. When all or no axes are free it returns
// fallback.
func RotateOrderFromOptions(opt TransformOption, fallback xr.EulerOrder) xr.EulerOrder {
	free := opt.EnabledAxes()
	if len(free) == 0 || len(free) == 3 {
		return fallback
	}
	var order []byte
	var locked []byte
	for i := 0; i < 3; i++ {
		name := "XYZ"[i]
		if ok, _ := opt.AxisConfig(i); ok {
			order = append(order, name)
		} else {
			locked = append(locked, name)
		}
	}
	return xr.EulerOrderFromAxes(string(append(order, locked...)))
}
