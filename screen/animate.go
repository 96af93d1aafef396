package screen

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraTween animates every field of a CameraState at once.
type cameraTween struct {
	tweens [6]*gween.Tween
	base   CameraState
	Done   bool
}

func newCameraTween(from, to CameraState, duration float32, fn ease.TweenFunc) *cameraTween {
	// The yaw turns the short way round.
	yaw := from.RotationY + math.Remainder(to.RotationY-from.RotationY, 2*math.Pi)
	// Tween offsets relative to from keep float32 precision near the start
	// state regardless of its magnitude.
	g := &cameraTween{base: from}
	g.tweens[0] = gween.New(0, float32(to.Distance-from.Distance), duration, fn)
	g.tweens[1] = gween.New(0, float32(to.Origin[0]-from.Origin[0]), duration, fn)
	g.tweens[2] = gween.New(0, float32(to.Origin[1]-from.Origin[1]), duration, fn)
	g.tweens[3] = gween.New(0, float32(to.Origin[2]-from.Origin[2]), duration, fn)
	g.tweens[4] = gween.New(0, float32(to.RotationX-from.RotationX), duration, fn)
	g.tweens[5] = gween.New(0, float32(yaw-from.RotationY), duration, fn)
	return g
}

// Update advances the tweens by dt seconds and returns the interpolated state.
func (g *cameraTween) Update(dt float32) CameraState {
	var v [6]float64
	allDone := true
	for i, t := range g.tweens {
		val, finished := t.Update(dt)
		v[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	s := g.base
	s.Distance += v[0]
	s.Origin[0] += v[1]
	s.Origin[1] += v[2]
	s.Origin[2] += v[3]
	s.RotationX += v[4]
	s.RotationY += v[5]
	return s
}

// AnimateTo transitions to target over duration seconds using the easing
// function, linear when fn is nil. Call Update every frame to advance it.
// The final state is committed exactly. SetState or a rig gesture stops the
// transition.
func (s *CameraStore) AnimateTo(target CameraState, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	if duration <= 0 {
		s.SetState(target)
		return
	}
	s.anim = newCameraTween(s.state, target, duration, fn)
	s.animTarget = target
}

// Animating reports whether a transition is running.
func (s *CameraStore) Animating() bool { return s.anim != nil }

// Update advances a running transition by dt seconds.
func (s *CameraStore) Update(dt float32) {
	if s.anim == nil {
		return
	}
	state := s.anim.Update(dt)
	if s.anim.Done {
		s.anim = nil
		s.commit(s.animTarget)
		return
	}
	s.commit(state)
}
