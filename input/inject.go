package input

type syntheticKind uint8

const (
	syntheticMouse syntheticKind = iota
	syntheticWheel
	syntheticTouch
)

// syntheticEvent is one queued input event in screen pixels.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64
	pressed bool
	button  int
	deltaY  float64
	touchID int
}

// injectedTouchID keeps injected touch ids apart from real ones.
func injectedTouchID(id int) int {
	return -(id + 1)
}

// InjectPress queues a press of button at the given screen position. The
// event is consumed on the next Update.
func (d *Driver) InjectPress(x, y float64, button int) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{x: x, y: y, pressed: true, button: button})
}

// InjectMove queues a mouse move with button held. Use it between
// InjectPress and InjectRelease to drag.
func (d *Driver) InjectMove(x, y float64, button int) {
	d.InjectPress(x, y, button)
}

// InjectRelease queues a release of button at the given screen position.
func (d *Driver) InjectRelease(x, y float64, button int) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{x: x, y: y, button: button})
}

// InjectClick queues a press and a release at the same position. Consumes
// two frames.
func (d *Driver) InjectClick(x, y float64, button int) {
	d.InjectPress(x, y, button)
	d.InjectRelease(x, y, button)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// frames frames, at least 2.
func (d *Driver) InjectDrag(fromX, fromY, toX, toY float64, frames, button int) {
	if frames < 2 {
		frames = 2
	}
	d.InjectPress(fromX, fromY, button)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		d.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, button)
	}
	d.InjectRelease(toX, toY, button)
}

// InjectWheel queues a wheel event at the given position. deltaY is in
// pixels, positive when scrolling down.
func (d *Driver) InjectWheel(x, y, deltaY float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: syntheticWheel, x: x, y: y, deltaY: deltaY})
}

// InjectTouch queues a touch contact update: pressed starts or moves touch
// id, released lifts it.
func (d *Driver) InjectTouch(id int, x, y float64, pressed bool) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{kind: syntheticTouch, x: x, y: y, pressed: pressed, touchID: id})
}

// Pending returns the number of queued synthetic events.
func (d *Driver) Pending() int { return len(d.injectQueue) }

// processInjected pops one synthetic event and applies it. Consecutive
// touch events for distinct touches are applied together so multi-finger
// gestures move in the same frame. It reports whether a mouse or wheel event
// was consumed, in which case the real mouse is skipped for the frame.
func (d *Driver) processInjected(mods KeyModifiers) bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	if d.injectQueue[0].kind == syntheticTouch {
		seen := make(map[int]bool)
		for len(d.injectQueue) > 0 {
			evt := d.injectQueue[0]
			if evt.kind != syntheticTouch || seen[evt.touchID] {
				break
			}
			seen[evt.touchID] = true
			d.popInjected()
			if evt.pressed {
				d.injectTouches[evt.touchID] = [2]float64{evt.x, evt.y}
			} else {
				delete(d.injectTouches, evt.touchID)
			}
		}
		return false
	}

	evt := d.popInjected()
	if evt.kind == syntheticWheel {
		d.processMouse(evt.x, evt.y, d.mouseButton, mods)
		d.wheel(evt.x, evt.y, 0, evt.deltaY, mods)
		return true
	}
	pressed := d.mouseButton
	for i, b := range mouseButtons {
		if b == evt.button {
			pressed[i] = evt.pressed
		}
	}
	d.processMouse(evt.x, evt.y, pressed, mods)
	return true
}

func (d *Driver) popInjected() syntheticEvent {
	evt := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]
	return evt
}
