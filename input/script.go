package input

import (
	"encoding/json"
	"fmt"

	xr "github.com/pmndrs/xr-sub001"
)

// scriptStep is one action of an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Button string  `json:"button,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	// FromDistance and ToDistance are the finger separation of a pinch.
	FromDistance float64 `json:"fromDistance,omitempty"`
	ToDistance   float64 `json:"toDistance,omitempty"`
	Frames       int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences synthetic input across frames. Attach it to a
// Driver with SetScriptRunner.
type ScriptRunner struct {
	// OnMark is called for every "mark" step with its label.
	OnMark func(label string)

	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

func parseButton(name string) (int, error) {
	switch name {
	case "", "left", "primary":
		return xr.ButtonPrimary, nil
	case "middle", "auxiliary":
		return xr.ButtonAuxiliary, nil
	case "right", "secondary":
		return xr.ButtonSecondary, nil
	default:
		return 0, fmt.Errorf("unknown button %q", name)
	}
}

// LoadScript parses a JSON input script. Supported actions are click, drag,
// wheel, pinch, wait and mark.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "click", "drag":
			if _, err := parseButton(st.Button); err != nil {
				return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
			}
		case "wheel", "wait", "mark":
		case "pinch":
			if st.FromDistance <= 0 || st.ToDistance <= 0 {
				return nil, fmt.Errorf("parse input script: step %d: pinch needs positive distances", i)
			}
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has run and its input was consumed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(d *Driver) {
	if r.done {
		return
	}
	if len(d.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	button, _ := parseButton(st.Button)

	switch st.Action {
	case "mark":
		if r.OnMark != nil {
			r.OnMark(st.Label)
		}
	case "click":
		d.InjectClick(st.X, st.Y, button)
	case "drag":
		d.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2), button)
	case "wheel":
		d.InjectWheel(st.X, st.Y, st.DeltaY)
	case "pinch":
		injectPinch(d, st)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(d.injectQueue) == 0 {
		r.done = true
	}
}

// injectPinch queues two horizontal touches centred on (X, Y) whose
// separation goes from FromDistance to ToDistance, then lifts them.
func injectPinch(d *Driver, st scriptStep) {
	frames := max(st.Frames, 2)
	touches := func(dist float64, pressed bool) {
		h := dist / 2
		d.InjectTouch(0, st.X-h, st.Y, pressed)
		d.InjectTouch(1, st.X+h, st.Y, pressed)
	}
	touches(st.FromDistance, true)
	for i := 1; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		touches(st.FromDistance+(st.ToDistance-st.FromDistance)*t, true)
	}
	touches(st.ToDistance, false)
}
