package ui

import (
	"math"
	"strconv"

	"sandfall/internal/core"
)

// nudge returns the value one step from current in direction, clamped to
// the control's bounds. It reports false when the value would not change.
func nudge(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	if step <= 0 {
		step = defaultStep(ctrl.Type)
	}
	if ctrl.Type == core.ParamTypeInt {
		step = math.Max(1, math.Round(step))
	}
	target := ctrl.Clamp(current + float64(direction)*step)
	if ctrl.Type == core.ParamTypeInt {
		target = math.Round(target)
	}
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

func defaultStep(t core.ParamType) float64 {
	if t == core.ParamTypeInt {
		return 1
	}
	return 0.05
}

// formatValue renders v with enough precision to show one step.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = defaultStep(ctrl.Type)
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// controlValues pairs each control with the current value from snap.
func controlValues(ctrls []core.ParameterControl, snap core.ParameterSnapshot) []controlValue {
	out := make([]controlValue, len(ctrls))
	for i, c := range ctrls {
		out[i] = controlValue{control: c, text: "--"}
		p, ok := snap.Lookup(c.Key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			continue
		}
		out[i].value = v
		out[i].ok = true
		out[i].text = formatValue(c, v)
	}
	return out
}

type controlValue struct {
	control core.ParameterControl
	value   float64
	text    string
	ok      bool
}
