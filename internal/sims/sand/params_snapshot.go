package sand

import (
	"math"
	"strconv"

	"sandfall/internal/core"
)

// Parameters reports the world's current settings.
func (w *World) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("size", "Size", w.n),
				{Key: "materials", Label: "Materials", Type: core.ParamTypeString, Value: w.cfg.Materials.String()},
				int64Param("seed", "Seed", w.cfg.Seed),
				int64Param("steps", "Steps", int64(w.steps)),
			},
		},
		{
			Name: "Engine",
			Params: []core.Parameter{
				floatParam("condense_threshold", "Condense threshold", float64(w.engine.CondenseThreshold())),
				intParam("band_rows", "Band rows", w.cfg.BandRows),
				intParam("reset_workers", "Reset workers", w.cfg.ResetWorkers),
			},
		},
	}}
}

// ParameterControls lists the settings a viewer may adjust at runtime.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "condense_threshold", Label: "Condense threshold", Type: core.ParamTypeFloat, Step: 0.0005, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "band_rows", Label: "Band rows", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: float64(w.n), HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a floating point setting, clamping to its
// control bounds.
func (w *World) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := w.control(key, core.ParamTypeFloat)
	if !ok || math.IsNaN(value) {
		return false
	}
	switch key {
	case "condense_threshold":
		w.cfg.CondenseThreshold = float32(ctrl.Clamp(value))
		w.engine.SetCondenseThreshold(w.cfg.CondenseThreshold)
		return true
	}
	return false
}

// SetIntParameter updates an integer setting, clamping to its control
// bounds.
func (w *World) SetIntParameter(key string, value int) bool {
	ctrl, ok := w.control(key, core.ParamTypeInt)
	if !ok {
		return false
	}
	switch key {
	case "band_rows":
		w.cfg.BandRows = int(ctrl.Clamp(float64(value)))
		w.bands = RowBands(w.n, w.cfg.BandRows)
		return true
	}
	return false
}

func (w *World) control(key string, typ core.ParamType) (core.ParameterControl, bool) {
	for _, c := range w.ParameterControls() {
		if c.Key == key && c.Type == typ {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
