package ui

import (
	"math"
	"testing"

	"sandfall/internal/core"
)

func TestNudgeClampsToBounds(t *testing.T) {
	ctrl := core.ParameterControl{Key: "t", Type: core.ParamTypeFloat, Step: 0.0005, Min: 0, Max: 1, HasMin: true, HasMax: true}

	v, ok := nudge(ctrl, 0.999, 1)
	if !ok || math.Abs(v-0.9995) > 1e-12 {
		t.Fatalf("nudge up = %v, %v", v, ok)
	}
	if _, ok := nudge(ctrl, 1, 1); ok {
		t.Fatal("nudging past the max should report no change")
	}
	if v, ok := nudge(ctrl, 0.0002, -1); !ok || v != 0 {
		t.Fatalf("nudge down = %v, %v; want clamp to 0", v, ok)
	}
}

func TestNudgeIntRoundsStep(t *testing.T) {
	ctrl := core.ParameterControl{Key: "rows", Type: core.ParamTypeInt, Step: 0.2, Min: 0, HasMin: true}
	v, ok := nudge(ctrl, 4, 1)
	if !ok || v != 5 {
		t.Fatalf("nudge = %v, %v; want 5", v, ok)
	}
	if _, ok := nudge(ctrl, 0, -1); ok {
		t.Fatal("nudging below the min should report no change")
	}
}

func TestControlValues(t *testing.T) {
	ctrls := []core.ParameterControl{
		{Key: "condense_threshold", Type: core.ParamTypeFloat, Step: 0.0005},
		{Key: "band_rows", Type: core.ParamTypeInt, Step: 1},
		{Key: "missing", Type: core.ParamTypeInt},
	}
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Engine",
		Params: []core.Parameter{
			{Key: "condense_threshold", Type: core.ParamTypeFloat, Value: "0.999"},
			{Key: "band_rows", Type: core.ParamTypeInt, Value: "8"},
		},
	}}}

	got := controlValues(ctrls, snap)
	if got[0].text != "0.9990" || !got[0].ok {
		t.Fatalf("threshold = %+v", got[0])
	}
	if got[1].text != "8" || got[1].value != 8 {
		t.Fatalf("band rows = %+v", got[1])
	}
	if got[2].ok || got[2].text != "--" {
		t.Fatalf("missing = %+v", got[2])
	}
}
