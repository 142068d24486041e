package preset

import (
	"testing"

	"github.com/austinkregel/stemsep/internal/effects"
)

func TestApplyCompressorSetsAllFields(t *testing.T) {
	c := effects.NewCompressor(44100)
	ApplyCompressor(c, CompressorMasteringLimiter)
	want := compressorTable[CompressorMasteringLimiter]
	if c.ThresholdDB != want.ThresholdDB || c.Ratio != want.Ratio || c.MakeupDB != want.MakeupDB {
		t.Fatalf("ApplyCompressor did not set expected fields: got %+v", c)
	}
}

func TestApplyDelaySetsPresetTime(t *testing.T) {
	d := effects.NewDelay(44100, 50)
	ApplyDelay(d, DelayDub)
	want := delayTable[DelayDub]
	if d.TimeMs != want.TimeMs {
		t.Fatalf("ApplyDelay: TimeMs = %v, want %v", d.TimeMs, want.TimeMs)
	}
}

func TestApplyReverbMatchesTable(t *testing.T) {
	r := effects.NewReverb(44100)
	ApplyReverb(r, ReverbCathedral)
	want := reverbTable[ReverbCathedral]

	r2 := effects.NewReverb(44100)
	r2.SetParams(want)

	samples1 := []float32{1, 0, 0, 0, 0}
	samples2 := []float32{1, 0, 0, 0, 0}
	r.Process(samples1)
	r2.Process(samples2)
	for i := range samples1 {
		if samples1[i] != samples2[i] {
			t.Fatalf("sample %d: ApplyReverb output %v diverges from direct SetParams output %v", i, samples1[i], samples2[i])
		}
	}
}

func TestAllCompressorPresetsHaveValidRatios(t *testing.T) {
	for p, v := range compressorTable {
		if v.Ratio < 1 {
			t.Fatalf("preset %v has ratio < 1: %v", p, v.Ratio)
		}
	}
}

func TestAllReverbPresetsHaveBoundedParams(t *testing.T) {
	for p, v := range reverbTable {
		fields := map[string]float64{"RoomSize": v.RoomSize, "Damping": v.Damping, "Width": v.Width, "Wet": v.Wet, "Dry": v.Dry, "InputGain": v.InputGain}
		for name, val := range fields {
			if val < 0 || val > 1 {
				t.Fatalf("preset %v field %s = %v out of [0,1]", p, name, val)
			}
		}
	}
}
