package effects

import "testing"

func TestReverbSilenceIsSilence(t *testing.T) {
	r := NewReverb(44100)
	samples := make([]float32, 8192)
	r.Process(samples)
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("sample %d: got %v, want 0 for silent input", i, s)
		}
	}
}

func TestReverbResetClearsTails(t *testing.T) {
	r := NewReverb(44100)
	impulse := make([]float32, 4096)
	impulse[0] = 1
	r.Process(impulse)

	var tailEnergy float64
	tail := make([]float32, 4096)
	r.Process(tail)
	for _, s := range tail {
		tailEnergy += float64(s) * float64(s)
	}
	if tailEnergy == 0 {
		t.Fatal("expected nonzero reverb tail after an impulse")
	}

	r.Reset()
	silence := make([]float32, 4096)
	r.Process(silence)
	for i, s := range silence {
		if s != 0 {
			t.Fatalf("sample %d after Reset: got %v, want 0", i, s)
		}
	}
}

func TestReverbDryOnlyPassesThrough(t *testing.T) {
	r := NewReverb(44100)
	r.SetParams(ReverbParams{RoomSize: 0.5, Damping: 0.5, Width: 1, Wet: 0, Dry: 1, InputGain: 1})
	samples := []float32{0.5, -0.25, 0.1}
	want := []float32{0.5, -0.25, 0.1}
	r.Process(samples)
	for i := range samples {
		if samples[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v (wet=0 should be pure dry passthrough)", i, samples[i], want[i])
		}
	}
}
