package effects

import (
	"math"
	"testing"
)

func TestBiquadPeakingNeutralAtZeroGain(t *testing.T) {
	var b Biquad
	b.Configure(BiquadPeaking, 1000, 1, 0, 44100)

	samples := []float64{0.1, -0.3, 0.5, -0.7, 0.2}
	for _, x := range samples {
		y := b.Process(x)
		if math.Abs(y-x) > 1e-6 {
			t.Fatalf("0dB peaking filter altered sample %v -> %v", x, y)
		}
	}
}

func TestBiquadResetClearsHistory(t *testing.T) {
	var b Biquad
	b.Configure(BiquadPeaking, 1000, 1, 6, 44100)
	b.Process(1)
	b.Process(0.5)
	b.Reset()
	if b.x1 != 0 || b.x2 != 0 || b.y1 != 0 || b.y2 != 0 {
		t.Fatal("Reset left nonzero filter history")
	}
}

func TestEqualizerNeutralAtZeroGain(t *testing.T) {
	eq := NewEqualizer(44100)
	samples := make([]float32, 256)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
	}
	want := make([]float32, len(samples))
	copy(want, samples)

	eq.Process(samples)
	for i := range samples {
		if math.Abs(float64(samples[i]-want[i])) > 1e-6 {
			t.Fatalf("sample %d: got %v, want %v (all bands at 0dB must be neutral)", i, samples[i], want[i])
		}
	}
}

func TestEqualizerResetClearsBandHistory(t *testing.T) {
	eq := NewEqualizer(44100)
	eq.SetBand(0, EqBand{FreqHz: 100, Q: 1, GainDB: 6})
	samples := []float32{1, 0.5, -0.2}
	eq.Process(samples)
	eq.Reset()
	for i := range eq.stage1 {
		if eq.stage1[i].x1 != 0 || eq.stage1[i].y1 != 0 {
			t.Fatalf("band %d stage1 history not cleared by Reset", i)
		}
	}
}
