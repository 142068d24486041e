package effects

import (
	"math"
	"testing"
)

func TestSaturateAsymmetricMonotonic(t *testing.T) {
	prev := saturateAsymmetric(-3, 2)
	for x := -2.9; x <= 3; x += 0.1 {
		cur := saturateAsymmetric(x, 2)
		if cur < prev {
			t.Fatalf("saturateAsymmetric not monotonic at x=%.1f: prev=%v cur=%v", x, prev, cur)
		}
		prev = cur
	}
}

func TestSaturateAsymmetricIsAsymmetric(t *testing.T) {
	pos := saturateAsymmetric(1, 1)
	neg := saturateAsymmetric(-1, 1)
	if math.Abs(math.Abs(pos)-math.Abs(neg)) < 1e-6 {
		t.Fatal("expected asymmetric drive to scale positive/negative halves differently")
	}
}

func TestOverdriveResetClearsToneState(t *testing.T) {
	o := NewOverdrive(44100)
	loud := make([]float32, 2048)
	for i := range loud {
		loud[i] = 1
	}
	o.Process(loud)
	o.Reset()
	if o.tone1.state != 0 || o.tone2.state != 0 {
		t.Fatal("Reset left nonzero tone filter state")
	}
}

func TestOverdriveMixZeroIsPureDry(t *testing.T) {
	o := NewOverdrive(44100)
	o.SetMix(0)
	samples := []float32{0.5, -0.25, 0.1}
	want := []float32{0.5, -0.25, 0.1}
	o.Process(samples)
	for i := range samples {
		if samples[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v (mix=0 must be pure dry)", i, samples[i], want[i])
		}
	}
}
