package effects

import (
	"math"
	"testing"
)

func TestSoftClipIdentityInsideThreshold(t *testing.T) {
	for _, x := range []float64{-0.7, -0.3, 0, 0.3, 0.7} {
		if got := softClip(x); math.Abs(got-x) > 1e-9 {
			t.Fatalf("softClip(%v) = %v, want identity inside [-0.7, 0.7]", x, got)
		}
	}
}

func TestSoftClipMonotonic(t *testing.T) {
	prev := softClip(-2)
	for x := -1.9; x <= 2; x += 0.1 {
		cur := softClip(x)
		if cur < prev {
			t.Fatalf("softClip not monotonic at x=%.1f: prev=%v cur=%v", x, prev, cur)
		}
		prev = cur
	}
}

func TestDelayResetClearsLineAndDamping(t *testing.T) {
	d := NewDelay(44100, 50)
	loud := make([]float32, 4096)
	for i := range loud {
		loud[i] = 1
	}
	d.Process(loud)
	d.Reset()

	for _, v := range d.line {
		if v != 0 {
			t.Fatal("Reset left nonzero delay line")
		}
	}
	if d.dState != 0 {
		t.Fatalf("Reset left dState = %v, want 0", d.dState)
	}
}

func TestDelayMixZeroIsPureDry(t *testing.T) {
	d := NewDelay(44100, 50)
	d.SetMix(0)
	samples := []float32{0.5, -0.25, 0.1}
	want := []float32{0.5, -0.25, 0.1}
	d.Process(samples)
	for i := range samples {
		if samples[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v (mix=0 must be pure dry)", i, samples[i], want[i])
		}
	}
}

func TestDelayTimeReallocatesLine(t *testing.T) {
	d := NewDelay(44100, 50)
	before := len(d.line)
	d.SetTimeMs(200)
	after := len(d.line)
	if after <= before {
		t.Fatalf("expected longer delay line after increasing time, got %d -> %d", before, after)
	}
}
