package effects

import (
	"math"
	"testing"
)

func TestCompressorUnityAtRatioOneMakeupZero(t *testing.T) {
	c := NewCompressor(44100)
	c.SetRatio(1)
	c.MakeupDB = 0

	samples := make([]float32, 4410)
	for i := range samples {
		samples[i] = float32(0.8 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}
	want := make([]float32, len(samples))
	copy(want, samples)

	c.Process(samples)
	for i := range samples {
		if diff := math.Abs(float64(samples[i] - want[i])); diff > 1e-4 {
			t.Fatalf("sample %d: got %v, want %v (ratio=1/makeup=0 must be unity gain)", i, samples[i], want[i])
		}
	}
}

func TestCompressorSteadyStateGainReduction(t *testing.T) {
	c := NewCompressor(44100)
	c.ThresholdDB = -6
	c.SetRatio(4)
	c.MakeupDB = 0
	c.SetAttackMs(10)
	c.SetReleaseMs(100)

	n := 44100
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
	}
	c.Process(samples)

	var peak float32
	for _, s := range samples[n-4410:] {
		if math.Abs(float64(s)) > float64(peak) {
			peak = float32(math.Abs(float64(s)))
		}
	}
	peakDB := linearToDB(float64(peak))
	if peakDB < -4.7 || peakDB > -4.3 {
		t.Fatalf("steady-state peak = %.2fdB, want within [-4.7, -4.3]", peakDB)
	}
}

func TestCompressorResetRestoresEnvelope(t *testing.T) {
	c := NewCompressor(44100)
	loud := make([]float32, 4410)
	for i := range loud {
		loud[i] = 1
	}
	c.Process(loud)
	if c.envelopeDB < -50 {
		t.Fatal("expected envelope to have risen after sustained full-scale input")
	}
	c.Reset()
	if c.envelopeDB != -120 {
		t.Fatalf("after Reset envelopeDB = %v, want -120", c.envelopeDB)
	}
}

func TestLimiterNeverExceedsCeiling(t *testing.T) {
	l := NewLimiter(44100)
	l.SetCeilingDB(-1)

	samples := make([]float32, 44100)
	for i := range samples {
		samples[i] = float32(3 * math.Sin(2*math.Pi*220*float64(i)/44100))
	}
	l.Process(samples)

	ceiling := dbToLinear(-1) * 1.001 // small float slack
	for i, s := range samples[1000:] {
		if math.Abs(float64(s)) > ceiling {
			t.Fatalf("sample %d: |%v| exceeds ceiling %v", i+1000, s, ceiling)
		}
	}
}

func TestLimiterResetClearsGainReduction(t *testing.T) {
	l := NewLimiter(44100)
	loud := make([]float32, 4410)
	for i := range loud {
		loud[i] = 2
	}
	l.Process(loud)
	if !l.IsLimiting {
		t.Fatal("expected IsLimiting after a loud burst")
	}
	l.Reset()
	if l.IsLimiting || l.GainReductionDB != 0 {
		t.Fatalf("after Reset: IsLimiting=%v GainReductionDB=%v, want false/0", l.IsLimiting, l.GainReductionDB)
	}
}

func TestSoftClipHardMonotonic(t *testing.T) {
	prev := softClipHard(-5)
	for x := -4.9; x <= 5; x += 0.1 {
		cur := softClipHard(x)
		if cur < prev {
			t.Fatalf("softClipHard not monotonic at x=%.1f: prev=%v cur=%v", x, prev, cur)
		}
		prev = cur
	}
}

func TestSoftClipHardIdentityInsideUnity(t *testing.T) {
	for _, x := range []float64{-1, -0.5, 0, 0.5, 1} {
		if got := softClipHard(x); math.Abs(got-x) > 1e-9 {
			t.Fatalf("softClipHard(%v) = %v, want identity inside [-1,1]", x, got)
		}
	}
}

func TestDynamicAmpResetIdempotent(t *testing.T) {
	d := NewDynamicAmp(44100)
	loud := make([]float32, 4410)
	for i := range loud {
		loud[i] = 0.9
	}
	d.Process(loud)
	d.Reset()
	if d.gain != 1 {
		t.Fatalf("after Reset gain = %v, want 1", d.gain)
	}
}

func TestAutoGainResetRestoresUnity(t *testing.T) {
	a := NewAutoGain(44100)
	samples := make([]float32, 4410)
	for i := range samples {
		samples[i] = 0.01
	}
	a.Process(samples)
	a.Reset()
	if a.gain != 1 || a.peakEnv != 0 {
		t.Fatalf("after Reset gain=%v peakEnv=%v, want 1/0", a.gain, a.peakEnv)
	}
}

func TestEnhancerSilenceIsSilence(t *testing.T) {
	e := NewEnhancer(44100)
	samples := make([]float32, 2048)
	e.Process(samples)
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("sample %d: got %v, want 0 for silent input", i, s)
		}
	}
}

func TestDistortionResetIsNoop(t *testing.T) {
	d := NewDistortion()
	samples := []float32{0.5, -0.5}
	d.Reset()
	d.Process(samples)
	if samples[0] == 0.5 && samples[1] == -0.5 {
		t.Fatal("expected distortion to alter samples even right after Reset")
	}
}
