package effects

import "math"

// Overdrive is an asymmetric tanh saturator: the positive and negative
// halves of the waveform are driven and scaled differently, which is
// what gives tube-style overdrive its even-harmonic character. A
// two-pole low-pass tone control follows the saturator.
type Overdrive struct {
	SampleRate float64

	Drive float64 // [1, 10], pre-gain into the saturator
	Tone  float64 // [0, 1], tone low-pass cutoff fraction of Nyquist
	Mix   float64 // wet fraction, [0, 1]

	tone1, tone2 onePole
}

// NewOverdrive builds a default overdrive with a bright tone setting.
func NewOverdrive(sampleRate float64) *Overdrive {
	o := &Overdrive{SampleRate: sampleRate, Drive: 2, Tone: 0.7, Mix: 1}
	o.configureTone()
	return o
}

// SetDrive clamps the saturator's pre-gain into [1, 10].
func (o *Overdrive) SetDrive(drive float64) { o.Drive = clamp(drive, 1, 10) }

// SetTone clamps the tone control into [0, 1] and retunes the two-pole
// low-pass cutoff.
func (o *Overdrive) SetTone(tone float64) {
	o.Tone = clamp(tone, 0, 1)
	o.configureTone()
}

func (o *Overdrive) configureTone() {
	cutoff := 500 + o.Tone*(o.SampleRate/2-500)
	o.tone1 = *newOnePoleLP(cutoff, o.SampleRate)
	o.tone2 = *newOnePoleLP(cutoff, o.SampleRate)
}

// SetMix clamps the dry/wet mix into [0, 1].
func (o *Overdrive) SetMix(mix float64) { o.Mix = clamp(mix, 0, 1) }

// saturateAsymmetric applies the asymmetric tanh curve.
func saturateAsymmetric(x, drive float64) float64 {
	if x >= 0 {
		return math.Tanh(0.7 * drive * x) * 1.2
	}
	return math.Tanh(0.9*drive*x) * 0.9
}

// Process drives samples through the asymmetric saturator, a two-pole
// tone low-pass, and blends with dry by Mix.
func (o *Overdrive) Process(samples []float32) {
	for i, x := range samples {
		wet := saturateAsymmetric(float64(x), o.Drive)
		wet = o.tone1.lowpass(wet)
		wet = o.tone2.lowpass(wet)
		samples[i] = float32(float64(x)*(1-o.Mix) + wet*o.Mix)
	}
}

// Reset clears the tone control's delay state.
func (o *Overdrive) Reset() {
	o.tone1.reset()
	o.tone2.reset()
}
