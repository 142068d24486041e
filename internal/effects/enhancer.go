package effects

import "math"

// Enhancer is a harmonic exciter: a first-order high-pass isolates the
// high band, a tanh saturator adds harmonics to it, and the excited
// band is mixed back over the untouched dry signal.
type Enhancer struct {
	SampleRate float64

	CutoffHz float64
	PreGain  float64 // drive into the saturator
	Mix      float64 // excited-band fraction, [0, 1]

	hpPrevX, hpPrevY float64
	alpha            float64
}

// NewEnhancer builds a default enhancer exciting above 3kHz.
func NewEnhancer(sampleRate float64) *Enhancer {
	e := &Enhancer{SampleRate: sampleRate, CutoffHz: 3000, PreGain: 2, Mix: 0.25}
	e.configureCutoff()
	return e
}

// SetCutoffHz retunes the high-pass corner.
func (e *Enhancer) SetCutoffHz(hz float64) {
	e.CutoffHz = hz
	e.configureCutoff()
}

func (e *Enhancer) configureCutoff() {
	rc := 1 / (2 * math.Pi * e.CutoffHz)
	dt := 1 / e.SampleRate
	e.alpha = rc / (rc + dt)
}

// SetPreGain clamps the saturator's drive into [1, 10].
func (e *Enhancer) SetPreGain(gain float64) { e.PreGain = clamp(gain, 1, 10) }

// SetMix clamps the excited-band fraction into [0, 1].
func (e *Enhancer) SetMix(mix float64) { e.Mix = clamp(mix, 0, 1) }

// Process high-passes, saturates, and adds the excited band back over
// the unmodified dry signal.
func (e *Enhancer) Process(samples []float32) {
	for i, x := range samples {
		xf := float64(x)
		y := e.alpha * (e.hpPrevY + xf - e.hpPrevX)
		e.hpPrevX, e.hpPrevY = xf, y

		excited := math.Tanh(y * e.PreGain)
		samples[i] = float32(xf + excited*e.Mix)
	}
}

// Reset clears the high-pass filter's state.
func (e *Enhancer) Reset() {
	e.hpPrevX, e.hpPrevY = 0, 0
}
