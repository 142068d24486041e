package effects

const (
	flangerBaseMs  = 1.0
	flangerDepthMs = 9.0
)

// Flanger is a single short modulated delay line with feedback, giving
// the characteristic swept comb-filter sound. Feedback is hard-clipped
// to [0, 0.95] so the loop can't run away.
type Flanger struct {
	SampleRate float64

	RateHz   float64
	Depth    float64 // [0, 1]
	Feedback float64 // [0, 0.95]
	Mix      float64 // wet fraction, [0, 1]

	line *modDelayLine
	osc  *lfo
}

// NewFlanger builds a default flanger sweeping at 0.25Hz.
func NewFlanger(sampleRate float64) *Flanger {
	f := &Flanger{SampleRate: sampleRate, RateHz: 0.25, Depth: 0.6, Feedback: 0.5, Mix: 0.5}
	maxSamples := int((flangerBaseMs+flangerDepthMs)*sampleRate/1000) + 2
	f.line = newModDelayLine(maxSamples)
	f.osc = newLFO(sampleRate, f.RateHz, 0)
	return f
}

// SetRateHz retunes the sweep without resetting its phase.
func (f *Flanger) SetRateHz(hz float64) {
	f.RateHz = hz
	f.osc.rateHz = hz
}

// SetDepth clamps modulation depth into [0, 1].
func (f *Flanger) SetDepth(depth float64) { f.Depth = clamp(depth, 0, 1) }

// SetFeedback hard-clips feedback gain to a range the delay loop can't
// run away in.
func (f *Flanger) SetFeedback(fb float64) { f.Feedback = clamp(fb, 0, 0.95) }

// SetMix clamps the dry/wet mix into [0, 1].
func (f *Flanger) SetMix(mix float64) { f.Mix = clamp(mix, 0, 1) }

// Process reads the modulated tap, feeds it back into the write stage,
// and blends wet with dry.
func (f *Flanger) Process(samples []float32) {
	for i, x := range samples {
		lfoVal := f.osc.next()
		delayMs := flangerBaseMs + flangerDepthMs*(1+f.Depth*lfoVal)/2
		delayTaps := delayMs * f.SampleRate / 1000

		tapped := f.line.readDelayed(delayTaps)
		f.line.write(float64(x) + tapped*f.Feedback)

		samples[i] = float32(float64(x)*(1-f.Mix) + tapped*f.Mix)
	}
}

// Reset clears the delay line and rewinds the LFO.
func (f *Flanger) Reset() {
	f.line.reset()
	f.osc.reset()
}
