package effects

import "math"

// phaserStage is a single first-order allpass whose coefficient is
// retuned every sample from the LFO-modulated center frequency.
type phaserStage struct {
	x1, y1 float64
}

func (s *phaserStage) process(x, a float64) float64 {
	y := -a*x + s.x1 + a*s.y1
	s.x1 = x
	s.y1 = y
	return y
}

func (s *phaserStage) reset() {
	s.x1, s.y1 = 0, 0
}

// Phaser sweeps a cascade of 2-8 first-order allpass stages with a
// shared LFO-modulated center frequency, producing moving notches when
// summed with the dry signal.
type Phaser struct {
	SampleRate float64

	Stages   int // [2, 8], even stage counts give the classic notch spacing
	RateHz   float64
	Depth    float64 // [0, 1]
	Feedback float64 // [0, 0.95]
	Mix      float64 // wet fraction, [0, 1]

	stages  []phaserStage
	osc     *lfo
	fbState float64
}

// NewPhaser builds a default 4-stage phaser sweeping at 0.5Hz.
func NewPhaser(sampleRate float64) *Phaser {
	p := &Phaser{SampleRate: sampleRate, Stages: 4, RateHz: 0.5, Depth: 0.8, Feedback: 0.3, Mix: 0.5}
	p.stages = make([]phaserStage, p.Stages)
	p.osc = newLFO(sampleRate, p.RateHz, 0)
	return p
}

// SetStages changes the allpass cascade length, clamping to [2, 8] and
// clearing all stage state.
func (p *Phaser) SetStages(n int) {
	if n < 2 {
		n = 2
	}
	if n > 8 {
		n = 8
	}
	p.Stages = n
	p.stages = make([]phaserStage, n)
}

// SetRateHz retunes the sweep without resetting its phase.
func (p *Phaser) SetRateHz(hz float64) {
	p.RateHz = hz
	p.osc.rateHz = hz
}

// SetDepth clamps modulation depth into [0, 1].
func (p *Phaser) SetDepth(depth float64) { p.Depth = clamp(depth, 0, 1) }

// SetFeedback hard-clips feedback gain into [0, 0.95].
func (p *Phaser) SetFeedback(fb float64) { p.Feedback = clamp(fb, 0, 0.95) }

// SetMix clamps the dry/wet mix into [0, 1].
func (p *Phaser) SetMix(mix float64) { p.Mix = clamp(mix, 0, 1) }

// Process sweeps the allpass center frequency between 200Hz and 2000Hz
// and feeds the cascade's output back into its own input before mixing
// with dry.
func (p *Phaser) Process(samples []float32) {
	for i, x := range samples {
		lfoVal := p.osc.next()
		freq := 200 + 1800*(0.5+0.5*p.Depth*lfoVal)
		omega := 2 * math.Pi * freq / p.SampleRate
		tanHalf := math.Tan(omega / 2)
		a := (tanHalf - 1) / (tanHalf + 1)

		in := float64(x) + p.fbState*p.Feedback
		y := in
		for s := range p.stages {
			y = p.stages[s].process(y, a)
		}
		p.fbState = y

		samples[i] = float32(float64(x)*(1-p.Mix) + y*p.Mix)
	}
}

// Reset clears every allpass stage, its feedback register, and rewinds
// the LFO.
func (p *Phaser) Reset() {
	for s := range p.stages {
		p.stages[s].reset()
	}
	p.fbState = 0
	p.osc.reset()
}
