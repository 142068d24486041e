package effects

// Chorus mixes 2-6 voices of the dry signal through independent
// sine-modulated delay lines, phase-offset evenly around the LFO cycle
// so the voices don't modulate in lockstep.
type Chorus struct {
	SampleRate float64

	Voices int     // [2, 6]
	RateHz float64 // LFO rate
	Depth  float64 // [0, 1]
	Mix    float64 // wet fraction, [0, 1]

	lines []*modDelayLine
	lfos  []*lfo
}

const (
	chorusBaseMs  = 10.0
	chorusDepthMs = 15.0
)

// NewChorus builds a default 3-voice chorus at a 0.8Hz sweep.
func NewChorus(sampleRate float64) *Chorus {
	c := &Chorus{SampleRate: sampleRate, Voices: 3, RateHz: 0.8, Depth: 0.5, Mix: 0.35}
	c.buildVoices()
	return c
}

func (c *Chorus) buildVoices() {
	maxSamples := int((chorusBaseMs+chorusDepthMs)*c.SampleRate/1000) + 2
	c.lines = make([]*modDelayLine, c.Voices)
	c.lfos = make([]*lfo, c.Voices)
	for i := 0; i < c.Voices; i++ {
		c.lines[i] = newModDelayLine(maxSamples)
		startPhase := 2 * 3.141592653589793 * float64(i) / 6
		c.lfos[i] = newLFO(c.SampleRate, c.RateHz, startPhase)
	}
}

// SetVoices changes the voice count, clamping to [2, 6] and rebuilding
// (and clearing) every delay line.
func (c *Chorus) SetVoices(n int) {
	if n < 2 {
		n = 2
	}
	if n > 6 {
		n = 6
	}
	c.Voices = n
	c.buildVoices()
}

// SetRateHz retunes every voice's LFO without resetting its phase.
func (c *Chorus) SetRateHz(hz float64) {
	c.RateHz = hz
	for _, l := range c.lfos {
		l.rateHz = hz
	}
}

// SetDepth clamps modulation depth into [0, 1].
func (c *Chorus) SetDepth(depth float64) { c.Depth = clamp(depth, 0, 1) }

// SetMix clamps the dry/wet mix into [0, 1].
func (c *Chorus) SetMix(mix float64) { c.Mix = clamp(mix, 0, 1) }

// Process sums every voice's modulated-delay output, averages, and
// blends with the dry signal by Mix.
func (c *Chorus) Process(samples []float32) {
	n := float64(len(c.lines))
	for i, x := range samples {
		var wet float64
		for v := range c.lines {
			lfoVal := c.lfos[v].next()
			delayMs := chorusBaseMs + chorusDepthMs*(1+c.Depth*lfoVal)/2
			delayTaps := delayMs * c.SampleRate / 1000

			c.lines[v].write(float64(x))
			wet += c.lines[v].readDelayed(delayTaps)
		}
		wet /= n
		samples[i] = float32(float64(x)*(1-c.Mix) + wet*c.Mix)
	}
}

// Reset clears every voice's delay line and rewinds its LFO to its
// starting phase.
func (c *Chorus) Reset() {
	for i := range c.lines {
		c.lines[i].reset()
		c.lfos[i].reset()
	}
}
