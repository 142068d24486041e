package effects

// Delay is a feedback delay line with one-pole damping on the feedback
// path and a soft-clipped write stage.
type Delay struct {
	SampleRate float64

	TimeMs   float64
	Feedback float64 // repeat, [0, 0.98]
	Damping  float64 // [0, 1]
	Mix      float64 // wet fraction, [0, 1]

	line   []float32
	pos    int
	dState float64 // one-pole damping register
}

// NewDelay allocates a delay line sized for timeMs at sampleRate.
func NewDelay(sampleRate, timeMs float64) *Delay {
	d := &Delay{SampleRate: sampleRate, TimeMs: timeMs, Feedback: 0.35, Damping: 0.2, Mix: 0.3}
	d.reallocate()
	return d
}

func (d *Delay) reallocate() {
	n := int(d.TimeMs * d.SampleRate / 1000)
	if n < 1 {
		n = 1
	}
	d.line = make([]float32, n)
	d.pos = 0
	d.dState = 0
}

// SetTimeMs changes the delay time, reallocating (and clearing) the line.
func (d *Delay) SetTimeMs(ms float64) {
	d.TimeMs = clamp(ms, 1, 5000)
	d.reallocate()
}

// SetFeedback clamps repeat gain into a range that cannot runaway.
func (d *Delay) SetFeedback(fb float64) { d.Feedback = clamp(fb, 0, 0.98) }

// SetDamping clamps the feedback-path damping coefficient.
func (d *Delay) SetDamping(damp float64) { d.Damping = clamp(damp, 0, 1) }

// SetMix clamps the dry/wet mix.
func (d *Delay) SetMix(mix float64) { d.Mix = clamp(mix, 0, 1) }

// softClip is linear inside +/-0.7 and saturates smoothly outside.
func softClip(x float64) float64 {
	sign := 1.0
	ax := x
	if x < 0 {
		sign = -1
		ax = -x
	}
	if ax <= 0.7 {
		return x
	}
	return sign * (0.7 + 0.3*(1-1/(1+2*(ax-0.7))))
}

// Process reads the delay line, mixes with dry, and writes back a
// soft-clipped, damped feedback sample.
func (d *Delay) Process(samples []float32) {
	n := len(d.line)
	for i, x := range samples {
		delayed := float64(d.line[d.pos])

		y := float64(x)*(1-d.Mix) + delayed*d.Mix
		samples[i] = float32(y)

		d.dState += d.Damping * (delayed - d.dState)
		writeVal := softClip(float64(x) + d.dState*d.Feedback)
		d.line[d.pos] = float32(writeVal)

		d.pos++
		if d.pos >= n {
			d.pos = 0
		}
	}
}

// Reset clears the delay line and damping register without touching
// parameters.
func (d *Delay) Reset() {
	for i := range d.line {
		d.line[i] = 0
	}
	d.pos = 0
	d.dState = 0
}
