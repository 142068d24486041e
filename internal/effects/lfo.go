package effects

import "math"

// lfo is a free-running sine oscillator used to modulate delay times in
// the chorus/flanger/phaser/rotary family. phase advances each call to
// next and wraps at 2*pi; it carries no other state, so Reset just
// rewinds it to its start phase.
type lfo struct {
	phase      float64
	startPhase float64
	rateHz     float64
	sampleRate float64
}

func newLFO(sampleRate, rateHz, startPhase float64) *lfo {
	return &lfo{phase: startPhase, startPhase: startPhase, rateHz: rateHz, sampleRate: sampleRate}
}

// next returns sin(phase) and advances phase by one sample's worth of
// rotation at rateHz.
func (l *lfo) next() float64 {
	v := math.Sin(l.phase)
	l.phase += 2 * math.Pi * l.rateHz / l.sampleRate
	if l.phase > 2*math.Pi {
		l.phase -= 2 * math.Pi
	}
	return v
}

func (l *lfo) reset() {
	l.phase = l.startPhase
}

// modDelayLine is a circular buffer read with linear interpolation at a
// fractional offset, for LFO-modulated delay times that aren't an
// integer number of samples.
type modDelayLine struct {
	buf []float32
	pos int
}

func newModDelayLine(maxSamples int) *modDelayLine {
	if maxSamples < 2 {
		maxSamples = 2
	}
	return &modDelayLine{buf: make([]float32, maxSamples)}
}

// readDelayed returns a linearly-interpolated sample delayTaps behind
// the write head, where delayTaps may be fractional.
func (m *modDelayLine) readDelayed(delayTaps float64) float64 {
	n := len(m.buf)
	d := clamp(delayTaps, 0, float64(n-1))
	base := int(d)
	frac := d - float64(base)

	i0 := m.pos - base
	i0 = ((i0 % n) + n) % n
	i1 := i0 - 1
	i1 = ((i1 % n) + n) % n

	s0 := float64(m.buf[i0])
	s1 := float64(m.buf[i1])
	return s0 + (s1-s0)*frac
}

func (m *modDelayLine) write(x float64) {
	m.buf[m.pos] = float32(x)
	m.pos++
	if m.pos >= len(m.buf) {
		m.pos = 0
	}
}

func (m *modDelayLine) reset() {
	for i := range m.buf {
		m.buf[i] = 0
	}
	m.pos = 0
}
