package effects

import "math"

// Limiter is a brickwall look-ahead limiter: a delay line holds the
// signal while a peak scan over the look-ahead window computes the
// gain needed to keep the delayed sample under CeilingDB.
type Limiter struct {
	SampleRate float64

	CeilingDB  float64
	LookAheadMs float64

	delay       []float32
	pos         int
	peaks       []float64 // rolling abs-value window, same length as delay
	gain        float64
	IsLimiting  bool
	GainReductionDB float64
}

// NewLimiter builds a default -0.3dBFS ceiling limiter with a 5ms
// look-ahead.
func NewLimiter(sampleRate float64) *Limiter {
	l := &Limiter{SampleRate: sampleRate, CeilingDB: -0.3, LookAheadMs: 5, gain: 1}
	l.reallocate()
	return l
}

func (l *Limiter) reallocate() {
	n := int(l.LookAheadMs * l.SampleRate / 1000)
	if n < 1 {
		n = 1
	}
	l.delay = make([]float32, n)
	l.peaks = make([]float64, n)
	l.pos = 0
	l.gain = 1
}

// SetLookAheadMs changes the look-ahead window, reallocating (and
// clearing) the delay and peak-scan buffers.
func (l *Limiter) SetLookAheadMs(ms float64) {
	l.LookAheadMs = math.Max(ms, 0.1)
	l.reallocate()
}

// SetCeilingDB clamps the output ceiling to at most 0dBFS.
func (l *Limiter) SetCeilingDB(db float64) {
	if db > 0 {
		db = 0
	}
	l.CeilingDB = db
}

// Process writes the incoming sample into the look-ahead line, scans
// the window for its peak, derives the gain needed to keep that peak
// under the ceiling, and outputs the delayed, gained sample.
func (l *Limiter) Process(samples []float32) {
	ceiling := dbToLinear(l.CeilingDB)
	n := len(l.delay)

	for i, x := range samples {
		l.delay[l.pos] = x
		l.peaks[l.pos] = math.Abs(float64(x))

		var peak float64
		for _, v := range l.peaks {
			if v > peak {
				peak = v
			}
		}

		required := 1.0
		if peak > compressorMinLevel {
			required = ceiling / peak
		}
		if required > 1 {
			required = 1
		}

		if required < l.gain {
			l.gain = required
		} else {
			l.gain += (required - l.gain) * 0.2
		}

		readPos := (l.pos + 1) % n
		out := float64(l.delay[readPos]) * l.gain
		samples[i] = float32(out)

		l.IsLimiting = l.gain < 0.999
		l.GainReductionDB = linearToDB(l.gain)

		l.pos++
		if l.pos >= n {
			l.pos = 0
		}
	}
}

// Reset clears the look-ahead buffers and gain state.
func (l *Limiter) Reset() {
	for i := range l.delay {
		l.delay[i] = 0
		l.peaks[i] = 0
	}
	l.pos = 0
	l.gain = 1
	l.IsLimiting = false
	l.GainReductionDB = 0
}
