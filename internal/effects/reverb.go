package effects

import "sync"

var combTunings = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
var allpassTunings = [4]int{556, 441, 341, 225}

const allpassGain = 0.5

type comb struct {
	buf      []float32
	pos      int
	feedback float64
	damp1    float64
	damp2    float64
	filtered float64
}

func newComb(size int) *comb {
	return &comb{buf: make([]float32, size)}
}

func (c *comb) process(x float64) float64 {
	out := float64(c.buf[c.pos])
	c.filtered = out*c.damp2 + c.filtered*c.damp1
	c.buf[c.pos] = float32(x + c.filtered*c.feedback)
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *comb) reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.pos = 0
	c.filtered = 0
}

type allpass struct {
	buf []float32
	pos int
}

func newAllpass(size int) *allpass {
	return &allpass{buf: make([]float32, size)}
}

func (a *allpass) process(x float64) float64 {
	bufOut := float64(a.buf[a.pos])
	y := -x + bufOut
	a.buf[a.pos] = float32(x + bufOut*allpassGain)
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return y
}

func (a *allpass) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

// ReverbParams are the Freeverb parameters, snapshotted atomically under
// mu once per Process call and then read lock-free for the rest of the
// block.
type ReverbParams struct {
	RoomSize  float64 // [0, 1]
	Damping   float64 // [0, 1]
	Width     float64 // [0, 1]
	Wet       float64 // [0, 1]
	Dry       float64 // [0, 1]
	InputGain float64 // [0, 1]
}

// Reverb is a single-channel Freeverb: eight parallel combs feeding four
// series allpass stages. A stereo signal is reverberated by running one
// Reverb per channel; Width scales the wet contribution rather than
// decorrelating a stereo pair, so both instances should share a
// SetParams call to stay in sync.
type Reverb struct {
	SampleRate float64

	mu     sync.Mutex
	params ReverbParams

	combs    [8]*comb
	allpasses [4]*allpass
}

// NewReverb scales Freeverb's canonical 44.1kHz tunings linearly to
// sampleRate and applies default room/damping/wet/dry settings.
func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{SampleRate: sampleRate}
	scale := sampleRate / 44100
	for i := 0; i < 8; i++ {
		r.combs[i] = newComb(int(float64(combTunings[i]) * scale))
	}
	for i := 0; i < 4; i++ {
		r.allpasses[i] = newAllpass(int(float64(allpassTunings[i]) * scale))
	}
	r.SetParams(ReverbParams{RoomSize: 0.5, Damping: 0.5, Width: 1.0, Wet: 0.33, Dry: 0.7, InputGain: 1.0})
	return r
}

// SetParams is the cross-thread write path: a short critical section,
// the only lock anywhere in the effects graph.
func (r *Reverb) SetParams(p ReverbParams) {
	p.RoomSize = clamp(p.RoomSize, 0, 1)
	p.Damping = clamp(p.Damping, 0, 1)
	p.Width = clamp(p.Width, 0, 1)
	p.Wet = clamp(p.Wet, 0, 1)
	p.Dry = clamp(p.Dry, 0, 1)
	p.InputGain = clamp(p.InputGain, 0, 1)

	r.mu.Lock()
	r.params = p
	r.mu.Unlock()

	feedback := 0.7 + 0.28*p.RoomSize
	damp1 := 0.4 * p.Damping
	damp2 := 1 - damp1
	for i := 0; i < 8; i++ {
		r.combs[i].feedback, r.combs[i].damp1, r.combs[i].damp2 = feedback, damp1, damp2
	}
}

// Process runs mono Freeverb over samples in place: mono = sum of the
// comb bank driven by the gained input, passed through the allpass
// chain, then blended with the dry signal by width and wet/dry levels.
func (r *Reverb) Process(samples []float32) {
	r.mu.Lock()
	p := r.params
	r.mu.Unlock()

	for i, s := range samples {
		x := float64(s) * p.InputGain

		var mono float64
		for c := 0; c < 8; c++ {
			mono += r.combs[c].process(x)
		}
		for a := 0; a < 4; a++ {
			mono = r.allpasses[a].process(mono)
		}

		samples[i] = float32(mono*p.Width*p.Wet + float64(s)*p.Dry)
	}
}

// Reset clears every comb and allpass delay line. Parameters are
// untouched.
func (r *Reverb) Reset() {
	for i := 0; i < 8; i++ {
		r.combs[i].reset()
	}
	for i := 0; i < 4; i++ {
		r.allpasses[i].reset()
	}
}
