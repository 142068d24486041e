package effects

const rotaryCrossoverHz = 800.0

// onePole is a first-order low-pass/high-pass building block; the
// crossover splits the rotary signal into a horn (high) band and a
// rotor (low) band that spin at independent rates.
type onePole struct {
	a     float64
	state float64
}

func newOnePoleLP(cutoffHz, sampleRate float64) *onePole {
	rc := 1 / (2 * 3.141592653589793 * cutoffHz)
	dt := 1 / sampleRate
	return &onePole{a: dt / (rc + dt)}
}

func (p *onePole) lowpass(x float64) float64 {
	p.state += p.a * (x - p.state)
	return p.state
}

func (p *onePole) highpass(x float64) float64 {
	return x - p.lowpass(x)
}

func (p *onePole) reset() {
	p.state = 0
}

// Rotary emulates a spinning Leslie-style cabinet: the signal splits at
// a crossover into a fast horn band and a slow rotor band, each driven
// through its own short delay line with an independent LFO producing
// both Doppler-style delay modulation and amplitude tremolo.
type Rotary struct {
	SampleRate float64

	HornRateHz  float64
	RotorRateHz float64
	Depth       float64 // [0, 1]
	Mix         float64 // wet fraction, [0, 1]

	crossoverLow  *onePole
	crossoverHigh *onePole

	hornDelay  *modDelayLine
	rotorDelay *modDelayLine
	hornOsc    *lfo
	rotorOsc   *lfo
}

const (
	rotaryHornBaseMs  = 0.5
	rotaryHornDepthMs = 1.5
	rotaryRotorBaseMs = 2.0
	rotaryRotorDepthMs = 4.0
)

// NewRotary builds a default rotary at the classic "fast" horn/"slow"
// rotor speeds.
func NewRotary(sampleRate float64) *Rotary {
	r := &Rotary{SampleRate: sampleRate, HornRateHz: 6.5, RotorRateHz: 0.8, Depth: 0.7, Mix: 0.5}
	r.crossoverLow = newOnePoleLP(rotaryCrossoverHz, sampleRate)
	r.crossoverHigh = newOnePoleLP(rotaryCrossoverHz, sampleRate)
	r.hornDelay = newModDelayLine(int((rotaryHornBaseMs+rotaryHornDepthMs)*sampleRate/1000) + 2)
	r.rotorDelay = newModDelayLine(int((rotaryRotorBaseMs+rotaryRotorDepthMs)*sampleRate/1000) + 2)
	r.hornOsc = newLFO(sampleRate, r.HornRateHz, 0)
	r.rotorOsc = newLFO(sampleRate, r.RotorRateHz, 0)
	return r
}

// SetRates retunes horn and rotor speeds independently.
func (r *Rotary) SetRates(hornHz, rotorHz float64) {
	r.HornRateHz, r.RotorRateHz = hornHz, rotorHz
	r.hornOsc.rateHz = hornHz
	r.rotorOsc.rateHz = rotorHz
}

// SetDepth clamps modulation depth into [0, 1].
func (r *Rotary) SetDepth(depth float64) { r.Depth = clamp(depth, 0, 1) }

// SetMix clamps the dry/wet mix into [0, 1].
func (r *Rotary) SetMix(mix float64) { r.Mix = clamp(mix, 0, 1) }

// Process splits into horn/rotor bands, delays and tremolos each by its
// own LFO, recombines, and blends with dry by Mix.
func (r *Rotary) Process(samples []float32) {
	for i, x := range samples {
		xf := float64(x)
		horn := r.crossoverHigh.highpass(xf)
		rotor := r.crossoverLow.lowpass(xf)

		hLFO := r.hornOsc.next()
		rLFO := r.rotorOsc.next()

		hornDelayMs := rotaryHornBaseMs + rotaryHornDepthMs*(1+r.Depth*hLFO)/2
		rotorDelayMs := rotaryRotorBaseMs + rotaryRotorDepthMs*(1+r.Depth*rLFO)/2

		r.hornDelay.write(horn)
		r.rotorDelay.write(rotor)

		hornOut := r.hornDelay.readDelayed(hornDelayMs*r.SampleRate/1000) * (1 + r.Depth*hLFO*0.3)
		rotorOut := r.rotorDelay.readDelayed(rotorDelayMs*r.SampleRate/1000) * (1 + r.Depth*rLFO*0.2)

		wet := hornOut + rotorOut
		samples[i] = float32(xf*(1-r.Mix) + wet*r.Mix)
	}
}

// Reset clears both delay lines, both crossover filters, and rewinds
// both LFOs.
func (r *Rotary) Reset() {
	r.hornDelay.reset()
	r.rotorDelay.reset()
	r.crossoverLow.reset()
	r.crossoverHigh.reset()
	r.hornOsc.reset()
	r.rotorOsc.reset()
}
