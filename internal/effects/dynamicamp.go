package effects

import "math"

const dynamicAmpStartupMs = 100

// DynamicAmp is a per-sample automatic gain control: an RMS sliding
// window is compared against TargetDB, gain is nudged toward the ratio
// needed to close the gap (bounded by MaxGainDB and a noise Gate), and
// a stricter startup limit guards the first 100ms against a bad initial
// gain estimate pinning the output to full scale.
type DynamicAmp struct {
	SampleRate  float64
	WindowMs    float64
	TargetDB    float64
	GateDB      float64
	MaxGainDB   float64

	rmsSumSq   float64
	window     []float32
	wpos       int
	windowFull bool

	gain          float64
	samplesSeen   int
	startupGuard  int
}

// NewDynamicAmp builds a default AGC targeting -18dBFS RMS with a
// -50dB noise gate and +24dB max boost.
func NewDynamicAmp(sampleRate float64) *DynamicAmp {
	d := &DynamicAmp{SampleRate: sampleRate, WindowMs: 300, TargetDB: -18, GateDB: -50, MaxGainDB: 24, gain: 1}
	d.reallocate()
	return d
}

func (d *DynamicAmp) reallocate() {
	n := int(d.WindowMs * d.SampleRate / 1000)
	if n < 1 {
		n = 1
	}
	d.window = make([]float32, n)
	d.wpos = 0
	d.windowFull = false
	d.rmsSumSq = 0
	d.gain = 1
	d.samplesSeen = 0
	d.startupGuard = int(dynamicAmpStartupMs * d.SampleRate / 1000)
}

// SetWindowMs changes the RMS analysis window, reallocating (and
// clearing) its ring buffer.
func (d *DynamicAmp) SetWindowMs(ms float64) {
	d.WindowMs = math.Max(ms, 1)
	d.reallocate()
}

// Process updates a running RMS over a sliding window and nudges gain
// each sample toward the level that would bring RMS to TargetDB,
// subject to the gate and max-gain bounds.
func (d *DynamicAmp) Process(samples []float32) {
	n := len(d.window)
	alpha := math.Exp(-1 / (d.WindowMs / 1000 * d.SampleRate))

	for i, x := range samples {
		old := float64(d.window[d.wpos])
		d.rmsSumSq += float64(x)*float64(x) - old*old
		if d.rmsSumSq < 0 {
			d.rmsSumSq = 0
		}
		d.window[d.wpos] = x
		d.wpos++
		if d.wpos >= n {
			d.wpos = 0
			d.windowFull = true
		}

		count := n
		if !d.windowFull {
			count = d.wpos
			if count == 0 {
				count = 1
			}
		}
		rms := math.Sqrt(d.rmsSumSq / float64(count))
		rmsDB := linearToDB(rms)

		required := 1.0
		if rmsDB > d.GateDB {
			requiredDB := d.TargetDB - rmsDB
			if requiredDB > d.MaxGainDB {
				requiredDB = d.MaxGainDB
			}
			required = dbToLinear(requiredDB)
		}

		maxStart := 0.7
		if d.samplesSeen < d.startupGuard && required > 1+maxStart {
			required = 1 + maxStart
		}

		d.gain = d.gain*alpha + required*(1-alpha)
		samples[i] = float32(float64(x) * d.gain)
		d.samplesSeen++
	}
}

// Reset clears the RMS window and rewinds gain and the startup guard.
func (d *DynamicAmp) Reset() {
	d.reallocate()
}
