package effects

import "math"

// AutoGainPersonality names a peak-follower tuning profile. No table of
// time constants per personality exists in this module.
type AutoGainPersonality int

const (
	AutoGainMusic AutoGainPersonality = iota
	AutoGainVoice
	AutoGainBroadcast
	AutoGainLive
)

// AutoGain is a peak-follower gain rider: simpler than DynamicAmp's RMS
// window, it tracks instantaneous peak with independent attack/release
// and steers toward TargetDB with gain bounded to +/-MaxGainDB.
type AutoGain struct {
	SampleRate  float64
	Personality AutoGainPersonality
	TargetDB    float64
	MaxGainDB   float64
	AttackMs    float64
	ReleaseMs   float64

	peakEnv float64
	gain    float64
}

// NewAutoGain builds a default Music-personality auto-gain.
func NewAutoGain(sampleRate float64) *AutoGain {
	a := &AutoGain{SampleRate: sampleRate, Personality: AutoGainMusic, TargetDB: -12, MaxGainDB: 18, AttackMs: 5, ReleaseMs: 300, gain: 1}
	return a
}

// SetPersonality stores the selected profile. It does not change the
// time constants; SetTimeConstants sets those directly.
func (a *AutoGain) SetPersonality(p AutoGainPersonality) { a.Personality = p }

// SetTimeConstants overrides attack/release directly.
func (a *AutoGain) SetTimeConstants(attackMs, releaseMs float64) {
	a.AttackMs = math.Max(attackMs, 0.1)
	a.ReleaseMs = math.Max(releaseMs, 0.1)
}

// Process tracks a peak envelope and applies the gain that would bring
// it to TargetDB, bounded by MaxGainDB.
func (a *AutoGain) Process(samples []float32) {
	alphaAtt := math.Exp(-1 / (a.SampleRate * a.AttackMs / 1000))
	alphaRel := math.Exp(-1 / (a.SampleRate * a.ReleaseMs / 1000))

	for i, x := range samples {
		peak := math.Abs(float64(x))
		if peak > a.peakEnv {
			a.peakEnv = alphaAtt*a.peakEnv + (1-alphaAtt)*peak
		} else {
			a.peakEnv = alphaRel*a.peakEnv + (1-alphaRel)*peak
		}

		envDB := linearToDB(a.peakEnv)
		requiredDB := a.TargetDB - envDB
		if requiredDB > a.MaxGainDB {
			requiredDB = a.MaxGainDB
		}
		if requiredDB < -a.MaxGainDB {
			requiredDB = -a.MaxGainDB
		}
		a.gain = dbToLinear(requiredDB)

		samples[i] = float32(float64(x) * a.gain)
	}
}

// Reset rewinds the peak envelope and gain to silence/unity.
func (a *AutoGain) Reset() {
	a.peakEnv = 0
	a.gain = 1
}
