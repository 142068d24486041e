package effects

import "math"

const compressorMinLevel = 1e-9

// Compressor is a feed-forward envelope-follower compressor: a decibel
// envelope tracks the input, gain reduction above ThresholdDB is
// computed at 1/Ratio slope, and MakeupDB restores the average level
// the ratio pulled down.
type Compressor struct {
	SampleRate float64

	ThresholdDB float64
	Ratio       float64 // >= 1
	AttackMs    float64
	ReleaseMs   float64
	MakeupDB    float64

	envelopeDB float64
	alphaAtt   float64
	alphaRel   float64
}

// NewCompressor builds a default gentle compressor: -18dB threshold,
// 4:1 ratio, 10ms attack, 100ms release, no makeup.
func NewCompressor(sampleRate float64) *Compressor {
	c := &Compressor{SampleRate: sampleRate, ThresholdDB: -18, Ratio: 4, AttackMs: 10, ReleaseMs: 100}
	c.configureTimeConstants()
	c.envelopeDB = -120
	return c
}

func (c *Compressor) configureTimeConstants() {
	c.alphaAtt = math.Exp(-1 / (c.SampleRate * c.AttackMs / 1000))
	c.alphaRel = math.Exp(-1 / (c.SampleRate * c.ReleaseMs / 1000))
}

// SetAttackMs updates the attack time constant.
func (c *Compressor) SetAttackMs(ms float64) {
	c.AttackMs = math.Max(ms, 0.1)
	c.configureTimeConstants()
}

// SetReleaseMs updates the release time constant.
func (c *Compressor) SetReleaseMs(ms float64) {
	c.ReleaseMs = math.Max(ms, 0.1)
	c.configureTimeConstants()
}

// SetRatio clamps the compression ratio to at least 1:1 (no reduction).
func (c *Compressor) SetRatio(ratio float64) {
	if ratio < 1 {
		ratio = 1
	}
	c.Ratio = ratio
}

func linearToDB(x float64) float64 {
	if x < compressorMinLevel {
		x = compressorMinLevel
	}
	return 20 * math.Log10(x)
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// Process tracks a decibel envelope per sample and applies gain
// reduction above ThresholdDB at 1/Ratio slope, then MakeupDB.
func (c *Compressor) Process(samples []float32) {
	for i, x := range samples {
		inputDB := linearToDB(math.Abs(float64(x)))

		if inputDB > c.envelopeDB {
			c.envelopeDB = c.alphaAtt*c.envelopeDB + (1-c.alphaAtt)*inputDB
		} else {
			c.envelopeDB = c.alphaRel*c.envelopeDB + (1-c.alphaRel)*inputDB
		}

		targetDB := c.envelopeDB
		if targetDB > c.ThresholdDB {
			targetDB = c.ThresholdDB + (c.envelopeDB-c.ThresholdDB)/c.Ratio
		}
		gainDB := targetDB - c.envelopeDB + c.MakeupDB
		gain := dbToLinear(gainDB)

		samples[i] = float32(float64(x) * gain)
	}
}

// Reset rewinds the envelope follower to silence.
func (c *Compressor) Reset() {
	c.envelopeDB = -120
}
