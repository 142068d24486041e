// Package preset holds the fixed numeric preset tables for the effects
// graph: Compressor, Delay, and Reverb each expose a named enum of
// presets, and applying one sets every relevant parameter on the
// target effect in one call.
package preset

import "github.com/austinkregel/stemsep/internal/effects"

// CompressorPreset names one of the fixed Compressor voicings.
type CompressorPreset int

const (
	CompressorVocalGentle CompressorPreset = iota
	CompressorVocalAggressive
	CompressorDrums
	CompressorBass
	CompressorMasteringLimiter
	CompressorVintage
)

type compressorValues struct {
	ThresholdDB, Ratio, AttackMs, ReleaseMs, MakeupDB float64
}

var compressorTable = map[CompressorPreset]compressorValues{
	CompressorVocalGentle:      {ThresholdDB: -18, Ratio: 2.5, AttackMs: 15, ReleaseMs: 150, MakeupDB: 3},
	CompressorVocalAggressive:  {ThresholdDB: -24, Ratio: 6, AttackMs: 5, ReleaseMs: 80, MakeupDB: 6},
	CompressorDrums:            {ThresholdDB: -12, Ratio: 4, AttackMs: 1, ReleaseMs: 120, MakeupDB: 4},
	CompressorBass:             {ThresholdDB: -20, Ratio: 5, AttackMs: 10, ReleaseMs: 200, MakeupDB: 5},
	CompressorMasteringLimiter: {ThresholdDB: -6, Ratio: 10, AttackMs: 1, ReleaseMs: 50, MakeupDB: 1},
	CompressorVintage:          {ThresholdDB: -15, Ratio: 3, AttackMs: 20, ReleaseMs: 250, MakeupDB: 2},
}

// ApplyCompressor sets c's threshold, ratio, attack, release, and
// makeup gain from the named preset.
func ApplyCompressor(c *effects.Compressor, p CompressorPreset) {
	v := compressorTable[p]
	c.ThresholdDB = v.ThresholdDB
	c.SetRatio(v.Ratio)
	c.SetAttackMs(v.AttackMs)
	c.SetReleaseMs(v.ReleaseMs)
	c.MakeupDB = v.MakeupDB
}

// DelayPreset names one of the fixed Delay voicings.
type DelayPreset int

const (
	DelaySlapBack DelayPreset = iota
	DelayClassicEcho
	DelayAmbient
	DelayRhythmic
	DelayPingPong
	DelayTapeEcho
	DelayDub
	DelayThickening
)

type delayValues struct {
	TimeMs, Feedback, Damping, Mix float64
}

var delayTable = map[DelayPreset]delayValues{
	DelaySlapBack:   {TimeMs: 90, Feedback: 0.1, Damping: 0.1, Mix: 0.25},
	DelayClassicEcho: {TimeMs: 350, Feedback: 0.4, Damping: 0.3, Mix: 0.35},
	DelayAmbient:    {TimeMs: 650, Feedback: 0.55, Damping: 0.5, Mix: 0.4},
	DelayRhythmic:   {TimeMs: 250, Feedback: 0.45, Damping: 0.2, Mix: 0.3},
	DelayPingPong:   {TimeMs: 300, Feedback: 0.5, Damping: 0.25, Mix: 0.4},
	DelayTapeEcho:   {TimeMs: 180, Feedback: 0.6, Damping: 0.6, Mix: 0.35},
	DelayDub:        {TimeMs: 500, Feedback: 0.7, Damping: 0.45, Mix: 0.45},
	DelayThickening: {TimeMs: 25, Feedback: 0.15, Damping: 0.1, Mix: 0.2},
}

// ApplyDelay sets d's time, feedback, damping, and mix from the named
// preset. Changing TimeMs reallocates the delay line.
func ApplyDelay(d *effects.Delay, p DelayPreset) {
	v := delayTable[p]
	d.SetTimeMs(v.TimeMs)
	d.SetFeedback(v.Feedback)
	d.SetDamping(v.Damping)
	d.SetMix(v.Mix)
}

// ReverbPreset names one of the fixed Reverb voicings.
type ReverbPreset int

const (
	ReverbSmallRoom ReverbPreset = iota
	ReverbLargeHall
	ReverbCathedral
	ReverbPlate
	ReverbSpring
	ReverbAmbientPad
	ReverbVocalBooth
	ReverbDrumRoom
	ReverbGated
	ReverbSubtle
)

var reverbTable = map[ReverbPreset]effects.ReverbParams{
	ReverbSmallRoom:  {RoomSize: 0.25, Damping: 0.5, Width: 0.8, Wet: 0.2, Dry: 0.8, InputGain: 1},
	ReverbLargeHall:  {RoomSize: 0.8, Damping: 0.3, Width: 1.0, Wet: 0.4, Dry: 0.7, InputGain: 1},
	ReverbCathedral:  {RoomSize: 0.95, Damping: 0.2, Width: 1.0, Wet: 0.55, Dry: 0.6, InputGain: 1},
	ReverbPlate:      {RoomSize: 0.6, Damping: 0.15, Width: 0.9, Wet: 0.35, Dry: 0.75, InputGain: 1},
	ReverbSpring:     {RoomSize: 0.4, Damping: 0.6, Width: 0.6, Wet: 0.3, Dry: 0.8, InputGain: 1},
	ReverbAmbientPad: {RoomSize: 0.85, Damping: 0.4, Width: 1.0, Wet: 0.5, Dry: 0.65, InputGain: 1},
	ReverbVocalBooth: {RoomSize: 0.15, Damping: 0.7, Width: 0.5, Wet: 0.12, Dry: 0.9, InputGain: 1},
	ReverbDrumRoom:   {RoomSize: 0.3, Damping: 0.45, Width: 0.7, Wet: 0.22, Dry: 0.82, InputGain: 1},
	ReverbGated:      {RoomSize: 0.7, Damping: 0.1, Width: 0.9, Wet: 0.45, Dry: 0.7, InputGain: 1},
	ReverbSubtle:     {RoomSize: 0.2, Damping: 0.55, Width: 0.7, Wet: 0.1, Dry: 0.92, InputGain: 1},
}

// ApplyReverb sets r's full parameter set from the named preset in one
// atomic SetParams call.
func ApplyReverb(r *effects.Reverb, p ReverbPreset) {
	r.SetParams(reverbTable[p])
}
