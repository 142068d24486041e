package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/austinkregel/stemsep/internal/audio"
	"github.com/austinkregel/stemsep/internal/effects"
	"github.com/austinkregel/stemsep/internal/effects/preset"
	"github.com/austinkregel/stemsep/internal/errs"
	"github.com/austinkregel/stemsep/internal/wav"
)

// buildEffect constructs a fresh left/right processor pair for name at
// sampleRate. Reverb and the modulation effects are mono-per-channel (see
// effects.Reverb's doc comment), so stereo operation always means two
// independent instances, never a single interleaved one.
func buildEffect(name string, sampleRate float64) (left, right effects.Processor, err error) {
	switch strings.ToLower(name) {
	case "delay":
		return effects.NewDelay(sampleRate, 350), effects.NewDelay(sampleRate, 350), nil
	case "reverb":
		return effects.NewReverb(sampleRate), effects.NewReverb(sampleRate), nil
	case "chorus":
		return effects.NewChorus(sampleRate), effects.NewChorus(sampleRate), nil
	case "flanger":
		return effects.NewFlanger(sampleRate), effects.NewFlanger(sampleRate), nil
	case "phaser":
		return effects.NewPhaser(sampleRate), effects.NewPhaser(sampleRate), nil
	case "rotary":
		return effects.NewRotary(sampleRate), effects.NewRotary(sampleRate), nil
	case "equalizer":
		return effects.NewEqualizer(sampleRate), effects.NewEqualizer(sampleRate), nil
	case "compressor":
		return effects.NewCompressor(sampleRate), effects.NewCompressor(sampleRate), nil
	case "limiter":
		return effects.NewLimiter(sampleRate), effects.NewLimiter(sampleRate), nil
	case "dynamicamp":
		return effects.NewDynamicAmp(sampleRate), effects.NewDynamicAmp(sampleRate), nil
	case "autogain":
		return effects.NewAutoGain(sampleRate), effects.NewAutoGain(sampleRate), nil
	case "enhancer":
		return effects.NewEnhancer(sampleRate), effects.NewEnhancer(sampleRate), nil
	case "overdrive":
		return effects.NewOverdrive(sampleRate), effects.NewOverdrive(sampleRate), nil
	case "distortion":
		return effects.NewDistortion(), effects.NewDistortion(), nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown effect %q", errs.Configuration, name)
	}
}

var compressorPresetNames = map[string]preset.CompressorPreset{
	"vocalgentle": preset.CompressorVocalGentle, "vocalaggressive": preset.CompressorVocalAggressive,
	"drums": preset.CompressorDrums, "bass": preset.CompressorBass,
	"masteringlimiter": preset.CompressorMasteringLimiter, "vintage": preset.CompressorVintage,
}

var delayPresetNames = map[string]preset.DelayPreset{
	"slapback": preset.DelaySlapBack, "classicecho": preset.DelayClassicEcho,
	"ambient": preset.DelayAmbient, "rhythmic": preset.DelayRhythmic,
	"pingpong": preset.DelayPingPong, "tapeecho": preset.DelayTapeEcho,
	"dub": preset.DelayDub, "thickening": preset.DelayThickening,
}

var reverbPresetNames = map[string]preset.ReverbPreset{
	"smallroom": preset.ReverbSmallRoom, "largehall": preset.ReverbLargeHall,
	"cathedral": preset.ReverbCathedral, "plate": preset.ReverbPlate,
	"spring": preset.ReverbSpring, "ambientpad": preset.ReverbAmbientPad,
	"vocalbooth": preset.ReverbVocalBooth, "drumroom": preset.ReverbDrumRoom,
	"gated": preset.ReverbGated, "subtle": preset.ReverbSubtle,
}

// applyPreset looks up presetName against the table for effectName's kind
// and applies it to both channel instances; effects with no preset table
// (chorus, flanger, ...) silently ignore a non-empty presetName.
func applyPreset(effectName, presetName string, left, right effects.Processor) error {
	if presetName == "" {
		return nil
	}
	key := strings.ToLower(presetName)
	switch strings.ToLower(effectName) {
	case "compressor":
		p, ok := compressorPresetNames[key]
		if !ok {
			return fmt.Errorf("%w: unknown compressor preset %q", errs.Configuration, presetName)
		}
		preset.ApplyCompressor(left.(*effects.Compressor), p)
		preset.ApplyCompressor(right.(*effects.Compressor), p)
	case "delay":
		p, ok := delayPresetNames[key]
		if !ok {
			return fmt.Errorf("%w: unknown delay preset %q", errs.Configuration, presetName)
		}
		preset.ApplyDelay(left.(*effects.Delay), p)
		preset.ApplyDelay(right.(*effects.Delay), p)
	case "reverb":
		p, ok := reverbPresetNames[key]
		if !ok {
			return fmt.Errorf("%w: unknown reverb preset %q", errs.Configuration, presetName)
		}
		preset.ApplyReverb(left.(*effects.Reverb), p)
		preset.ApplyReverb(right.(*effects.Reverb), p)
	}
	return nil
}

func runEffectsBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("effects-bench", flag.ExitOnError)
	input := fs.String("input", "", "input audio file")
	output := fs.String("output", "./output/effect.wav", "output wav path (ignored with -listen)")
	effectName := fs.String("effect", "reverb", "effect name")
	presetName := fs.String("preset", "", "preset name, where the effect has a preset table")
	listen := fs.Bool("listen", false, "play the processed audio live instead of writing a file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("%w: -input is required", errs.Configuration)
	}

	mix, err := decodeFull(*input)
	if err != nil {
		return err
	}

	left, right, err := buildEffect(*effectName, float64(audio.TargetSampleRate))
	if err != nil {
		return err
	}
	if err := applyPreset(*effectName, *presetName, left, right); err != nil {
		return err
	}

	left.Process(mix.Left)
	right.Process(mix.Right)

	if *listen {
		return listenStereo(ctx, mix.Left, mix.Right)
	}

	if dir := filepath.Dir(*output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return wav.WriteStereo(*output, mix.Left, mix.Right, audio.TargetSampleRate)
}
