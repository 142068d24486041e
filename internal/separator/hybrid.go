package separator

import (
	"fmt"

	"github.com/austinkregel/stemsep/internal/chunk"
	"github.com/austinkregel/stemsep/internal/errs"
	"github.com/austinkregel/stemsep/internal/model"
	"github.com/austinkregel/stemsep/internal/stft"
)

// StemKind is one of the hybrid separator's four fixed-order output stems.
type StemKind int

const (
	StemDrums StemKind = iota
	StemBass
	StemOther
	StemVocals
)

func (k StemKind) String() string {
	switch k {
	case StemDrums:
		return "drums"
	case StemBass:
		return "bass"
	case StemOther:
		return "other"
	case StemVocals:
		return "vocals"
	default:
		return "unknown"
	}
}

// hybridStemOrder is the fixed {Drums, Bass, Other, Vocals} batch order the
// hybrid model's two output branches are assumed to return stems in.
var hybridStemOrder = []StemKind{StemDrums, StemBass, StemOther, StemVocals}

// StemFlag selects a subset of the four hybrid stems to compute and emit.
type StemFlag uint8

const (
	FlagDrums StemFlag = 1 << iota
	FlagBass
	FlagOther
	FlagVocals
	FlagAll = FlagDrums | FlagBass | FlagOther | FlagVocals
)

func (f StemFlag) has(k StemKind) bool {
	switch k {
	case StemDrums:
		return f&FlagDrums != 0
	case StemBass:
		return f&FlagBass != 0
	case StemOther:
		return f&FlagOther != 0
	case StemVocals:
		return f&FlagVocals != 0
	default:
		return false
	}
}

// Hybrid drives the HTDemucs-style dual-branch separator: a waveform
// branch and a complex-spectrogram branch per stem, reconciled by adding
// the ISTFT of the spectrogram branch to the waveform branch and then
// constant-power-crossfaded across chunk boundaries.
type Hybrid struct {
	Session *model.Session

	hybridCtx    *stft.Context
	hybridParams stft.Params

	Valid       int
	Margin      int
	Crossfade   int
	TargetStems StemFlag
}

// NewHybrid fixes the internal STFT at n_fft=4096, hop=1024, dim_f=2048 and
// derives dim_t from the constant per-chunk window size valid+2*margin,
// which must be a multiple of hop.
func NewHybrid(session *model.Session, validSamples, marginSamples, crossfadeSamples int, targetStems StemFlag) (*Hybrid, error) {
	if validSamples <= 0 {
		return nil, fmt.Errorf("%w: valid window size must be > 0", errs.Configuration)
	}
	if crossfadeSamples < 0 || crossfadeSamples >= validSamples {
		return nil, fmt.Errorf("%w: crossfade %d must be in [0, valid)", errs.Configuration, crossfadeSamples)
	}

	window := validSamples + 2*marginSamples
	const hop = 1024
	if window%hop != 0 {
		return nil, fmt.Errorf("%w: valid+2*margin (%d) must be a multiple of %d", errs.Configuration, window, hop)
	}
	dimT := window/hop + 1

	params, err := stft.NewParams(4096, hop, 2048, dimT)
	if err != nil {
		return nil, fmt.Errorf("hybrid: %w", err)
	}

	return &Hybrid{
		Session:      session,
		hybridCtx:    stft.NewContext(params),
		hybridParams: params,
		Valid:        validSamples,
		Margin:       marginSamples,
		Crossfade:    crossfadeSamples,
		TargetStems:  targetStems,
	}, nil
}

// Separate runs the dual-branch pipeline over mix and returns one stem per
// flag set in h.TargetStems.
func (h *Hybrid) Separate(mix Stem, progress ProgressFunc) (map[StemKind]Stem, error) {
	n := len(mix.Left)
	plan, err := chunk.NewCrossfadePlan(n, h.Valid, h.Margin, h.Crossfade)
	if err != nil {
		return nil, err
	}

	outputs := make(map[StemKind]Stem, 4)
	for _, k := range hybridStemOrder {
		if h.TargetStems.has(k) {
			outputs[k] = NewStem(n)
		}
	}

	window := h.Valid + 2*h.Margin

	for wi, w := range plan.Windows {
		extractedL := make([]float32, window)
		extractedR := make([]float32, window)
		chunk.ExtractReflected(extractedL, mix.Left, w.Start, h.Margin)
		chunk.ExtractReflected(extractedR, mix.Right, w.Start, h.Margin)

		waveIn := encodeWave(extractedL, extractedR)
		specIn := stft.Analyze(h.hybridCtx, extractedL, extractedR)

		branches, err := h.Session.Backend.Run(map[string]*stft.Tensor{
			"waveform":    waveIn,
			"spectrogram": specIn,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.Runtime, err)
		}
		if len(branches) < 2 {
			return nil, fmt.Errorf("%w: hybrid backend must return [freq_branch, time_branch]", errs.Runtime)
		}
		freqBranch, timeBranch := branches[0], branches[1]

		for idx, k := range hybridStemOrder {
			if !h.TargetStems.has(k) {
				continue
			}

			freqL, freqR := stft.Synthesize(h.hybridCtx, freqBranch, idx)
			waveL, waveR := decodeWave(timeBranch, idx)

			timeLen := len(waveL)
			if window < timeLen {
				timeLen = window
			}

			merged := NewStem(window)
			for i := 0; i < window; i++ {
				var tl, tr float32
				if i < timeLen {
					tl, tr = waveL[i], waveR[i]
				}
				merged.Left[i] = freqL[i] + tl
				merged.Right[i] = freqR[i] + tr
			}

			trimmed := sliceStem(merged, h.Margin, h.Margin+h.Valid)
			writeEnd := w.Start + h.Valid
			if writeEnd > n {
				writeEnd = n
			}
			writeLen := writeEnd - w.Start

			out := outputs[k]
			if wi == 0 || h.Crossfade == 0 {
				copy(out.Left[w.Start:writeEnd], trimmed.Left[:writeLen])
				copy(out.Right[w.Start:writeEnd], trimmed.Right[:writeLen])
				continue
			}

			fadeLen := h.Crossfade
			if fadeLen > writeLen {
				fadeLen = writeLen
			}
			blendedL := make([]float32, fadeLen)
			blendedR := make([]float32, fadeLen)
			chunk.ConstantPowerCrossfade(blendedL, out.Left[w.Start:w.Start+fadeLen], trimmed.Left[:fadeLen])
			chunk.ConstantPowerCrossfade(blendedR, out.Right[w.Start:w.Start+fadeLen], trimmed.Right[:fadeLen])
			copy(out.Left[w.Start:w.Start+fadeLen], blendedL)
			copy(out.Right[w.Start:w.Start+fadeLen], blendedR)

			if writeEnd > w.Start+fadeLen {
				copy(out.Left[w.Start+fadeLen:writeEnd], trimmed.Left[fadeLen:writeLen])
				copy(out.Right[w.Start+fadeLen:writeEnd], trimmed.Right[fadeLen:writeLen])
			}
		}

		if progress != nil {
			progress(float64(wi+1) / float64(len(plan.Windows)))
		}
	}

	return outputs, nil
}

// encodeWave packs raw planar samples into the engine's standard
// [batch][4][dim_f][dim_t] tensor shape with dim_f=1, using the real
// channel slots (0 for left, 2 for right) and leaving the imaginary slots
// zero; this keeps the waveform branch on the same wire type as the
// spectrogram branch instead of introducing a second tensor shape.
func encodeWave(left, right []float32) *stft.Tensor {
	t := stft.NewTensor(1, 1, len(left))
	for i := range left {
		t.Data[0][0][0][i] = float64(left[i])
		t.Data[0][2][0][i] = float64(right[i])
	}
	return t
}

// decodeWave is encodeWave's inverse for one batch item.
func decodeWave(t *stft.Tensor, batch int) (left, right []float32) {
	n := t.DimT
	left = make([]float32, n)
	right = make([]float32, n)
	for i := 0; i < n; i++ {
		left[i] = float32(t.Data[batch][0][0][i])
		right[i] = float32(t.Data[batch][2][0][i])
	}
	return left, right
}
