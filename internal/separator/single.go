package separator

import (
	"fmt"

	"github.com/austinkregel/stemsep/internal/chunk"
	"github.com/austinkregel/stemsep/internal/errs"
	"github.com/austinkregel/stemsep/internal/model"
	"github.com/austinkregel/stemsep/internal/stft"
)

// Single drives the one-network MDX-style separator: a spectral mask run
// through an optional symmetric noise-reduction pass, split into vocals
// and instrumental by residual subtraction against the original mix.
type Single struct {
	Session *model.Session

	// OuterChunkSamples bounds how much of the stream is held in memory
	// at once; 0 means the whole file is processed as one chunk.
	OuterChunkSamples int
	MarginSamples     int

	DisableNoiseReduction bool
}

// NewSingle rejects a margin that is not positive with a configuration
// error and returns a ready Single.
func NewSingle(session *model.Session, outerChunkSamples, marginSamples int, disableNoiseReduction bool) (*Single, error) {
	if marginSamples <= 0 {
		return nil, fmt.Errorf("%w: margin_samples must be > 0", errs.Configuration)
	}
	return &Single{
		Session:               session,
		OuterChunkSamples:     outerChunkSamples,
		MarginSamples:         marginSamples,
		DisableNoiseReduction: disableNoiseReduction,
	}, nil
}

// Separate runs the full single-model pipeline over mix, returning vocals
// and instrumental stems of the same length as mix.
func (s *Single) Separate(mix Stem, progress ProgressFunc) (vocals, instrumental Stem, err error) {
	n := len(mix.Left)
	outer := s.OuterChunkSamples
	if outer <= 0 || outer > n {
		outer = n
	}

	plan, err := chunk.NewMarginPlan(n, outer, s.MarginSamples)
	if err != nil {
		return Stem{}, Stem{}, err
	}

	vocals = NewStem(n)
	instrumental = NewStem(n)

	for i, w := range plan.Windows {
		windowMix := sliceStem(mix, w.Start, w.Start+w.Length)

		separated, err := s.separateWindow(windowMix)
		if err != nil {
			return Stem{}, Stem{}, fmt.Errorf("separator: window %d: %w", i, err)
		}

		left, right := w.Trim()
		var voc, instr Stem
		if s.Session.Config.Output == model.OutputVocals {
			voc = sliceStem(separated, left, right)
			instr = sliceStem(residual(windowMix, separated), left, right)
		} else {
			instr = sliceStem(separated, left, right)
			voc = sliceStem(residual(windowMix, separated), left, right)
		}

		copyInto(vocals, w.Start+left, voc)
		copyInto(instrumental, w.Start+left, instr)

		if progress != nil {
			progress(float64(i+1) / float64(len(plan.Windows)))
		}
	}

	return vocals, instrumental, nil
}

// separateWindow implements the §4.3 reshape-STFT-infer-ISTFT procedure
// for one outer window: right-pad to a multiple of gen, prepend/append
// trim zero-padding, reshape into non-overlapping chunk_size frames, run
// inference (with the noise-reduction pass if enabled), then extract and
// concatenate the central [trim, chunk_size-trim) region of each frame.
func (s *Single) separateWindow(mix Stem) (Stem, error) {
	p := s.Session.Params
	trim := p.Trim()
	gen := p.ChunkSize - 2*trim
	nSample := len(mix.Left)
	pad := (gen - nSample%gen) % gen
	totalLen := trim + nSample + pad + trim

	paddedL := make([]float32, totalLen)
	paddedR := make([]float32, totalLen)
	copy(paddedL[trim:trim+nSample], mix.Left)
	copy(paddedR[trim:trim+nSample], mix.Right)

	frameCount := (nSample + pad) / gen
	frames := make([]*stft.Tensor, frameCount)
	for i := 0; i < frameCount; i++ {
		start := i * gen
		frames[i] = stft.Analyze(s.Session.Ctx, paddedL[start:start+p.ChunkSize], paddedR[start:start+p.ChunkSize])
	}
	tensor := stft.StackBatch(frames)

	spec, err := s.runInference(tensor)
	if err != nil {
		return Stem{}, err
	}

	out := NewStem(nSample)
	for i := 0; i < frameCount; i++ {
		l, r := stft.Synthesize(s.Session.Ctx, spec, i)
		start := i * gen
		end := start + gen
		if end > nSample {
			end = nSample
		}
		copy(out.Left[start:end], l[trim:trim+(end-start)])
		copy(out.Right[start:end], r[trim:trim+(end-start)])
	}

	return out, nil
}

// runInference runs the backend once (or twice, for the noise-reduction
// path) and returns a detached spectral tensor ready for ISTFT.
func (s *Single) runInference(tensor *stft.Tensor) (*stft.Tensor, error) {
	inputs := map[string]*stft.Tensor{"mix": tensor}

	if s.DisableNoiseReduction || s.Session.Config.DisableNoiseReduction {
		out, err := s.Session.Backend.Run(inputs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.Runtime, err)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: backend returned no outputs", errs.Runtime)
		}
		return copyTensor(out[0]), nil
	}

	outPos, err := s.Session.Backend.Run(inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.Runtime, err)
	}
	outNeg, err := s.Session.Backend.Run(map[string]*stft.Tensor{"mix": negateTensor(tensor)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.Runtime, err)
	}
	if len(outPos) == 0 || len(outNeg) == 0 {
		return nil, fmt.Errorf("%w: backend returned no outputs", errs.Runtime)
	}

	// val = -out_neg/denominator + out/denominator; see DESIGN.md Open
	// Question 1 for why this formula is preserved exactly rather than
	// "fixed".
	return combineNoiseReduction(outPos[0], outNeg[0], s.Session.Config.Denominator), nil
}
