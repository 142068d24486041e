package separator

import (
	"fmt"

	"github.com/austinkregel/stemsep/internal/chunk"
	"github.com/austinkregel/stemsep/internal/errs"
	"github.com/austinkregel/stemsep/internal/model"
)

// Multi averages N single-model separators over the same stream, each
// declaring its own output_kind, in deterministic (input list) order.
type Multi struct {
	Models []*Single

	OuterChunkSamples int
	MarginSamples     int
}

// NewMulti rejects an empty model list and an unset margin.
func NewMulti(models []*Single, outerChunkSamples, marginSamples int) (*Multi, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: multi-model list must not be empty", errs.Configuration)
	}
	if marginSamples <= 0 {
		return nil, fmt.Errorf("%w: margin_samples must be > 0", errs.Configuration)
	}
	return &Multi{Models: models, OuterChunkSamples: outerChunkSamples, MarginSamples: marginSamples}, nil
}

// Separate runs every model over each outer window of mix and averages
// their vocals/instrumental residual splits.
func (m *Multi) Separate(mix Stem, progress ProgressFunc) (vocals, instrumental Stem, err error) {
	n := len(mix.Left)
	outer := m.OuterChunkSamples
	if outer <= 0 || outer > n {
		outer = n
	}

	plan, err := chunk.NewMarginPlan(n, outer, m.MarginSamples)
	if err != nil {
		return Stem{}, Stem{}, err
	}

	vocals = NewStem(n)
	instrumental = NewStem(n)
	total := len(m.Models)

	for wi, w := range plan.Windows {
		windowMix := sliceStem(mix, w.Start, w.Start+w.Length)
		vocSum := NewStem(w.Length)
		instrSum := NewStem(w.Length)

		for mi, mdl := range m.Models {
			separated, err := mdl.separateWindow(windowMix)
			if err != nil {
				return Stem{}, Stem{}, fmt.Errorf("separator: model %d window %d: %w", mi, wi, err)
			}

			var vocM, instrM Stem
			if mdl.Session.Config.Output == model.OutputVocals {
				vocM = separated
				instrM = residual(windowMix, separated)
			} else {
				instrM = separated
				vocM = residual(windowMix, separated)
			}
			addStem(vocSum, vocM)
			addStem(instrSum, instrM)

			if progress != nil {
				ratio := (float64(mi)/float64(total))*0.9 +
					float64(wi+1)/float64(len(plan.Windows))*(0.9/float64(total))
				progress(ratio)
			}
		}

		factor := float32(1.0 / float64(total))
		vocFinal := scaleStem(vocSum, factor)
		instrFinal := scaleStem(instrSum, factor)

		left, right := w.Trim()
		copyInto(vocals, w.Start+left, sliceStem(vocFinal, left, right))
		copyInto(instrumental, w.Start+left, sliceStem(instrFinal, left, right))
	}

	return vocals, instrumental, nil
}
