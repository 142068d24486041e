package chunk

import (
	"fmt"
	"math"
)

// ReflectIndex maps a (possibly out-of-range) source index into [0, n-1] by
// reflection at each boundary: i<0 -> -i; i>=n -> 2n-i-2.
func ReflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - i - 2
		}
	}
	return i
}

// CrossfadeWindow is one analysis window of the reflection-padded policy:
// [Start-Margin, Start+Valid+Margin) of the (conceptually infinite, reflected)
// stream, with the caller expected to extract [Margin, Margin+Valid) of the
// processed result before crossfading it against the previous chunk's tail.
type CrossfadeWindow struct {
	Start int
	Valid int
}

// CrossfadePlan lays out a stream of nSamples frames into overlapping
// reflection-padded windows advancing by stride = valid - crossfade.
type CrossfadePlan struct {
	Valid     int
	Margin    int
	Crossfade int
	Windows   []CrossfadeWindow
}

// NewCrossfadePlan validates valid/margin/crossfade and lays out windows
// covering nSamples frames. crossfade=0 is accepted as the degenerate
// trim-and-butt-join case.
func NewCrossfadePlan(nSamples, valid, margin, crossfade int) (*CrossfadePlan, error) {
	if valid <= 0 {
		return nil, fmt.Errorf("chunk: valid window size must be > 0")
	}
	if crossfade < 0 || crossfade >= valid {
		return nil, fmt.Errorf("chunk: crossfade %d must be in [0, valid) = [0, %d)", crossfade, valid)
	}

	stride := valid - crossfade
	var windows []CrossfadeWindow
	for start := 0; start < nSamples; start += stride {
		windows = append(windows, CrossfadeWindow{Start: start, Valid: valid})
		if start+valid >= nSamples {
			break
		}
	}

	return &CrossfadePlan{Valid: valid, Margin: margin, Crossfade: crossfade, Windows: windows}, nil
}

// ExtractReflected fills dst (length valid+2*margin) from src, reflecting
// at both boundaries of src for out-of-range indices.
func ExtractReflected(dst []float32, src []float32, start, margin int) {
	n := len(src)
	for i := range dst {
		dst[i] = src[ReflectIndex(start-margin+i, n)]
	}
}

// ConstantPowerCrossfade blends tail (the previous chunk's trailing
// `length`-sample region) and head (the current chunk's leading
// `length`-sample region) in place into out, using a cosine/sine
// constant-power curve so cos^2(theta)+sin^2(theta)=1 holds at every sample.
func ConstantPowerCrossfade(out, tail, head []float32) {
	n := len(out)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		theta := (math.Pi / 2) * (float64(i) / float64(n-1))
		if n == 1 {
			theta = math.Pi / 4
		}
		fadeOut := math.Cos(theta)
		fadeIn := math.Sin(theta)
		out[i] = float32(float64(tail[i])*fadeOut + float64(head[i])*fadeIn)
	}
}
