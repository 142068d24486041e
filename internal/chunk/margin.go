// Package chunk slices a stream into overlapped processing windows. Two
// policies coexist: MarginPlan trims a fixed margin off each side with no
// crossfade (the single/multi-model separators), and CrossfadePlan extracts
// a reflection-padded window and joins chunks with a constant-power
// crossfade (the hybrid separator).
package chunk

import "fmt"

// Window is one (start, length) slice of a stream, with the left/right
// margin to trim once its output is produced.
type Window struct {
	Start, Length int
	LeftMargin    int
	RightMargin   int
}

// MarginPlan lays out a stream of nSamples frames into chunkSize windows
// trimmed by margin on each internal boundary; the first window keeps its
// left edge untrimmed and the last keeps its right edge untrimmed.
type MarginPlan struct {
	ChunkSize int
	Margin    int
	Windows   []Window
}

// NewMarginPlan validates margin against chunkSize and lays out windows
// covering nSamples frames, stepping by chunkSize-2*margin between chunks
// after the first.
func NewMarginPlan(nSamples, chunkSize, margin int) (*MarginPlan, error) {
	if margin == 0 {
		return nil, fmt.Errorf("chunk: margin must be > 0")
	}
	if margin > chunkSize {
		margin = chunkSize
	}

	stride := chunkSize - 2*margin
	if stride <= 0 {
		return nil, fmt.Errorf("chunk: margin %d leaves no interior for chunk_size %d", margin, chunkSize)
	}

	var windows []Window
	for start := 0; start < nSamples; start += stride {
		length := chunkSize
		if start+length > nSamples {
			length = nSamples - start
		}
		w := Window{Start: start, Length: length, LeftMargin: margin, RightMargin: margin}
		if start == 0 {
			w.LeftMargin = 0
		}
		last := start+length >= nSamples
		if last {
			w.RightMargin = 0
		}
		windows = append(windows, w)
		if last {
			break
		}
	}

	return &MarginPlan{ChunkSize: chunkSize, Margin: margin, Windows: windows}, nil
}

// Trim returns the [left, right) sample range of window w's output that
// should be kept after margin trimming.
func (w Window) Trim() (left, right int) {
	return w.LeftMargin, w.Length - w.RightMargin
}
