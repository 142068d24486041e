package stft

import "math"

// Context holds the preallocated buffers reused across chunks by a single
// model session. It is owned exclusively by the separator orchestrator for
// the lifetime of one Separate() call.
type Context struct {
	Params Params

	hann []float64 // precomputed Hann window, length NFFT

	// padded[c] holds the reflection-padded signal for channel c, length
	// ChunkSize + 2*Trim, reused per Analyze call.
	padded [2][]float64

	// frame is FFT scratch, length NFFT, reused per analysis frame.
	frame [2][]float64

	// recon[c] and winSum[c] are the double-precision overlap-add
	// accumulators, length ChunkSize + 2*Trim, reused per Synthesize call.
	recon  [2][]float64
	winSum [2][]float64
}

// NewContext precomputes the Hann window and allocates the padding, frame
// and overlap-add buffers at the sizes fixed by Params. Analyze and
// Synthesize still allocate their output tensor or slices and the
// per-frame FFT results on every call.
func NewContext(p Params) *Context {
	size := p.ChunkSize + 2*p.Trim()

	ctx := &Context{Params: p, hann: hannWindow(p.NFFT)}
	for c := 0; c < 2; c++ {
		ctx.padded[c] = make([]float64, size)
		ctx.frame[c] = make([]float64, p.NFFT)
		ctx.recon[c] = make([]float64, size)
		ctx.winSum[c] = make([]float64, size)
	}
	return ctx
}

// hannWindow returns the periodic Hann window w[i] = 0.5*(1-cos(2*pi*i/N)).
// The periodic (not N-1-denominated) form is required so that overlap-add
// at hop = N/2 satisfies the constant-overlap-add condition; see DESIGN.md
// Open Question 2.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// resetReconstruction zeroes the overlap-add accumulators before a fresh
// Synthesize call, without touching the Hann window or padded scratch.
func (ctx *Context) resetReconstruction() {
	for c := 0; c < 2; c++ {
		for i := range ctx.recon[c] {
			ctx.recon[c][i] = 0
			ctx.winSum[c][i] = 0
		}
	}
}
