package stft

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fftPlans avoids reallocating a gonum FFT plan per call; plans are cheap
// but immutable once built, so one per distinct NFFT is kept process-wide.
var (
	fftPlansMu sync.Mutex
	fftPlans   = map[int]*fourier.FFT{}
)

func fftPlan(n int) *fourier.FFT {
	fftPlansMu.Lock()
	defer fftPlansMu.Unlock()
	if p, ok := fftPlans[n]; ok {
		return p
	}
	p := fourier.NewFFT(n)
	fftPlans[n] = p
	return p
}

// reflectIndex maps a (possibly out-of-range) source index into [0, n-1]
// by reflection at each boundary: i<0 -> -i; i>=n -> 2n-i-2.
func reflectIndex(i, n int) int {
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

// Analyze reflection-pads and Hann-windows one planar stereo window of
// length Params.ChunkSize, running the forward FFT frame by frame into a
// freshly allocated batch-1 tensor. ctx's padded/frame scratch buffers are
// reused across calls.
func Analyze(ctx *Context, left, right []float32) *Tensor {
	p := ctx.Params
	trim := p.Trim()

	channels := [2][]float32{left, right}
	for c := 0; c < 2; c++ {
		src := channels[c]
		for i := range ctx.padded[c] {
			srcIdx := reflectIndex(i-trim, len(src))
			ctx.padded[c][i] = float64(src[srcIdx])
		}
	}

	plan := fftPlan(p.NFFT)
	tensor := NewTensor(1, p.DimF, p.DimT)

	keepBins := p.DimF
	if p.NBins < keepBins {
		keepBins = p.NBins
	}

	for c := 0; c < 2; c++ {
		padded := ctx.padded[c]
		for t := 0; t < p.DimT; t++ {
			start := t * p.Hop
			frame := ctx.frame[c]
			for i := 0; i < p.NFFT; i++ {
				frame[i] = padded[start+i] * ctx.hann[i]
			}

			coeffs := plan.Coefficients(nil, frame)
			for f := 0; f < keepBins; f++ {
				tensor.Data[0][c*2][f][t] = real(coeffs[f])
				tensor.Data[0][c*2+1][f][t] = imag(coeffs[f])
			}
		}
	}

	return tensor
}

// Synthesize inverse-transforms one batch item of tensor frame by frame,
// overlap-adding into ctx's double-precision accumulators and returning the
// reconstructed ChunkSize-length planar stereo window (pad stripped).
func Synthesize(ctx *Context, tensor *Tensor, batch int) (left, right []float32) {
	p := ctx.Params
	trim := p.Trim()
	plan := fftPlan(p.NFFT)

	ctx.resetReconstruction()

	bins := make([]complex128, p.NBins)

	for c := 0; c < 2; c++ {
		re := tensor.Data[batch][c*2]
		im := tensor.Data[batch][c*2+1]

		for t := 0; t < p.DimT; t++ {
			for f := range bins {
				bins[f] = 0
			}
			for f := 0; f < p.DimF && f < p.NBins; f++ {
				bins[f] = complex(re[f][t], im[f][t])
			}

			// Sequence reconstructs a real, Hermitian-symmetric-extended
			// time-domain frame from the half-spectrum, but like gonum's FFT
			// in both directions it is unnormalized: Sequence(Coefficients(x))
			// == NFFT*x. Divide by NFFT here to undo that scale.
			timeFrame := plan.Sequence(nil, bins)

			start := t * p.Hop
			scale := 1.0 / float64(p.NFFT)
			for i := 0; i < p.NFFT; i++ {
				idx := start + i
				w := ctx.hann[i]
				ctx.recon[c][idx] += timeFrame[i] * w * scale
				ctx.winSum[c][idx] += w * w
			}
		}
	}

	out := [2][]float32{
		make([]float32, p.ChunkSize),
		make([]float32, p.ChunkSize),
	}
	for c := 0; c < 2; c++ {
		for i := 0; i < p.ChunkSize; i++ {
			idx := trim + i
			v := ctx.recon[c][idx]
			if ws := ctx.winSum[c][idx]; ws > 1e-10 {
				v /= ws
			}
			out[c][i] = float32(v)
		}
	}

	return out[0], out[1]
}
