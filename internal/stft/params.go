// Package stft implements the reflection-padded, Hann-windowed
// analysis/synthesis engine shared by every separator variant.
package stft

import "fmt"

// Params is the immutable set of STFT/ISTFT parameters negotiated once per
// model session.
type Params struct {
	NFFT  int // FFT size, power of 2
	Hop   int // hop length, default 1024
	DimF  int // retained frequency bins
	DimT  int // time frames per tensor
	NBins int // n_fft/2 + 1

	ChunkSize int // hop * (dim_t - 1)
}

// NewParams derives NBins and ChunkSize and validates that the chunk is wide
// enough to absorb the reflection pad and that the retained bins fit within
// the full spectrum.
func NewParams(nFFT, hop, dimF, dimT int) (Params, error) {
	p := Params{
		NFFT:  nFFT,
		Hop:   hop,
		DimF:  dimF,
		DimT:  dimT,
		NBins: nFFT/2 + 1,
	}
	p.ChunkSize = hop * (dimT - 1)

	if p.ChunkSize <= 2*(nFFT/2) {
		return Params{}, fmt.Errorf("stft: chunk_size %d must exceed 2*(n_fft/2) = %d", p.ChunkSize, 2*(nFFT/2))
	}
	if dimF > p.NBins {
		return Params{}, fmt.Errorf("stft: dim_f %d must not exceed n_bins %d", dimF, p.NBins)
	}

	return p, nil
}

// Trim is the reflection-pad half-width, n_fft/2.
func (p Params) Trim() int { return p.NFFT / 2 }
