package stft

import (
	"math"
	"math/rand"
	"testing"
)

func TestRoundTripWhiteNoise(t *testing.T) {
	// S1: n_fft=6144, hop=1024 -> dim_t chosen so chunk_size covers ~1s.
	p, err := NewParams(6144, 1024, 2048, 44)
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}

	ctx := NewContext(p)

	rng := rand.New(rand.NewSource(1))
	left := make([]float32, p.ChunkSize)
	right := make([]float32, p.ChunkSize)
	for i := range left {
		left[i] = float32(rng.Float64()*2 - 1)
		right[i] = float32(rng.Float64()*2 - 1)
	}

	tensor := Analyze(ctx, left, right)
	outL, outR := Synthesize(ctx, tensor, 0)

	// Central region excludes the trim-width boundary on each side.
	trim := p.Trim()
	var sumSq float64
	var n int
	for i := trim; i < p.ChunkSize-trim; i++ {
		dl := float64(outL[i] - left[i])
		dr := float64(outR[i] - right[i])
		sumSq += dl*dl + dr*dr
		n += 2
	}
	rmse := math.Sqrt(sumSq / float64(n))

	if rmse > 1e-4 {
		t.Errorf("round-trip RMSE = %g, want <= 1e-4", rmse)
	}
}

func TestParamsInvariants(t *testing.T) {
	tests := []struct {
		name             string
		nFFT, hop, dimF  int
		dimT             int
		wantErr          bool
	}{
		{name: "valid", nFFT: 6144, hop: 1024, dimF: 2048, dimT: 256, wantErr: false},
		{name: "dimF exceeds nBins", nFFT: 4096, hop: 1024, dimF: 4096, dimT: 256, wantErr: true},
		{name: "chunk too small", nFFT: 6144, hop: 1024, dimF: 2048, dimT: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParams(tt.nFFT, tt.hop, tt.dimF, tt.dimT)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewParams() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{i: 0, n: 10, want: 0},
		{i: -1, n: 10, want: 1},
		{i: -5, n: 10, want: 5},
		{i: 10, n: 10, want: 8},
		{i: 9, n: 10, want: 9},
	}
	for _, tt := range tests {
		if got := reflectIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
