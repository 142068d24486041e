package wav

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePlanarPeakNormalization(t *testing.T) {
	tests := []struct {
		name    string
		peak    float32
		wantOne bool // true if we expect the >0.95 scaling path to trigger
	}{
		{name: "below ceiling unchanged", peak: 0.5, wantOne: false},
		{name: "at ceiling unchanged", peak: 0.95, wantOne: false},
		{name: "above ceiling scaled down", peak: 1.2, wantOne: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := []float32{tt.peak, -tt.peak, 0}
			right := []float32{tt.peak / 2, 0, -tt.peak}

			dir := t.TempDir()
			path := filepath.Join(dir, "out.wav")

			if err := WriteStereo(path, left, right, 44100); err != nil {
				t.Fatalf("WriteStereo: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading written file: %v", err)
			}

			maxSample := decodePeak(data)
			if maxSample > PeakCeiling+1e-3 {
				t.Errorf("peak %f exceeds ceiling %f", maxSample, PeakCeiling)
			}
			want := tt.peak
			if tt.wantOne {
				want = PeakCeiling
			}
			if math.Abs(float64(maxSample-want)) > 1e-3 {
				t.Errorf("peak %f, want %f", maxSample, want)
			}
		})
	}
}

func TestWritePlanarChannelMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	err := WritePlanar(path, [][]float32{{1, 2, 3}, {1, 2}}, 44100)
	if err == nil {
		t.Fatal("expected error for mismatched channel lengths")
	}
}

func TestWriteHeaderFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	left := make([]float32, 100)
	right := make([]float32, 100)

	if err := WriteStereo(path, left, right, 44100); err != nil {
		t.Fatalf("WriteStereo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading: %v", err)
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE magic")
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		t.Fatalf("missing fmt/data chunk ids")
	}

	expectedDataSize := 100 * 2 * 2 // frames * channels * bytesPerSample
	if len(data) != 44+expectedDataSize {
		t.Errorf("file size = %d, want %d", len(data), 44+expectedDataSize)
	}
}

func decodePeak(data []byte) float32 {
	var peak float32
	for i := 44; i+1 < len(data); i += 2 {
		v := int16(uint16(data[i]) | uint16(data[i+1])<<8)
		f := float32(math.Abs(float64(v))) / 32767.0
		if f > peak {
			peak = f
		}
	}
	return peak
}
