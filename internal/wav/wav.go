// Package wav writes canonical RIFF/WAVE 16-bit PCM files from planar
// float32 buffers, peak-normalizing so clipping never occurs on write-out.
package wav

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// PeakCeiling is the maximum allowed output peak magnitude after
// normalization.
const PeakCeiling = 0.95

// WriteStereo peak-normalizes planar stereo float32 data and writes it as
// a 16-bit PCM little-endian WAV file at sampleRate.
func WriteStereo(path string, left, right []float32, sampleRate int) error {
	return WritePlanar(path, [][]float32{left, right}, sampleRate)
}

// WritePlanar writes an arbitrary channel count of planar float32 data.
func WritePlanar(path string, channels [][]float32, sampleRate int) error {
	if len(channels) == 0 {
		return fmt.Errorf("wav: no channels to write")
	}

	numFrames := len(channels[0])
	for _, ch := range channels {
		if len(ch) != numFrames {
			return fmt.Errorf("wav: channel length mismatch: %d vs %d", len(ch), numFrames)
		}
	}

	peak := float32(0)
	for _, ch := range channels {
		for _, s := range ch {
			a := float32(math.Abs(float64(s)))
			if a > peak {
				peak = a
			}
		}
	}

	scale := float32(1)
	if peak > PeakCeiling {
		scale = PeakCeiling / peak
	}

	numChannels := len(channels)
	bitsPerSample := 16
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign
	dataSize := numFrames * blockAlign

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := writeHeader(f, sampleRate, numChannels, bitsPerSample, byteRate, blockAlign, dataSize); err != nil {
		return err
	}

	buf := make([]byte, blockAlign)
	for i := 0; i < numFrames; i++ {
		for c := 0; c < numChannels; c++ {
			sample := channels[c][i] * scale
			binary.LittleEndian.PutUint16(buf[c*2:c*2+2], floatToPCM16(sample))
		}
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("wav: writing samples: %w", err)
		}
	}

	return nil
}

func floatToPCM16(x float32) uint16 {
	v := float64(x) * 32767.0
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return uint16(int16(v))
}

func writeHeader(f *os.File, sampleRate, numChannels, bitsPerSample, byteRate, blockAlign, dataSize int) error {
	riffSize := 36 + dataSize

	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(riffSize))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(bitsPerSample))
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataSize))

	_, err := f.Write(hdr)
	return err
}
