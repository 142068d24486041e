package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/austinkregel/stemsep/internal/audio"
)

// listenStereo plays a processed planar stereo buffer through the system
// default output, for auditioning an effects-bench run without writing a
// file. It packs left/right into 16-bit PCM with the same 32767 scale as
// wav.WritePlanar, but rounds to nearest and applies no peak
// normalization, then feeds it to the same OtoOutput the daemon uses for
// track playback.
func listenStereo(ctx context.Context, left, right []float32) error {
	out, err := audio.NewOtoOutputWithConfig(audio.TargetSampleRate, 2)
	if err != nil {
		return fmt.Errorf("open audio output: %w", err)
	}
	defer out.Close()

	pcm := packPCM16(left, right)

	const writeChunk = 4096 // bytes per Write call, well under OtoOutput's internal buffer cap
	for offset := 0; offset < len(pcm); offset += writeChunk {
		select {
		case <-ctx.Done():
			out.Stop()
			return ctx.Err()
		default:
		}
		end := offset + writeChunk
		if end > len(pcm) {
			end = len(pcm)
		}
		if _, err := out.Write(pcm[offset:end]); err != nil {
			return fmt.Errorf("write audio output: %w", err)
		}
	}

	for out.IsPlaying() {
		select {
		case <-ctx.Done():
			out.Stop()
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

func packPCM16(left, right []float32) []byte {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(buf[i*4:i*4+2], floatToPCM16Sample(left[i]))
		binary.LittleEndian.PutUint16(buf[i*4+2:i*4+4], floatToPCM16Sample(right[i]))
	}
	return buf
}

func floatToPCM16Sample(x float32) uint16 {
	v := float64(x) * 32767.0
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return uint16(int16(math.Round(v)))
}
