// Package separator drives the chunk -> STFT -> inference -> ISTFT ->
// residual/mix pipeline for each of the three separator variants: single
// model, multi-model averaging, and the hybrid dual-branch separator.
package separator

// Stem is a planar stereo output buffer, one per separated track, living
// for the lifetime of a single Separate call.
type Stem struct {
	Left, Right []float32
}

// NewStem allocates a zeroed stem of length n.
func NewStem(n int) Stem {
	return Stem{Left: make([]float32, n), Right: make([]float32, n)}
}

// ProgressFunc receives a 0..1 completion ratio between chunks; it is the
// only suspension point in the orchestrator's otherwise cooperative,
// single-threaded per-call scheduling.
type ProgressFunc func(ratio float64)

func addStem(dst, src Stem) {
	for i := range dst.Left {
		dst.Left[i] += src.Left[i]
		dst.Right[i] += src.Right[i]
	}
}

func scaleStem(s Stem, factor float32) Stem {
	out := NewStem(len(s.Left))
	for i := range s.Left {
		out.Left[i] = s.Left[i] * factor
		out.Right[i] = s.Right[i] * factor
	}
	return out
}

func sliceStem(s Stem, left, right int) Stem {
	return Stem{Left: s.Left[left:right], Right: s.Right[left:right]}
}

func copyInto(dst Stem, offset int, src Stem) {
	copy(dst.Left[offset:offset+len(src.Left)], src.Left)
	copy(dst.Right[offset:offset+len(src.Right)], src.Right)
}

func residual(original, separated Stem) Stem {
	out := NewStem(len(original.Left))
	for i := range out.Left {
		out.Left[i] = original.Left[i] - separated.Left[i]
		out.Right[i] = original.Right[i] - separated.Right[i]
	}
	return out
}
