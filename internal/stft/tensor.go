package stft

// Tensor is the [batch][4][dim_f][dim_t] spectral tensor exchanged with the
// inference backend. Channel index 0..3 is {L_real, L_imag, R_real, R_imag}.
type Tensor struct {
	Batch int
	DimF  int
	DimT  int
	Data  [][4][][]float64 // [batch][channel][freq][time]
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(batch, dimF, dimT int) *Tensor {
	t := &Tensor{Batch: batch, DimF: dimF, DimT: dimT}
	t.Data = make([][4][][]float64, batch)
	for b := range t.Data {
		for ch := 0; ch < 4; ch++ {
			t.Data[b][ch] = make([][]float64, dimF)
			for f := range t.Data[b][ch] {
				t.Data[b][ch][f] = make([]float64, dimT)
			}
		}
	}
	return t
}

// StackBatch concatenates single-batch tensors (as produced by Analyze) into
// one tensor along the batch axis, so a chunker can reshape a margin window
// into F non-overlapping frames and run the model on all of them at once.
func StackBatch(frames []*Tensor) *Tensor {
	if len(frames) == 0 {
		return NewTensor(0, 0, 0)
	}
	dimF, dimT := frames[0].DimF, frames[0].DimT
	out := NewTensor(len(frames), dimF, dimT)
	for b, f := range frames {
		out.Data[b] = f.Data[0]
	}
	return out
}
