package separator

import "github.com/austinkregel/stemsep/internal/stft"

// negateTensor returns a new tensor holding -src, element-wise.
func negateTensor(src *stft.Tensor) *stft.Tensor {
	out := stft.NewTensor(src.Batch, src.DimF, src.DimT)
	for b := range src.Data {
		for ch := 0; ch < 4; ch++ {
			for f := range src.Data[b][ch] {
				for t := range src.Data[b][ch][f] {
					out.Data[b][ch][f][t] = -src.Data[b][ch][f][t]
				}
			}
		}
	}
	return out
}

// combineNoiseReduction implements the symmetric-averaging noise-reduction
// formula: val = -outNeg/denominator + out/denominator, elementwise.
func combineNoiseReduction(out, outNeg *stft.Tensor, denominator float64) *stft.Tensor {
	dst := stft.NewTensor(out.Batch, out.DimF, out.DimT)
	inv := 1.0 / denominator
	for b := range out.Data {
		for ch := 0; ch < 4; ch++ {
			for f := range out.Data[b][ch] {
				for t := range out.Data[b][ch][f] {
					dst.Data[b][ch][f][t] = -outNeg.Data[b][ch][f][t]*inv + out.Data[b][ch][f][t]*inv
				}
			}
		}
	}
	return dst
}

// copyTensor detaches dst's storage from src's (the backend may reuse or
// invalidate its own output buffers after Run returns).
func copyTensor(src *stft.Tensor) *stft.Tensor {
	dst := stft.NewTensor(src.Batch, src.DimF, src.DimT)
	for b := range src.Data {
		for ch := 0; ch < 4; ch++ {
			for f := range src.Data[b][ch] {
				copy(dst.Data[b][ch][f], src.Data[b][ch][f])
			}
		}
	}
	return dst
}
