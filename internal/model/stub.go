package model

import "github.com/austinkregel/stemsep/internal/stft"

// StubFunc computes an output tensor list from named input tensors without
// touching any real inference runtime. Tests use it to exercise separator
// orchestration (residual law, multi-model averaging, hybrid crossfade)
// against known, hand-checkable transforms instead of a trained model.
type StubFunc func(inputs map[string]*stft.Tensor) ([]*stft.Tensor, error)

// StubBackend is a Backend whose Run delegates to a StubFunc. It never
// allocates GPU/CPU execution providers, so it is cheap to construct per
// test case.
type StubBackend struct {
	name string
	fn   StubFunc
}

// NewStubBackend wraps fn as a named Backend.
func NewStubBackend(name string, fn StubFunc) *StubBackend {
	return &StubBackend{name: name, fn: fn}
}

func (b *StubBackend) Name() string { return b.name }

func (b *StubBackend) Run(inputs map[string]*stft.Tensor) ([]*stft.Tensor, error) {
	return b.fn(inputs)
}

func (b *StubBackend) Close() error { return nil }

// IdentityStub returns a StubFunc that copies its "mix" input straight
// through as the sole output tensor, useful for round-trip and
// residual-law tests where the "model" should be a no-op.
func IdentityStub() StubFunc {
	return func(inputs map[string]*stft.Tensor) ([]*stft.Tensor, error) {
		return []*stft.Tensor{inputs["mix"]}, nil
	}
}

// ScaleStub returns a StubFunc that scales every value of the "mix" input
// by gain, useful for deterministic multi-model-averaging tests.
func ScaleStub(gain float64) StubFunc {
	return func(inputs map[string]*stft.Tensor) ([]*stft.Tensor, error) {
		src := inputs["mix"]
		out := stft.NewTensor(src.Batch, src.DimF, src.DimT)
		for b := range out.Data {
			for ch := 0; ch < 4; ch++ {
				for f := range out.Data[b][ch] {
					for t := range out.Data[b][ch][f] {
						out.Data[b][ch][f][t] = src.Data[b][ch][f][t] * gain
					}
				}
			}
		}
		return []*stft.Tensor{out}, nil
	}
}
