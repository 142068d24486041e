package separator

import (
	"math"
	"testing"

	"github.com/austinkregel/stemsep/internal/model"
	"github.com/austinkregel/stemsep/internal/stft"
)

// constDCStub returns a hybrid backend stub whose frequency branch
// reconstructs a constant DC 0.5 signal via a real STFT round-trip and
// whose time branch is silent, for every one of the 4 fixed-order stems.
func constDCStub(ctx *stft.Context, window int) model.StubFunc {
	constWave := make([]float32, window)
	for i := range constWave {
		constWave[i] = 0.5
	}
	zero := make([]float32, window)

	return func(inputs map[string]*stft.Tensor) ([]*stft.Tensor, error) {
		frame := stft.Analyze(ctx, constWave, constWave)
		freqFrames := make([]*stft.Tensor, 4)
		for i := range freqFrames {
			freqFrames[i] = frame
		}
		freqBranch := stft.StackBatch(freqFrames)

		timeFrames := make([]*stft.Tensor, 4)
		for i := range timeFrames {
			timeFrames[i] = encodeWave(zero, zero)
		}
		timeBranch := stft.StackBatch(timeFrames)

		return []*stft.Tensor{freqBranch, timeBranch}, nil
	}
}

// S4: two adjacent chunks producing constant DC value 0.5 on the freq
// branch and 0 on the time branch; merged output across the crossfade
// region must remain within 0.5 +/- 1e-4.
func TestHybridCrossfadeConstantDC(t *testing.T) {
	const margin = 1024
	const valid = 8192
	const crossfade = 512
	const window = valid + 2*margin // 10240, a multiple of 1024

	params, err := stft.NewParams(4096, 1024, 2048, window/1024+1)
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	stubCtx := stft.NewContext(params)

	backend := model.NewStubBackend("const-dc", constDCStub(stubCtx, window))
	sess, err := model.NewSession(model.Config{
		Path: "hybrid-stub", NFFT: 6144, Hop: 1024, DimF: 2048, DimTExp: 5, Output: model.OutputHybridDual,
	}, backend)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	hybrid, err := NewHybrid(sess, valid, margin, crossfade, FlagVocals)
	if err != nil {
		t.Fatalf("NewHybrid: %v", err)
	}

	n := 44100
	mix := NewStem(n)
	stems, err := hybrid.Separate(mix, nil)
	if err != nil {
		t.Fatalf("Separate: %v", err)
	}

	vocals, ok := stems[StemVocals]
	if !ok {
		t.Fatal("expected vocals stem in output")
	}

	for i, v := range vocals.Left {
		if math.Abs(float64(v)-0.5) > 1e-4 {
			t.Fatalf("vocals.Left[%d] = %v, want within 0.5 +/- 1e-4", i, v)
		}
	}
}

func TestNewHybridRejectsNonMultipleWindow(t *testing.T) {
	backend := model.NewStubBackend("identity", model.IdentityStub())
	sess, err := model.NewSession(model.Config{Path: "x", NFFT: 6144, Hop: 1024, DimF: 2048, DimTExp: 5, Output: model.OutputHybridDual}, backend)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := NewHybrid(sess, 1000, 7, 10, FlagAll); err == nil {
		t.Error("expected error for window not a multiple of hop")
	}
}
