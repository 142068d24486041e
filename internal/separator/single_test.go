package separator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/austinkregel/stemsep/internal/model"
)

func newTestSession(t *testing.T, output model.OutputKind, backend model.Backend) *model.Session {
	t.Helper()
	cfg := model.Config{Path: "stub", NFFT: 6144, Hop: 1024, DimF: 2048, DimTExp: 5, Output: output, DisableNoiseReduction: true}
	sess, err := model.NewSession(cfg, backend)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return sess
}

func whiteNoiseStem(n int, seed int64) Stem {
	rng := rand.New(rand.NewSource(seed))
	s := NewStem(n)
	for i := range s.Left {
		s.Left[i] = float32(rng.Float64()*2 - 1)
		s.Right[i] = float32(rng.Float64()*2 - 1)
	}
	return s
}

// S2: with a stub model that returns the input tensor unchanged, the
// vocals path should be near-silent and the instrumental path should
// reproduce the input.
func TestSingleResidualLaw(t *testing.T) {
	n := 44100 * 2
	mix := whiteNoiseStem(n, 1)

	backend := model.NewStubBackend("identity", model.IdentityStub())
	sess := newTestSession(t, model.OutputInstrumental, backend)

	single, err := NewSingle(sess, 0, 4096, true)
	if err != nil {
		t.Fatalf("NewSingle: %v", err)
	}

	vocals, instrumental, err := single.Separate(mix, nil)
	if err != nil {
		t.Fatalf("Separate: %v", err)
	}

	trim := sess.Params.Trim()
	var maxVoc, maxDiff float64
	for i := trim; i < n-trim; i++ {
		if v := math.Abs(float64(vocals.Left[i])); v > maxVoc {
			maxVoc = v
		}
		if d := math.Abs(float64(instrumental.Left[i] - mix.Left[i])); d > maxDiff {
			maxDiff = d
		}
	}
	if maxVoc > 1e-3 {
		t.Errorf("max |vocals| = %v, want near 0", maxVoc)
	}
	if maxDiff > 1e-3 {
		t.Errorf("max |instrumental - mix| = %v, want near 0", maxDiff)
	}

	// Residual law: vocals + instrumental == original regardless of the
	// model's declared output_kind.
	for i := trim; i < n-trim; i++ {
		sum := vocals.Left[i] + instrumental.Left[i]
		if math.Abs(float64(sum-mix.Left[i])) > 1e-4 {
			t.Fatalf("residual law violated at %d: vocals+instrumental=%v, mix=%v", i, sum, mix.Left[i])
		}
	}
}

func TestNewSingleRejectsZeroMargin(t *testing.T) {
	backend := model.NewStubBackend("identity", model.IdentityStub())
	sess := newTestSession(t, model.OutputInstrumental, backend)
	if _, err := NewSingle(sess, 0, 0, true); err == nil {
		t.Error("expected error for margin=0")
	}
}
