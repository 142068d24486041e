package separator

import (
	"math"
	"testing"

	"github.com/austinkregel/stemsep/internal/model"
)

// S3: N=3 stub models returning 0.5*input, 0.3*input, 0.1*input with
// output_kind=Instrumental. Expect instrumental = 0.3*input, vocals =
// 0.7*input.
func TestMultiAveraging(t *testing.T) {
	n := 44100
	mix := whiteNoiseStem(n, 2)

	gains := []float64{0.5, 0.3, 0.1}
	var models []*Single
	for _, g := range gains {
		backend := model.NewStubBackend("scale", model.ScaleStub(g))
		sess := newTestSession(t, model.OutputInstrumental, backend)
		single, err := NewSingle(sess, 0, 4096, true)
		if err != nil {
			t.Fatalf("NewSingle: %v", err)
		}
		models = append(models, single)
	}

	multi, err := NewMulti(models, 0, 4096)
	if err != nil {
		t.Fatalf("NewMulti: %v", err)
	}

	vocals, instrumental, err := multi.Separate(mix, nil)
	if err != nil {
		t.Fatalf("Separate: %v", err)
	}

	trim := models[0].Session.Params.Trim()
	const wantInstr = 0.3
	const wantVoc = 0.7

	var maxInstrErr, maxVocErr float64
	for i := trim; i < n-trim; i++ {
		instrErr := math.Abs(float64(instrumental.Left[i]) - wantInstr*float64(mix.Left[i]))
		vocErr := math.Abs(float64(vocals.Left[i]) - wantVoc*float64(mix.Left[i]))
		if instrErr > maxInstrErr {
			maxInstrErr = instrErr
		}
		if vocErr > maxVocErr {
			maxVocErr = vocErr
		}
	}
	if maxInstrErr > 1e-2 {
		t.Errorf("max instrumental error = %v, want <= 1e-2", maxInstrErr)
	}
	if maxVocErr > 1e-2 {
		t.Errorf("max vocals error = %v, want <= 1e-2", maxVocErr)
	}
}

func TestNewMultiRejectsEmptyModelList(t *testing.T) {
	if _, err := NewMulti(nil, 0, 4096); err == nil {
		t.Error("expected error for empty model list")
	}
}
