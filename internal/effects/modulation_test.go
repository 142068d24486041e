package effects

import "testing"

func silentRun(t *testing.T, name string, p Processor) {
	t.Helper()
	samples := make([]float32, 4096)
	p.Process(samples)
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("%s: sample %d: got %v, want 0 for silent input", name, i, s)
		}
	}
}

func TestModulationEffectsSilenceIsSilence(t *testing.T) {
	silentRun(t, "chorus", NewChorus(44100))
	silentRun(t, "flanger", NewFlanger(44100))
	silentRun(t, "phaser", NewPhaser(44100))
	silentRun(t, "rotary", NewRotary(44100))
}

func TestModulationEffectsResetClearsState(t *testing.T) {
	effectsByName := map[string]Processor{
		"chorus":  NewChorus(44100),
		"flanger": NewFlanger(44100),
		"phaser":  NewPhaser(44100),
		"rotary":  NewRotary(44100),
	}
	for name, p := range effectsByName {
		impulse := make([]float32, 2048)
		impulse[0] = 1
		p.Process(impulse)

		p.Reset()
		silence := make([]float32, 2048)
		p.Process(silence)
		for i, s := range silence {
			if s != 0 {
				t.Fatalf("%s: sample %d after Reset: got %v, want 0", name, i, s)
			}
		}
	}
}

func TestChorusVoiceCountClamped(t *testing.T) {
	c := NewChorus(44100)
	c.SetVoices(0)
	if c.Voices != 2 {
		t.Fatalf("SetVoices(0): got %d, want clamped to 2", c.Voices)
	}
	c.SetVoices(100)
	if c.Voices != 6 {
		t.Fatalf("SetVoices(100): got %d, want clamped to 6", c.Voices)
	}
}

func TestPhaserStageCountClamped(t *testing.T) {
	p := NewPhaser(44100)
	p.SetStages(1)
	if p.Stages != 2 {
		t.Fatalf("SetStages(1): got %d, want clamped to 2", p.Stages)
	}
	p.SetStages(20)
	if p.Stages != 8 {
		t.Fatalf("SetStages(20): got %d, want clamped to 8", p.Stages)
	}
}

func TestFlangerFeedbackClamped(t *testing.T) {
	f := NewFlanger(44100)
	f.SetFeedback(5)
	if f.Feedback != 0.95 {
		t.Fatalf("SetFeedback(5): got %v, want clamped to 0.95", f.Feedback)
	}
	f.SetFeedback(-1)
	if f.Feedback != 0 {
		t.Fatalf("SetFeedback(-1): got %v, want clamped to 0", f.Feedback)
	}
}
