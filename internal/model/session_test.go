package model

import "testing"

func TestNewSessionValidatesParams(t *testing.T) {
	backend := NewStubBackend("test", IdentityStub())

	cfg := Config{Path: "vocals.onnx", NFFT: 6144, Hop: 1024, DimF: 2048, DimTExp: 6, Output: OutputVocals}
	sess, err := NewSession(cfg, backend)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if sess.Config.Denominator != 2 {
		t.Errorf("Denominator default = %v, want 2", sess.Config.Denominator)
	}
	if sess.Params.ChunkSize != 1024*63 {
		t.Errorf("ChunkSize = %d, want %d", sess.Params.ChunkSize, 1024*63)
	}

	bad := Config{Path: "bad.onnx", NFFT: 2048, Hop: 1024, DimF: 4096, DimTExp: 4}
	if _, err := NewSession(bad, backend); err == nil {
		t.Error("expected error for dim_f exceeding n_bins")
	}
}

func TestDetectDims(t *testing.T) {
	cfg, err := DetectDims(2048, 256)
	if err != nil {
		t.Fatalf("DetectDims: %v", err)
	}
	if cfg.DimT() != 256 {
		t.Errorf("DimT() = %d, want 256", cfg.DimT())
	}

	if _, err := DetectDims(2048, 100); err == nil {
		t.Error("expected error for non-power-of-2 dim_t")
	}
}

func TestOutputKindString(t *testing.T) {
	tests := map[OutputKind]string{
		OutputVocals:        "vocals",
		OutputInstrumental:  "instrumental",
		OutputHybridDual:    "hybrid_dual",
		OutputMultiStem4:    "multi_stem_4",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
