// Package model defines the inference backend contract a separator variant
// drives: a named-tensor-in, ordered-tensor-list-out call with a GPU-try,
// CPU-fallback lifecycle, wrapped around a fixed STFT geometry.
package model

import (
	"fmt"

	"github.com/austinkregel/stemsep/internal/stft"
)

// OutputKind identifies what a model's output tensors represent, so a
// separator orchestrator knows how to turn inference results into stems
// without the model itself naming stems.
type OutputKind int

const (
	// OutputVocals means the model predicts the vocals spectrogram; the
	// instrumental is recovered as the residual against the mix.
	OutputVocals OutputKind = iota
	// OutputInstrumental is the residual-law mirror of OutputVocals.
	OutputInstrumental
	// OutputHybridDual means the model returns both a waveform-domain
	// estimate and a spectrogram-domain estimate for the same stem.
	OutputHybridDual
	// OutputMultiStem4 means the model returns four stems in the fixed
	// order {Drums, Bass, Other, Vocals} in one inference call.
	OutputMultiStem4
)

func (k OutputKind) String() string {
	switch k {
	case OutputVocals:
		return "vocals"
	case OutputInstrumental:
		return "instrumental"
	case OutputHybridDual:
		return "hybrid_dual"
	case OutputMultiStem4:
		return "multi_stem_4"
	default:
		return "unknown"
	}
}

// Backend runs inference given a map of named input tensors, returning an
// ordered list of output tensors. Implementations own GPU/CPU selection;
// Run never needs to know which execution provider it landed on.
type Backend interface {
	// Name identifies the backend for logging ("onnxruntime-cuda",
	// "onnxruntime-cpu", "stub").
	Name() string
	Run(inputs map[string]*stft.Tensor) ([]*stft.Tensor, error)
	Close() error
}

// Config is the static description of one model, negotiated once before
// any audio flows through it.
type Config struct {
	Path                  string
	NFFT                  int
	Hop                   int
	DimF                  int
	DimTExp               int // dim_t stored as log2; actual dim_t = 1<<DimTExp
	Output                OutputKind
	DisableNoiseReduction bool
	Denominator           float64 // noise-reduction averaging denominator, default 2
}

// DimT returns the time-frame count implied by DimTExp.
func (c Config) DimT() int { return 1 << uint(c.DimTExp) }

// Session pairs one Backend with the STFT geometry it was negotiated for,
// plus the preallocated Context used for every chunk that flows through it
// for the session's lifetime.
type Session struct {
	Config  Config
	Backend Backend
	Params  stft.Params
	Ctx     *stft.Context
}

// NewSession derives STFT Params from cfg, validates them, and builds the
// Context the session will reuse for every chunk until Close.
func NewSession(cfg Config, backend Backend) (*Session, error) {
	if cfg.Denominator == 0 {
		cfg.Denominator = 2
	}
	params, err := stft.NewParams(cfg.NFFT, cfg.Hop, cfg.DimF, cfg.DimT())
	if err != nil {
		return nil, fmt.Errorf("model: session %q: %w", cfg.Path, err)
	}
	return &Session{
		Config:  cfg,
		Backend: backend,
		Params:  params,
		Ctx:     stft.NewContext(params),
	}, nil
}

// Close releases the backend. The Context and Params need no explicit
// teardown; they are plain Go values collected with the Session.
func (s *Session) Close() error {
	return s.Backend.Close()
}

// DetectDims infers DimF and a DimTExp from an input tensor's shape, for
// backends that expose model metadata only after the first load (e.g. an
// ONNX graph whose input shape is read from the loaded graph rather than
// configured up front).
func DetectDims(dimF, dimT int) (Config, error) {
	if dimF <= 0 || dimT <= 0 {
		return Config{}, fmt.Errorf("model: detected non-positive dims (dim_f=%d, dim_t=%d)", dimF, dimT)
	}
	exp := 0
	for 1<<uint(exp) < dimT {
		exp++
	}
	if 1<<uint(exp) != dimT {
		return Config{}, fmt.Errorf("model: detected dim_t=%d is not a power of 2", dimT)
	}
	return Config{DimF: dimF, DimTExp: exp}, nil
}
