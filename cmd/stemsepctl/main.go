// Package main is the entry point for stemsepctl, a CLI driving the
// single/multi/hybrid source separators and the effects graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/austinkregel/stemsep/internal/audio"
	"github.com/austinkregel/stemsep/internal/config"
	"github.com/austinkregel/stemsep/internal/errs"
	"github.com/austinkregel/stemsep/internal/model"
	"github.com/austinkregel/stemsep/internal/progress"
	"github.com/austinkregel/stemsep/internal/separator"
	"github.com/austinkregel/stemsep/internal/wav"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	var err error
	switch os.Args[1] {
	case "separate-single":
		err = runSeparateSingle(ctx, os.Args[2:])
	case "separate-multi":
		err = runSeparateMulti(ctx, os.Args[2:])
	case "separate-hybrid":
		err = runSeparateHybrid(ctx, os.Args[2:])
	case "effects-bench":
		err = runEffectsBench(ctx, os.Args[2:])
	case "version":
		fmt.Println(Version)
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `stemsepctl <command> [flags]

Commands:
  separate-single   one-network MDX-style separation (vocals/instrumental)
  separate-multi    multi-model averaged separation
  separate-hybrid   HTDemucs-style dual-branch four-stem separation
  effects-bench     run one effects-graph processor over a file, or -listen live
  version           print build version`)
}

// decodeFull pulls an entire input file into a planar stereo Stem via the
// ffmpeg-backed decoder, retrying whenever ReadFrames reports a transient
// failure (ok=false, no err).
func decodeFull(path string) (separator.Stem, error) {
	dec, err := audio.NewFFmpegDecoder()
	if err != nil {
		return separator.Stem{}, err
	}
	if _, err := dec.Open(path); err != nil {
		return separator.Stem{}, err
	}
	defer dec.Close()

	const frameBatch = 65536
	buf := make([]float32, frameBatch*2)
	var left, right []float32

	for {
		n, eof, ok, err := dec.ReadFrames(buf)
		if err != nil {
			return separator.Stem{}, fmt.Errorf("decode %s: %w", path, err)
		}
		if !ok {
			continue // transient short read, retry
		}
		if n > 0 {
			l, r := audio.Planar(buf[:n])
			left = append(left, l...)
			right = append(right, r...)
		}
		if eof {
			break
		}
	}

	return separator.Stem{Left: left, Right: right}, nil
}

// loadBackend builds a model.Backend from -backend/-gain. No ONNX runtime
// binding exists in this module (see DESIGN.md), so the only backends
// available are the deterministic stub functions also used by the
// separator package's tests.
func loadBackend(name string, gain float64) (model.Backend, error) {
	switch name {
	case "identity":
		return model.NewStubBackend("stub-identity", model.IdentityStub()), nil
	case "scale":
		return model.NewStubBackend("stub-scale", model.ScaleStub(gain)), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (want identity|scale)", errs.Configuration, name)
	}
}

func parseOutputKind(s string) (model.OutputKind, error) {
	switch strings.ToLower(s) {
	case "vocals":
		return model.OutputVocals, nil
	case "instrumental":
		return model.OutputInstrumental, nil
	default:
		return 0, fmt.Errorf("%w: output_kind must be Vocals or Instrumental, got %q", errs.Configuration, s)
	}
}

// defaultConfigDir mirrors the daemon's ~/.config/<name> convention.
func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stemsepctl"), nil
}

// loadConfig resolves configDir (falling back to defaultConfigDir when
// empty) and loads or initializes its config.json.
func loadConfig(configDir string) (*config.Config, error) {
	if configDir == "" {
		dir, err := defaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	mgr := config.NewManager(configDir)
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return mgr.Get(), nil
}

// resolveOutputDir returns flagVal unless it's still at its flag default,
// in which case the persisted config's OutputDirectory wins.
func resolveOutputDir(flagVal string, cfg *config.Config) string {
	if flagVal == "./output" && cfg.OutputDirectory != "" {
		return cfg.OutputDirectory
	}
	return flagVal
}

func runSeparateSingle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("separate-single", flag.ExitOnError)
	input := fs.String("input", "", "input audio file")
	outDir := fs.String("output-dir", "./output", "output directory")
	configDir := fs.String("config-dir", "", "config directory (default ~/.config/stemsepctl)")
	nFFT := fs.Int("n-fft", 6144, "model n_fft")
	dimTExp := fs.Int("dim-t-exp", 8, "model dim_t_exp (dim_t = 1<<exp)")
	dimF := fs.Int("dim-f", 2048, "model dim_f")
	outputKind := fs.String("output-kind", "Instrumental", "model output_kind: Vocals|Instrumental")
	marginSamples := fs.Int("margin-samples", 44100, "margin_samples")
	chunkSeconds := fs.Int("chunk-seconds", 0, "chunk_seconds (0 = whole file)")
	disableNR := fs.Bool("disable-noise-reduction", false, "disable_noise_reduction")
	backendName := fs.String("backend", "identity", "inference backend: identity|scale")
	gain := fs.Float64("gain", 1.0, "gain for the scale backend")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address (empty = disabled)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("%w: -input is required", errs.Configuration)
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	*outDir = resolveOutputDir(*outDir, cfg)
	if cfg.EnableGPU {
		log.Printf("enable_gpu requested but no GPU backend is wired; falling back to %s", *backendName)
	}

	kind, err := parseOutputKind(*outputKind)
	if err != nil {
		return err
	}

	metrics := maybeServeMetrics(*metricsAddr)
	stream := progress.NewStream(os.Stdout)

	backend, err := loadBackend(*backendName, *gain)
	if err != nil {
		return err
	}
	sess, err := model.NewSession(model.Config{
		Path: *input, NFFT: *nFFT, Hop: 1024, DimF: *dimF, DimTExp: *dimTExp,
		Output: kind, DisableNoiseReduction: *disableNR,
	}, backend)
	if err != nil {
		return err
	}
	defer sess.Close()

	single, err := separator.NewSingle(sess, *chunkSeconds*audio.TargetSampleRate, *marginSamples, *disableNR)
	if err != nil {
		stream.Error("single", "configuration error", err.Error())
		return err
	}

	mix, err := decodeFull(*input)
	if err != nil {
		stream.Error("single", "resource error", err.Error())
		return err
	}

	metrics.RecordStart()
	stream.Started("single")

	total := 1
	vocals, instrumental, err := single.Separate(mix, func(ratio float64) {
		metrics.RecordChunk("single", total, ratio)
		stream.Progress("single", int(ratio*float64(total)), total, ratio)
	})
	if err != nil {
		metrics.RecordError("single", "runtime error")
		stream.Error("single", "runtime error", err.Error())
		return err
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	needed := 2 * audio.EstimateWAVBytes(len(vocals.Left), 2)
	if err := audio.CheckFreeSpace(*outDir, needed); err != nil {
		stream.Error("single", "resource error", err.Error())
		return err
	}
	vocalsPath := filepath.Join(*outDir, "vocals.wav")
	instrPath := filepath.Join(*outDir, "instrumental.wav")
	if err := wav.WriteStereo(vocalsPath, vocals.Left, vocals.Right, audio.TargetSampleRate); err != nil {
		return err
	}
	if err := wav.WriteStereo(instrPath, instrumental.Left, instrumental.Right, audio.TargetSampleRate); err != nil {
		return err
	}

	metrics.RecordComplete("single")
	stream.Complete("single", []string{vocalsPath, instrPath})
	return nil
}

func runSeparateMulti(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("separate-multi", flag.ExitOnError)
	input := fs.String("input", "", "input audio file")
	outDir := fs.String("output-dir", "./output", "output directory")
	configDir := fs.String("config-dir", "", "config directory (default ~/.config/stemsepctl)")
	modelSpecs := fs.String("models", "", "comma-separated model specs: nfft:dimf:dimtexp:outputkind[:backend[:gain]]")
	marginSamples := fs.Int("margin-samples", 44100, "margin_samples")
	chunkSeconds := fs.Int("chunk-seconds", 0, "chunk_seconds (0 = whole file)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address (empty = disabled)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *modelSpecs == "" {
		return fmt.Errorf("%w: -input and -models are required", errs.Configuration)
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	*outDir = resolveOutputDir(*outDir, cfg)
	if cfg.EnableGPU {
		log.Printf("enable_gpu requested but no GPU backend is wired; each model spec's own backend applies")
	}

	metrics := maybeServeMetrics(*metricsAddr)
	stream := progress.NewStream(os.Stdout)

	var singles []*separator.Single
	for _, spec := range strings.Split(*modelSpecs, ",") {
		single, err := parseModelSpec(spec, *marginSamples)
		if err != nil {
			stream.Error("multi", "configuration error", err.Error())
			return err
		}
		singles = append(singles, single)
	}

	multi, err := separator.NewMulti(singles, *chunkSeconds*audio.TargetSampleRate, *marginSamples)
	if err != nil {
		stream.Error("multi", "configuration error", err.Error())
		return err
	}

	mix, err := decodeFull(*input)
	if err != nil {
		stream.Error("multi", "resource error", err.Error())
		return err
	}

	metrics.RecordStart()
	stream.Started("multi")

	total := len(singles)
	vocals, instrumental, err := multi.Separate(mix, func(ratio float64) {
		metrics.RecordChunk("multi", total, ratio)
		stream.Progress("multi", int(ratio*float64(total)), total, ratio)
	})
	if err != nil {
		metrics.RecordError("multi", "runtime error")
		stream.Error("multi", "runtime error", err.Error())
		return err
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	needed := 2 * audio.EstimateWAVBytes(len(vocals.Left), 2)
	if err := audio.CheckFreeSpace(*outDir, needed); err != nil {
		stream.Error("multi", "resource error", err.Error())
		return err
	}
	vocalsPath := filepath.Join(*outDir, "vocals.wav")
	instrPath := filepath.Join(*outDir, "instrumental.wav")
	if err := wav.WriteStereo(vocalsPath, vocals.Left, vocals.Right, audio.TargetSampleRate); err != nil {
		return err
	}
	if err := wav.WriteStereo(instrPath, instrumental.Left, instrumental.Right, audio.TargetSampleRate); err != nil {
		return err
	}

	metrics.RecordComplete("multi")
	stream.Complete("multi", []string{vocalsPath, instrPath})
	return nil
}

// parseModelSpec parses one "nfft:dimf:dimtexp:outputkind[:backend[:gain]]"
// entry from -models into a ready *separator.Single.
func parseModelSpec(spec string, marginSamples int) (*separator.Single, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: model spec %q must have at least 4 fields", errs.Configuration, spec)
	}
	nFFT, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: n_fft %q: %v", errs.Configuration, parts[0], err)
	}
	dimF, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: dim_f %q: %v", errs.Configuration, parts[1], err)
	}
	dimTExp, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: dim_t_exp %q: %v", errs.Configuration, parts[2], err)
	}
	kind, err := parseOutputKind(parts[3])
	if err != nil {
		return nil, err
	}

	backendName := "identity"
	if len(parts) > 4 {
		backendName = parts[4]
	}
	gain := 1.0
	if len(parts) > 5 {
		gain, err = strconv.ParseFloat(parts[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gain %q: %v", errs.Configuration, parts[5], err)
		}
	}
	backend, err := loadBackend(backendName, gain)
	if err != nil {
		return nil, err
	}

	sess, err := model.NewSession(model.Config{
		Path: spec, NFFT: nFFT, Hop: 1024, DimF: dimF, DimTExp: dimTExp, Output: kind,
	}, backend)
	if err != nil {
		return nil, err
	}

	return separator.NewSingle(sess, 0, marginSamples, false)
}

func runSeparateHybrid(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("separate-hybrid", flag.ExitOnError)
	input := fs.String("input", "", "input audio file")
	outDir := fs.String("output-dir", "./output", "output directory")
	chunkSeconds := fs.Float64("chunk-seconds", 10, "hybrid_chunk_seconds")
	marginSeconds := fs.Float64("margin-seconds", 0.5, "hybrid_margin_seconds")
	crossfadeSeconds := fs.Float64("crossfade-seconds", 0.05, "hybrid_crossfade_seconds")
	stems := fs.String("target-stems", "all", "comma-separated subset of drums,bass,other,vocals or \"all\"")
	backendName := fs.String("backend", "identity", "inference backend: identity|scale")
	gain := fs.Float64("gain", 1.0, "gain for the scale backend")
	configDir := fs.String("config-dir", "", "config directory (default ~/.config/stemsepctl)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address (empty = disabled)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("%w: -input is required", errs.Configuration)
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	*outDir = resolveOutputDir(*outDir, cfg)
	if cfg.EnableGPU {
		log.Printf("enable_gpu requested but no GPU backend is wired; falling back to %s", *backendName)
	}

	targetStems, err := parseStemFlags(*stems)
	if err != nil {
		return err
	}

	metrics := maybeServeMetrics(*metricsAddr)
	stream := progress.NewStream(os.Stdout)

	backend, err := loadBackend(*backendName, *gain)
	if err != nil {
		return err
	}

	sr := float64(audio.TargetSampleRate)
	validSamples := int(*chunkSeconds * sr)
	marginSamples := int(*marginSeconds * sr)
	crossfadeSamples := int(*crossfadeSeconds * sr)

	sess, err := model.NewSession(model.Config{
		Path: *input, NFFT: 4096, Hop: 1024, DimF: 2048, DimTExp: 8, Output: model.OutputHybridDual,
	}, backend)
	if err != nil {
		return err
	}
	defer sess.Close()

	hybrid, err := separator.NewHybrid(sess, validSamples, marginSamples, crossfadeSamples, targetStems)
	if err != nil {
		stream.Error("hybrid", "configuration error", err.Error())
		return err
	}

	mix, err := decodeFull(*input)
	if err != nil {
		stream.Error("hybrid", "resource error", err.Error())
		return err
	}

	metrics.RecordStart()
	stream.Started("hybrid")

	total := 1
	out, err := hybrid.Separate(mix, func(ratio float64) {
		metrics.RecordChunk("hybrid", total, ratio)
		stream.Progress("hybrid", int(ratio*float64(total)), total, ratio)
	})
	if err != nil {
		metrics.RecordError("hybrid", "runtime error")
		stream.Error("hybrid", "runtime error", err.Error())
		return err
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var needed uint64
	for _, stem := range out {
		needed += audio.EstimateWAVBytes(len(stem.Left), 2)
	}
	if err := audio.CheckFreeSpace(*outDir, needed); err != nil {
		stream.Error("hybrid", "resource error", err.Error())
		return err
	}
	var paths []string
	for kind, stem := range out {
		path := filepath.Join(*outDir, kind.String()+".wav")
		if err := wav.WriteStereo(path, stem.Left, stem.Right, audio.TargetSampleRate); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	metrics.RecordComplete("hybrid")
	stream.Complete("hybrid", paths)
	return nil
}

func parseStemFlags(s string) (separator.StemFlag, error) {
	if strings.EqualFold(s, "all") {
		return separator.FlagAll, nil
	}
	var flags separator.StemFlag
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "drums":
			flags |= separator.FlagDrums
		case "bass":
			flags |= separator.FlagBass
		case "other":
			flags |= separator.FlagOther
		case "vocals":
			flags |= separator.FlagVocals
		default:
			return 0, fmt.Errorf("%w: unknown stem %q", errs.Configuration, name)
		}
	}
	return flags, nil
}

// maybeServeMetrics starts a background Prometheus /metrics HTTP server
// when addr is non-empty, returning the Metrics collector either way (a
// nil collector is always a valid no-op receiver).
func maybeServeMetrics(addr string) *progress.Metrics {
	if addr == "" {
		return nil
	}
	m := progress.NewMetrics()
	serveMetricsHTTP(addr)
	return m
}
