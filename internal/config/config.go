// Package config handles separation and effects configuration file
// management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/austinkregel/stemsep/internal/separator"
)

// Config is the top-level configuration document persisted to disk.
type Config struct {
	// OutputDirectory is created if missing before the first write.
	OutputDirectory string `json:"outputDirectory"`

	// EnableGPU requests GPU inference. No backend reads it: the CLI only
	// logs the request and runs the CPU stub backends.
	EnableGPU bool `json:"enableGpu"`

	Separator SeparatorOptions `json:"separator"`
	Effects   EffectsOptions   `json:"effects"`
}

// SeparatorOptions holds the options recognized by SeparateSingle,
// SeparateMulti, and SeparateHybrid.
type SeparatorOptions struct {
	MarginSamples              int  `json:"marginSamples"`
	ChunkSeconds               int  `json:"chunkSeconds"` // 0 => whole file
	DisableNoiseReduction      bool `json:"disableNoiseReduction"`
	SaveAllIntermediateResults bool `json:"saveAllIntermediateResults"`

	Models []ModelOptions `json:"models"`

	HybridChunkSeconds     float64            `json:"hybridChunkSeconds"`
	HybridMarginSeconds    float64            `json:"hybridMarginSeconds"`
	HybridCrossfadeSeconds float64            `json:"hybridCrossfadeSeconds"`
	HybridTargetStems      separator.StemFlag `json:"hybridTargetStems"`
}

// ModelOptions configures one model slot in a single- or multi-model
// separation job.
type ModelOptions struct {
	Path       string `json:"path"`
	NFFT       int    `json:"nFft"`
	DimTExp    int    `json:"dimTExp"`
	DimF       int    `json:"dimF"`
	OutputKind string `json:"outputKind"` // "Vocals" | "Instrumental"
}

// EffectsOptions remembers the last-selected preset name per effect;
// the numeric parameters themselves live in effects/preset.
type EffectsOptions struct {
	CompressorPreset string `json:"compressorPreset,omitempty"`
	DelayPreset      string `json:"delayPreset,omitempty"`
	ReverbPreset     string `json:"reverbPreset,omitempty"`
}

// DefaultConfig returns the configuration's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDirectory: "./output",
		EnableGPU:       false,
		Separator: SeparatorOptions{
			MarginSamples: 44100,
			ChunkSeconds:  0,
			Models: []ModelOptions{
				{NFFT: 6144, DimTExp: 8, DimF: 2048, OutputKind: "Instrumental"},
			},
			HybridChunkSeconds:     10,
			HybridMarginSeconds:    0.5,
			HybridCrossfadeSeconds: 0.05,
			HybridTargetStems:      separator.FlagAll,
		},
	}
}

// Manager handles loading and saving the configuration document.
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager rooted at configDir.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, writing out defaults if no
// file exists yet.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	m.config = config
	return nil
}

// Save writes the configuration to disk as indented JSON.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// GetPath returns the config file path.
func (m *Manager) GetPath() string {
	return m.configPath
}

// Update replaces the configuration and saves it.
func (m *Manager) Update(config *Config) error {
	m.config = config
	return m.Save()
}

// AddModel appends a model slot to the separator options and saves.
func (m *Manager) AddModel(opts ModelOptions) error {
	m.config.Separator.Models = append(m.config.Separator.Models, opts)
	return m.Save()
}
