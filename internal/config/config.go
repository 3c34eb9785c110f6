package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/logger"
	"github.com/ironsheep/board-vector/internal/pipeline"
)

// EnvAssetDir overrides AssetDir when set.
const EnvAssetDir = "BOARD_VECTOR_ASSET_DIR"

// Config holds runtime configuration for the CLI, the capture window and the
// pipeline. Fields are loaded from a JSON file and then overridden by the
// environment and command-line flags.
type Config struct {
	AssetDir      string `json:"asset_dir"`
	ExperimentDir string `json:"experiment_dir"`
	LogLevel      string `json:"log_level"`

	// Capture window
	DisplayMaxWidth  int    `json:"display_max_width"`
	DisplayMaxHeight int    `json:"display_max_height"`
	PollIntervalMS   int    `json:"poll_interval_ms"`
	CommitKey        string `json:"commit_key"`
	LineColor        string `json:"line_color"`
	MarkerRadius     int    `json:"marker_radius"`

	Pipeline pipeline.Params `json:"pipeline"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		AssetDir:         "./assets",
		ExperimentDir:    "./experiment",
		LogLevel:         "info",
		DisplayMaxWidth:  1000,
		DisplayMaxHeight: 1000,
		PollIntervalMS:   10,
		CommitKey:        "enter",
		LineColor:        "#00c853",
		MarkerRadius:     4,
		Pipeline:         pipeline.DefaultParams(),
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if strings.TrimSpace(c.AssetDir) == "" {
		c.AssetDir = def.AssetDir
	}
	if strings.TrimSpace(c.ExperimentDir) == "" {
		c.ExperimentDir = def.ExperimentDir
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.DisplayMaxWidth < 100 {
		c.DisplayMaxWidth = def.DisplayMaxWidth
	}
	if c.DisplayMaxHeight < 100 {
		c.DisplayMaxHeight = def.DisplayMaxHeight
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = def.PollIntervalMS
	}
	if c.PollIntervalMS > 1000 {
		c.PollIntervalMS = 1000
	}
	if _, err := events.ParseKey(c.CommitKey); err != nil {
		c.CommitKey = def.CommitKey
	}
	if _, err := imaging.ParseColor(c.LineColor); err != nil {
		c.LineColor = def.LineColor
	}
	if c.MarkerRadius < 0 || c.MarkerRadius > 50 {
		c.MarkerRadius = def.MarkerRadius
	}
	return c.Pipeline.Validate()
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(logger.EnvLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAssetDir)); v != "" {
		c.AssetDir = v
	}
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig(). On JSON error it returns
// defaults with the error. Pipeline parameters that fail validation are an
// error too, since silently replacing them would change the output.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, apperrors.IOFailure("failed to open config "+path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), apperrors.IOFailure("failed to parse config "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.IOFailure("failed to create config directory", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.IOFailure("failed to create config "+path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return apperrors.IOFailure("failed to write config "+path, err)
	}
	return nil
}

// CommitKeyCode returns the parsed commit key. Validate guarantees it parses.
func (c *Config) CommitKeyCode() events.KeyCode {
	k, err := events.ParseKey(c.CommitKey)
	if err != nil {
		return events.KeyEnter
	}
	return k
}
