// Package config handles ledlink configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/d2verb/ledlink/internal/logging"
	"github.com/d2verb/ledlink/internal/pathutil"
)

const (
	DefaultConfigFile  = "ledlink.yaml"
	DefaultDevice      = "/dev/ttyS0"
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 5 * time.Second
	DefaultChunkSize   = 1024
	DefaultArtifactExt = ".bin"
	DefaultPixelSize   = 4
)

// Rotation holds log rotation limits shared by both log files.
type Rotation struct {
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// Config is the endpoint configuration. Directory and file paths are
// resolved against the config file's directory; executables are left as
// written and resolve against WorkDir when they are run.
type Config struct {
	Device      string        `yaml:"device"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	ChunkSize   int           `yaml:"chunk_size"`

	ArtifactDir string `yaml:"artifact_dir"`
	ArtifactExt string `yaml:"artifact_ext"`
	PlaylistDir string `yaml:"playlist_dir"`
	WorkDir     string `yaml:"work_dir"`

	LogFile   string   `yaml:"log_file"`
	PlayerLog string   `yaml:"player_log"`
	PIDFile   string   `yaml:"pid_file"`
	Rotation  Rotation `yaml:"log_rotation"`

	LEDPlayer      string `yaml:"led_player"`
	RGBSetter      string `yaml:"rgb_setter"`
	PlaylistPlayer string `yaml:"playlist_player"`
	// PixelSize is the trailing argument of the LED and playlist players:
	// the side length of the LED grid.
	PixelSize int `yaml:"pixel_size"`
}

// DefaultConfig returns the layout of a stock deployment, relative to the
// working directory.
func DefaultConfig() *Config {
	rot := logging.DefaultConfig("")
	return &Config{
		Device:         DefaultDevice,
		BaudRate:       DefaultBaudRate,
		ReadTimeout:    DefaultReadTimeout,
		ChunkSize:      DefaultChunkSize,
		ArtifactDir:    "./bin_files",
		ArtifactExt:    DefaultArtifactExt,
		PlaylistDir:    "./jsonFile",
		WorkDir:        "./",
		LogFile:        "./transfer_log.txt",
		PlayerLog:      "./player.log",
		PIDFile:        "./ledlink.pid",
		LEDPlayer:      "./test_files/rpi_test",
		RGBSetter:      "./rgb_test",
		PlaylistPlayer: "./rpi_play",
		PixelSize:      DefaultPixelSize,
		Rotation: Rotation{
			MaxSizeMB:  rot.MaxSizeMB,
			MaxBackups: rot.MaxBackups,
			MaxAgeDays: rot.MaxAgeDays,
			Compress:   rot.Compress,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error: the defaults are used, resolved against the file's directory.
// Resolved paths are absolute, since the players run from WorkDir.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve config %s: %w", path, err)
	}
	if err := cfg.resolve(baseDir); err != nil {
		return nil, fmt.Errorf("resolve config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) resolve(baseDir string) error {
	return pathutil.ResolveAll(baseDir,
		&c.ArtifactDir,
		&c.PlaylistDir,
		&c.WorkDir,
		&c.LogFile,
		&c.PlayerLog,
		&c.PIDFile,
	)
}

// Validate checks values that have no usable zero.
func (c *Config) Validate() error {
	switch {
	case c.Device == "":
		return errors.New("device is required")
	case c.BaudRate <= 0:
		return fmt.Errorf("baud_rate must be positive, got %d", c.BaudRate)
	case c.ReadTimeout < 0:
		return fmt.Errorf("read_timeout must not be negative, got %s", c.ReadTimeout)
	case c.ChunkSize <= 0:
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	case c.ArtifactExt == "":
		return errors.New("artifact_ext is required")
	case c.PixelSize <= 0:
		return fmt.Errorf("pixel_size must be positive, got %d", c.PixelSize)
	case c.LEDPlayer == "" || c.RGBSetter == "" || c.PlaylistPlayer == "":
		return errors.New("led_player, rgb_setter and playlist_player are required")
	}
	return nil
}

// LogConfig returns the rotation settings for the log file at path.
func (c *Config) LogConfig(path string) logging.Config {
	return logging.Config{
		Path:       path,
		MaxSizeMB:  c.Rotation.MaxSizeMB,
		MaxBackups: c.Rotation.MaxBackups,
		MaxAgeDays: c.Rotation.MaxAgeDays,
		Compress:   c.Rotation.Compress,
	}
}

// EnsureDirectories creates the required directories if they don't exist.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.ArtifactDir,
		c.PlaylistDir,
		filepath.Dir(c.LogFile),
		filepath.Dir(c.PlayerLog),
		filepath.Dir(c.PIDFile),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
