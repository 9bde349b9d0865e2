package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/aschmelyun/tscribe/internal/export"
	"github.com/aschmelyun/tscribe/internal/logger"
	"github.com/aschmelyun/tscribe/internal/orchestrator"
)

type Config struct {
	Log           Log           `yaml:"log"`
	Transcription Transcription `yaml:"transcription"`
	Export        Export        `yaml:"export"`
	Input         Input         `yaml:"input"`
}

type Log struct {
	Level string `yaml:"level" env:"TSCRIBE_LOG_LEVEL" env-default:"info" env-description:"Log level: debug, info, warn or error"`
	JSON  bool   `yaml:"json" env:"TSCRIBE_LOG_JSON" env-default:"false" env-description:"Write logs as JSON"`
	File  string `yaml:"file" env:"TSCRIBE_LOG_FILE" env-default:"tscribe.log" env-description:"Log file used while the terminal UI is running"`
}

type Transcription struct {
	SimulatedDelay     time.Duration `yaml:"simulated_delay" env:"TSCRIBE_SIMULATED_DELAY" env-default:"3s" env-description:"How long the simulated transcription takes"`
	Language           string        `yaml:"language" env:"TSCRIBE_LANGUAGE" env-default:"auto" env-description:"Default language: auto, tr, en, de, fr or es"`
	RemoveFiller       bool          `yaml:"remove_filler" env:"TSCRIBE_REMOVE_FILLER" env-default:"true" env-description:"Remove filler words by default"`
	SpeakerDiarization bool          `yaml:"speaker_diarization" env:"TSCRIBE_SPEAKER_DIARIZATION" env-default:"true" env-description:"Separate speakers by default"`
	MaxSegmentLength   int           `yaml:"max_segment_length" env:"TSCRIBE_MAX_SEGMENT_LENGTH" env-default:"5" env-description:"Default maximum segment length in minutes: 2, 5, 10 or 15"`
}

type Export struct {
	Dir    string `yaml:"dir" env:"TSCRIBE_EXPORT_DIR" env-default:"." env-description:"Directory downloads are written to"`
	Format string `yaml:"format" env:"TSCRIBE_DEFAULT_FORMAT" env-default:"txt" env-description:"Default download format: txt or json"`
}

type Input struct {
	MaxFileMB      int64 `yaml:"max_file_mb" env:"TSCRIBE_MAX_FILE_MB" env-default:"100" env-description:"Advisory size limit for audio files, in MB"`
	EnforceMaxSize bool  `yaml:"enforce_max_size" env:"TSCRIBE_ENFORCE_MAX_SIZE" env-default:"false" env-description:"Reject files over the size limit"`
}

// Load reads the optional .env files, then path (YAML, when set), then the
// environment. Variables already set in the environment win over .env files.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path, ".env")
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func loadDotEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Transcription.SimulatedDelay < 0 {
		errs = append(errs, fmt.Errorf("simulated delay must not be negative, got %s", c.Transcription.SimulatedDelay))
	}
	if err := c.Options().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Input.MaxFileMB <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be positive, got %d MB", c.Input.MaxFileMB))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) Options() orchestrator.Options {
	return orchestrator.Options{
		Language:           c.Transcription.Language,
		RemoveFiller:       c.Transcription.RemoveFiller,
		SpeakerDiarization: c.Transcription.SpeakerDiarization,
		MaxSegmentLength:   c.Transcription.MaxSegmentLength,
	}
}

// ExportFormat returns the configured default format. Validate has already
// rejected unknown values.
func (c *Config) ExportFormat() export.Format {
	f, _ := export.ParseFormat(c.Export.Format)
	return f
}

func (c *Config) LogLevel() slog.Level {
	l, _ := logger.ParseLevel(c.Log.Level)
	return l
}

func (c *Config) MaxFileBytes() int64 {
	return c.Input.MaxFileMB * 1024 * 1024
}

// Description lists every environment variable with its default.
func Description() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
