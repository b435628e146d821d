package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"lexchunk/internal/segment"
)

// Config holds all service settings, populated from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Auth
	APIKey string `env:"LEXCHUNK_API_KEY"`

	// Embedding backend
	OllamaURL  string `env:"OLLAMA_URL" envDefault:"http://localhost:11434/api"`
	EmbedModel string `env:"EMBED_MODEL" envDefault:"nomic-embed-text"`

	// Vector store; empty keeps everything in memory.
	DBPath string `env:"DB_PATH"`

	// Worker pool
	WorkerCount  int `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize int `env:"MAX_QUEUE_SIZE" envDefault:"100"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// Segmentation defaults; per-document overrides come in with the upload.
	BucketCount         int     `env:"BUCKET_COUNT" envDefault:"901"`
	LineLengthLimit     float64 `env:"LINE_LENGTH_LIMIT" envDefault:"0.6"`
	HeadingCenter       float64 `env:"HEADING_CENTER" envDefault:"0.55"`
	HeadingCenterRadius float64 `env:"HEADING_CENTER_RADIUS" envDefault:"0.15"`
	SmallPrintFloor     float64 `env:"SMALL_PRINT_FLOOR" envDefault:"8.4"`
	MarkerFlushLen      int     `env:"MARKER_FLUSH_LEN" envDefault:"1400"`
	HeadingFlushLen     int     `env:"HEADING_FLUSH_LEN" envDefault:"500"`
	HardFlushLen        int     `env:"HARD_FLUSH_LEN" envDefault:"5000"`
	FooterPattern       string  `env:"FOOTER_PATTERN"`
	ParagraphPattern    string  `env:"PARAGRAPH_PATTERN"`
	TopMargin           float64 `env:"TOP_MARGIN"`
	BottomMargin        float64 `env:"BOTTOM_MARGIN"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the engine would later choke on. Patterns are
// compiled eagerly so a bad deployment fails at startup, not per document.
func (c Config) Validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("MAX_QUEUE_SIZE must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.JobTTL <= 0 {
		return fmt.Errorf("JOB_TTL must be positive")
	}
	if _, err := c.SegmentOptions(); err != nil {
		return err
	}
	return nil
}

// SegmentOptions builds the engine options carried by every job unless the
// upload overrides them.
func (c Config) SegmentOptions() (segment.Options, error) {
	footer, err := segment.CompilePattern(c.FooterPattern)
	if err != nil {
		return segment.Options{}, fmt.Errorf("FOOTER_PATTERN: %w", err)
	}
	par, err := segment.CompilePattern(c.ParagraphPattern)
	if err != nil {
		return segment.Options{}, fmt.Errorf("PARAGRAPH_PATTERN: %w", err)
	}
	opts := segment.Options{
		FooterPattern:       footer,
		ParagraphPattern:    par,
		TopMargin:           c.TopMargin,
		BottomMargin:        c.BottomMargin,
		BucketCount:         c.BucketCount,
		LineLengthLimit:     c.LineLengthLimit,
		HeadingCenter:       c.HeadingCenter,
		HeadingCenterRadius: c.HeadingCenterRadius,
		SmallPrintFloor:     c.SmallPrintFloor,
		MarkerFlushLen:      c.MarkerFlushLen,
		HeadingFlushLen:     c.HeadingFlushLen,
		HardFlushLen:        c.HardFlushLen,
	}
	if err := opts.Validate(); err != nil {
		return segment.Options{}, err
	}
	return opts, nil
}
