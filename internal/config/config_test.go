package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8090" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.BucketCount != 901 {
		t.Errorf("bucket count: got %d", cfg.BucketCount)
	}
	if cfg.SmallPrintFloor != 8.4 {
		t.Errorf("small print floor: got %g", cfg.SmallPrintFloor)
	}
	if cfg.HeadingFlushLen != 500 || cfg.MarkerFlushLen != 1400 || cfg.HardFlushLen != 5000 {
		t.Errorf("flush lengths: got %d/%d/%d", cfg.HeadingFlushLen, cfg.MarkerFlushLen, cfg.HardFlushLen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "7")
	t.Setenv("FOOTER_PATTERN", `p\. (\d+)`)
	t.Setenv("TOP_MARGIN", "780.5")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorkerCount != 7 {
		t.Errorf("worker count: got %d", cfg.WorkerCount)
	}
	if cfg.TopMargin != 780.5 {
		t.Errorf("top margin: got %g", cfg.TopMargin)
	}
	opts, err := cfg.SegmentOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.FooterPattern == nil || !opts.FooterPattern.MatchString("p. 7") {
		t.Error("footer pattern not carried into options")
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() Config {
		cfg, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad footer pattern", func(c *Config) { c.FooterPattern = `(\d+` }, "FOOTER_PATTERN"},
		{"bad paragraph pattern", func(c *Config) { c.ParagraphPattern = `[z-a]` }, "PARAGRAPH_PATTERN"},
		{"even bucket count", func(c *Config) { c.BucketCount = 900 }, "odd"},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }, "WORKER_COUNT"},
		{"zero queue", func(c *Config) { c.MaxQueueSize = 0 }, "MAX_QUEUE_SIZE"},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, "MAX_UPLOAD_BYTES"},
		{"zero ttl", func(c *Config) { c.JobTTL = 0 }, "JOB_TTL"},
		{"negative margin", func(c *Config) { c.BottomMargin = -2 }, "bottom margin"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := base()
			c.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
			}
		})
	}
}
