package segment

import (
	"strings"
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"defaults", func(o *Options) {}, ""},
		{"even buckets", func(o *Options) { o.BucketCount = 900 }, "odd"},
		{"zero buckets", func(o *Options) { o.BucketCount = -1 }, "positive"},
		{"negative top margin", func(o *Options) { o.TopMargin = -1 }, "top margin"},
		{"negative bottom margin", func(o *Options) { o.BottomMargin = -1 }, "bottom margin"},
		{"line length limit too high", func(o *Options) { o.LineLengthLimit = 1.5 }, "line length"},
		{"line length limit zero", func(o *Options) { o.LineLengthLimit = -0.1 }, "line length"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := DefaultOptions()
			c.mutate(&opts)
			err := opts.Validate()
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
			}
		})
	}
}

func TestCompilePattern(t *testing.T) {
	re, err := CompilePattern("")
	if err != nil || re != nil {
		t.Errorf("empty pattern: got %v, %v", re, err)
	}

	re, err = CompilePattern(`p\. (\d+)`)
	if err != nil || re == nil {
		t.Fatalf("valid pattern: got %v, %v", re, err)
	}
	if !re.MatchString("p. 42") {
		t.Error("compiled pattern does not match")
	}

	if _, err := CompilePattern(`(\d+`); err == nil {
		t.Error("expected error for unbalanced pattern")
	}
}
