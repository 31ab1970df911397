package scribe

import (
	"testing"

	"github.com/th3400l/scrawl/pkg/errors"
)

func TestValidateAndSetDefaultsFillsZeroFields(t *testing.T) {
	cfg := RenderingConfig{Text: "hi"}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if cfg.TemplateID != defaultTemplateID {
		t.Errorf("TemplateID = %q, want %q", cfg.TemplateID, defaultTemplateID)
	}
	if cfg.CanvasWidth != defaultCanvasWidth || cfg.CanvasHeight != defaultCanvasHeight {
		t.Errorf("canvas = %dx%d, want %dx%d",
			cfg.CanvasWidth, cfg.CanvasHeight, defaultCanvasWidth, defaultCanvasHeight)
	}
	if cfg.InkProfile != defaultInkProfile {
		t.Errorf("InkProfile = %q, want %q", cfg.InkProfile, defaultInkProfile)
	}
	if cfg.FontSize != defaultFontSize || cfg.LineSpacing != defaultLineSpacing {
		t.Errorf("type = %.0fpt/%.1f, want %d/%v", cfg.FontSize, cfg.LineSpacing, defaultFontSize, defaultLineSpacing)
	}
	if cfg.Margins.zero() {
		t.Error("margins should default, not stay zero")
	}
	// Hand style is not defaulted: zero jitter is a steady hand.
	if cfg.BaselineJitter != 0 || cfg.SlantJitter != 0 {
		t.Error("jitter amplitudes must survive as zero")
	}
}

func TestValidateAndSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := RenderingConfig{
		Text:         "hi",
		TemplateID:   "dotted-grid",
		CanvasWidth:  1024,
		CanvasHeight: 768,
		InkProfile:   "red",
		FontSize:     32,
		LineSpacing:  2,
		Margins:      Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if cfg.TemplateID != "dotted-grid" || cfg.CanvasWidth != 1024 || cfg.InkProfile != "red" {
		t.Error("explicit values must not be overwritten")
	}
	if cfg.Margins.Top != 10 {
		t.Errorf("Margins.Top = %.0f, want 10", cfg.Margins.Top)
	}
}

func TestValidateAndSetDefaultsRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RenderingConfig)
	}{
		{"canvas too small", func(c *RenderingConfig) { c.CanvasWidth = 32 }},
		{"canvas too large", func(c *RenderingConfig) { c.CanvasHeight = 9000 }},
		{"quality above one", func(c *RenderingConfig) { c.Quality = 1.5 }},
		{"quality negative", func(c *RenderingConfig) { c.Quality = -0.1 }},
		{"font size tiny", func(c *RenderingConfig) { c.FontSize = 2 }},
		{"font size huge", func(c *RenderingConfig) { c.FontSize = 400 }},
		{"line spacing cramped", func(c *RenderingConfig) { c.LineSpacing = 0.2 }},
		{"line spacing vast", func(c *RenderingConfig) { c.LineSpacing = 8 }},
		{"negative margin", func(c *RenderingConfig) { c.Margins = Margins{Top: -1, Right: 1, Bottom: 1, Left: 1} }},
		{"margins swallow width", func(c *RenderingConfig) {
			c.CanvasWidth = 200
			c.Margins = Margins{Top: 10, Right: 120, Bottom: 10, Left: 120}
		}},
		{"margins swallow height", func(c *RenderingConfig) {
			c.CanvasHeight = 200
			c.Margins = Margins{Top: 150, Right: 10, Bottom: 150, Left: 10}
		}},
		{"baseline jitter wild", func(c *RenderingConfig) { c.BaselineJitter = 40 }},
		{"letter spacing jitter wild", func(c *RenderingConfig) { c.LetterSpacingJitter = 20 }},
		{"slant jitter wild", func(c *RenderingConfig) { c.SlantJitter = 0.7 }},
		{"ink flow above one", func(c *RenderingConfig) { c.InkFlowVariation = 1.2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Text = "hi"
			tc.mutate(&cfg)
			err := cfg.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestHashStable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text = "hello"
	cfg.Seed = 7

	first := cfg.Hash()
	if len(first) != 16 {
		t.Fatalf("hash %q is not 16 hex chars", first)
	}
	if cfg.Hash() != first {
		t.Error("hash must be stable for an unchanged config")
	}
}

func TestHashChangesWithEveryField(t *testing.T) {
	base := DefaultConfig()
	base.Text = "hello"
	baseHash := base.Hash()

	mutations := []struct {
		name   string
		mutate func(*RenderingConfig)
	}{
		{"text", func(c *RenderingConfig) { c.Text = "hello." }},
		{"template", func(c *RenderingConfig) { c.TemplateID = "dotted-grid" }},
		{"canvas", func(c *RenderingConfig) { c.CanvasWidth = 801 }},
		{"ink", func(c *RenderingConfig) { c.InkProfile = "red" }},
		{"font", func(c *RenderingConfig) { c.Font = "Caveat" }},
		{"quality", func(c *RenderingConfig) { c.Quality = 0.5 }},
		{"font size", func(c *RenderingConfig) { c.FontSize = 25 }},
		{"line spacing", func(c *RenderingConfig) { c.LineSpacing = 1.6 }},
		{"margins", func(c *RenderingConfig) { c.Margins.Left = 73 }},
		{"baseline jitter", func(c *RenderingConfig) { c.BaselineJitter = 2 }},
		{"seed", func(c *RenderingConfig) { c.Seed = 1 }},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			cfg := base
			m.mutate(&cfg)
			if cfg.Hash() == baseHash {
				t.Errorf("changing %s did not change the hash", m.name)
			}
		})
	}
}
