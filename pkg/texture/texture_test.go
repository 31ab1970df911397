package texture

import (
	"image"
	"strings"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestNewPaperTexture(t *testing.T) {
	tex, err := NewPaperTexture("blank-1", testImage(10, 12), nil, OriginAssetFull)
	if err != nil {
		t.Fatalf("NewPaperTexture() error = %v", err)
	}
	if tex.TemplateID() != "blank-1" {
		t.Errorf("TemplateID() = %q, want blank-1", tex.TemplateID())
	}
	if tex.Origin() != OriginAssetFull {
		t.Errorf("Origin() = %q, want %q", tex.Origin(), OriginAssetFull)
	}
	if tex.Placeholder() {
		t.Error("Placeholder() = true for asset texture")
	}
	if tex.Processed() {
		t.Error("Processed() = true for fresh texture")
	}
	if !tex.Loaded() {
		t.Error("Loaded() = false for a constructed texture")
	}
	if got := tex.Bounds(); got.Dx() != 10 || got.Dy() != 12 {
		t.Errorf("Bounds() = %v, want 10x12", got)
	}
}

func TestNewPaperTexture_NilBase(t *testing.T) {
	if _, err := NewPaperTexture("blank-1", nil, nil, OriginAssetFull); err == nil {
		t.Error("NewPaperTexture(nil base) should error")
	}
}

func TestNewPaperTexture_EmptyBase(t *testing.T) {
	if _, err := NewPaperTexture("blank-1", testImage(0, 0), nil, OriginAssetFull); err == nil {
		t.Error("NewPaperTexture(empty base) should error")
	}
}

func TestPaperTextureSizeBytes(t *testing.T) {
	tex, err := NewPaperTexture("blank-1", testImage(10, 10), nil, OriginAssetFull)
	if err != nil {
		t.Fatalf("NewPaperTexture() error = %v", err)
	}
	if got := tex.SizeBytes(); got != 10*10*4 {
		t.Errorf("SizeBytes() = %d, want %d", got, 10*10*4)
	}

	withOverlay, err := NewPaperTexture("lined-college", testImage(10, 10), testImage(10, 10), OriginAssetFull)
	if err != nil {
		t.Fatalf("NewPaperTexture() error = %v", err)
	}
	if got := withOverlay.SizeBytes(); got != 2*10*10*4 {
		t.Errorf("SizeBytes() with overlay = %d, want %d", got, 2*10*10*4)
	}
}

func TestProcessingOptionsKey(t *testing.T) {
	tests := []struct {
		name string
		opts ProcessingOptions
		want string
	}{
		{"zero value", ProcessingOptions{}, "raw"},
		{"scale one is raw", ProcessingOptions{Scale: 1}, "raw"},
		{"scaled", ProcessingOptions{Scale: 0.5, Quality: 0.8}, "s0.500-q0.800-m0-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessingOptionsKey_FilterOrderNormalized(t *testing.T) {
	a := ProcessingOptions{Filters: []string{"grayscale", "sharpen"}}
	b := ProcessingOptions{Filters: []string{"sharpen", "grayscale"}}
	if a.Key() != b.Key() {
		t.Errorf("equivalent filter sets should share a key: %q != %q", a.Key(), b.Key())
	}
}

func TestProcessingOptionsKey_Distinct(t *testing.T) {
	keys := map[string]ProcessingOptions{}
	for _, opts := range []ProcessingOptions{
		{},
		{Scale: 0.5},
		{Scale: 0.5, Quality: 0.3},
		{MaxDimension: 1024},
		{Filters: []string{"grayscale"}},
	} {
		k := opts.Key()
		if prev, dup := keys[k]; dup {
			t.Errorf("options %+v and %+v share key %q", prev, opts, k)
		}
		keys[k] = opts
	}
}

func TestCacheKey_TemplatePrefix(t *testing.T) {
	key := CacheKey("lined-college", ProcessingOptions{Scale: 0.5})
	if !strings.HasPrefix(key, "lined-college:") {
		t.Errorf("CacheKey() = %q, want lined-college: prefix", key)
	}

	other := CacheKey("lined-college", ProcessingOptions{})
	if key == other {
		t.Error("different options should produce different cache keys")
	}
}

func TestTextureSize(t *testing.T) {
	if got := TextureSize(nil); got != 0 {
		t.Errorf("TextureSize(nil) = %d, want 0", got)
	}
	tex, _ := NewPaperTexture("blank-1", testImage(4, 4), nil, OriginAssetFull)
	if got := TextureSize(tex); got != tex.SizeBytes() {
		t.Errorf("TextureSize() = %d, want %d", got, tex.SizeBytes())
	}
}
