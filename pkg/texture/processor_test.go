package texture

import (
	"image/color"
	"testing"

	"github.com/th3400l/scrawl/pkg/errors"
)

func mustTexture(t *testing.T, w, h int) *PaperTexture {
	t.Helper()
	img := testImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	tex, err := NewPaperTexture("blank-1", img, nil, OriginAssetFull)
	if err != nil {
		t.Fatalf("NewPaperTexture() error = %v", err)
	}
	return tex
}

func TestProcessor_ZeroOptionsPassthrough(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 20, 20)

	got, err := p.Process(tex, ProcessingOptions{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got != tex {
		t.Error("zero options should return the input texture unchanged")
	}
}

func TestProcessor_Scale(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 40, 20)

	got, err := p.Process(tex, ProcessingOptions{Scale: 0.5, Quality: 1})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if b := got.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("scaled bounds = %v, want 20x10", b)
	}
	if !got.Processed() {
		t.Error("Processed() = false after processing")
	}

	// Input must stay untouched; the cache shares textures.
	if b := tex.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("input bounds changed to %v", b)
	}
}

func TestProcessor_MaxDimension(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 100, 50)

	got, err := p.Process(tex, ProcessingOptions{MaxDimension: 40})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("clamped bounds = %v, want 40x20 (aspect preserved)", b)
	}
}

func TestProcessor_MaxDimensionNoUpscale(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 30, 20)

	got, err := p.Process(tex, ProcessingOptions{MaxDimension: 100, Filters: []string{"grayscale"}})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if b := got.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Errorf("bounds = %v, small images must not be upscaled", b)
	}
}

func TestProcessor_Grayscale(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 8, 8)

	got, err := p.Process(tex, ProcessingOptions{Filters: []string{"grayscale"}})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	c := got.Base().RGBAAt(4, 4)
	if c.R != c.G || c.G != c.B {
		t.Errorf("grayscale pixel = %v, want equal channels", c)
	}
}

func TestProcessor_UnknownFilter(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 8, 8)

	_, err := p.Process(tex, ProcessingOptions{Filters: []string{"sepia-dreams"}})
	if err == nil {
		t.Fatal("Process() should reject unknown filters")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeProcessingFailed {
		t.Errorf("Process() code = %v, want PROCESSING_FAILED", got)
	}
}

func TestProcessor_ScaleCollapse(t *testing.T) {
	p := &Processor{}
	tex := mustTexture(t, 4, 4)

	if _, err := p.Process(tex, ProcessingOptions{Scale: 0.01}); err == nil {
		t.Error("Process() should reject a scale that collapses the image")
	}
}

func TestProcessor_ProcessesOverlay(t *testing.T) {
	p := &Processor{}
	tex, err := NewPaperTexture("lined-college", testImage(40, 40), testImage(40, 40), OriginAssetFull)
	if err != nil {
		t.Fatalf("NewPaperTexture() error = %v", err)
	}

	got, err := p.Process(tex, ProcessingOptions{Scale: 0.5})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got.Overlay() == nil {
		t.Fatal("overlay dropped during processing")
	}
	if b := got.Overlay().Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("overlay bounds = %v, want 20x20", b)
	}
}

func TestNeedsProcessing(t *testing.T) {
	tex := mustTexture(t, 100, 100)

	tests := []struct {
		name string
		opts ProcessingOptions
		want bool
	}{
		{"zero options", ProcessingOptions{}, false},
		{"scale one", ProcessingOptions{Scale: 1}, false},
		{"real scale", ProcessingOptions{Scale: 0.5}, true},
		{"filters", ProcessingOptions{Filters: []string{"grayscale"}}, true},
		{"clamp already satisfied", ProcessingOptions{MaxDimension: 200}, false},
		{"clamp needed", ProcessingOptions{MaxDimension: 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsProcessing(tex, tt.opts); got != tt.want {
				t.Errorf("NeedsProcessing(%+v) = %v, want %v", tt.opts, got, tt.want)
			}
		})
	}

	if NeedsProcessing(nil, ProcessingOptions{Scale: 0.5}) {
		t.Error("NeedsProcessing(nil) = true")
	}
}

func TestResampleFilterSelection(t *testing.T) {
	// Quality bands pick progressively cheaper kernels; support width is
	// a stable proxy for kernel cost.
	high := resampleFilter(0.9).Support
	med := resampleFilter(0.5).Support
	low := resampleFilter(0.1).Support

	if resampleFilter(0).Support != high {
		t.Error("zero quality should share the best kernel with high quality")
	}
	if !(high > med && med > low) {
		t.Errorf("kernel support should decrease with quality: high=%v med=%v low=%v", high, med, low)
	}
}
