package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/th3400l/scrawl/pkg/imageio"
	"github.com/th3400l/scrawl/pkg/scribe"
	"github.com/th3400l/scrawl/pkg/texture"
)

// renderOpts holds the command-line flags for the render command.
// These options select the paper, the hand, and the output geometry.
type renderOpts struct {
	engine      engineOpts
	output      string  // output file path, or "-" for stdout
	template    string  // paper template ID from the catalog
	inkName     string  // ink profile name
	font        string  // font file path or installed family name
	fontSize    float64 // face size in points
	width       int     // canvas width in pixels
	height      int     // canvas height in pixels
	lineSpacing float64 // line height multiplier
	seed        int64   // jitter stream seed
	steady      bool    // disable all hand jitter
}

// newRenderCmd creates the render command for drawing text onto paper.
// Input comes from a file argument, a literal text argument, or stdin.
//
// Default settings follow the house hand: blank-1 template, blue ink,
// 24pt face on an 800x1000 canvas with slight jitter.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [text|file|-]",
		Short: "Render text as handwriting and write a PNG",
		Long: `Render draws text as simulated handwriting onto a paper template.

The argument is a file path if one exists at that location, "-" for stdin,
or the literal text to write. With no argument, stdin is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			return runRender(cmd.Context(), arg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG path, or - for stdout (default: derived from input)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "paper template ID (default: blank-1)")
	cmd.Flags().StringVarP(&opts.inkName, "ink", "i", "", "ink profile name (default: blue)")
	cmd.Flags().StringVar(&opts.font, "font", "", "font file path or installed family name")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "face size in points (default: 24)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels (default: 800)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in pixels (default: 1000)")
	cmd.Flags().Float64Var(&opts.lineSpacing, "line-spacing", 0, "line height multiplier (default: 1.5)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "jitter stream seed for reproducible pages")
	cmd.Flags().BoolVar(&opts.steady, "steady", false, "disable hand jitter entirely")
	addEngineFlags(cmd, &opts.engine)

	return cmd
}

// runRender resolves the input text, renders it through a fresh engine,
// and writes the page as a PNG.
func runRender(ctx context.Context, arg string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	text, source, err := resolveText(arg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to render: input text is empty")
	}
	logger.Debugf("Input: %d bytes from %s", len(text), source)

	fileCfg, err := loadFileConfig(opts.engine.catalog)
	if err != nil {
		return err
	}
	engine, err := newEngineWith(ctx, &opts.engine, fileCfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	if opts.font == "" {
		opts.font = fileCfg.Defaults.Font
	}
	cfg := buildConfig(text, opts)

	prog := newProgress(logger)
	sp := newSpinnerWithContext(ctx, "Rendering page...")
	sp.Start()

	res, err := engine.RenderDocument(ctx, cfg, func(p scribe.Progress) {
		sp.SetMessage(fmt.Sprintf("Rendering page... %3.0f%%", p.Percent))
	})
	if err != nil {
		sp.Stop()
		if sp.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	sp.Stop()

	path := outputPath(opts.output, arg, source)
	level := engine.QualitySettings().CompressionLevel
	if err := writePage(path, res, level); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Rendered %d glyphs", res.Stats.Glyphs))
	if path != "-" {
		printSuccess("Wrote %s", StyleHighlight.Render(path))
		printRenderStats(res.Stats.Glyphs, res.Stats.Lines, res.Stats.Chunks, res.Stats.TextureCached)
		if res.Stats.TextureOrigin == texture.OriginPlaceholder {
			printWarning("paper assets unavailable; used a synthesized placeholder")
		}
	}
	return nil
}

// inputSource names where the render text came from.
type inputSource string

const (
	sourceStdin   inputSource = "stdin"
	sourceFile    inputSource = "file"
	sourceLiteral inputSource = "argument"
)

// resolveText turns the command argument into the document text.
// A readable file wins over a literal so "scrawl render notes.txt"
// renders the file contents, not the file name.
func resolveText(arg string) (string, inputSource, error) {
	switch {
	case arg == "" || arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", sourceStdin, fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), sourceStdin, nil
	case looksLikeFile(arg):
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", sourceFile, err
		}
		return string(data), sourceFile, nil
	default:
		return arg, sourceLiteral, nil
	}
}

// looksLikeFile reports whether arg names an existing regular file.
func looksLikeFile(arg string) bool {
	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}

// buildConfig assembles the rendering config from the flags. Unset flags
// stay zero so the engine's defaults apply.
func buildConfig(text string, opts *renderOpts) scribe.RenderingConfig {
	cfg := scribe.DefaultConfig()
	cfg.Text = text
	cfg.Seed = opts.seed
	if opts.template != "" {
		cfg.TemplateID = opts.template
	}
	if opts.inkName != "" {
		cfg.InkProfile = opts.inkName
	}
	if opts.font != "" {
		cfg.Font = opts.font
	}
	if opts.fontSize > 0 {
		cfg.FontSize = opts.fontSize
	}
	if opts.width > 0 {
		cfg.CanvasWidth = opts.width
	}
	if opts.height > 0 {
		cfg.CanvasHeight = opts.height
	}
	if opts.lineSpacing > 0 {
		cfg.LineSpacing = opts.lineSpacing
	}
	if opts.steady {
		cfg.BaselineJitter = 0
		cfg.LetterSpacingJitter = 0
		cfg.SlantJitter = 0
		cfg.InkFlowVariation = 0
	}
	return cfg
}

// outputPath picks the PNG destination. An explicit --output wins; a file
// input derives its sibling (notes.txt -> notes.png); everything else
// lands in scrawl.png.
func outputPath(output, arg string, source inputSource) string {
	if output != "" {
		return output
	}
	if source == sourceFile {
		return strings.TrimSuffix(arg, filepath.Ext(arg)) + ".png"
	}
	return "scrawl.png"
}

// writePage encodes the rendered page as a PNG at the given compression
// level, to a file or to stdout when path is "-".
func writePage(path string, res *scribe.Result, level int) error {
	if path == "-" {
		return imageio.EncodePNG(os.Stdout, res.Image, level)
	}
	return imageio.Export(path, res.Image, level)
}
