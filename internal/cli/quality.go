package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/quality"
)

// newQualityCmd creates the quality command for inspecting device-adapted settings.
func newQualityCmd() *cobra.Command {
	var (
		preset string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Show the device profile and quality settings",
		Long: `Quality shows the detected device profile, the preset recommended
for it, and the effective settings a render would start from.

With --preset, the settings for that preset are shown instead of the
recommendation. With --all, every preset is tabulated side by side.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuality(cmd.Context(), preset, all)
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "show settings for this preset instead of the recommendation")
	cmd.Flags().BoolVar(&all, "all", false, "tabulate every preset")

	return cmd
}

func runQuality(ctx context.Context, presetName string, all bool) error {
	logger := loggerFromContext(ctx)

	profile := device.Detect()
	logger.Debug("detected device", "class", profile.Class, "memoryMB", profile.MemoryMB)

	printKeyValue("class", string(profile.Class))
	printKeyValue("memory", fmt.Sprintf("%d MB (%s tier)", profile.MemoryMB, profile.MemoryTier()))
	printKeyValue("cores", strconv.Itoa(profile.Cores))
	printKeyValue("connection", string(profile.Connection))
	printKeyValue("constrained", strconv.FormatBool(profile.Constrained()))
	printNewline()

	recommended := quality.Recommend(profile)
	printKeyValue("recommended", string(recommended))
	printNewline()

	if all {
		printPresetTable(profile)
		return nil
	}

	selected := recommended
	if presetName != "" {
		p, err := quality.ParsePreset(presetName)
		if err != nil {
			return err
		}
		if p == quality.PresetAuto {
			p = recommended
		}
		selected = p
	}

	settings := quality.For(selected, profile)
	printInfo("Settings for %s", StyleHighlight.Render(string(selected)))
	printKeyValue("rendering", fmt.Sprintf("%.2f", settings.RenderingQuality))
	printKeyValue("texture", fmt.Sprintf("%.2f", settings.TextureQuality))
	printKeyValue("antialiasing", strconv.FormatBool(settings.Antialiasing))
	printKeyValue("max texture", fmt.Sprintf("%d px", settings.MaxTextureSize))
	printKeyValue("pooling", strconv.FormatBool(settings.CanvasPooling))
	printKeyValue("compression", strconv.Itoa(settings.CompressionLevel))
	printKeyValue("progressive", strconv.FormatBool(settings.ProgressiveLoading))
	return nil
}

// printPresetTable tabulates every preset's settings for the given device.
func printPresetTable(profile device.Profile) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := [][]string{}
	for _, p := range quality.Presets() {
		if p == quality.PresetAuto {
			continue
		}
		s := quality.For(p, profile)
		rows = append(rows, []string{
			string(p),
			fmt.Sprintf("%.2f", s.RenderingQuality),
			fmt.Sprintf("%.2f", s.TextureQuality),
			strconv.FormatBool(s.Antialiasing),
			strconv.Itoa(s.MaxTextureSize),
			strconv.Itoa(s.CompressionLevel),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Render", "Texture", "AA", "Max px", "PNG").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	fmt.Println(tbl.Render())
}
