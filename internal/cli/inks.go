package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/th3400l/scrawl/pkg/ink"
)

// newInksCmd creates the inks command for browsing ink profiles.
func newInksCmd() *cobra.Command {
	var (
		catalog    string
		variations bool
		pick       bool
	)

	cmd := &cobra.Command{
		Use:   "inks",
		Short: "List ink profiles and their palettes",
		Long: `Inks lists every registered ink profile with its base color,
blend mode, and texture pattern. Custom [[ink]] profiles from a config
document are listed alongside the built-ins.

With --variations, each profile's precomputed palette is shown, ordered
from thin, light ink to dense, dark ink. With --pick, an interactive
picker opens and the selected profile name is printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInks(cmd.Context(), catalog, variations, pick)
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "catalog/config TOML file with custom ink profiles")
	cmd.Flags().BoolVar(&variations, "variations", false, "show each profile's variation palette")
	cmd.Flags().BoolVar(&pick, "pick", false, "open an interactive picker and print the chosen name")

	return cmd
}

func runInks(ctx context.Context, catalog string, variations, pick bool) error {
	logger := loggerFromContext(ctx)

	registry, err := loadInks(catalog)
	if err != nil {
		return err
	}
	names := registry.Names()
	logger.Debugf("Registry: %d profiles", len(names))

	profiles := make([]*ink.Profile, 0, len(names))
	for _, name := range names {
		p, err := registry.Get(name)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
	}

	if pick {
		return pickInk(profiles)
	}

	for _, p := range profiles {
		fmt.Printf("%s %s  %s %s %s\n",
			swatch(p.BaseColor),
			StyleValue.Render(fmt.Sprintf("%-12s", p.Name)),
			StyleDim.Render(p.BaseColor),
			StyleDim.Render(string(p.Blend)),
			StyleDim.Render(string(p.Texture.Pattern)))

		if variations {
			printPalette(p)
		}
	}
	return nil
}

// printPalette prints one profile's variation palette, one line per entry.
func printPalette(p *ink.Profile) {
	for i, v := range p.Variations {
		hex := ink.FormatHex(v.Color)
		printDetail("%d  %s %s  opacity %.2f", i, swatch(hex), hex, v.Opacity)
	}
	printNewline()
}

// pickInk runs the interactive picker and prints the chosen profile name.
func pickInk(profiles []*ink.Profile) error {
	m := NewInkListModel(profiles)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(InkListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	fmt.Println(fm.Selected.Name)
	return nil
}
