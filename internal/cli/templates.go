package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/th3400l/scrawl/pkg/paper"
)

// newTemplatesCmd creates the templates command for browsing the paper catalog.
func newTemplatesCmd() *cobra.Command {
	var (
		catalogPath string
		pick        bool
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List paper templates from the catalog",
		Long: `Templates lists every paper template in the catalog with its
structural kind and asset tiers.

With --pick, an interactive picker opens and the selected template ID is
printed to stdout, so it can feed a render:

  scrawl render notes.txt -t $(scrawl templates --pick)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd.Context(), catalogPath, pick)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "paper catalog TOML file (default: built-in catalog)")
	cmd.Flags().BoolVar(&pick, "pick", false, "open an interactive picker and print the chosen ID")

	return cmd
}

func runTemplates(ctx context.Context, catalogPath string, pick bool) error {
	logger := loggerFromContext(ctx)

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	logger.Debugf("Catalog: %d templates", catalog.Len())

	if pick {
		return pickTemplate(catalog.List())
	}

	rows := [][]string{}
	for _, t := range catalog.List() {
		tiers := "full"
		if t.HasLowTier() {
			tiers = "full+low"
		}
		critical := ""
		if t.Critical {
			critical = "✓"
		}
		rows = append(rows, []string{t.ID, t.DisplayName, string(t.Structural), tiers, critical})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Structure", "Tiers", "Critical").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(tbl.Render())
	return nil
}

// pickTemplate runs the interactive picker and prints the chosen ID.
func pickTemplate(templates []paper.Template) error {
	m := NewTemplateListModel(templates)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(TemplateListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	fmt.Println(fm.Selected.ID)
	return nil
}
