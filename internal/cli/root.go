package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/th3400l/scrawl/pkg/buildinfo"
)

// newRootCmd builds the root command with all subcommands registered.
// The --verbose flag is bound to verbose; logging level is resolved in
// PersistentPreRun so the flag is honored wherever it appears on the line.
func newRootCmd(verbose *bool) *cobra.Command {
	root := &cobra.Command{
		Use:          "scrawl",
		Short:        "Scrawl renders text as handwriting on paper",
		Long:         `Scrawl is a CLI tool that draws plain text as simulated handwriting onto paper templates, producing raster page images with configurable inks, fonts, and quality presets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if *verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newTemplatesCmd())
	root.AddCommand(newInksCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newQualityCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the scrawl CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (render,
// templates, inks, check, quality, completion), configures logging based
// on the --verbose flag, and executes the command tree against ctx so
// signal cancellation from main reaches every command.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	return newRootCmd(&verbose).ExecuteContext(ctx)
}
