package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/pkg/buildinfo"
	"github.com/matzehuels/graphcanvas/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The persistent flags select the config file and the log
// level; both are applied before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graphcanvas builds, joins and renders graph diagrams",
		Long: `Graphcanvas is a diagram editor for graph theory. It generates standard
graph families, joins and separates graphs through scripted or interactive
gestures, and renders documents to SVG, PNG, PDF, DOT, TikZ and edge lists.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.NewLogHooks(c.Logger).Register()
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphcanvas/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
