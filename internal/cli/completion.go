package cli

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its cobra generator.
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionShells))
	for name := range completionShells {
		shells = append(shells, name)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

Load it for the current session:

  source <(graphcanvas completion bash)
  graphcanvas completion fish | source

or install it once, e.g. for zsh:

  graphcanvas completion zsh > "${fpath[1]}/_graphcanvas"`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
