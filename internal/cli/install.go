package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlog/internal/mutate"
)

var installCmd = &cobra.Command{
	Use:   "install <owner> <src> <dest>",
	Short: "Install a file for an owner and record it",
	Long: `Copy src to dest on behalf of owner and add dest to the owner's install log.

An existing file at dest is backed up first and restored on uninstall.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		owner, src := args[0], args[1]
		dest, err := mutate.AbsPath(args[2])
		if err != nil {
			return err
		}
		if err := a.installer.InstallFile(owner, src, dest); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), recordResult{Owner: owner, Kind: "file", Target: dest})
		}
		newPrinter(cmd.OutOrStdout()).ok("Installed %s for %s", dest, owner)
		return nil
	},
}

// recordResult is the JSON output of the recording commands.
type recordResult struct {
	Owner  string `json:"owner"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
}
