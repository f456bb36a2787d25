package cli

import (
	"github.com/spf13/cobra"
)

var setValueCmd = &cobra.Command{
	Use:   "set-value <owner> <key> <value>",
	Short: "Set a keyed value for an owner and record it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		owner, key := args[0], args[1]
		if err := a.installer.EditValue(owner, key, args[2]); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), recordResult{Owner: owner, Kind: "value", Target: key})
		}
		newPrinter(cmd.OutOrStdout()).ok("Set %s for %s", key, owner)
		return nil
	},
}
