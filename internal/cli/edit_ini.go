package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/mutate"
)

var editIniCmd = &cobra.Command{
	Use:   "edit-ini <owner> <file> <section> <key> <value>",
	Short: "Set an INI key for an owner and record it",
	Long: `Set key in section of the INI file to value on behalf of owner.

The value the key had before the first edit is remembered and put back on
uninstall. A key that did not exist is removed again.`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		owner := args[0]
		file, err := mutate.AbsPath(args[1])
		if err != nil {
			return err
		}
		edit := installlog.ConfigEdit{File: file, Section: args[2], Key: args[3]}
		if err := a.installer.EditIni(owner, edit.File, edit.Section, edit.Key, args[4]); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), recordResult{Owner: owner, Kind: "config", Target: edit.String()})
		}
		newPrinter(cmd.OutOrStdout()).ok("Edited %s for %s", edit, owner)
		return nil
	},
}
