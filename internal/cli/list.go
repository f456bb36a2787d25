package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// ownerSummary is one row of the list output.
type ownerSummary struct {
	Owner       string `json:"owner"`
	Files       int    `json:"files"`
	ConfigEdits int    `json:"configEdits"`
	ValueEdits  int    `json:"valueEdits"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List owners with recorded changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		owners, err := a.store.Owners()
		if err != nil {
			return err
		}

		summaries := make([]ownerSummary, 0, len(owners))
		for _, owner := range owners {
			l, err := a.store.Load(owner)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				a.logger.Warn().Err(err).Str("owner", owner).Msg("skipping unreadable log")
				continue
			}
			summaries = append(summaries, ownerSummary{
				Owner:       owner,
				Files:       len(l.Files),
				ConfigEdits: len(l.ConfigEdits),
				ValueEdits:  len(l.ValueEdits),
			})
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), summaries)
		}

		newPrinter(cmd.OutOrStdout()).owners(summaries)
		return nil
	},
}
