package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/mutate"
)

var showVerify bool

// showResult is the JSON output of show.
type showResult struct {
	*installlog.OwnerLog
	Drift []mutate.FileDrift `json:"drift,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show <owner>",
	Short: "Show the recorded changes of an owner",
	Long: `Show every file, config edit and keyed value recorded for owner, in the
order they were recorded.

With --verify each installed file is hashed and compared with the checksum
taken at install time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		owner := args[0]
		l, err := a.store.Load(owner)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no recorded changes for %s", owner)
			}
			return err
		}

		res := showResult{OwnerLog: l}
		if showVerify {
			res.Drift = mutate.CheckDrift(a.fs, a.hasher, l.Files)
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), res)
		}

		out := newPrinter(cmd.OutOrStdout())
		out.ownerLog(l, res.Drift)
		for _, d := range res.Drift {
			if d.Status == mutate.DriftModified || d.Status == mutate.DriftMissing {
				out.warn("%s is %s since install", d.Path, d.Status)
			}
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showVerify, "verify", false, "Compare installed files with their recorded checksums")
}
