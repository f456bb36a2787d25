package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlog/internal/fsops"
	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/mutate"
	"github.com/danieljhkim/modlog/internal/task"
	"github.com/danieljhkim/modlog/internal/ui"
	"github.com/danieljhkim/modlog/internal/uninstall"
)

var (
	uninstallStrict     bool
	uninstallDryRun     bool
	uninstallKeepLog    bool
	uninstallNoProgress bool
)

var errUninstallCancelled = errors.New("uninstall cancelled")

// uninstallResult is the JSON output of uninstall.
type uninstallResult struct {
	uninstall.Report
	Status     string          `json:"status"`
	Failures   []failureResult `json:"failures"`
	LogUpdated bool            `json:"logUpdated"`
}

type failureResult struct {
	Phase string `json:"phase"`
	Item  string `json:"item"`
	Error string `json:"error"`
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <owner>",
	Short: "Revert every recorded change of an owner",
	Long: `Revert the files, config edits and keyed values recorded for owner, in
that order.

Interrupting (Ctrl-C) stops before the next record; what was already reverted
stays reverted. Reverted records are dropped from the install log unless
--keep-log is given, so running uninstall again picks up the rest.

A record that fails to revert is reported and skipped. With --strict the run
stops at the first failure instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		owner := args[0]
		if err := fsops.ValidateIdentifier(owner); err != nil {
			return fmt.Errorf("%w: %v", installlog.ErrInvalidOwner, err)
		}

		if uninstallDryRun {
			snap := installlog.TakeSnapshot(a.store, owner)
			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), snap)
			}
			newPrinter(cmd.OutOrStdout()).plan(snap)
			return nil
		}

		strict := uninstallStrict || a.settings.Strict
		keepLog := uninstallKeepLog || a.settings.KeepLog
		mode, err := ui.ParseMode(a.settings.Progress)
		if err != nil {
			return err
		}
		if uninstallNoProgress || jsonOutput {
			mode = ui.ModeNever
		}

		if l, err := a.store.Load(owner); err == nil {
			for _, d := range mutate.CheckDrift(a.fs, a.hasher, l.Files) {
				if d.Status == mutate.DriftModified {
					a.logger.Warn().Str("owner", owner).Str("path", d.Path).Msg("file changed since install")
				}
			}
		}

		tk := task.New()
		tk.Subscribe(ui.NewProgressView(os.Stderr, mode))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		orch := uninstall.New(owner, a.store, a.files, a.ini, a.values,
			uninstall.WithStrict(strict),
			uninstall.WithLogger(a.logger),
			uninstall.WithTask(tk),
		)
		ok := orch.Execute(ctx)
		report := orch.Report()

		if !keepLog {
			if err := uninstall.RemoveReversed(a.store, report); err != nil {
				return fmt.Errorf("reverted changes but failed to update the install log: %w", err)
			}
		}

		if jsonOutput {
			if err := outputJSON(cmd.OutOrStdout(), newUninstallResult(report, !keepLog)); err != nil {
				return err
			}
		} else {
			newPrinter(cmd.OutOrStdout()).report(report)
		}

		if ok {
			return nil
		}
		if report.Status == task.Cancelled {
			return fmt.Errorf("%w: %s", errUninstallCancelled, plural(report.Reversed(), "record reverted", "records reverted"))
		}
		return fmt.Errorf("uninstall of %s failed: %w", owner, report.Err())
	},
}

func newUninstallResult(r uninstall.Report, logUpdated bool) uninstallResult {
	res := uninstallResult{
		Report:     r,
		Status:     r.Status.String(),
		Failures:   make([]failureResult, 0, len(r.Failures)),
		LogUpdated: logUpdated,
	}
	for _, f := range r.Failures {
		res.Failures = append(res.Failures, failureResult{
			Phase: f.Phase.String(),
			Item:  f.Item,
			Error: f.Err.Error(),
		})
	}
	return res
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallStrict, "strict", false, "Stop at the first record that fails to revert")
	uninstallCmd.Flags().BoolVar(&uninstallDryRun, "dry-run", false, "Show what would be reverted without reverting")
	uninstallCmd.Flags().BoolVar(&uninstallKeepLog, "keep-log", false, "Keep reverted records in the install log")
	uninstallCmd.Flags().BoolVar(&uninstallNoProgress, "no-progress", false, "Do not draw the progress line")
}
