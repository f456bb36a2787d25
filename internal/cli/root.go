package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modlog/internal/config"
	"github.com/danieljhkim/modlog/internal/logging"
)

var jsonOutput bool

var (
	groupTitleColor = color.New(color.FgCyan, color.Bold)
	helpTitleColor  = color.New(color.FgBlue, color.Bold)
)

const (
	groupRecord    = "record"
	groupInspect   = "inspect"
	groupUninstall = "uninstall"
	groupTooling   = "tooling"
)

// commandGroups lists the help sections in display order.
var commandGroups = []*cobra.Group{
	{ID: groupRecord, Title: "Record changes:"},
	{ID: groupInspect, Title: "Inspect the install log:"},
	{ID: groupUninstall, Title: "Revert changes:"},
	{ID: groupTooling, Title: "Tooling:"},
}

// environment lists the variables shown at the bottom of the root help.
var environment = [][2]string{
	{config.EnvRoot, "data directory (default ~/.modlog)"},
	{logging.EnvLogLevel, "log level: debug, info, warn, error or disabled"},
	{logging.EnvLogJSON, "emit logs as JSON when set"},
	{logging.EnvLogNoColor, "disable colored logs when set"},
}

var rootCmd = &cobra.Command{
	Use:     "modlog",
	Version: "dev",
	Short:   "Record mod installs and revert them cleanly",
	Long: `modlog records every change made on behalf of an owner (usually a mod):
files put in place, INI keys edited and keyed values changed.

Uninstalling an owner reverts those changes in order, with live progress,
and can be interrupted and resumed.`,
	Example: `  modlog install SkyUI ./SkyUI.esp ~/Game/Data/SkyUI.esp
  modlog edit-ini SkyUI ~/Game/Skyrim.ini Display fGamma 1.2
  modlog uninstall SkyUI`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion overrides the version reported by the CLI. Empty is ignored.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// writeHelp renders help for cmd. The root lists commands by group and the
// environment it reads; subcommands show their arguments and flags.
func writeHelp(w io.Writer, cmd *cobra.Command) {
	var b strings.Builder
	heading := func(s string) { b.WriteString(helpTitleColor.Sprint(s) + "\n") }

	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	b.WriteString(strings.TrimSpace(desc) + "\n\n")

	heading("Usage:")
	if cmd.Runnable() {
		fmt.Fprintf(&b, "  %s\n", cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "  %s <command> [flags]\n", cmd.CommandPath())
	}
	b.WriteString("\n")

	if cmd.HasAvailableSubCommands() {
		width := 0
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() || c.Name() == "help" {
				width = max(width, len(c.Name()))
			}
		}
		groups := cmd.Groups()
		if len(groups) == 0 {
			groups = []*cobra.Group{{Title: "Commands:"}}
		}
		for _, g := range groups {
			b.WriteString(groupTitleColor.Sprint(g.Title) + "\n")
			for _, c := range cmd.Commands() {
				if c.GroupID == g.ID && (c.IsAvailableCommand() || c.Name() == "help") {
					fmt.Fprintf(&b, "  %-*s  %s\n", width, c.Name(), c.Short)
				}
			}
			b.WriteString("\n")
		}
	}

	if cmd.Example != "" {
		heading("Examples:")
		b.WriteString(cmd.Example + "\n\n")
	}

	if flags := cmd.LocalFlags().FlagUsages(); flags != "" {
		heading("Flags:")
		b.WriteString(flags + "\n")
	}
	if flags := cmd.InheritedFlags().FlagUsages(); flags != "" {
		heading("Global Flags:")
		b.WriteString(flags + "\n")
	}

	if !cmd.HasParent() {
		heading("Environment:")
		for _, e := range environment {
			fmt.Fprintf(&b, "  %-20s %s\n", e[0], e[1])
		}
		b.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "Run \"%s <command> --help\" for details on a command.\n", cmd.CommandPath())
	}
	_, _ = io.WriteString(w, b.String())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the modlog version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
	},
}

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show help for modlog or one of its commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _, err := rootCmd.Find(args)
		if err != nil {
			return err
		}
		writeHelp(cmd.OutOrStdout(), target)
		return nil
	},
}

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(w io.Writer) error{
	"bash":       func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

var completionCmd = &cobra.Command{
	Use:       "completion <bash|zsh|fish|powershell>",
	Short:     "Print a shell completion script",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionShells[args[0]](cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		writeHelp(cmd.OutOrStdout(), cmd)
	})
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddGroup(commandGroups...)

	grouped := map[string][]*cobra.Command{
		groupRecord:    {installCmd, editIniCmd, setValueCmd},
		groupInspect:   {listCmd, showCmd},
		groupUninstall: {uninstallCmd},
		groupTooling:   {versionCmd, completionCmd},
	}
	for id, cmds := range grouped {
		for _, c := range cmds {
			c.GroupID = id
			rootCmd.AddCommand(c)
		}
	}
	helpCmd.GroupID = groupTooling
	rootCmd.SetHelpCommand(helpCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
