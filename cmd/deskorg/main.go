// Package main is the CLI entry point for deskorg.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "deskorg",
		Short: "Desktop organizer - sorts loose files into category folders",
		Long: `deskorg scans a directory (your Desktop by default) and moves each loose
file into a subfolder named after its category, chosen by file extension.
Files matching no rule go to "未分类文件". Existing files are never
overwritten: a clashing name gets a _1, _2, ... suffix.

Run it once with "deskorg run", or keep it running with "deskorg watch".
Without a subcommand, deskorg watches when auto_organize is enabled in the
configuration and prints this help otherwise.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.AutoOrganize {
				return cmd.Help()
			}
			return a.watch(cmd, 0)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config file (.toml, or .json for the legacy layout)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRunCommand(a))
	root.AddCommand(newWatchCommand(a))
	root.AddCommand(newClassifyCommand(a))
	root.AddCommand(newRulesCommand(a))
	root.AddCommand(newConfigCommand(a))
	root.AddCommand(newVersionCommand())

	return root
}
