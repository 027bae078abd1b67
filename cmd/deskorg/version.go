package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func newVersionCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				return enc.Encode(versionInfo{Version: Version, Commit: Commit, BuildTime: BuildTime})
			}
			fmt.Fprintf(out, "deskorg %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	return cmd
}
