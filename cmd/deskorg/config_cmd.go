package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/desk_org/internal/config"
	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
	"github.com/eliteGoblin/focusd/desk_org/internal/usecase"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change the configuration record",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.resolvedPath); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", a.resolvedPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check config: %w", err)
			}
			def := config.Default()
			if err := a.update(func(c *config.Config) { *c = *def.Clone() }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", a.resolvedPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{
				{"config file", a.resolvedPath},
				{"monitor directory", a.cfg.MonitorDirectory},
				{"auto organize", onOff(a.cfg.AutoOrganize)},
				{"check interval", strconv.Itoa(a.cfg.IntervalSeconds) + "s"},
				{"categories", strconv.Itoa(len(a.cfg.Categories))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.resolvedPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-dir DIR",
		Short: "Set the monitor directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := infra.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if err := usecase.ValidateScanTarget(os.Stat, dir); err != nil {
				return err
			}
			return a.updateAndReport(cmd, "monitor directory", dir, func(c *config.Config) {
				c.MonitorDirectory = dir
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-interval SECONDS",
		Short: "Set the auto-organize check interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return domain.With(domain.ErrInvalidInterval, "expected a positive number of seconds, got %q", args[0])
			}
			return a.updateAndReport(cmd, "check interval", strconv.Itoa(n)+"s", func(c *config.Config) {
				c.IntervalSeconds = n
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "auto on|off",
		Short:     "Enable or disable auto organize when deskorg starts without a subcommand",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return a.updateAndReport(cmd, "auto organize", onOff(enabled), func(c *config.Config) {
				c.AutoOrganize = enabled
			})
		},
	})

	return cmd
}

func (a *app) updateAndReport(cmd *cobra.Command, setting, value string, fn func(*config.Config)) error {
	if err := a.update(fn); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", setting, value)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", errUsage, s)
}
