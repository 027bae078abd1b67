package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/config"
	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/usecase"
)

func newRulesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and edit the extension -> category rules",
		Long: `Categories are tried in the order listed; when an extension is registered
in several categories the first one wins. Changes are saved to the config file.
Removing a category never touches its folder or the files already in it.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories and their extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.cfg.RuleTable()
			if err != nil {
				a.logger.Warn("ignoring invalid rules", zap.Error(err))
			}

			cats := table.Categories()
			rows := make([][]string, 0, len(cats)+1)
			for i, c := range cats {
				rows = append(rows, []string{strconv.Itoa(i + 1), c.Name, strings.Join(c.Extensions, " ")})
			}
			rows = append(rows, []string{"-", domain.UnclassifiedDir, "(everything else)"})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"#", "Category", "Extensions"}, rows,
				[]text.Align{text.AlignRight}))
			for _, c := range table.Conflicts() {
				fmt.Fprintf(out, "warning: %s is listed under %q and %q; %q wins\n",
					c.Extension, c.Winner, c.Shadowed, c.Winner)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-category NAME",
		Short: "Add an empty category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editRules(cmd, func(ws *usecase.Workspace) error {
				return ws.AddCategory(args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-category NAME",
		Short: "Remove a category (its folder is left alone)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editRules(cmd, func(ws *usecase.Workspace) error {
				return ws.RemoveCategory(args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-ext CATEGORY EXT...",
		Short: "Register extensions under a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editRules(cmd, func(ws *usecase.Workspace) error {
				for _, ext := range args[1:] {
					if err := ws.AddExtension(args[0], ext); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-ext CATEGORY EXT...",
		Short: "Unregister extensions from a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editRules(cmd, func(ws *usecase.Workspace) error {
				for _, ext := range args[1:] {
					if err := ws.RemoveExtension(args[0], ext); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})

	return cmd
}

// editRules applies fn to the configured rules and saves them. Nothing is
// saved when fn fails.
func (a *app) editRules(cmd *cobra.Command, fn func(*usecase.Workspace) error) error {
	ws, err := a.workspace("")
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	table := ws.Rules()
	if err := a.update(func(c *config.Config) { c.SetRules(table) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rules saved to %s\n", a.resolvedPath)
	return nil
}
