package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/geodiscover/scenario"
)

var errExpectation = errors.New("geodiscover: expected statements missing")

func newScenarioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "List and run the built-in constructions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the built-in constructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range scenario.Names() {
				sc, err := scenario.Load(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s focus %-3s %s\n", name, sc.Focus, strings.Join(sc.Expect, "; "))
			}
			return nil
		},
	})

	var (
		focus string
		check bool
	)
	run := &cobra.Command{
		Use:   "run <name>",
		Short: "Run discovery on a built-in construction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			rep, err := a.run(cmd.Context(), sc, focus)
			if err != nil {
				return err
			}
			if err = a.print(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			if !check || (focus != "" && focus != sc.Focus) {
				return nil
			}
			if missing := scenario.Missing(sc, rep.String()); len(missing) > 0 {
				return fmt.Errorf("%s: %q: %w", sc.Name, missing, errExpectation)
			}

			return nil
		},
	}
	run.Flags().StringVarP(&focus, "focus", "f", "", "focus point (default: the scenario's focus)")
	run.Flags().BoolVar(&check, "check", false, "fail when a known statement is missing")
	cmd.AddCommand(run)

	return cmd
}
