package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/geodiscover/construction"
)

var errNoFocus = errors.New("geodiscover: no focus point")

func newDiscoverCmd(a *app) *cobra.Command {
	var focus string
	cmd := &cobra.Command{
		Use:   "discover <script.yaml>",
		Short: "Report the relations around the focus point of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := construction.LoadScript(args[0])
			if err != nil {
				return err
			}
			rep, err := a.run(cmd.Context(), sc, focus)
			if err != nil {
				return err
			}

			return a.print(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVarP(&focus, "focus", "f", "", "focus point (default: the script's focus)")

	return cmd
}
