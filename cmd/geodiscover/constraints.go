package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/geodiscover/construction"
)

func newConstraintsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "constraints <script.yaml>",
		Short: "Print the hypothesis equations and solved forms of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := construction.LoadScript(args[0])
			if err != nil {
				return err
			}
			g := construction.NewGraph()
			if err = sc.Apply(g); err != nil {
				return err
			}
			cs, err := a.alg.ConstraintsFor(cmd.Context(), g.Snapshot())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "frame: %v\n", cs.Frame())
			fmt.Fprintln(w, "parameters:")
			for _, p := range cs.Params() {
				fmt.Fprintf(w, "  %s = %g\n", p.Name, p.Value)
			}
			fmt.Fprintln(w, "hypotheses:")
			for _, eq := range cs.Equations() {
				fmt.Fprintf(w, "  %-6s %s\n", eq.Object, eq)
			}
			fmt.Fprintln(w, "solved:")
			for _, line := range cs.Describe() {
				fmt.Fprintf(w, "  %s\n", line)
			}
			if br := cs.Branches(); len(br) > 0 {
				fmt.Fprintln(w, "branches:")
				for _, b := range br {
					fmt.Fprintf(w, "  %s\n", b)
				}
			}
			for _, p := range g.Snapshot().Points() {
				if err := cs.Degenerate(p); err != nil {
					fmt.Fprintf(w, "degenerate: %s: %v\n", p, err)
				}
			}

			return nil
		},
	}
}
