package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/report"
)

var errJobs = errors.New("geodiscover: jobs must be at least 1")

func newBatchCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "batch <script.yaml>...",
		Short: "Run discovery on several scripts concurrently",
		Long: `batch runs every script at its own focus, at most --jobs at a time,
and prints the reports in argument order. The first failure cancels the rest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("batch: --jobs %d: %w", jobs, errJobs)
			}
			reports := make([]*report.Report, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, path := range args {
				g.Go(func() error {
					sc, err := construction.LoadScript(path)
					if err != nil {
						return err
					}
					rep, err := a.run(ctx, sc, "")
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					reports[i] = rep
					a.log.Info("batch script done", logging.String("path", path), logging.Int("statements", len(rep.Statements)))

					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, rep := range reports {
				if !a.jsonOut {
					fmt.Fprintf(w, "# %s\n", args[i])
				}
				if err := a.print(w, rep); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "scripts run at the same time")

	return cmd
}
