package main

import (
	"fmt"
	"time"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/engine/scoring"
	crs "readiness-workers/internal/workers/readiness/compute-readiness-score"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var (
		inputPath string
		asOf      string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the readiness score for a job variables document",
		Long:  "Reads {businessProfile, verification, siteSignals} from --in and prints the compute-readiness-score output.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars, err := readVariables(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}

			log := logger.NewNoOpLogger()
			if verbose {
				log = logger.NewStructured("debug", "console")
			}

			opts := []scoring.Option{scoring.WithLogger(log)}
			if asOf != "" {
				now, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of date: %w", err)
				}
				opts = append(opts, scoring.WithClock(func() time.Time { return now }))
			}

			handler := crs.NewHandler(crs.LoadConfig(), crs.Dependencies{Engine: scoring.NewEngine(opts...)}, log)
			output, err := handler.Execute(cmd.Context(), vars)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "in", "i", "-", "Path to the job variables JSON (- for stdin)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Score as of this date (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log scoring decisions to stderr")
	return cmd
}
