package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/imagelens/internal/batch"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		datasetPath string
		outputPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run many analysis jobs from a dataset file",
		Long: `Runs every job in a JSONL or Parquet dataset through the analysis service
and writes the answers (or error messages) to a YAML report.

Each job has the fields id, prompt and either file_name (an image in the
image library) or image_urls.`,
		Example: `  imagelens batch --dataset jobs.jsonl --output results.yaml --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := batch.LoadJobs(datasetPath)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			slog.Info("Loaded batch jobs", "dataset", datasetPath, "jobs", len(jobs))

			service, _, err := a.newService()
			if err != nil {
				return err
			}

			results := batch.NewRunner(service, concurrency).Run(cmd.Context(), jobs)
			report := batch.NewReport(batch.ReportConfig{
				Provider:    a.cfg.Provider,
				Model:       a.cfg.ModelName(),
				Temperature: a.cfg.Temperature,
				Dataset:     datasetPath,
				Concurrency: concurrency,
			}, results)

			if err := batch.SaveYAML(outputPath, report); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d jobs: %d succeeded, %d failed\nResults saved to: %s\n",
				report.Summary.Total, report.Summary.Succeeded, report.Summary.Failed, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to a .jsonl or .parquet job file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "results.yaml", "Where to write the YAML report")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of jobs to run at once")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
