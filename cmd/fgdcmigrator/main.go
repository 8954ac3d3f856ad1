package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"FgdcMigrator/internal/app"
	"FgdcMigrator/internal/config"
	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/engine"
	"FgdcMigrator/internal/fgdc"
	"FgdcMigrator/internal/infrastructure/zenodo"
	"FgdcMigrator/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fgdcmigrator",
		Short:         "Migrate FGDC metadata records into Zenodo depositions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(), newTransformCmd(), newValidateCmd(), newScoreCmd(), newUploadCmd(), newReportCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full migration batch over configured collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Run(cmd.Context())
		},
	}
}

func newTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform <file.xml>",
		Short: "Transform one metadata file and print the deposition record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := processFile(args[0], false)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Record      *domain.DepositionRecord `json:"record"`
				Diagnostics any                      `json:"diagnostics"`
			}{outcome.Record, outcome.Diagnostics})
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.xml>",
		Short: "Transform one metadata file and print the validation result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := processFile(args[0], true)
			if err != nil {
				return err
			}
			return printJSON(cmd, outcome.Validation)
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <file.xml>",
		Short: "Transform one metadata file and print the quality report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := processFile(args[0], true)
			if err != nil {
				return err
			}
			return printJSON(cmd, outcome.Quality)
		},
	}
}

func newUploadCmd() *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "upload <file.xml>",
		Short: "Transform, validate and upload one metadata file as a deposition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.Zenodo.Token == "" {
				return fmt.Errorf("no deposit API token configured")
			}

			outcome, err := processFile(args[0], true)
			if err != nil {
				return err
			}
			if !outcome.Validation.Valid {
				return fmt.Errorf("record is invalid, refusing upload: %v", outcome.Validation.Issues)
			}

			client := zenodo.NewClient(cfg.Zenodo.Token, cfg.Zenodo.Sandbox, nil)
			ctx := cmd.Context()

			id, err := client.CreateDeposition(ctx)
			if err != nil {
				return err
			}
			if err := client.PutMetadata(ctx, id, outcome.Record); err != nil {
				return err
			}
			if publish || cfg.Zenodo.Publish {
				if err := client.Publish(ctx, id); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deposition %d created for %s\n", id, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "publish the deposition after upload (irreversible)")
	return cmd
}

func newReportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the last run summary as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = config.Load().Report.Dir
			}

			data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
			if err != nil {
				return fmt.Errorf("read summary: %w", err)
			}

			var summary domain.RunSummary
			if err := json.Unmarshal(data, &summary); err != nil {
				return fmt.Errorf("parse summary: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Files:       %d (skipped %d, failed %d)\n",
				summary.TotalFiles, summary.Skipped, summary.Failed)
			fmt.Fprintf(out, "Transformed: %d\n", summary.Transformed)
			fmt.Fprintf(out, "Valid:       %d / invalid %d (%.1f%%)\n",
				summary.ValidRecords, summary.InvalidRecords, summary.ValidationRate)
			fmt.Fprintf(out, "Uploaded:    %d\n", summary.Uploaded)
			fmt.Fprintf(out, "Scores:      avg %.1f, min %.1f, max %.1f\n",
				summary.Scores.Average, summary.Scores.Min, summary.Scores.Max)

			if len(summary.IssueTypes) > 0 {
				fmt.Fprintln(out, "Issue types:")
				types := make([]string, 0, len(summary.IssueTypes))
				for issue := range summary.IssueTypes {
					types = append(types, issue)
				}
				sort.Strings(types)
				for _, issue := range types {
					fmt.Fprintf(out, "  %-40s %d\n", issue, summary.IssueTypes[issue])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (defaults to configured dir)")
	return cmd
}

// processFile runs the single-file flow shared by the inspection commands.
func processFile(path string, analyze bool) (domain.RecordOutcome, error) {
	var outcome domain.RecordOutcome
	outcome.File = path

	data, err := os.ReadFile(path)
	if err != nil {
		return outcome, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := fgdc.Parse(data)
	if err != nil {
		return outcome, fmt.Errorf("parse %s: %w", path, err)
	}

	eng := engine.New()
	rec, diagnostics, err := eng.Transform(doc, path)
	outcome.Diagnostics = diagnostics
	if err != nil {
		return outcome, fmt.Errorf("transform %s: %w", path, err)
	}
	outcome.Record = rec

	if analyze {
		validation := eng.Validate(rec)
		outcome.Validation = &validation
		quality := eng.Score(doc, rec)
		outcome.Quality = &quality
	}

	return outcome, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
