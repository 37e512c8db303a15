package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dqengine/internal/quality/models"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var minScore float64
	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Score every record and report issues and anomalies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, single, err := readRecords(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			reports := make([]*models.QualityReport, 0, len(records))
			below := 0
			for i, rec := range records {
				report, err := s.Service.Validate(cmd.Context(), opts.entity(), rec)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if report.Score < minScore {
					below++
				}
				reports = append(reports, report)
			}

			if err := emit(cmd, single, reports); err != nil {
				return err
			}
			if below > 0 {
				return fmt.Errorf("%d of %d records scored below %.2f", below, len(records), minScore)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "exit non-zero when any record scores below this")
	return cmd
}

type cleanseOutput struct {
	CleansedData  models.Record         `json:"cleansedData"`
	QualityReport *models.QualityReport `json:"qualityReport"`
}

func newCleanseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanse <file|->",
		Short: "Normalize records and report on the cleansed values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, single, err := readRecords(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := make([]cleanseOutput, 0, len(records))
			for i, rec := range records {
				result, err := s.Service.Cleanse(cmd.Context(), opts.entity(), rec)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				out = append(out, cleanseOutput{CleansedData: result.Data, QualityReport: result.Report})
			}
			return emit(cmd, single, out)
		},
	}
}

func newEnrichCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich <file|->",
		Short: "Cleanse records and add derived fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, single, err := readRecords(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := make([]models.Record, 0, len(records))
			for _, rec := range records {
				out = append(out, s.Service.Enrich(cmd.Context(), rec))
			}
			return emit(cmd, single, out)
		},
	}
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file|->",
		Short: "Cleanse and validate a batch and summarize its most frequent issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, err := readRecords(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := s.Service.BatchCheck(cmd.Context(), opts.entity(), records)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
}

// emit writes the lone element for single-record input and the slice otherwise.
func emit[T any](cmd *cobra.Command, single bool, items []T) error {
	if single && len(items) == 1 {
		return writeJSON(cmd.OutOrStdout(), items[0])
	}
	return writeJSON(cmd.OutOrStdout(), items)
}
