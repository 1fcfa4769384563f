package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/output"
	"github.com/inodb/vibe-gt/internal/summary"
	"github.com/inodb/vibe-gt/internal/vcf"
)

func newStatsCmd() *cobra.Command {
	var (
		format     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Compute per-variant genotype statistics",
		Long: `Compute allele counts, called and missing alleles, alternate allele
frequency and heterozygous sample counts for every variant. Variants are
summarized by a pool of workers and printed in input order.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openParser(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			out, closeOut, err := openOutput(cmd, outputFile)
			if err != nil {
				return err
			}
			defer closeOut()

			s := summary.NewSummarizer(viper.GetInt("workers"))
			s.SetLogger(logger)

			var totals *summary.Totals
			switch format {
			case "tab":
				tw := output.NewTabWriter(out)
				if err := tw.WriteHeader(); err != nil {
					return err
				}
				totals, err = s.Run(cmd.Context(), p, func(_ *vcf.Variant, st *summary.Stats) error {
					return tw.Write(st)
				})
				if ferr := tw.Flush(); err == nil {
					err = ferr
				}
			case "json":
				jw := output.NewJSONWriter(out, p.Samples())
				totals, err = s.Run(cmd.Context(), p, func(_ *vcf.Variant, st *summary.Stats) error {
					return jw.WriteStats(st)
				})
				if err == nil {
					err = jw.WriteTotals(totals)
				}
				if ferr := jw.Flush(); err == nil {
					err = ferr
				}
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			if err != nil {
				return err
			}

			logger.Info("stats finished",
				zap.Int("variants", totals.Variants),
				zap.Int("errors", totals.Errors),
				zap.Int("called", totals.Called),
				zap.Int("missing", totals.Missing),
				zap.Ints("sample_missing", totals.SampleMissing))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "tab", "Output format: tab, json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Int("workers", 0, "Number of summary workers (0 = NumCPU)")
	return cmd
}
