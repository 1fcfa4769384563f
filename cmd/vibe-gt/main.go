// Package main provides the vibe-gt command-line tool.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logger is configured from log.level before any command runs.
var logger = zap.NewNop()

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return ExitError
	}
	return ExitSuccess
}

// errorHint suggests a fix for errors that stop an input from opening.
func errorHint(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "Check that the file path is correct"
	}
	kind := vcf.KindOf(err)
	if !kind.Structural() {
		return ""
	}
	switch kind {
	case vcf.ErrInvalidVCFFile, vcf.ErrInvalidGzipVCFFile, vcf.ErrEmptyFile:
		return "Input must be a plain or gzip-compressed VCF starting with ##fileformat"
	case vcf.ErrInvalidSampleLine:
		return "Check the #CHROM header line: eight fixed columns, then FORMAT and sample names"
	default:
		return "The first data line must carry a parsable GT for every sample"
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vibe-gt",
		Short: "Stream variants and genotypes from VCF files",
		Long: `vibe-gt reads plain or gzip-compressed VCF files and decodes every
sample's GT field into allele indices.`,
		Example: `  vibe-gt kind calls.vcf.gz
  vibe-gt view --format json calls.vcf.gz
  vibe-gt stats --workers 8 calls.vcf.gz
  vibe-gt count a.vcf.gz b.vcf.gz c.vcf
  vibe-gt load --db calls.duckdb calls.vcf.gz
  zcat calls.vcf.gz | vibe-gt view -`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			l, err := newLogger(viper.GetString("log.level"))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	cmd.SetVersionTemplate("vibe-gt version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-gt.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newKindCmd())
	cmd.AddCommand(newSamplesCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newCountCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
