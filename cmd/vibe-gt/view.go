package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/output"
	"github.com/inodb/vibe-gt/internal/vcf"
)

func newViewCmd() *cobra.Command {
	var (
		format     string
		outputFile string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Print decoded genotypes",
		Long: `Print every variant with its genotypes decoded to allele indices.
Lines that fail to parse are reported on stderr and skipped.`,
		Example: `  vibe-gt view calls.vcf.gz
  vibe-gt view -f json -n 10 calls.vcf.gz`,
		Args: cobra.ExactArgs(1),
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

			return runView(p, out, format, limit)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "vcf", "Output format: vcf, json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many variants (0 = all)")
	return cmd
}

// variantWriter is satisfied by the view output formats.
type variantWriter interface {
	Write(v *vcf.Variant) error
	Flush() error
}

type jsonVariantWriter struct{ *output.JSONWriter }

func (w jsonVariantWriter) Write(v *vcf.Variant) error { return w.WriteVariant(v) }

func runView(p *vcf.Parser, out io.Writer, format string, limit int) error {
	var w variantWriter
	switch format {
	case "vcf":
		gw := output.NewGenotypeWriter(out, p.Header())
		if err := gw.WriteHeader(); err != nil {
			return err
		}
		w = gw
	case "json":
		w = jsonVariantWriter{output.NewJSONWriter(out, p.Samples())}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	written, skipped := 0, 0
	for v, err := range p.All() {
		if err != nil {
			if errors.Is(err, vcf.ErrReadLine) {
				return errors.Join(err, w.Flush())
			}
			skipped++
			logLineError(err)
			continue
		}
		if err := w.Write(v); err != nil {
			return fmt.Errorf("write variant: %w", err)
		}
		written++
		if limit > 0 && written >= limit {
			break
		}
	}

	logger.Info("view finished", zap.Int("variants", written), zap.Int("skipped", skipped))
	return w.Flush()
}

// logLineError reports a per-line parse error at warn level.
func logLineError(err error) {
	var pe *vcf.ParseError
	line := 0
	if errors.As(err, &pe) {
		line = pe.LineNumber
	}
	logger.Warn("skipping variant line",
		zap.Int("line", line),
		zap.Stringer("kind", vcf.KindOf(err)),
		zap.Error(err))
}

// openOutput returns the command's stdout, or a created file when path is
// set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
