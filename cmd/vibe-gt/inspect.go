package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// openParser opens a VCF stream and logs what was found.
func openParser(path string) (*vcf.Parser, error) {
	p, err := vcf.Open(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened vcf",
		zap.String("path", path),
		zap.Stringer("kind", p.Kind()),
		zap.Int("samples", len(p.Samples())),
		zap.Uint8("ploidy", p.Ploidy()))
	return p, nil
}

func newKindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kind <file>...",
		Short: "Report whether VCF files are plain text or gzip",
		Long: `Classify VCF files by their leading bytes. Plain files must start with
"##"; gzip files must decompress to a stream that does.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, path := range args {
				kind, err := probe(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", path, kind)
			}
			return nil
		},
	}
}

// probe classifies path. Stdin can only be read once, so it is
// classified by opening a parser over it.
func probe(path string) (vcf.FileKind, error) {
	if path != "-" {
		return vcf.ProbeFileKind(path)
	}
	p, err := vcf.Open(path)
	if err != nil {
		return vcf.UnknownKind, err
	}
	defer p.Close()
	return p.Kind(), nil
}

func newSamplesCmd() *cobra.Command {
	var showPloidy bool

	cmd := &cobra.Command{
		Use:   "samples <file>",
		Short: "List sample names from the #CHROM header line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openParser(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			w := cmd.OutOrStdout()
			if showPloidy {
				fmt.Fprintf(w, "# ploidy=%d\n", p.Ploidy())
			}
			if len(p.Samples()) > 0 {
				fmt.Fprintln(w, strings.Join(p.Samples(), "\n"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPloidy, "ploidy", false, "Also print the ploidy fixed by the first data line")
	return cmd
}
