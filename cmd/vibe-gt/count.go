package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// fileCount is the tally of one input file.
type fileCount struct {
	Path     string
	Kind     vcf.FileKind
	Samples  int
	Ploidy   uint8
	Variants int
	Errors   int
}

func newCountCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "count <file>...",
		Short: "Count variants and unparseable lines in VCF files",
		Long: `Count variants in each file. Files are read concurrently as independent
streams; results are printed in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := countFiles(cmd.Context(), args, jobs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "#path\tkind\tsamples\tploidy\tvariants\terrors")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
					c.Path, c.Kind, c.Samples, c.Ploidy, c.Variants, c.Errors)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Maximum files read at once (0 = unlimited)")
	return cmd
}

// countFiles reads each path on its own goroutine. The first failure
// cancels the remaining reads.
func countFiles(ctx context.Context, paths []string, limit int) ([]fileCount, error) {
	counts := make([]fileCount, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			c, err := countFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			counts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func countFile(ctx context.Context, path string) (fileCount, error) {
	p, err := openParser(path)
	if err != nil {
		return fileCount{}, err
	}
	defer p.Close()

	c := fileCount{
		Path:    path,
		Kind:    p.Kind(),
		Samples: len(p.Samples()),
		Ploidy:  p.Ploidy(),
	}
	for _, err := range p.All() {
		if ctx.Err() != nil {
			return c, ctx.Err()
		}
		if err != nil {
			if errors.Is(err, vcf.ErrReadLine) {
				return c, err
			}
			c.Errors++
			logLineError(err)
			continue
		}
		c.Variants++
	}
	logger.Debug("counted", zap.String("path", path), zap.Int("variants", c.Variants))
	return c, nil
}
