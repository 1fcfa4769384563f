package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gt/internal/duckdb"
	"github.com/inodb/vibe-gt/internal/sqlite"
	"github.com/inodb/vibe-gt/internal/vcf"
)

// variantSink is implemented by the duckdb and sqlite stores.
type variantSink interface {
	WriteVariants(source string, samples []string, variants []*vcf.Variant) error
	DeleteSource(source string) error
	CountVariants() (int, error)
	Close() error
}

// sourceTracker is implemented by sinks that remember loaded files.
type sourceTracker interface {
	SourceLoaded(fp duckdb.FileFingerprint) (bool, error)
	RecordSource(fp duckdb.FileFingerprint, variants int) error
}

func newLoadCmd() *cobra.Command {
	var (
		dbPath string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "load <file>...",
		Short: "Load variants and genotypes into a database",
		Long: `Load variants and one genotype row per sample into DuckDB or SQLite.
Rows previously loaded from the same file are replaced. DuckDB remembers
loaded files and skips them while they are unchanged.`,
		Example: `  vibe-gt load --db calls.duckdb a.vcf.gz b.vcf.gz
  vibe-gt load --backend sqlite --db calls.sqlite a.vcf.gz`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("db.backend", cmd.Flags().Lookup("backend")); err != nil {
				return err
			}
			return viper.BindPFlag("batch_size", cmd.Flags().Lookup("batch-size"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}
			sink, err := openSink(cmd, viper.GetString("db.backend"), dbPath)
			if err != nil {
				return err
			}
			defer sink.Close()

			batchSize := viper.GetInt("batch_size")
			if batchSize <= 0 {
				batchSize = 1000
			}

			for _, path := range args {
				if err := loadFile(sink, path, batchSize, force); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}

			n, err := sink.CountVariants()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d variants in %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database file")
	cmd.Flags().String("backend", "duckdb", "Database backend: duckdb, sqlite")
	cmd.Flags().Int("batch-size", 1000, "Variants per insert batch")
	cmd.Flags().BoolVar(&force, "force", false, "Reload files that were already loaded")
	return cmd
}

func openSink(cmd *cobra.Command, backend, path string) (variantSink, error) {
	switch backend {
	case "duckdb":
		s, err := duckdb.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.Open(cmd.Context(), path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database backend %q", backend)
	}
}

func loadFile(sink variantSink, path string, batchSize int, force bool) error {
	tracker, tracked := sink.(sourceTracker)
	var fp duckdb.FileFingerprint
	if tracked && path != "-" {
		var err error
		fp, err = duckdb.StatFile(path)
		if err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
		loaded, err := tracker.SourceLoaded(fp)
		if err != nil {
			return err
		}
		if loaded && !force {
			logger.Info("skipping unchanged file", zap.String("path", path))
			return nil
		}
	}

	p, err := openParser(path)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := sink.DeleteSource(path); err != nil {
		return err
	}

	batch := make([]*vcf.Variant, 0, batchSize)
	total, skipped := 0, 0
	flush := func() error {
		if err := sink.WriteVariants(path, p.Samples(), batch); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for v, err := range p.All() {
		if err != nil {
			if errors.Is(err, vcf.ErrReadLine) {
				return err
			}
			skipped++
			logLineError(err)
			continue
		}
		batch = append(batch, v)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if tracked && path != "-" {
		if err := tracker.RecordSource(fp, total); err != nil {
			return err
		}
	}
	logger.Info("loaded", zap.String("path", path), zap.Int("variants", total), zap.Int("skipped", skipped))
	return nil
}
