package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// variantRow mirrors a row of the variants table.
type variantRow struct {
	VariantID int64   `db:"variant_id"`
	Source    string  `db:"source"`
	Chrom     string  `db:"chrom"`
	Pos       int64   `db:"pos"`
	ID        string  `db:"id"`
	Ref       string  `db:"ref"`
	Alt       string  `db:"alt"`
	Qual      float64 `db:"qual"`
	Filter    string  `db:"filter"`
	Ploidy    int     `db:"ploidy"`
}

// genotypeRow mirrors a row of the genotypes table.
type genotypeRow struct {
	VariantID int64  `db:"variant_id"`
	SampleIdx int    `db:"sample_idx"`
	Sample    string `db:"sample"`
	GT        string `db:"gt"`
	Missing   bool   `db:"missing"`
}

// WriteVariants inserts variants and one genotype row per sample in a single
// transaction. samples names the genotype columns, in order.
func (s *Store) WriteVariants(source string, samples []string, variants []*vcf.Variant) error {
	if len(variants) == 0 {
		return nil
	}

	return s.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		vStmt, err := tx.PrepareNamed(`INSERT INTO variants
			(source, chrom, pos, id, ref, alt, qual, filter, ploidy)
			VALUES (:source, :chrom, :pos, :id, :ref, :alt, :qual, :filter, :ploidy)`)
		if err != nil {
			return fmt.Errorf("prepare variant insert: %w", err)
		}
		defer vStmt.Close()

		gStmt, err := tx.PrepareNamed(`INSERT INTO genotypes
			(variant_id, sample_idx, sample, gt, missing)
			VALUES (:variant_id, :sample_idx, :sample, :gt, :missing)`)
		if err != nil {
			return fmt.Errorf("prepare genotype insert: %w", err)
		}
		defer gStmt.Close()

		for _, v := range variants {
			res, err := vStmt.Exec(variantRow{
				Source: source,
				Chrom:  v.Chrom,
				Pos:    int64(v.Pos),
				ID:     v.ID,
				Ref:    v.Ref(),
				Alt:    strings.Join(v.Alts(), ","),
				Qual:   v.Qual,
				Filter: strings.Join(v.Filters, ";"),
				Ploidy: int(v.Ploidy),
			})
			if err != nil {
				return fmt.Errorf("insert variant: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("variant id: %w", err)
			}

			for i, row := range v.Genotypes {
				g := genotypeRow{
					VariantID: id,
					SampleIdx: i,
					GT:        vcf.FormatGenotype(row),
					Missing:   hasMissing(row),
				}
				if i < len(samples) {
					g.Sample = samples[i]
				}
				if _, err := gStmt.Exec(g); err != nil {
					return fmt.Errorf("insert genotype: %w", err)
				}
			}
		}
		return nil
	})
}

// ClearVariants removes all stored variants and genotypes.
func (s *Store) ClearVariants() error {
	return s.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		for _, table := range []string{"genotypes", "variants"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// DeleteSource removes the variants and genotypes loaded from source in a
// single transaction.
func (s *Store) DeleteSource(source string) error {
	return s.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`DELETE FROM genotypes WHERE variant_id IN
			(SELECT variant_id FROM variants WHERE source=?)`, source); err != nil {
			return fmt.Errorf("delete genotypes: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM variants WHERE source=?", source); err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}
		return nil
	})
}

// CountVariants returns the number of stored variants.
func (s *Store) CountVariants() (int, error) {
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM variants"); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// LookupVariant returns the stored variants at chrom:pos, in load order,
// with their genotype rows restored.
func (s *Store) LookupVariant(chrom string, pos uint64) ([]*vcf.Variant, error) {
	var rows []variantRow
	if err := s.db.Select(&rows, `SELECT * FROM variants
		WHERE chrom=? AND pos=? ORDER BY variant_id`, chrom, int64(pos)); err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}

	variants := make([]*vcf.Variant, 0, len(rows))
	for _, r := range rows {
		v := &vcf.Variant{
			Chrom:   r.Chrom,
			Pos:     uint64(r.Pos),
			ID:      r.ID,
			Alleles: append([]string{r.Ref}, splitNonEmpty(r.Alt, ",")...),
			Qual:    r.Qual,
			Filters: splitNonEmpty(r.Filter, ";"),
			Ploidy:  uint8(r.Ploidy),
		}

		var gts []string
		if err := s.db.Select(&gts, `SELECT gt FROM genotypes
			WHERE variant_id=? ORDER BY sample_idx`, r.VariantID); err != nil {
			return nil, fmt.Errorf("query genotypes: %w", err)
		}
		rowsGT, err := vcf.DecodeRows(gts, v.Ploidy, len(v.Alleles))
		if err != nil {
			return nil, fmt.Errorf("decode stored genotypes: %w", err)
		}
		v.Genotypes = rowsGT
		variants = append(variants, v)
	}
	return variants, nil
}

// SampleMissingCounts returns, per sample, how many stored genotypes have
// at least one missing allele.
func (s *Store) SampleMissingCounts() (map[string]int, error) {
	var rows []struct {
		Sample  string `db:"sample"`
		Missing int    `db:"n"`
	}
	if err := s.db.Select(&rows, `SELECT sample, SUM(missing) AS n
		FROM genotypes GROUP BY sample`); err != nil {
		return nil, fmt.Errorf("query missing counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Sample] = r.Missing
	}
	return counts, nil
}

func hasMissing(row []int16) bool {
	for _, a := range row {
		if a == vcf.MissingAllele {
			return true
		}
	}
	return false
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}
