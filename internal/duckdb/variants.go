package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// WriteVariants batch-inserts variants and one genotype row per sample using
// the Appender API. samples names the genotype columns, in order. Duplicate
// records are stored as independent variants.
func (s *Store) WriteVariants(source string, samples []string, variants []*vcf.Variant) error {
	if len(variants) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var nextID int64
	if err := s.db.QueryRow("SELECT COALESCE(MAX(variant_id), 0) FROM variants").Scan(&nextID); err != nil {
		return fmt.Errorf("query max variant id: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var vApp, gApp *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		vApp, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants")
		if err != nil {
			return err
		}
		gApp, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "genotypes")
		if err != nil {
			vApp.Close()
		}
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer vApp.Close()
	defer gApp.Close()

	for _, v := range variants {
		nextID++
		if err := vApp.AppendRow(
			nextID, source, v.Chrom, int64(v.Pos), v.ID, v.Ref(),
			strings.Join(v.Alts(), ","), v.Qual, strings.Join(v.Filters, ";"),
			int32(v.Ploidy),
		); err != nil {
			return fmt.Errorf("append variant: %w", err)
		}

		for i, row := range v.Genotypes {
			sample := ""
			if i < len(samples) {
				sample = samples[i]
			}
			if err := gApp.AppendRow(
				nextID, int32(i), sample, vcf.FormatGenotype(row), hasMissing(row),
			); err != nil {
				return fmt.Errorf("append genotype: %w", err)
			}
		}
	}

	if err := vApp.Flush(); err != nil {
		return fmt.Errorf("flush variants: %w", err)
	}
	return gApp.Flush()
}

// ClearVariants removes all stored variants, genotypes and source records.
func (s *Store) ClearVariants() error {
	for _, table := range []string{"genotypes", "variants", "sources"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// DeleteSource removes the variants, genotypes and fingerprint stored for
// source so that it can be loaded again without duplicating rows.
func (s *Store) DeleteSource(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []struct{ what, query string }{
		{"genotypes", "DELETE FROM genotypes WHERE variant_id IN (SELECT variant_id FROM variants WHERE source=?)"},
		{"variants", "DELETE FROM variants WHERE source=?"},
		{"source", "DELETE FROM sources WHERE path=?"},
	}
	for _, st := range stmts {
		if _, err := s.db.Exec(st.query, source); err != nil {
			return fmt.Errorf("delete %s: %w", st.what, err)
		}
	}
	return nil
}

// CountVariants returns the number of stored variants.
func (s *Store) CountVariants() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// LookupVariant returns the stored variants at chrom:pos, in load order,
// with their genotype rows restored.
func (s *Store) LookupVariant(chrom string, pos uint64) ([]*vcf.Variant, error) {
	rows, err := s.db.Query(`SELECT
		variant_id, id, ref, alt, qual, filter, ploidy
		FROM variants
		WHERE chrom=? AND pos=?
		ORDER BY variant_id`,
		chrom, int64(pos))
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var variants []*vcf.Variant
	for rows.Next() {
		var id int64
		var alt, filter string
		var ploidy int
		v := &vcf.Variant{Chrom: chrom, Pos: pos}
		var ref string
		if err := rows.Scan(&id, &v.ID, &ref, &alt, &v.Qual, &filter, &ploidy); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		v.Alleles = append([]string{ref}, splitNonEmpty(alt, ",")...)
		v.Filters = splitNonEmpty(filter, ";")
		v.Ploidy = uint8(ploidy)
		ids = append(ids, id)
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	rows.Close()

	for i, v := range variants {
		gts, err := s.genotypes(ids[i], v)
		if err != nil {
			return nil, err
		}
		v.Genotypes = gts
	}
	return variants, nil
}

func (s *Store) genotypes(variantID int64, v *vcf.Variant) ([][]int16, error) {
	rows, err := s.db.Query(`SELECT gt FROM genotypes
		WHERE variant_id=? ORDER BY sample_idx`, variantID)
	if err != nil {
		return nil, fmt.Errorf("query genotypes: %w", err)
	}
	defer rows.Close()

	var gts []string
	for rows.Next() {
		var gt string
		if err := rows.Scan(&gt); err != nil {
			return nil, fmt.Errorf("scan genotype: %w", err)
		}
		gts = append(gts, gt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genotypes: %w", err)
	}
	decoded, err := vcf.DecodeRows(gts, v.Ploidy, len(v.Alleles))
	if err != nil {
		return nil, fmt.Errorf("decode stored genotypes: %w", err)
	}
	return decoded, nil
}

// SampleMissingCounts returns, per sample, how many stored genotypes have
// at least one missing allele.
func (s *Store) SampleMissingCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT sample,
		COUNT(*) FILTER (WHERE missing)
		FROM genotypes
		GROUP BY sample`)
	if err != nil {
		return nil, fmt.Errorf("query missing counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var sample string
		var n int64
		if err := rows.Scan(&sample, &n); err != nil {
			return nil, fmt.Errorf("scan missing count: %w", err)
		}
		counts[sample] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missing counts: %w", err)
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
