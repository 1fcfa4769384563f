// Package summary computes per-variant genotype statistics.
package summary

import (
	"github.com/inodb/vibe-gt/internal/vcf"
)

// Variant classes reported in Stats.Class.
const (
	ClassSNV   = "SNV"
	ClassIndel = "INDEL"
	ClassRef   = "REF" // no alternate allele
	ClassOther = "OTHER"
)

// Stats holds genotype statistics for a single variant.
type Stats struct {
	Chrom         string   `json:"chrom"`
	Pos           uint64   `json:"pos"`
	ID            string   `json:"id"`
	Ref           string   `json:"ref"`
	Alts          []string `json:"alts"`
	Class         string   `json:"class"`
	MultiAllelic  bool     `json:"multi_allelic"`
	Pass          bool     `json:"pass"`
	AlleleCounts  []int    `json:"allele_counts"` // indexed like Variant.Alleles
	Called        int      `json:"called"`        // called allele copies
	Missing       int      `json:"missing"`       // missing allele copies
	AltFreq       float64  `json:"alt_freq"`
	HetSamples    int      `json:"het_samples"`
	HomAltSamples int      `json:"hom_alt_samples"`
}

// Compute derives statistics from the genotype rows of v.
func Compute(v *vcf.Variant) *Stats {
	s := &Stats{
		Chrom:        v.Chrom,
		Pos:          v.Pos,
		ID:           v.ID,
		Ref:          v.Ref(),
		Alts:         v.Alts(),
		Class:        classify(v),
		MultiAllelic: v.IsMultiAllelic(),
		Pass:         v.IsPass(),
		AlleleCounts: make([]int, len(v.Alleles)),
	}

	for _, row := range v.Genotypes {
		first := vcf.MissingAllele
		het := false
		rowMissing := false
		for _, a := range row {
			if a == vcf.MissingAllele {
				s.Missing++
				rowMissing = true
				continue
			}
			s.Called++
			if int(a) < len(s.AlleleCounts) {
				s.AlleleCounts[a]++
			}
			if first == vcf.MissingAllele {
				first = a
			} else if a != first {
				het = true
			}
		}
		switch {
		case het:
			s.HetSamples++
		case !rowMissing && first > 0:
			s.HomAltSamples++
		}
	}

	if s.Called > 0 && len(s.AlleleCounts) > 0 {
		s.AltFreq = float64(s.Called-s.AlleleCounts[0]) / float64(s.Called)
	}
	return s
}

func classify(v *vcf.Variant) string {
	switch {
	case v.IsSNV():
		return ClassSNV
	case v.IsIndel():
		return ClassIndel
	}
	for _, alt := range v.Alts() {
		if alt != "." {
			return ClassOther
		}
	}
	return ClassRef
}

// Totals accumulates run-wide counters.
type Totals struct {
	Variants      int                   `json:"variants"`
	Errors        int                   `json:"errors"`
	ErrorsByKind  map[vcf.ErrorKind]int `json:"-"`
	Called        int                   `json:"called"`
	Missing       int                   `json:"missing"`
	SampleMissing []int                 `json:"sample_missing"` // genotypes with a missing allele, per sample
}

// NewTotals creates counters for a stream with nSamples samples.
func NewTotals(nSamples int) *Totals {
	return &Totals{
		ErrorsByKind:  make(map[vcf.ErrorKind]int),
		SampleMissing: make([]int, nSamples),
	}
}

// Add folds one summarized variant into the totals.
func (t *Totals) Add(v *vcf.Variant, s *Stats) {
	t.Variants++
	t.Called += s.Called
	t.Missing += s.Missing
	for i, row := range v.Genotypes {
		if i >= len(t.SampleMissing) {
			break
		}
		for _, a := range row {
			if a == vcf.MissingAllele {
				t.SampleMissing[i]++
				break
			}
		}
	}
}

// AddError counts a per-line parse error.
func (t *Totals) AddError(err error) {
	t.Errors++
	t.ErrorsByKind[vcf.KindOf(err)]++
}
