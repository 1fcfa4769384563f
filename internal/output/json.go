package output

import (
	"bufio"
	"io"

	json "github.com/goccy/go-json"

	"github.com/inodb/vibe-gt/internal/summary"
	"github.com/inodb/vibe-gt/internal/vcf"
)

// variantRecord is the JSON shape of a variant.
type variantRecord struct {
	Chrom     string           `json:"chrom"`
	Pos       uint64           `json:"pos"`
	ID        string           `json:"id"`
	Ref       string           `json:"ref"`
	Alts      []string         `json:"alts"`
	Qual      float64          `json:"qual"`
	Filters   []string         `json:"filters"`
	Ploidy    uint8            `json:"ploidy"`
	Genotypes []sampleGenotype `json:"genotypes,omitempty"` // in sample column order
}

type sampleGenotype struct {
	Sample string `json:"sample"`
	GT     string `json:"gt"`
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	w       *bufio.Writer
	enc     *json.Encoder
	samples []string
}

// NewJSONWriter creates a JSON-lines writer. samples names the genotype
// columns of written variants.
func NewJSONWriter(w io.Writer, samples []string) *JSONWriter {
	bw := bufio.NewWriter(w)
	return &JSONWriter{
		w:       bw,
		enc:     json.NewEncoder(bw),
		samples: samples,
	}
}

// WriteVariant writes a variant with one {sample, gt} entry per genotype
// column, in file order.
func (jw *JSONWriter) WriteVariant(v *vcf.Variant) error {
	rec := variantRecord{
		Chrom:   v.Chrom,
		Pos:     v.Pos,
		ID:      v.ID,
		Ref:     v.Ref(),
		Alts:    v.Alts(),
		Qual:    v.Qual,
		Filters: v.Filters,
		Ploidy:  v.Ploidy,
	}
	if rec.Alts == nil {
		rec.Alts = []string{}
	}
	if len(v.Genotypes) > 0 {
		rec.Genotypes = make([]sampleGenotype, len(v.Genotypes))
		for i, row := range v.Genotypes {
			rec.Genotypes[i].GT = vcf.FormatGenotype(row)
			if i < len(jw.samples) {
				rec.Genotypes[i].Sample = jw.samples[i]
			}
		}
	}
	return jw.enc.Encode(rec)
}

// WriteStats writes the statistics of a single variant.
func (jw *JSONWriter) WriteStats(s *summary.Stats) error {
	return jw.enc.Encode(s)
}

// WriteTotals writes run totals.
func (jw *JSONWriter) WriteTotals(t *summary.Totals) error {
	return jw.enc.Encode(struct {
		Totals *summary.Totals `json:"totals"`
	}{t})
}

// Flush flushes any buffered data to the underlying writer.
func (jw *JSONWriter) Flush() error {
	return jw.w.Flush()
}
