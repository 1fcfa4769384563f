package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gt/internal/vcf"
)

// GenotypeWriter writes variants back out as VCF-like text: the eight fixed
// columns, a GT-only FORMAT and one "a/b" cell per sample. INFO is not
// retained by the parser and is written as ".".
type GenotypeWriter struct {
	w           *bufio.Writer
	headerLines []string // original VCF header lines (## and #CHROM)
}

// NewGenotypeWriter creates a new genotype writer.
func NewGenotypeWriter(w io.Writer, headerLines []string) *GenotypeWriter {
	return &GenotypeWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// WriteHeader writes the original header lines.
func (gw *GenotypeWriter) WriteHeader() error {
	for _, line := range gw.headerLines {
		if _, err := gw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes a single variant.
func (gw *GenotypeWriter) Write(v *vcf.Variant) error {
	alt := "."
	if alts := v.Alts(); len(alts) > 0 {
		alt = strings.Join(alts, ",")
	}

	qual := "."
	if v.Qual != 0 {
		qual = strconv.FormatFloat(v.Qual, 'f', -1, 64)
	}

	filter := "PASS"
	if len(v.Filters) > 0 {
		filter = strings.Join(v.Filters, ";")
	}

	var b strings.Builder
	b.WriteString(v.Chrom)
	b.WriteByte('\t')
	b.WriteString(strconv.FormatUint(v.Pos, 10))
	b.WriteByte('\t')
	b.WriteString(v.ID)
	b.WriteByte('\t')
	b.WriteString(v.Ref())
	b.WriteByte('\t')
	b.WriteString(alt)
	b.WriteByte('\t')
	b.WriteString(qual)
	b.WriteByte('\t')
	b.WriteString(filter)
	b.WriteString("\t.")

	if len(v.Genotypes) > 0 {
		b.WriteString("\tGT")
		for _, row := range v.Genotypes {
			b.WriteByte('\t')
			b.WriteString(vcf.FormatGenotype(row))
		}
	}
	b.WriteByte('\n')

	_, err := gw.w.WriteString(b.String())
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (gw *GenotypeWriter) Flush() error {
	return gw.w.Flush()
}
