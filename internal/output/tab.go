// Package output provides variant and genotype statistics output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gt/internal/summary"
)

// TabWriter writes per-variant statistics in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#CHROM",
			"POS",
			"ID",
			"REF",
			"ALT",
			"AC",
			"CALLED",
			"MISSING",
			"ALT_FREQ",
			"HET",
			"HOM_ALT",
			"CLASS",
			"MULTIALLELIC",
			"PASS",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the statistics of a single variant.
func (tw *TabWriter) Write(s *summary.Stats) error {
	alts := "-"
	if len(s.Alts) > 0 {
		alts = strings.Join(s.Alts, ",")
	}

	counts := make([]string, len(s.AlleleCounts))
	for i, c := range s.AlleleCounts {
		counts[i] = strconv.Itoa(c)
	}

	values := []string{
		s.Chrom,
		strconv.FormatUint(s.Pos, 10),
		s.ID,
		s.Ref,
		alts,
		strings.Join(counts, ","),
		strconv.Itoa(s.Called),
		strconv.Itoa(s.Missing),
		strconv.FormatFloat(s.AltFreq, 'f', 4, 64),
		strconv.Itoa(s.HetSamples),
		strconv.Itoa(s.HomAltSamples),
		s.Class,
		strconv.FormatBool(s.MultiAllelic),
		strconv.FormatBool(s.Pass),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
