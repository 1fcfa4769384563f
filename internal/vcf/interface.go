// Package vcf provides VCF file parsing functionality.
package vcf

// VariantParser is the interface for parsers that stream variants.
type VariantParser interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants. A per-line parse
	// error leaves the parser usable; the next call reads the next line.
	Next() (*Variant, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int

	// Samples returns the sample names from the #CHROM header line.
	Samples() []string

	// Ploidy returns the ploidy established by the first data line.
	Ploidy() uint8
}
